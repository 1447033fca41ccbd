package extract

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"ewintr.nl/codingvideos/model"
)

const watchPrefix = "https://www.youtube.com/watch"

var (
	ErrNotYoutube     = errors.New("not a youtube watch url")
	ErrMissingQuery   = errors.New("url has no query string")
	ErrMalformedQuery = errors.New("malformed query string")
	ErrMissingVideoID = errors.New("url has no v parameter")
)

// VideoID returns the value of the first v parameter of a YouTube watch URL.
func VideoID(raw string) (model.YoutubeVideoID, error) {
	rest, ok := strings.CutPrefix(raw, watchPrefix)
	if !ok {
		return "", ErrNotYoutube
	}
	// a deeper path is not the watch endpoint
	if strings.HasPrefix(rest, "/") {
		return "", ErrNotYoutube
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrMalformedQuery
	}
	if u.RawQuery == "" {
		return "", ErrMissingQuery
	}

	params, err := parseQueryStrict(u.RawQuery)
	if err != nil {
		return "", err
	}
	ids := params["v"]
	if len(ids) == 0 {
		return "", ErrMissingVideoID
	}

	return model.YoutubeVideoID(ids[0]), nil
}

// parseQueryStrict differs from url.ParseQuery in that a field without '='
// (including an empty field) or a field that does not decode to valid UTF-8
// is an error. Fields with an empty value are skipped.
func parseQueryStrict(query string) (map[string][]string, error) {
	params := map[string][]string{}
	for _, field := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, ErrMalformedQuery
		}
		if value == "" {
			continue
		}
		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, ErrMalformedQuery
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, ErrMalformedQuery
		}
		if !utf8.ValidString(key) || !utf8.ValidString(value) {
			return nil, ErrMalformedQuery
		}
		params[key] = append(params[key], value)
	}

	return params, nil
}
