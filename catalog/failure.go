package catalog

import (
	"errors"

	"ewintr.nl/codingvideos/extract"
	"ewintr.nl/codingvideos/storage"
)

type Failure string

const (
	FailureNone           Failure = ""
	FailureNotYoutube     Failure = "not_youtube"
	FailureMissingQuery   Failure = "missing_query"
	FailureMalformedQuery Failure = "malformed_query"
	FailureMissingVideoID Failure = "missing_video_id"
	FailureDuplicate      Failure = "duplicate"
	FailureInvalidInput   Failure = "invalid_input"
	FailureInternal       Failure = "internal"
)

// Classify maps an error returned by Submit or Search to its failure class.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, extract.ErrNotYoutube):
		return FailureNotYoutube
	case errors.Is(err, extract.ErrMissingQuery):
		return FailureMissingQuery
	case errors.Is(err, extract.ErrMalformedQuery):
		return FailureMalformedQuery
	case errors.Is(err, extract.ErrMissingVideoID):
		return FailureMissingVideoID
	case errors.Is(err, storage.ErrDuplicateVideo):
		return FailureDuplicate
	case errors.Is(err, ErrInvalidInput):
		return FailureInvalidInput
	default:
		return FailureInternal
	}
}

// IsInvalidURL reports whether the failure comes from a url that does not
// yield a YouTube id.
func (f Failure) IsInvalidURL() bool {
	switch f {
	case FailureNotYoutube, FailureMissingQuery, FailureMalformedQuery, FailureMissingVideoID:
		return true
	}

	return false
}
