package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ewintr.nl/codingvideos/extract"
	"ewintr.nl/codingvideos/model"
	"ewintr.nl/codingvideos/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/text/cases"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Catalog struct {
	videoRepo storage.VideoRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewCatalog(videoRepo storage.VideoRepository, logger *slog.Logger) *Catalog {
	return &Catalog{
		videoRepo: videoRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the name, derives the YouTube id from url and stores a
// new video. Failures from extract and storage are returned wrapped, so
// errors.Is can be used to tell them apart.
func (c *Catalog) Submit(ctx context.Context, name, url, notes string) (*model.Video, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	ytID, err := extract.VideoID(url)
	if err != nil {
		return nil, fmt.Errorf("invalid youtube url %q: %w", url, err)
	}
	if utf8.RuneCountInString(url) > model.MaxURLLength {
		return nil, fmt.Errorf("%w: url longer than %d characters", ErrInvalidInput, model.MaxURLLength)
	}
	if utf8.RuneCountInString(string(ytID)) > model.MaxYoutubeIDLength {
		return nil, fmt.Errorf("%w: video id longer than %d characters", ErrInvalidInput, model.MaxYoutubeIDLength)
	}

	video := &model.Video{
		ID:        uuid.New(),
		Name:      name,
		URL:       url,
		Notes:     notes,
		YoutubeID: ytID,
		CreatedAt: c.now().UTC().Truncate(time.Microsecond),
	}
	if err := c.videoRepo.Create(ctx, video); err != nil {
		if errors.Is(err, storage.ErrDuplicateVideo) {
			c.logger.Info("video already added", slog.String("youtubeid", string(ytID)))
		}
		return nil, fmt.Errorf("could not save video %s: %w", ytID, err)
	}

	c.logger.Info("video added", slog.String("id", video.ID.String()), slog.String("youtubeid", string(ytID)))
	return video, nil
}

// Search returns the videos whose name contains term, ignoring case. An empty
// term matches everything. Results are ordered by name, ignoring case.
func (c *Catalog) Search(ctx context.Context, term string) ([]*model.Video, error) {
	all, err := c.videoRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list videos: %w", err)
	}

	fold := cases.Fold()
	term = fold.String(term)
	type keyed struct {
		key   string
		video *model.Video
	}
	matches := make([]keyed, 0, len(all))
	for _, v := range all {
		key := fold.String(v.Name)
		if term != "" && !strings.Contains(key, term) {
			continue
		}
		matches = append(matches, keyed{key: key, video: v})
	}
	slices.SortStableFunc(matches, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	videos := make([]*model.Video, 0, len(matches))
	for _, m := range matches {
		videos = append(videos, m.video)
	}

	return videos, nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case utf8.RuneCountInString(name) > model.MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidInput, model.MaxNameLength)
	}

	return nil
}
