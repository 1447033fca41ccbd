package storage

import (
	"context"
	"errors"

	"ewintr.nl/codingvideos/model"
)

var (
	ErrDuplicateVideo = errors.New("video already exists")
)

type VideoRepository interface {
	// Create stores a new video. If a video with the same YoutubeID is already
	// present, ErrDuplicateVideo is returned and nothing is written.
	Create(ctx context.Context, video *model.Video) error
	FindAll(ctx context.Context) ([]*model.Video, error)
}
