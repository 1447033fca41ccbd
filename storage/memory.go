package storage

import (
	"context"
	"sync"

	"ewintr.nl/codingvideos/model"
)

type Memory struct {
	mu     sync.Mutex
	videos []*model.Video
	ids    map[model.YoutubeVideoID]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		videos: []*model.Video{},
		ids:    map[model.YoutubeVideoID]struct{}{},
	}
}

func (m *Memory) Create(_ context.Context, video *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ids[video.YoutubeID]; ok {
		return ErrDuplicateVideo
	}
	v := *video
	m.videos = append(m.videos, &v)
	m.ids[video.YoutubeID] = struct{}{}

	return nil
}

func (m *Memory) FindAll(_ context.Context) ([]*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	videos := make([]*model.Video, 0, len(m.videos))
	for _, v := range m.videos {
		c := *v
		videos = append(videos, &c)
	}

	return videos, nil
}
