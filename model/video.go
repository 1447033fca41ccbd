package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLength      = 200
	MaxURLLength       = 400
	MaxYoutubeIDLength = 40
)

type YoutubeVideoID string

type Video struct {
	ID        uuid.UUID
	Name      string
	URL       string
	Notes     string
	YoutubeID YoutubeVideoID
	CreatedAt time.Time
}

func (v Video) String() string {
	notes := []rune(v.Notes)
	if len(notes) > 200 {
		notes = notes[:200]
	}

	return fmt.Sprintf("ID: %s, Name: %s, URL: %s, Video ID: %s Notes: %s", v.ID, v.Name, v.URL, v.YoutubeID, string(notes))
}
