package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewintr.nl/codingvideos/model"
)

func newVideo(name string, ytID model.YoutubeVideoID) *model.Video {
	return &model.Video{
		ID:        uuid.New(),
		Name:      name,
		URL:       "https://www.youtube.com/watch?v=" + string(ytID),
		Notes:     "example",
		YoutubeID: ytID,
		CreatedAt: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func repositories(t *testing.T) map[string]VideoRepository {
	t.Helper()

	sqlite, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlite.Close()
	})

	return map[string]VideoRepository{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestVideoRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVideo("Web Development", "VfGW0Qiy2I0")
			require.NoError(t, repo.Create(ctx, v))

			act, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, act, 1)
			assert.Equal(t, v, act[0])
		})
	}
}

func TestVideoRepositoryCreateEmptyNotes(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			v := newVideo("No notes", "123")
			v.Notes = ""
			require.NoError(t, repo.Create(ctx, v))

			act, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, act, 1)
			assert.Equal(t, "", act[0].Notes)
		})
	}
}

func TestVideoRepositoryDuplicate(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Create(ctx, newVideo("XYZ", "123")))
			err := repo.Create(ctx, newVideo("Other name", "123"))
			assert.ErrorIs(t, err, ErrDuplicateVideo)

			act, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, act, 1)
			assert.Equal(t, "XYZ", act[0].Name)
		})
	}
}

func TestVideoRepositoryConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			var mu sync.Mutex
			var created, duplicates int
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := repo.Create(ctx, newVideo("same", "dQw4w9WgXcQ"))
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						created++
					case assert.ErrorIs(t, err, ErrDuplicateVideo):
						duplicates++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, created)
			assert.Equal(t, 19, duplicates)
			act, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, act, 1)
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()
	v := newVideo("abc", "124")
	require.NoError(t, repo.Create(ctx, v))
	v.Name = "changed"

	act, err := repo.FindAll(ctx)
	require.NoError(t, err)
	act[0].Name = "changed again"

	act, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", act[0].Name)
}
