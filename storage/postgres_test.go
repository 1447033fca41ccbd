package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewintr.nl/codingvideos/model"
)

func envOr(name, def string) string {
	if val, ok := os.LookupEnv(name); ok {
		return val
	}
	return def
}

// newTestPostgres connects to the database given by the POSTGRES_* variables
// and skips the test when POSTGRES_HOST is not set.
func newTestPostgres(t *testing.T) *PostgresVideoRepository {
	t.Helper()
	host, ok := os.LookupEnv("POSTGRES_HOST")
	if !ok {
		t.Skip("POSTGRES_HOST not set")
	}
	postgres, err := NewPostgres(PostgresInfo{
		Host:     host,
		Port:     envOr("POSTGRES_PORT", "5432"),
		User:     envOr("POSTGRES_USER", "codingvideos"),
		Password: envOr("POSTGRES_PASSWORD", "codingvideos"),
		Database: envOr("POSTGRES_DB", "codingvideos"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		postgres.Close()
	})

	return NewPostgresVideoRepository(postgres)
}

func TestPostgresVideoRepository(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	ytID := model.YoutubeVideoID(uuid.NewString())
	t.Cleanup(func() {
		repo.db.Exec(`DELETE FROM video WHERE youtube_id = $1`, ytID)
	})

	v := newVideo("Web Development", ytID)
	require.NoError(t, repo.Create(ctx, v))

	dup := newVideo("Other name", ytID)
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateVideo)

	noNotes := newVideo("No notes", model.YoutubeVideoID(uuid.NewString()))
	noNotes.Notes = ""
	t.Cleanup(func() {
		repo.db.Exec(`DELETE FROM video WHERE youtube_id = $1`, noNotes.YoutubeID)
	})
	require.NoError(t, repo.Create(ctx, noNotes))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	found := map[model.YoutubeVideoID]*model.Video{}
	for _, a := range all {
		found[a.YoutubeID] = a
	}
	require.Contains(t, found, ytID)
	act := found[ytID]
	assert.Equal(t, v.ID, act.ID)
	assert.Equal(t, "Web Development", act.Name)
	assert.Equal(t, v.URL, act.URL)
	assert.Equal(t, "example", act.Notes)
	assert.True(t, v.CreatedAt.Equal(act.CreatedAt))

	require.Contains(t, found, noNotes.YoutubeID)
	assert.Equal(t, "", found[noNotes.YoutubeID].Notes)
}

func TestCompareMigrations(t *testing.T) {
	for _, tc := range []struct {
		name     string
		wanted   []string
		existing []string
		exp      []string
		expErr   bool
	}{
		{
			name:   "fresh database",
			wanted: []string{"a", "b"},
			exp:    []string{"a", "b"},
		},
		{
			name:     "partially applied",
			wanted:   []string{"a", "b", "c"},
			existing: []string{"a"},
			exp:      []string{"b", "c"},
		},
		{
			name:     "up to date",
			wanted:   []string{"a", "b"},
			existing: []string{"a", "b"},
			exp:      []string{},
		},
		{
			name:     "database ahead",
			wanted:   []string{"a"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
		{
			name:     "changed migration",
			wanted:   []string{"a", "x"},
			existing: []string{"a", "b"},
			expErr:   true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			act, err := compareMigrations(tc.wanted, tc.existing)
			if tc.expErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.exp, act)
		})
	}
}

func TestIsPGUniqueViolation(t *testing.T) {
	assert.True(t, isPGUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isPGUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isPGUniqueViolation(&pq.Error{Code: "23502"}))
	assert.False(t, isPGUniqueViolation(errors.New("connection refused")))
}

func TestPostgresInfoDSN(t *testing.T) {
	pi := PostgresInfo{
		Host:     "localhost",
		Port:     "5432",
		User:     "videos",
		Password: "secret",
		Database: "videos",
	}
	assert.Equal(t, "host=localhost port=5432 user=videos password=secret dbname=videos sslmode=disable", pi.DSN())
}
