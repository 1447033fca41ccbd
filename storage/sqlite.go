package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ewintr.nl/codingvideos/model"
	_ "modernc.org/sqlite"
)

const sqliteInit = `
CREATE TABLE IF NOT EXISTS video (
	id TEXT NOT NULL PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	notes TEXT,
	youtube_id TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);
`

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path, ":memory:" included, and creates the
// schema if needed.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer, and keeps a :memory: database on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteInit); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Create(ctx context.Context, video *model.Video) error {
	query := `INSERT INTO video (id, name, url, notes, youtube_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (youtube_id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, video.ID.String(), video.Name, video.URL, nullString(video.Notes), string(video.YoutubeID), video.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	if n == 0 {
		return ErrDuplicateVideo
	}

	return nil
}

func (s *SQLite) FindAll(ctx context.Context) ([]*model.Video, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, COALESCE(notes, ''), youtube_id, created_at FROM video ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		var v model.Video
		var created int64
		if err := rows.Scan(&v.ID, &v.Name, &v.URL, &v.Notes, &v.YoutubeID, &created); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.CreatedAt = time.Unix(0, created).UTC()
		videos = append(videos, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}
