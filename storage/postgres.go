package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ewintr.nl/codingvideos/model"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (pi PostgresInfo) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", pi.Host, pi.Port, pi.User, pi.Password, pi.Database)
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(pgInfo PostgresInfo) (*Postgres, error) {
	db, err := sql.Open("postgres", pgInfo.DSN())
	if err != nil {
		return &Postgres{}, err
	}
	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return &Postgres{}, err
	}

	return p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

var pgMigration = []string{
	`CREATE TABLE video (
id uuid PRIMARY KEY,
name VARCHAR(200) NOT NULL,
url VARCHAR(400) NOT NULL,
notes TEXT,
youtube_id VARCHAR(40) NOT NULL UNIQUE
)`,
	`ALTER TABLE video
ADD COLUMN created_at TIMESTAMPTZ NOT NULL DEFAULT now()`,
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	// find existing
	rows, err := p.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	// compare
	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	// execute missing
	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return err
		}

		// register
		if _, err := p.db.Exec(`
INSERT INTO migration
(query) VALUES ($1)
`, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}

type PostgresVideoRepository struct {
	*Postgres
}

func NewPostgresVideoRepository(postgres *Postgres) *PostgresVideoRepository {
	return &PostgresVideoRepository{postgres}
}

func (p *PostgresVideoRepository) Create(ctx context.Context, video *model.Video) error {
	query := `INSERT INTO video (id, name, url, notes, youtube_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := p.db.ExecContext(ctx, query, video.ID, video.Name, video.URL, nullString(video.Notes), video.YoutubeID, video.CreatedAt); err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicateVideo
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

func (p *PostgresVideoRepository) FindAll(ctx context.Context) ([]*model.Video, error) {
	query := `SELECT id, name, url, COALESCE(notes, ''), youtube_id, created_at FROM video`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

func isPGUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanVideos(rows *sql.Rows) ([]*model.Video, error) {
	videos := []*model.Video{}
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.Name, &v.URL, &v.Notes, &v.YoutubeID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}
