package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var _ MediaRepository = (*mediaRepository)(nil)

type mediaRepository struct {
	db *DB
}

func NewMediaRepository(db *DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) GetByLocation(ctx context.Context, location string) (*Media, error) {
	var m Media
	err := r.db.QueryRowContext(ctx, `
		SELECT id, media_type, location, thumb, name, caption, is_file, created_at
		FROM media
		WHERE location = ?
	`, location).Scan(&m.ID, &m.MediaType, &m.Location, &m.Thumb, &m.Name, &m.Caption, &m.IsFile, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}

	return &m, nil
}

func (r *mediaRepository) Create(ctx context.Context, media *Media) error {
	if media.ID == "" {
		media.ID = ulid.Make().String()
	}
	if media.CreatedAt.IsZero() {
		media.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media (id, media_type, location, thumb, name, caption, is_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, media.ID, media.MediaType, media.Location, media.Thumb, media.Name,
		media.Caption, media.IsFile, media.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}

	return nil
}
