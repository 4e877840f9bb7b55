package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var _ ContentRepository = (*contentRepository)(nil)

type contentRepository struct {
	db *DB
}

func NewContentRepository(db *DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) ExistsByURL(ctx context.Context, kind, url string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1
		FROM content
		WHERE kind = ? AND url = ?
		LIMIT 1
	`, kind, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check content existence: %w", err)
	}

	return true, nil
}

// Create persists the content document together with its topic and media
// references in a single transaction.
func (r *contentRepository) Create(ctx context.Context, content *Content) error {
	if content.ID == "" {
		content.ID = ulid.Make().String()
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	thumbnail := sql.NullString{String: content.ThumbnailID, Valid: content.ThumbnailID != ""}
	published := sql.NullTime{}
	if content.PublishedAt != nil {
		published = sql.NullTime{Time: *content.PublishedAt, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content (id, kind, url, headline, layout, seo_title, author_id, thumbnail_id, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, content.ID, content.Kind, content.URL, content.Headline, content.Layout,
		content.SEOTitle, content.AuthorID, thumbnail, published, content.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}

	for _, topicID := range content.TopicIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO content_topics (content_id, topic_id)
			VALUES (?, ?)
		`, content.ID, topicID)
		if err != nil {
			return fmt.Errorf("failed to attach topic: %w", err)
		}
	}

	for position, mediaID := range content.MediaIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO content_media (content_id, media_id, position)
			VALUES (?, ?, ?)
		`, content.ID, mediaID, position)
		if err != nil {
			return fmt.Errorf("failed to attach media: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit content: %w", err)
	}

	return nil
}
