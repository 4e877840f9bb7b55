package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

var _ TopicRepository = (*topicRepository)(nil)

type topicRepository struct {
	db *DB
}

func NewTopicRepository(db *DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) GetByName(ctx context.Context, name string) (*Topic, error) {
	var t Topic
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM topics
		WHERE name = ? COLLATE NOCASE
	`, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}

	return &t, nil
}

func (r *topicRepository) Create(ctx context.Context, topic *Topic) error {
	if topic.ID == "" {
		topic.ID = ulid.Make().String()
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO topics (id, name, created_at)
		VALUES (?, ?, ?)
	`, topic.ID, topic.Name, topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	return nil
}
