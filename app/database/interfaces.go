package database

import (
	"context"
)

type UserRepository interface {
	// GetByUsername returns the user with the exact username, or nil when absent.
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}

type TopicRepository interface {
	// GetByName matches the topic name case-insensitively, returning nil when absent.
	GetByName(ctx context.Context, name string) (*Topic, error)
	Create(ctx context.Context, topic *Topic) error
}

type ContentRepository interface {
	// ExistsByURL reports whether a content document of the given kind
	// already claims the URL.
	ExistsByURL(ctx context.Context, kind, url string) (bool, error)
	Create(ctx context.Context, content *Content) error
}

type MediaRepository interface {
	// GetByLocation matches the media source location exactly, returning nil when absent.
	GetByLocation(ctx context.Context, location string) (*Media, error)
	Create(ctx context.Context, media *Media) error
}
