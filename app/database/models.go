package database

import (
	"time"
)

const (
	KindArticle = "article"
	KindPage    = "page"

	AccessLevelWriter = "writer"

	MediaTypeImage = "image"
)

// User represents a user record in the content store.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	AccessLevel  string
	CreatedAt    time.Time
}

// Topic represents a normalized category label attached to content.
type Topic struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Content represents an imported article or page.
type Content struct {
	ID          string
	Kind        string // KindArticle or KindPage
	URL         string
	Headline    string
	Layout      string // sanitized HTML body
	SEOTitle    string
	AuthorID    string
	ThumbnailID string // first associated media, articles only
	TopicIDs    []string
	MediaIDs    []string
	PublishedAt *time.Time
	CreatedAt   time.Time
}

// Media represents one embedded media asset and its storage location.
type Media struct {
	ID        string
	MediaType string
	Location  string
	Thumb     string
	Name      string
	Caption   string
	IsFile    bool // location points at locally hosted storage
	CreatedAt time.Time
}
