package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Storage persists fetched media bytes and returns the location the
// stored copy is served from.
type Storage interface {
	Store(ctx context.Context, sourceURL string, data []byte) (string, error)
}

var _ Storage = (*DiskStorage)(nil)

// DiskStorage writes media under a local directory and returns
// /media/... locations, mirroring how the content store hosts files.
type DiskStorage struct {
	root string
}

func NewDiskStorage(root string) *DiskStorage {
	return &DiskStorage{root: root}
}

func (s *DiskStorage) Store(ctx context.Context, sourceURL string, data []byte) (string, error) {
	name := uuid.NewString() + extensionOf(sourceURL)
	rel := path.Join(time.Now().UTC().Format("2006/01"), name)

	target := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return "/media/" + rel, nil
}

func extensionOf(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	return path.Ext(parsed.Path)
}
