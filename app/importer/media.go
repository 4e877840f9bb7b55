package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/media"
)

const (
	// mediaDirective is the template-engine flag the content store
	// renders a persisted media record through.
	mediaDirective = "^media_display_%s/position:center^"
	// mediaFailurePlaceholder marks media that could not be
	// materialized so it can be fixed by hand.
	mediaFailurePlaceholder = "[Content: %s Goes Here]"
)

// mediaDetails describes one embedded media marker found in a fragment.
type mediaDetails struct {
	Source      string
	Caption     string
	Replacement string
}

// mediaHandler is tried in priority order each extraction iteration.
// New media kinds (video, embed) are added as further handlers without
// touching the extraction loop.
type mediaHandler interface {
	Name() string
	// Detect reports whether the fragment still contains a marker
	// this handler recognizes.
	Detect(fragment string) bool
	// Extract locates the next marker and pulls its source and caption.
	Extract(fragment string) mediaDetails
	// Materialize turns the marker into a media record, reusing an
	// already-persisted record for the same location when one exists.
	// A returned record with an empty ID has not been persisted yet.
	Materialize(ctx context.Context, details mediaDetails) (*database.Media, error)
}

func (im *Importer) mediaHandlers(opts Options) []mediaHandler {
	return []mediaHandler{
		&imageHandler{
			repo:     im.media,
			fetcher:  im.fetcher,
			storage:  im.storage,
			download: opts.DownloadMedia,
		},
	}
}

// extractMedia repeatedly scans the fragment for the next embedded
// media marker, materializes and persists it, and rewrites the marker
// into a display directive. Failures are isolated per marker: the
// marker is replaced with a human-readable placeholder carrying the
// original source and extraction continues.
func (im *Importer) extractMedia(ctx context.Context, fragment string, opts Options) (string, []*database.Media, error) {
	handlers := im.mediaHandlers(opts)

	var found []*database.Media
	for {
		var handler mediaHandler
		for _, candidate := range handlers {
			if candidate.Detect(fragment) {
				handler = candidate
				break
			}
		}
		if handler == nil {
			break
		}

		details := handler.Extract(fragment)
		if details.Replacement == "" {
			break
		}
		slog.Debug("Discovered media marker", "type", handler.Name(), "source", details.Source)

		record, err := handler.Materialize(ctx, details)
		if err != nil {
			slog.Error("Failed to materialize media", "type", handler.Name(), "source", details.Source, "error", err)
			fragment = strings.Replace(fragment, details.Replacement, fmt.Sprintf(mediaFailurePlaceholder, details.Source), 1)
			continue
		}

		if record.ID == "" {
			if err := im.media.Create(ctx, record); err != nil {
				slog.Error("Failed to persist media", "type", handler.Name(), "source", details.Source, "error", err)
				fragment = strings.Replace(fragment, details.Replacement, fmt.Sprintf(mediaFailurePlaceholder, details.Source), 1)
				continue
			}
		}

		found = append(found, record)
		fragment = strings.Replace(fragment, details.Replacement, fmt.Sprintf(mediaDirective, record.ID), 1)
	}

	return fragment, found, nil
}

var _ mediaHandler = (*imageHandler)(nil)

type imageHandler struct {
	repo     database.MediaRepository
	fetcher  media.Fetcher
	storage  media.Storage
	download bool
}

func (h *imageHandler) Name() string {
	return "image"
}

func (h *imageHandler) Detect(fragment string) bool {
	return strings.Contains(fragment, "<img")
}

// Extract finds the next <img> marker. The marker ends at a
// self-closing "/>", else at an explicit "</img>", else at the bare
// ">" terminating the opening tag. The closing tag takes precedence
// over the bare ">" so that "<img ...></img>" is consumed whole.
func (h *imageHandler) Extract(fragment string) mediaDetails {
	start := strings.Index(fragment, "<img")
	if start < 0 {
		return mediaDetails{}
	}
	rest := fragment[start:]

	end := len(rest)
	if i := strings.Index(rest, "/>"); i >= 0 {
		end = i + 2
	} else if i := strings.Index(rest, "</img>"); i >= 0 {
		end = i + 6
	} else if i := strings.Index(rest, ">"); i >= 0 {
		end = i + 1
	}

	marker := rest[:end]
	source := attrValue(marker, "src")
	if q := strings.Index(source, "?"); q >= 0 {
		source = source[:q]
	}

	return mediaDetails{
		Source:      source,
		Caption:     attrValue(marker, "alt"),
		Replacement: marker,
	}
}

func (h *imageHandler) Materialize(ctx context.Context, details mediaDetails) (*database.Media, error) {
	if details.Source == "" {
		return nil, fmt.Errorf("media marker has no source")
	}

	location := details.Source
	if h.download {
		data, err := h.fetcher.Run(ctx, details.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMediaFetch, err)
		}
		stored, err := h.storage.Store(ctx, details.Source, data)
		if err != nil {
			return nil, fmt.Errorf("failed to store media content: %w", err)
		}
		location = stored
	}

	existing, err := h.repo.GetByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: loading media %q: %v", ErrPersistence, location, err)
	}
	if existing != nil {
		return existing, nil
	}

	return &database.Media{
		MediaType: database.MediaTypeImage,
		Location:  location,
		Thumb:     location,
		Name:      "Media_" + uuid.NewString(),
		Caption:   details.Caption,
		IsFile:    strings.HasPrefix(location, "/media"),
	}, nil
}

// attrValue pulls a quoted attribute value out of a tag, accepting
// both quote styles.
func attrValue(tag, name string) string {
	for _, quote := range []string{`"`, `'`} {
		prefix := name + "=" + quote
		i := strings.Index(tag, prefix)
		if i < 0 {
			continue
		}
		rest := tag[i+len(prefix):]
		if j := strings.Index(rest, quote); j >= 0 {
			return rest[:j]
		}
	}
	return ""
}
