package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/tasks"
)

// importEntries partitions the feed into pages and articles and
// imports them strictly one at a time, pages before articles, each in
// feed order. A failing entry does not stop the batch; the joined
// errors are reported once every entry has been attempted.
func (im *Importer) importEntries(ctx context.Context, defaultAuthorID string, parsed *feed.Feed,
	userMap map[string]*UserStub, topicMap map[string]*TopicStub, opts Options) error {
	var pages, articles []feed.Entry
	for _, entry := range parsed.Entries {
		switch entry.Kind() {
		case feed.KindPage:
			pages = append(pages, entry)
		case feed.KindArticle:
			articles = append(articles, entry)
		}
	}

	slog.Info("Classified feed entries", "pages", len(pages), "articles", len(articles))

	tt := make([]tasks.Task, 0, len(pages)+len(articles))
	for _, entry := range pages {
		tt = append(tt, im.entryTask(database.KindPage, entry, defaultAuthorID, userMap, topicMap, opts))
	}
	for _, entry := range articles {
		tt = append(tt, im.entryTask(database.KindArticle, entry, defaultAuthorID, userMap, topicMap, opts))
	}

	return tasks.Collect(ctx, tt)
}

func (im *Importer) entryTask(kind string, entry feed.Entry, defaultAuthorID string,
	userMap map[string]*UserStub, topicMap map[string]*TopicStub, opts Options) tasks.Task {
	return tasks.Task{
		Name: fmt.Sprintf("import %s %q", kind, entry.Title),
		Run: func(ctx context.Context) error {
			return im.importEntry(ctx, kind, entry, defaultAuthorID, userMap, topicMap, opts)
		},
	}
}

func (im *Importer) importEntry(ctx context.Context, kind string, entry feed.Entry, defaultAuthorID string,
	userMap map[string]*UserStub, topicMap map[string]*TopicStub, opts Options) error {
	name := entry.Title
	if name == "" {
		name = im.seq.Next(fallbackPrefix(kind))
	}
	slog.Debug("Processing entry", "kind", kind, "name", name)

	url := im.entryURL(entry, name)
	exists, err := im.content.ExistsByURL(ctx, kind, url)
	if err != nil {
		return fmt.Errorf("%w: checking %s url %q: %v", ErrPersistence, kind, url, err)
	}
	if exists {
		slog.Debug("Entry already exists, skipping", "kind", kind, "url", url)
		return nil
	}

	topicIDs := im.entryTopics(entry, topicMap, kind, name)

	authorID := defaultAuthorID
	if stub, ok := userMap[entry.Author]; ok && stub.ID != "" {
		authorID = stub.ID
	}

	body, mediaRecords, err := im.extractMedia(ctx, entry.Content, opts)
	if err != nil {
		return err
	}
	body = strings.ReplaceAll(body, "\r\n", "<br/>")

	title := im.sanitizer.Text(entry.Title)
	if title == "" {
		title = im.seq.Next(fallbackPrefix(kind))
	}

	mediaIDs := make([]string, 0, len(mediaRecords))
	for _, record := range mediaRecords {
		mediaIDs = append(mediaIDs, record.ID)
	}

	doc := &database.Content{
		Kind:        kind,
		URL:         url,
		Headline:    title,
		Layout:      im.sanitizer.HTML(body),
		SEOTitle:    title,
		AuthorID:    authorID,
		TopicIDs:    topicIDs,
		MediaIDs:    mediaIDs,
		PublishedAt: entry.Published,
	}
	if kind == database.KindArticle && len(mediaIDs) > 0 {
		doc.ThumbnailID = mediaIDs[0]
	}

	if err := im.content.Create(ctx, doc); err != nil {
		return fmt.Errorf("%w: saving %s %q: %v", ErrPersistence, kind, url, err)
	}
	slog.Info("Imported entry", "kind", kind, "url", url, "topics", len(topicIDs), "media", len(mediaIDs))

	return nil
}

// fallbackPrefix capitalizes the kind for generated fallback names
// ("Article-0-...", "Page-1-...").
func fallbackPrefix(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// entryURL derives the canonical URL from the first alternate link,
// keeping the href suffix after the last path separator. Entries
// without one fall back to the entry name.
func (im *Importer) entryURL(entry feed.Entry, fallback string) string {
	href := entry.AlternateHref()
	if href == "" {
		return fallback
	}

	if i := strings.LastIndex(href, "/"); i >= 0 {
		if suffix := href[i+1:]; suffix != "" {
			return suffix
		}
		return fallback
	}

	return href
}

// entryTopics maps the entry's non-schema category terms onto resolved
// topic identities. Unmatched terms are logged and skipped; the entry
// still imports without them.
func (im *Importer) entryTopics(entry feed.Entry, topicMap map[string]*TopicStub, kind, name string) []string {
	var ids []string
	for _, category := range entry.Categories {
		if strings.HasPrefix(category.Term, feed.SchemaTermPrefix) {
			continue
		}

		topicName := im.sanitizer.Text(strings.TrimSpace(category.Term))
		if topicName == "" {
			continue
		}

		stub, ok := topicMap[foldKey(topicName)]
		if !ok || stub.ID == "" {
			slog.Warn("Unable to associate topic", "topic", topicName, "kind", kind, "entry", name)
			continue
		}

		ids = append(ids, stub.ID)
	}

	return ids
}
