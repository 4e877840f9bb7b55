package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/tasks"
)

// topicCreateLimit bounds how many topic store operations run at once.
// Topics are independent of each other, so creation fans out.
const topicCreateLimit = 4

const excludedPseudoTopic = "uncategorized"

// foldKey derives the case-insensitive deduplication key for a topic
// name. A fresh caser per call: cases.Caser is stateful and must not be
// shared between goroutines.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

// resolveTopics collects every non-schema category term in the feed,
// deduplicates by folded name keeping the first occurrence's casing,
// and resolves each against the topic store. A failing topic does not
// cancel its siblings, but the first error is reported once all have
// finished.
func (im *Importer) resolveTopics(ctx context.Context, parsed *feed.Feed) (map[string]*TopicStub, error) {
	byKey := make(map[string]*TopicStub)
	var order []string

	for _, entry := range parsed.Entries {
		for _, category := range entry.Categories {
			if strings.HasPrefix(category.Term, feed.SchemaTermPrefix) {
				continue
			}

			name := im.sanitizer.Text(strings.TrimSpace(category.Term))
			if name == "" {
				continue
			}

			key := foldKey(name)
			if key == excludedPseudoTopic {
				continue
			}
			if _, ok := byKey[key]; ok {
				continue
			}

			byKey[key] = &TopicStub{Name: name}
			order = append(order, key)
		}
	}

	tt := make([]tasks.Task, 0, len(order))
	for _, key := range order {
		stub := byKey[key]
		tt = append(tt, tasks.Task{
			Name: fmt.Sprintf("resolve topic %q", stub.Name),
			Run: func(ctx context.Context) error {
				return im.resolveTopic(ctx, stub)
			},
		})
	}

	if err := tasks.FanOut(ctx, topicCreateLimit, tt); err != nil {
		return byKey, err
	}

	return byKey, nil
}

func (im *Importer) resolveTopic(ctx context.Context, stub *TopicStub) error {
	existing, err := im.topics.GetByName(ctx, stub.Name)
	if err != nil {
		return fmt.Errorf("%w: loading topic %q: %v", ErrPersistence, stub.Name, err)
	}
	if existing != nil {
		slog.Debug("Topic already exists", "name", existing.Name)
		stub.ID = existing.ID
		return nil
	}

	topic := &database.Topic{Name: stub.Name}
	if err := im.topics.Create(ctx, topic); err != nil {
		return fmt.Errorf("%w: creating topic %q: %v", ErrPersistence, stub.Name, err)
	}
	slog.Debug("Created topic", "name", topic.Name)

	stub.ID = topic.ID
	return nil
}
