package importer

import (
	"context"
	"log/slog"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/media"
	"github.com/inkpress/blogger-import/app/sanitize"
	"github.com/inkpress/blogger-import/app/tasks"
)

// Importer runs the Blogger export pipeline: parse the XML document,
// resolve users and topics, then import pages and articles with their
// embedded media.
type Importer struct {
	parser    *feed.Parser
	users     database.UserRepository
	topics    database.TopicRepository
	content   database.ContentRepository
	media     database.MediaRepository
	fetcher   media.Fetcher
	storage   media.Storage
	sanitizer *sanitize.Sanitizer
	seq       *Sequence
}

func New(parser *feed.Parser, users database.UserRepository, topics database.TopicRepository,
	content database.ContentRepository, mediaRepo database.MediaRepository,
	fetcher media.Fetcher, storage media.Storage, sanitizer *sanitize.Sanitizer) *Importer {
	return &Importer{
		parser:    parser,
		users:     users,
		topics:    topics,
		content:   content,
		media:     mediaRepo,
		fetcher:   fetcher,
		storage:   storage,
		sanitizer: sanitizer,
		seq:       &Sequence{},
	}
}

// Run imports one export document. It returns the resolved user stubs
// (newly created ones carry their one-time password) even when the
// entry batch reports failures; already persisted records from a
// failed run are not rolled back.
func (im *Importer) Run(ctx context.Context, data []byte, defaultAuthorID string, opts Options) ([]UserStub, error) {
	parsed, err := im.parser.Run(data)
	if err != nil {
		return nil, err
	}
	slog.Info("Feed parsed", "title", parsed.Title, "entries", len(parsed.Entries))

	var stubs []*UserStub
	var topicMap map[string]*TopicStub

	err = tasks.Series(ctx, []tasks.Task{
		{Name: "resolve users", Run: func(ctx context.Context) error {
			resolved, err := im.resolveUsers(ctx, parsed, opts)
			stubs = resolved
			return err
		}},
		{Name: "resolve topics", Run: func(ctx context.Context) error {
			resolved, err := im.resolveTopics(ctx, parsed)
			topicMap = resolved
			return err
		}},
	})
	if err != nil {
		return summarize(stubs), err
	}

	userMap := make(map[string]*UserStub, len(stubs))
	for _, stub := range stubs {
		userMap[stub.Username] = stub
	}

	err = im.importEntries(ctx, defaultAuthorID, parsed, userMap, topicMap, opts)
	return summarize(stubs), err
}

func summarize(stubs []*UserStub) []UserStub {
	out := make([]UserStub, 0, len(stubs))
	for _, stub := range stubs {
		out = append(out, *stub)
	}
	return out
}
