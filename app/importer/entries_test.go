package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/blogger-import/app/database"
	"github.com/inkpress/blogger-import/app/feed"
)

func articleEntry(title, content, href string) feed.Entry {
	entry := feed.Entry{
		Title:      title,
		Content:    content,
		Categories: []feed.Category{{Term: feed.KindTermPost, Scheme: feed.SchemaTermPrefix}},
	}
	if href != "" {
		entry.Links = []feed.Link{{Rel: "alternate", Href: href}}
	}
	return entry
}

func TestImportEntryCreatesArticle(t *testing.T) {
	f := newTestFixture()
	published := time.Date(2015, 3, 9, 12, 0, 0, 0, time.UTC)

	entry := articleEntry("Hello World", "<p>Body</p>", "http://blog.example.com/2015/03/hello-world.html")
	entry.Published = &published

	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(f.content.docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(f.content.docs))
	}

	doc := f.content.docs[0]
	if doc.Kind != database.KindArticle {
		t.Errorf("Expected article kind, got %q", doc.Kind)
	}
	if doc.URL != "hello-world.html" {
		t.Errorf("Expected href suffix as url, got %q", doc.URL)
	}
	if doc.Headline != "Hello World" || doc.SEOTitle != "Hello World" {
		t.Errorf("Expected sanitized title, got %q / %q", doc.Headline, doc.SEOTitle)
	}
	if doc.Layout != "<p>Body</p>" {
		t.Errorf("Expected sanitized body, got %q", doc.Layout)
	}
	if doc.AuthorID != "author-default" {
		t.Errorf("Expected default author, got %q", doc.AuthorID)
	}
	if doc.PublishedAt == nil || !doc.PublishedAt.Equal(published) {
		t.Errorf("Expected published timestamp preserved, got %v", doc.PublishedAt)
	}
}

func TestImportEntrySkipsExistingURL(t *testing.T) {
	f := newTestFixture()
	f.content.docs = append(f.content.docs, &database.Content{
		ID: "content-1", Kind: database.KindArticle, URL: "hello-world.html",
	})

	entry := articleEntry("Hello World", "<p>Body</p>", "http://blog.example.com/2015/03/hello-world.html")
	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(f.content.docs) != 1 {
		t.Errorf("Expected no new documents, got %d", len(f.content.docs))
	}
}

func TestImportEntryResolvesAuthorFromMap(t *testing.T) {
	f := newTestFixture()
	userMap := map[string]*UserStub{"alice": {ID: "user-alice", Username: "alice"}}

	entry := articleEntry("Post", "<p>Body</p>", "")
	entry.Author = "alice"
	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", userMap, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if f.content.docs[0].AuthorID != "user-alice" {
		t.Errorf("Expected mapped author, got %q", f.content.docs[0].AuthorID)
	}
}

func TestImportEntryUnmatchedTopicStillImports(t *testing.T) {
	f := newTestFixture()
	topicMap := map[string]*TopicStub{"travel": {ID: "topic-travel", Name: "Travel"}}

	entry := articleEntry("Post", "<p>Body</p>", "")
	entry.Categories = append(entry.Categories,
		feed.Category{Term: "Travel"},
		feed.Category{Term: "Unknown"})

	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, topicMap, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	doc := f.content.docs[0]
	if len(doc.TopicIDs) != 1 || doc.TopicIDs[0] != "topic-travel" {
		t.Errorf("Expected only the matched topic, got %v", doc.TopicIDs)
	}
}

func TestImportEntryConvertsLineBreaks(t *testing.T) {
	f := newTestFixture()

	entry := articleEntry("Post", "line one\r\nline two", "")
	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(f.content.docs[0].Layout, "line one<br/>line two") {
		t.Errorf("Expected line breaks converted, got %q", f.content.docs[0].Layout)
	}
}

func TestImportEntryArticleThumbnail(t *testing.T) {
	f := newTestFixture()

	entry := articleEntry("Post", `<img src="http://example.com/a.png" /><img src="http://example.com/b.png" />`, "")
	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	doc := f.content.docs[0]
	if len(doc.MediaIDs) != 2 {
		t.Fatalf("Expected 2 media associations, got %d", len(doc.MediaIDs))
	}
	if doc.ThumbnailID != doc.MediaIDs[0] {
		t.Errorf("Expected first media as thumbnail, got %q", doc.ThumbnailID)
	}
}

func TestImportEntryPageHasNoThumbnail(t *testing.T) {
	f := newTestFixture()

	entry := feed.Entry{
		Title:      "About",
		Content:    `<img src="http://example.com/a.png" />`,
		Categories: []feed.Category{{Term: feed.KindTermPage, Scheme: feed.SchemaTermPrefix}},
	}
	err := f.importer.importEntry(context.Background(), database.KindPage, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	doc := f.content.docs[0]
	if len(doc.MediaIDs) != 1 {
		t.Fatalf("Expected 1 media association, got %d", len(doc.MediaIDs))
	}
	if doc.ThumbnailID != "" {
		t.Errorf("Expected no thumbnail for page, got %q", doc.ThumbnailID)
	}
}

func TestImportEntryGeneratedFallbackNames(t *testing.T) {
	f := newTestFixture()

	entry := feed.Entry{
		Content:    "<p>Body</p>",
		Categories: []feed.Category{{Term: feed.KindTermPost, Scheme: feed.SchemaTermPrefix}},
	}
	err := f.importer.importEntry(context.Background(), database.KindArticle, entry,
		"author-default", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	doc := f.content.docs[0]
	if !strings.HasPrefix(doc.URL, "Article-0-") {
		t.Errorf("Expected capitalized fallback url, got %q", doc.URL)
	}
	if !strings.HasPrefix(doc.Headline, "Article-1-") {
		t.Errorf("Expected capitalized fallback headline, got %q", doc.Headline)
	}
}

func TestImportEntryURLFallbacks(t *testing.T) {
	f := newTestFixture()

	cases := []struct {
		href string
		want string
	}{
		{"http://blog.example.com/2015/03/hello.html", "hello.html"},
		{"http://blog.example.com/2015/03/", "Fallback"},
		{"", "Fallback"},
		{"standalone", "standalone"},
	}
	for _, c := range cases {
		entry := feed.Entry{}
		if c.href != "" {
			entry.Links = []feed.Link{{Rel: "alternate", Href: c.href}}
		}
		if got := f.importer.entryURL(entry, "Fallback"); got != c.want {
			t.Errorf("entryURL(%q): expected %q, got %q", c.href, c.want, got)
		}
	}
}

func TestImportEntriesFailureAtEnd(t *testing.T) {
	f := newTestFixture()
	f.content.createErr = map[string]error{"bad.html": errors.New("store down")}

	parsed := &feed.Feed{Entries: []feed.Entry{
		articleEntry("Bad", "<p>x</p>", "http://blog.example.com/bad.html"),
		articleEntry("Good", "<p>y</p>", "http://blog.example.com/good.html"),
	}}

	err := f.importer.importEntries(context.Background(), "author-default", parsed, nil, nil, Options{})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence, got: %v", err)
	}

	// The failing entry does not keep the rest of the batch out.
	if len(f.content.docs) != 1 || f.content.docs[0].URL != "good.html" {
		t.Errorf("Expected 'good.html' to import, got %+v", f.content.docs)
	}
}

func TestImportEntriesPagesBeforeArticles(t *testing.T) {
	f := newTestFixture()

	page := feed.Entry{
		Title:      "About",
		Content:    "<p>About</p>",
		Categories: []feed.Category{{Term: feed.KindTermPage, Scheme: feed.SchemaTermPrefix}},
		Links:      []feed.Link{{Rel: "alternate", Href: "http://blog.example.com/p/about.html"}},
	}
	parsed := &feed.Feed{Entries: []feed.Entry{
		articleEntry("Post", "<p>Post</p>", "http://blog.example.com/post.html"),
		page,
	}}

	err := f.importer.importEntries(context.Background(), "author-default", parsed, nil, nil, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(f.content.docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(f.content.docs))
	}
	if f.content.docs[0].Kind != database.KindPage {
		t.Errorf("Expected page imported first, got %q", f.content.docs[0].Kind)
	}
	if f.content.docs[1].Kind != database.KindArticle {
		t.Errorf("Expected article imported second, got %q", f.content.docs[1].Kind)
	}
}
