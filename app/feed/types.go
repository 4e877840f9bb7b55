package feed

import (
	"time"
)

const (
	// SchemaTermPrefix marks category terms reserved by Blogger for
	// structural metadata. They never become topics.
	SchemaTermPrefix = "http://schemas.google.com/blogger"

	KindTermPost = "http://schemas.google.com/blogger/2008/kind#post"
	KindTermPage = "http://schemas.google.com/blogger/2008/kind#page"
)

type Kind string

const (
	KindArticle Kind = "article"
	KindPage    Kind = "page"
	KindOther   Kind = ""
)

// Feed is the parsed Blogger export. Read-only after parsing.
type Feed struct {
	Title   string
	Entries []Entry
}

type Entry struct {
	Title      string
	Content    string
	Published  *time.Time
	Author     string
	Categories []Category
	Links      []Link
}

type Category struct {
	Term   string
	Scheme string
}

type Link struct {
	Rel  string
	Href string
}

// Kind classifies the entry by its Blogger kind term. Entries without
// content are never classified as articles or pages.
func (e Entry) Kind() Kind {
	if e.Content == "" {
		return KindOther
	}
	for _, c := range e.Categories {
		switch c.Term {
		case KindTermPage:
			return KindPage
		case KindTermPost:
			return KindArticle
		}
	}
	return KindOther
}

// AlternateHref returns the href of the first link with the "alternate"
// relation, which carries the entry's canonical external URL.
func (e Entry) AlternateHref() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	return ""
}
