package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mmcdole/gofeed/atom"
)

// ErrMalformedInput is returned when the export document is not
// well-formed XML or is not an Atom feed. It aborts the whole import.
var ErrMalformedInput = errors.New("malformed feed input")

// Parser converts a raw Blogger XML export into a Feed. The low-level
// Atom parser is used because link relations and category terms must
// survive normalization.
type Parser struct {
	atomParser *atom.Parser
}

func NewParser() *Parser {
	return &Parser{
		atomParser: &atom.Parser{},
	}
}

func (p *Parser) Run(data []byte) (*Feed, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	src, err := p.atomParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	parsed := &Feed{
		Title:   src.Title,
		Entries: make([]Entry, 0, len(src.Entries)),
	}

	for _, entry := range src.Entries {
		if entry == nil {
			continue
		}
		parsed.Entries = append(parsed.Entries, p.normalizeEntry(entry))
	}

	return parsed, nil
}

// checkWellFormed drains the document through a strict XML decoder.
// The atom parser recovers from mismatched tags, so without this gate
// a corrupt export would import as a truncated feed instead of
// aborting the run.
func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (p *Parser) normalizeEntry(entry *atom.Entry) Entry {
	normalized := Entry{
		Title: entry.Title,
	}

	if entry.Content != nil {
		normalized.Content = entry.Content.Value
	}

	if entry.PublishedParsed != nil {
		normalized.Published = entry.PublishedParsed
	}

	for _, author := range entry.Authors {
		if author != nil && author.Name != "" {
			normalized.Author = author.Name
			break
		}
	}

	for _, category := range entry.Categories {
		if category == nil {
			continue
		}
		normalized.Categories = append(normalized.Categories, Category{
			Term:   category.Term,
			Scheme: category.Scheme,
		})
	}

	for _, link := range entry.Links {
		if link == nil {
			continue
		}
		normalized.Links = append(normalized.Links, Link{
			Rel:  link.Rel,
			Href: link.Href,
		})
	}

	return normalized
}
