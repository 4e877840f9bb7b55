package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer is the shared sanitization policy for everything the
// importer persists: titles and topic names go through the strict
// policy, HTML bodies through the content policy.
type Sanitizer struct {
	strict  *bluemonday.Policy
	content *bluemonday.Policy
}

func New() *Sanitizer {
	content := bluemonday.UGCPolicy()
	content.AllowElements("br")

	return &Sanitizer{
		strict:  bluemonday.StrictPolicy(),
		content: content,
	}
}

// Text strips all markup from a display value such as a title or a
// topic name.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(s.strict.Sanitize(in))
}

// HTML sanitizes a content body, keeping user-generated markup.
func (s *Sanitizer) HTML(in string) string {
	return s.content.Sanitize(in)
}
