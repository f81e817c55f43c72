// Package htmlsanitize cleans member-entered free text.
//
// Issue descriptions and message bodies are plain text. Any markup is
// stripped before the text is stored or counted, and the templates escape
// what remains on output.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// PlainText strips all markup from s and trims surrounding whitespace.
// Line breaks are kept. Entities the policy escapes are decoded again, since
// templates escape on output.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy().Sanitize(s)))
}

// IsPlainText reports whether s survives PlainText unchanged apart from
// surrounding whitespace.
func IsPlainText(s string) bool {
	return PlainText(s) == strings.TrimSpace(s)
}
