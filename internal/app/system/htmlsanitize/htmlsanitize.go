// Package htmlsanitize strips markup from user-supplied profile text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds the number of decode rounds PlainText will peel.
const maxPasses = 8

// PlainText removes every HTML tag (and the contents of script and style
// elements) and returns the remaining text unescaped and trimmed.
//
// Sanitize-then-unescape is repeated until the text stops changing, so
// entity-encoded markup is stripped like literal markup. Input that is still
// changing after maxPasses comes back in its escaped form.
func PlainText(s string) string {
	for i := 0; i < maxPasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
		if next == s {
			return next
		}
		s = next
	}
	return strings.TrimSpace(strict.Sanitize(s))
}
