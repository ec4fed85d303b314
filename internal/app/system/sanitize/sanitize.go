// Package sanitize strips markup from user-supplied free text.
//
// The API stores plain text only (casa names, meal names, ingredient
// names, API key labels), so the strict policy removes every tag and
// attribute rather than allowing a safe subset.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain removes all HTML from s, unescapes entities the policy left
// behind, and trims whitespace. Safe for values rendered later by any
// client.
func Plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainAll maps Plain over a slice, dropping entries that sanitize to
// the empty string.
func PlainAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if p := Plain(s); p != "" {
			out = append(out, p)
		}
	}
	return out
}
