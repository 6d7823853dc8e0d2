// Package slug derives URL path segments from display titles.
package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases title and collapses every run of characters outside a-z0-9
// into a single hyphen. Leading and trailing hyphens are kept, so
// "  Hello, World!" becomes "-hello-world-".
func Make(title string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "-")
}
