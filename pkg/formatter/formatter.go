package formatter

import (
	"strings"
	"unicode/utf8"
)

const segmentSeparator = "\n\n"

// ComposePost joins title, content and hashtags with blank lines between them.
// Empty (or whitespace only) optional segments are dropped with their separator.
// Example: ComposePost("Launch", "We shipped", "#go") -> "Launch\n\nWe shipped\n\n#go"
func ComposePost(title, content, hashtags string) string {
	segments := make([]string, 0, 3)
	if strings.TrimSpace(title) != "" {
		segments = append(segments, title)
	}
	segments = append(segments, content)
	if strings.TrimSpace(hashtags) != "" {
		segments = append(segments, hashtags)
	}
	return strings.Join(segments, segmentSeparator)
}

// Truncate cuts s to at most limit characters (runes). limit <= 0 means no limit.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
