// Package wikilink extracts [[Title]] references from note content.
package wikilink

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var linkRe = regexp.MustCompile(`\[\[([^\]]*)\]\]`)

// contextRunes is the window of surrounding text captured on each side of a
// match, clipped to the content bounds.
const contextRunes = 50

// RawLink is one [[...]] occurrence before resolution. TargetTitle is the
// trimmed interior text; it may be empty, and duplicates are passed through.
type RawLink struct {
	SourceID    string
	TargetTitle string
	Context     string
}

// Extract scans content for wiki-link syntax and returns one RawLink per
// occurrence, in order of appearance.
func Extract(sourceID, content string) []RawLink {
	matches := linkRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]RawLink, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		title := strings.TrimSpace(content[m[2]:m[3]])
		out = append(out, RawLink{
			SourceID:    sourceID,
			TargetTitle: title,
			Context:     window(content, start, end),
		})
	}
	return out
}

// Titles returns the deduplicated trimmed link titles in content, in order
// of first appearance.
func Titles(content string) []string {
	matches := linkRe.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		title := strings.TrimSpace(m[1])
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
	}
	return out
}

// window returns up to contextRunes runes before byte offset start and after
// byte offset end, plus the match itself.
func window(s string, start, end int) string {
	lo := start
	for i := 0; i < contextRunes && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < contextRunes && hi < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[hi:])
		hi += size
	}
	return s[lo:hi]
}
