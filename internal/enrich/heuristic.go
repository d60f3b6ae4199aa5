// Package enrich derives a naive extractive summary and keyword tags from
// note content. It is the fallback used when no AI credential is configured
// or an AI call fails; it promises nothing beyond "some tags and a summary".
package enrich

import (
	"regexp"
	"sort"
	"strings"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "his": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "me": {}, "my": {}, "no": {}, "not": {},
	"of": {}, "on": {}, "or": {}, "our": {}, "s": {}, "she": {}, "so": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "there": {}, "they": {},
	"this": {}, "to": {}, "us": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {},
	"will": {}, "with": {}, "you": {}, "your": {},
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRe    = regexp.MustCompile(`\s+`)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

const (
	minTokenLen = 3
	summaryMax  = 240
)

// Enrichment holds the heuristic output.
type Enrichment struct {
	Summary  string   `json:"summary"`
	AutoTags []string `json:"autoTags"`
}

// SummarizeAndTag runs the full heuristic: extractive summary plus 3-5
// frequency-ranked auto-tags with title-derived tags removed.
func SummarizeAndTag(title, content string) Enrichment {
	return Enrichment{
		Summary:  Summarize(title, content),
		AutoTags: Finalize(AutoTags(content, 5), title, content, 3, 5),
	}
}

// Tokenize lowercases text, strips non-alphanumerics, splits on whitespace,
// and drops short tokens and stop words.
func Tokenize(text string) []string {
	normalized := normalize(text)
	if normalized == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(normalized, " ") {
		if len(tok) < minTokenLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func normalize(text string) string {
	s := strings.ToLower(text)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Summarize takes the first two sentences, or the first ~40 tokens when no
// sentence terminator exists, truncated to 240 characters with an ellipsis.
func Summarize(title, content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		if title != "" {
			return "Note about " + title
		}
		return ""
	}

	flat := spaceRe.ReplaceAllString(trimmed, " ")
	var summary string
	if sentences := sentenceRe.FindAllString(flat, -1); len(sentences) > 0 {
		n := len(sentences)
		if n > 2 {
			n = 2
		}
		summary = strings.TrimSpace(strings.Join(sentences[:n], " "))
	} else {
		words := strings.Split(flat, " ")
		if len(words) > 40 {
			words = words[:40]
		}
		summary = strings.TrimSpace(strings.Join(words, " "))
	}

	if len(summary) > summaryMax {
		summary = strings.TrimSpace(summary[:summaryMax-3]) + "..."
	}
	return summary
}

// AutoTags returns the top n content tokens ranked by frequency.
// Ties keep first-appearance order so the ranking is deterministic.
func AutoTags(content string, n int) []string {
	tokens := Tokenize(content)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	order := make(map[string]int, len(tokens))
	var words []string
	for i, tok := range tokens {
		if _, seen := counts[tok]; !seen {
			order[tok] = i
			words = append(words, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}

// Finalize normalizes candidate tags, removes any that also appear as a
// token of the title, and backfills from the next-ranked content keywords
// when filtering drops the count below min.
func Finalize(tags []string, title, content string, min, max int) []string {
	filtered := removeTitleTags(normalizeTags(tags), title)
	if len(filtered) >= min {
		if len(filtered) > max {
			filtered = filtered[:max]
		}
		return filtered
	}

	combined := filtered
	for _, tag := range AutoTags(content, max*2) {
		if len(combined) >= max {
			break
		}
		if contains(combined, tag) {
			continue
		}
		if len(removeTitleTags([]string{tag}, title)) == 0 {
			continue
		}
		combined = append(combined, tag)
	}
	return combined
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func removeTitleTags(tags []string, title string) []string {
	titleTokens := make(map[string]struct{})
	for _, tok := range Tokenize(title) {
		titleTokens[tok] = struct{}{}
	}
	var out []string
	for _, tag := range tags {
		if tag == "untitled" {
			continue
		}
		if _, inTitle := titleTokens[tag]; inTitle {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
