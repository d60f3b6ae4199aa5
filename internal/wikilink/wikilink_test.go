package wikilink

import (
	"strings"
	"testing"
)

func TestExtract_Basic(t *testing.T) {
	links := Extract("n1", "[[A]] and [[B]]")
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	if links[0].TargetTitle != "A" || links[1].TargetTitle != "B" {
		t.Errorf("titles = %q, %q, want A, B", links[0].TargetTitle, links[1].TargetTitle)
	}
	if links[0].SourceID != "n1" {
		t.Errorf("sourceID = %q, want n1", links[0].SourceID)
	}
}

func TestExtract_EmptyTitle(t *testing.T) {
	links := Extract("n1", "see [[]] here")
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].TargetTitle != "" {
		t.Errorf("title = %q, want empty", links[0].TargetTitle)
	}
}

func TestExtract_DuplicatesPassThrough(t *testing.T) {
	links := Extract("n1", "[[X]] then [[X]] again")
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
}

func TestExtract_NoBracketInside(t *testing.T) {
	// "[[a]b]]" — interior stops at the first ']', so no match until a
	// well-formed pair appears.
	links := Extract("n1", "[[a]b]] and [[ok]]")
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].TargetTitle != "ok" {
		t.Errorf("title = %q, want ok", links[0].TargetTitle)
	}
}

func TestExtract_ContextWindow(t *testing.T) {
	prefix := strings.Repeat("a", 80)
	suffix := strings.Repeat("b", 80)
	content := prefix + "[[Mid]]" + suffix
	links := Extract("n1", content)
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	want := strings.Repeat("a", 50) + "[[Mid]]" + strings.Repeat("b", 50)
	if links[0].Context != want {
		t.Errorf("context = %q (len %d), want len %d", links[0].Context, len(links[0].Context), len(want))
	}
}

func TestExtract_ContextClippedAtBounds(t *testing.T) {
	links := Extract("n1", "hi [[X]] yo")
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].Context != "hi [[X]] yo" {
		t.Errorf("context = %q", links[0].Context)
	}
}

func TestExtract_ContextMultibyte(t *testing.T) {
	content := strings.Repeat("é", 60) + "[[X]]"
	links := Extract("n1", content)
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	want := strings.Repeat("é", 50) + "[[X]]"
	if links[0].Context != want {
		t.Errorf("context = %q", links[0].Context)
	}
}

func TestTitles_Dedup(t *testing.T) {
	titles := Titles("[[A]] [[B]] [[a]] [[A]]")
	if len(titles) != 3 {
		t.Fatalf("titles = %v, want 3 entries", titles)
	}
	if titles[0] != "A" || titles[1] != "B" || titles[2] != "a" {
		t.Errorf("titles = %v", titles)
	}
}

func TestTitles_TrimsWhitespace(t *testing.T) {
	titles := Titles("[[  Padded Title ]]")
	if len(titles) != 1 || titles[0] != "Padded Title" {
		t.Errorf("titles = %v", titles)
	}
}
