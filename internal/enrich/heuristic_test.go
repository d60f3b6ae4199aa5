package enrich

import (
	"strings"
	"testing"
)

func TestTokenize_DropsShortAndStopWords(t *testing.T) {
	tokens := Tokenize("The cat sat on an old mat")
	// "the", "on", "an" are stop words; "cat", "sat", "mat" survive.
	want := []string{"cat", "sat", "old", "mat"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenize_StripsPunctuation(t *testing.T) {
	tokens := Tokenize("Hello, world! (really)")
	if len(tokens) != 3 || tokens[0] != "hello" || tokens[1] != "world" || tokens[2] != "really" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestSummarize_FirstTwoSentences(t *testing.T) {
	content := "First sentence here. Second one too. Third is dropped."
	got := Summarize("T", content)
	if got != "First sentence here. Second one too." {
		t.Errorf("summary = %q", got)
	}
}

func TestSummarize_NoTerminator(t *testing.T) {
	content := strings.Repeat("word ", 50)
	got := Summarize("T", content)
	if len(strings.Split(got, " ")) != 40 {
		t.Errorf("expected 40 words, got %d", len(strings.Split(got, " ")))
	}
}

func TestSummarize_Truncates(t *testing.T) {
	content := strings.Repeat("a", 300) + "."
	got := Summarize("T", content)
	if len(got) > 240 {
		t.Errorf("summary too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}

func TestSummarize_EmptyContent(t *testing.T) {
	if got := Summarize("Rome", ""); got != "Note about Rome" {
		t.Errorf("summary = %q", got)
	}
	if got := Summarize("", "   "); got != "" {
		t.Errorf("summary = %q, want empty", got)
	}
}

func TestAutoTags_FrequencyRanked(t *testing.T) {
	content := "rome rome rome ruins ruins architecture"
	tags := AutoTags(content, 3)
	if len(tags) != 3 {
		t.Fatalf("tags = %v", tags)
	}
	if tags[0] != "rome" || tags[1] != "ruins" || tags[2] != "architecture" {
		t.Errorf("tags = %v, want [rome ruins architecture]", tags)
	}
}

func TestAutoTags_TieBreakByFirstSeen(t *testing.T) {
	tags := AutoTags("alpha beta gamma", 3)
	if len(tags) != 3 || tags[0] != "alpha" || tags[1] != "beta" || tags[2] != "gamma" {
		t.Errorf("tags = %v", tags)
	}
}

func TestFinalize_RemovesTitleTokens(t *testing.T) {
	tags := Finalize([]string{"trip", "rome", "ruins"}, "Trip Report", "rome ruins history culture travel", 3, 5)
	for _, tag := range tags {
		if tag == "trip" || tag == "report" {
			t.Errorf("title token %q not removed: %v", tag, tags)
		}
	}
	if len(tags) < 3 {
		t.Errorf("expected backfill to reach 3 tags, got %v", tags)
	}
}

// Scenario from the product behavior: a trip note ranks "rome" and "ruins"
// highly and never tags with the title words.
func TestSummarizeAndTag_TripReport(t *testing.T) {
	got := SummarizeAndTag("Trip Report", "We visited Rome Rome Rome and saw ancient ruins ruins architecture.")
	if len(got.AutoTags) == 0 {
		t.Fatal("no auto tags")
	}
	if got.AutoTags[0] != "rome" {
		t.Errorf("top tag = %q, want rome", got.AutoTags[0])
	}
	foundRuins := false
	for _, tag := range got.AutoTags {
		if tag == "ruins" {
			foundRuins = true
		}
		if tag == "trip" || tag == "report" {
			t.Errorf("title-derived tag %q present: %v", tag, got.AutoTags)
		}
	}
	if !foundRuins {
		t.Errorf("ruins missing from %v", got.AutoTags)
	}
	if got.Summary == "" {
		t.Error("empty summary")
	}
}
