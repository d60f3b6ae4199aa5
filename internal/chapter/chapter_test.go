package chapter

import (
	"testing"

	"github.com/mhollis/zettel/internal/models"
)

func note(id string, tags, autoTags []string) models.Note {
	return models.Note{ID: id, Tags: tags, AutoTags: autoTags}
}

func TestCompute_Threshold(t *testing.T) {
	notes := []models.Note{
		note("1", []string{"magic"}, nil),
		note("2", []string{"magic"}, nil),
		note("3", []string{"magic"}, nil),
		note("4", nil, []string{"magic"}),
		note("5", []string{"sports"}, nil),
	}

	chapters := Compute(notes, 3)
	if len(chapters) != 1 {
		t.Fatalf("chapters = %+v, want exactly one", chapters)
	}
	if chapters[0].Tag != "magic" || chapters[0].Count != 4 {
		t.Errorf("chapter = %+v, want magic with count 4", chapters[0])
	}
}

func TestCompute_ExactlyAtThreshold(t *testing.T) {
	notes := []models.Note{
		note("1", []string{"go"}, nil),
		note("2", []string{"go"}, nil),
	}
	if got := Compute(notes, 2); len(got) != 1 {
		t.Errorf("tag at exactly minSize should qualify, got %+v", got)
	}
	if got := Compute(notes, 3); len(got) != 0 {
		t.Errorf("tag below minSize should not qualify, got %+v", got)
	}
}

func TestCompute_DedupPerNote(t *testing.T) {
	// A tag present both as user tag and auto-tag counts once per note.
	notes := []models.Note{
		note("1", []string{"x"}, []string{"x"}),
		note("2", []string{"x"}, nil),
	}
	chapters := Compute(notes, 2)
	if len(chapters) != 1 || chapters[0].Count != 2 {
		t.Errorf("chapters = %+v, want x with count 2", chapters)
	}
}

func TestCompute_UntaggedNotesExcluded(t *testing.T) {
	notes := []models.Note{
		note("1", nil, nil),
		note("2", []string{}, []string{}),
	}
	if got := Compute(notes, 1); len(got) != 0 {
		t.Errorf("untagged notes formed a grouping: %+v", got)
	}
}

func TestCompute_SortedByCountDesc(t *testing.T) {
	notes := []models.Note{
		note("1", []string{"big", "small"}, nil),
		note("2", []string{"big", "small"}, nil),
		note("3", []string{"big"}, nil),
	}
	chapters := Compute(notes, 2)
	if len(chapters) != 2 {
		t.Fatalf("chapters = %+v", chapters)
	}
	if chapters[0].Tag != "big" || chapters[1].Tag != "small" {
		t.Errorf("order = [%s %s], want [big small]", chapters[0].Tag, chapters[1].Tag)
	}
}

func TestSortByTag(t *testing.T) {
	chapters := []models.Chapter{{Tag: "zeta"}, {Tag: "alpha"}}
	SortByTag(chapters)
	if chapters[0].Tag != "alpha" {
		t.Errorf("order = %+v", chapters)
	}
}
