package timeline

import (
	"testing"
	"time"

	"github.com/mhollis/zettel/internal/models"
)

func note(id string, created time.Time, tags ...string) models.Note {
	return models.Note{ID: id, CreatedAt: created, Tags: tags}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil, ByWeek); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestBuild_ByDay(t *testing.T) {
	d1 := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC)
	blocks := Build([]models.Note{
		note("a", d1), note("b", d1.Add(2*time.Hour)), note("c", d2),
	}, ByDay)

	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Period != "2025-02-10" || len(blocks[0].NoteIDs) != 2 {
		t.Errorf("block[0] = %+v", blocks[0])
	}
	if blocks[1].Period != "2025-02-11" {
		t.Errorf("block[1] = %+v", blocks[1])
	}
}

func TestBuild_WeekStartsSunday(t *testing.T) {
	// 2025-02-12 is a Wednesday; its week starts Sunday 2025-02-09.
	wed := time.Date(2025, 2, 12, 12, 0, 0, 0, time.UTC)
	blocks := Build([]models.Note{note("a", wed)}, ByWeek)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].Period != "2025-02-09" {
		t.Errorf("period = %s, want 2025-02-09", blocks[0].Period)
	}
	if blocks[0].Start.Weekday() != time.Sunday {
		t.Errorf("start weekday = %s", blocks[0].Start.Weekday())
	}
}

func TestBuild_ByMonth(t *testing.T) {
	blocks := Build([]models.Note{
		note("a", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		note("b", time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)),
		note("c", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
	}, ByMonth)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].Period != "2025-01" || len(blocks[0].NoteIDs) != 2 {
		t.Errorf("block[0] = %+v", blocks[0])
	}
}

func TestBuild_ChronologicalOrder(t *testing.T) {
	blocks := Build([]models.Note{
		note("late", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		note("early", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}, ByMonth)
	if blocks[0].NoteIDs[0] != "early" {
		t.Errorf("blocks not chronological: %+v", blocks)
	}
}

func TestBuild_TopTags(t *testing.T) {
	d := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	blocks := Build([]models.Note{
		note("a", d, "go", "db"),
		note("b", d, "go"),
		note("c", d, "go"),
	}, ByDay)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %+v", blocks)
	}
	top := blocks[0].TopTags
	if len(top) != 2 || top[0].Tag != "go" || top[0].Count != 3 || top[1].Tag != "db" {
		t.Errorf("topTags = %+v", top)
	}
}

func TestParseGrouping(t *testing.T) {
	if ParseGrouping("day") != ByDay || ParseGrouping("month") != ByMonth {
		t.Error("explicit groupings not parsed")
	}
	if ParseGrouping("") != ByWeek || ParseGrouping("bogus") != ByWeek {
		t.Error("default grouping should be week")
	}
}
