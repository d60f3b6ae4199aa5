// Package timeline groups notes into chronological blocks for the temporal
// view. Blocks are derived on every read from creation timestamps.
package timeline

import (
	"sort"
	"time"

	"github.com/mhollis/zettel/internal/models"
)

// Grouping selects the block granularity.
type Grouping string

const (
	ByDay   Grouping = "day"
	ByWeek  Grouping = "week"
	ByMonth Grouping = "month"
)

const topTagCount = 5

// TagCount is one entry of a block's tag ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Block is one time period with its member notes and dominant tags.
type Block struct {
	Period  string     `json:"period"`
	Start   time.Time  `json:"start"`
	End     time.Time  `json:"end"`
	NoteIDs []string   `json:"noteIds"`
	TopTags []TagCount `json:"topTags"`
}

// Build groups notes by creation time into day, week (Sunday-start), or
// month blocks, ordered chronologically. Each block ranks its top five tags
// (tags plus auto-tags) by member count.
func Build(notes []models.Note, grouping Grouping) []Block {
	if len(notes) == 0 {
		return nil
	}

	sorted := make([]models.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	blocks := make(map[string]*Block)
	var order []string
	for i := range sorted {
		n := &sorted[i]
		key, start, end := period(n.CreatedAt, grouping)
		b, ok := blocks[key]
		if !ok {
			b = &Block{Period: key, Start: start, End: end}
			blocks[key] = b
			order = append(order, key)
		}
		b.NoteIDs = append(b.NoteIDs, n.ID)
	}

	out := make([]Block, 0, len(order))
	for _, key := range order {
		b := blocks[key]
		b.TopTags = topTags(sorted, b.NoteIDs)
		out = append(out, *b)
	}
	return out
}

func period(t time.Time, grouping Grouping) (key string, start, end time.Time) {
	switch grouping {
	case ByDay:
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return start.Format("2006-01-02"), start, start.AddDate(0, 0, 1)
	case ByMonth:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006-01"), start, start.AddDate(0, 1, 0)
	default: // ByWeek, Sunday start
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		start = day.AddDate(0, 0, -int(day.Weekday()))
		return start.Format("2006-01-02"), start, start.AddDate(0, 0, 7)
	}
}

func topTags(notes []models.Note, memberIDs []string) []TagCount {
	members := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}

	counts := make(map[string]int)
	var order []string
	for i := range notes {
		if _, ok := members[notes[i].ID]; !ok {
			continue
		}
		for _, tag := range notes[i].AllTags() {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topTagCount {
		order = order[:topTagCount]
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	return out
}

// ParseGrouping maps a query value to a Grouping, defaulting to weeks.
func ParseGrouping(s string) Grouping {
	switch s {
	case string(ByDay):
		return ByDay
	case string(ByMonth):
		return ByMonth
	default:
		return ByWeek
	}
}
