// Package chapter computes tag groupings over the note collection.
// Chapters are ephemeral: recomputed from scratch on every read, never stored.
package chapter

import (
	"sort"

	"github.com/mhollis/zettel/internal/models"
)

// DefaultMinSize is the default minimum membership for a tag to form a chapter.
const DefaultMinSize = 5

// Compute returns one chapter per tag carried by at least minSize notes.
// Both user tags and auto-tags count, deduplicated per note. Notes with no
// tags contribute to no grouping; there is no "untagged" bucket.
// Output is sorted by descending count (graph hub order), ties by tag name.
func Compute(notes []models.Note, minSize int) []models.Chapter {
	if minSize < 1 {
		minSize = 1
	}

	members := make(map[string][]string)
	var order []string
	for i := range notes {
		for _, tag := range notes[i].AllTags() {
			if _, seen := members[tag]; !seen {
				order = append(order, tag)
			}
			members[tag] = append(members[tag], notes[i].ID)
		}
	}

	var out []models.Chapter
	for _, tag := range order {
		ids := members[tag]
		if len(ids) < minSize {
			continue
		}
		out = append(out, models.Chapter{
			Tag:     tag,
			Count:   len(ids),
			NoteIDs: ids,
		})
	}

	SortByCount(out)
	return out
}

// SortByCount orders chapters by descending membership, ties alphabetically.
func SortByCount(chapters []models.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		if chapters[i].Count != chapters[j].Count {
			return chapters[i].Count > chapters[j].Count
		}
		return chapters[i].Tag < chapters[j].Tag
	})
}

// SortByTag orders chapters alphabetically, for sidebar list display.
func SortByTag(chapters []models.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Tag < chapters[j].Tag
	})
}
