// Package graphview projects notes, resolved wiki-links, and shared-tag
// relationships into a node/edge set for force-directed visualization.
// Projection is a pure function of its inputs; nothing here is persisted.
package graphview

import (
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/mhollis/zettel/internal/chapter"
	"github.com/mhollis/zettel/internal/models"
)

// Node and edge types.
const (
	TypeNote    = "note"
	TypeChapter = "chapter"

	EdgeWiki      = "wiki"
	EdgeChapter   = "chapter-to-note"
	EdgeSharedTag = "shared-tag"
)

// Display colors.
const (
	colorChapter = "#d4a574"
	colorRecent  = "#ff6b6b"
	colorDefault = "#e8dcc4"
)

// clusterPalette supplies cluster colors, assigned to qualifying tags in
// first-seen order and cycled when exhausted.
var clusterPalette = []string{
	"#7aa2f7", "#9ece6a", "#e0af68", "#f7768e",
	"#bb9af7", "#7dcfff", "#ff9e64", "#73daca",
}

// bookPalette size: bookColor values are small integers 0..5.
const bookPaletteSize = 6

// recentWindow marks notes edited within the last 24 hours.
const recentWindow = 24 * time.Hour

// Options controls the projection.
type Options struct {
	// ChapterHubs adds synthetic chapter nodes with edges to their members.
	ChapterHubs bool
	// TagLinks adds shared-tag edges between note pairs.
	TagLinks bool
	// GroupingMinSize is the chapter hub membership threshold.
	GroupingMinSize int
	// ClusterThreshold is the minimum membership for a tag to qualify as a
	// color cluster.
	ClusterThreshold int
	// TagColors overrides the palette color for specific tags.
	TagColors map[string]string
	// Now anchors recency highlighting; zero means time.Now.
	Now time.Time
}

// Node is one graph vertex.
type Node struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Type       string    `json:"type"`
	Tags       []string  `json:"tags,omitempty"`
	NoteCount  int       `json:"noteCount,omitempty"`
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
	Recent     bool      `json:"recent,omitempty"`
	Size       float64   `json:"size"`
	Color      string    `json:"color"`
}

// Edge is one graph connection. SharedTags is populated for shared-tag
// edges; Strength is a monotonic function of the shared-tag count.
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Type       string   `json:"type"`
	SharedTags []string `json:"sharedTags,omitempty"`
	Strength   float64  `json:"strength"`
}

// Graph is the full projection result.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Project builds the graph from the current note collection and link table.
func Project(notes []models.Note, links []models.NoteLink, opts Options) Graph {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.GroupingMinSize < 1 {
		opts.GroupingMinSize = chapter.DefaultMinSize
	}
	if opts.ClusterThreshold < 1 {
		opts.ClusterThreshold = 2
	}

	noteIDs := make(map[string]struct{}, len(notes))
	for i := range notes {
		noteIDs[notes[i].ID] = struct{}{}
	}

	colors := clusterColors(notes, opts)

	var g Graph
	for i := range notes {
		n := &notes[i]
		g.Nodes = append(g.Nodes, Node{
			ID:         n.ID,
			Label:      n.Title,
			Type:       TypeNote,
			Tags:       n.AllTags(),
			ModifiedAt: n.ModifiedAt,
			Recent:     now.Sub(n.ModifiedAt) < recentWindow,
			Size:       5,
			Color:      noteColor(n, colors),
		})
	}

	if opts.ChapterHubs {
		for _, ch := range chapter.Compute(notes, opts.GroupingMinSize) {
			hubID := "chapter:" + ch.Tag
			g.Nodes = append(g.Nodes, Node{
				ID:        hubID,
				Label:     ch.Tag,
				Type:      TypeChapter,
				NoteCount: ch.Count,
				Size:      math.Sqrt(float64(ch.Count)*2) + 5,
				Color:     colorChapter,
			})
			for _, id := range ch.NoteIDs {
				g.Edges = append(g.Edges, Edge{
					Source:   hubID,
					Target:   id,
					Type:     EdgeChapter,
					Strength: 1,
				})
			}
		}
	}

	// Explicit wiki-links: resolved targets only, dangling links are not
	// rendered as edges.
	for _, l := range links {
		if _, ok := noteIDs[l.TargetID]; !ok {
			continue
		}
		g.Edges = append(g.Edges, Edge{
			Source:   l.SourceID,
			Target:   l.TargetID,
			Type:     EdgeWiki,
			Strength: 1,
		})
	}

	if opts.TagLinks {
		g.Edges = append(g.Edges, sharedTagEdges(notes)...)
	}

	return g
}

// sharedTagEdges emits one edge per note pair sharing at least one tag,
// annotated with the full shared-tag list. Strength scales with the shared
// count relative to the most-connected pair.
func sharedTagEdges(notes []models.Note) []Edge {
	tagToNotes := make(map[string][]string)
	var tagOrder []string
	for i := range notes {
		for _, tag := range notes[i].AllTags() {
			if _, seen := tagToNotes[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagToNotes[tag] = append(tagToNotes[tag], notes[i].ID)
		}
	}

	type pair struct{ a, b string }
	pairTags := make(map[pair][]string)
	var pairOrder []pair
	for _, tag := range tagOrder {
		ids := tagToNotes[tag]
		if len(ids) < 2 {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a > b {
					a, b = b, a
				}
				p := pair{a, b}
				if _, seen := pairTags[p]; !seen {
					pairOrder = append(pairOrder, p)
				}
				pairTags[p] = append(pairTags[p], tag)
			}
		}
	}

	maxShared := 0
	for _, tags := range pairTags {
		if len(tags) > maxShared {
			maxShared = len(tags)
		}
	}
	if maxShared == 0 {
		return nil
	}

	out := make([]Edge, 0, len(pairOrder))
	for _, p := range pairOrder {
		tags := pairTags[p]
		out = append(out, Edge{
			Source:     p.a,
			Target:     p.b,
			Type:       EdgeSharedTag,
			SharedTags: tags,
			Strength:   math.Min(float64(len(tags))/float64(maxShared), 1),
		})
	}
	return out
}

// clusterColors assigns a color to every tag whose membership reaches the
// cluster threshold: a user override when present, otherwise the next
// palette entry in first-seen order.
func clusterColors(notes []models.Note, opts Options) map[string]clusterColor {
	counts := make(map[string]int)
	var order []string
	for i := range notes {
		for _, tag := range notes[i].AllTags() {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make(map[string]clusterColor)
	next := 0
	for i, tag := range order {
		if counts[tag] < opts.ClusterThreshold {
			continue
		}
		color, overridden := opts.TagColors[tag]
		if !overridden {
			color = clusterPalette[next%len(clusterPalette)]
			next++
		}
		out[tag] = clusterColor{color: color, count: counts[tag], order: i}
	}
	return out
}

type clusterColor struct {
	color string
	count int
	order int
}

// noteColor picks the color of the note's largest-membership qualifying
// tag, ties broken by first-seen order. Notes outside every cluster get the
// default color.
func noteColor(n *models.Note, colors map[string]clusterColor) string {
	var candidates []clusterColor
	for _, tag := range n.AllTags() {
		if cc, ok := colors[tag]; ok {
			candidates = append(candidates, cc)
		}
	}
	if len(candidates) == 0 {
		return colorDefault
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].order < candidates[j].order
	})
	return candidates[0].color
}

// BookColor returns the note's display color index: the explicit value when
// set, otherwise a deterministic hash of the id.
func BookColor(n *models.Note) int {
	if n.BookColor != nil {
		return *n.BookColor
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(n.ID))
	return int(h.Sum32() % bookPaletteSize)
}
