package ai

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/mhollis/zettel/internal/apperr"
	"github.com/mhollis/zettel/internal/enrich"
	"github.com/mhollis/zettel/internal/models"
)

// promptContentLimit caps how much of each note's body is quoted in prompts.
const promptContentLimit = 600

// SummarizeAndTag produces a summary and suggested tags for a note. With no
// usable credential, or when the model call fails, it degrades to the local
// heuristic so note creation never blocks on the network.
func (c *Client) SummarizeAndTag(ctx context.Context, title, content string) enrich.Enrichment {
	if !c.Available() {
		return enrich.SummarizeAndTag(title, content)
	}

	prompt := fmt.Sprintf(`Summarize the following note and suggest tags.
Respond with JSON only: {"summary": "...", "tags": ["...", "..."]}.
The summary must be at most two sentences. Suggest 3 to 5 short lowercase tags.

Title: %s

%s`, title, clip(content, 4000))

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		slog.Warn("ai enrichment failed, using heuristic", "error", err)
		return enrich.SummarizeAndTag(title, content)
	}

	var out struct {
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
	}
	if err := decodeJSON(reply, &out); err != nil || out.Summary == "" {
		slog.Warn("ai enrichment unparseable, using heuristic", "error", err)
		return enrich.SummarizeAndTag(title, content)
	}
	return enrich.Enrichment{
		Summary:  strings.TrimSpace(out.Summary),
		AutoTags: enrich.Finalize(out.Tags, title, content, 3, 5),
	}
}

var citationRe = regexp.MustCompile(`\[(\d+)\]`)

// SearchKnowledge answers a question from the given notes. The reply keeps
// the model's [n] citation markers; each distinct marker that maps to a
// provided note becomes a citation entry. AI-only, no fallback.
func (c *Client) SearchKnowledge(ctx context.Context, query string, notes []models.Note) (string, []models.CitedNote, error) {
	if !c.Available() {
		return "", nil, fmt.Errorf("ai: search: %w", apperr.ErrAIUnavailable)
	}

	var sb strings.Builder
	sb.WriteString("You answer questions using only the numbered notes below.\n")
	sb.WriteString("Cite sources inline as [n] where n is the note number.\n")
	sb.WriteString("If the notes do not contain the answer, say so.\n\n")
	for i, n := range notes {
		fmt.Fprintf(&sb, "[%d] %s\n%s\n\n", i+1, n.Title, clip(n.Content, promptContentLimit))
	}
	fmt.Fprintf(&sb, "Question: %s", query)

	reply, err := c.generate(ctx, sb.String())
	if err != nil {
		return "", nil, fmt.Errorf("ai: search: %w", err)
	}

	var cited []models.CitedNote
	seen := make(map[int]struct{})
	for _, m := range citationRe.FindAllStringSubmatch(reply, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > len(notes) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		cited = append(cited, models.CitedNote{
			Index: idx,
			ID:    notes[idx-1].ID,
			Title: notes[idx-1].Title,
		})
	}
	return reply, cited, nil
}

// Synthesis is a generated long-form draft woven from a chapter's notes.
type Synthesis struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	SourceNoteIDs []string `json:"sourceNoteIds"`
}

// SynthesizeChapter drafts a coherent piece from every note under a tag.
// AI-only, no fallback.
func (c *Client) SynthesizeChapter(ctx context.Context, tag string, notes []models.Note) (*Synthesis, error) {
	if !c.Available() {
		return nil, fmt.Errorf("ai: synthesize: %w", apperr.ErrAIUnavailable)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Weave the notes below, all tagged %q, into one coherent draft.
Respond with JSON only: {"title": "...", "content": "...", "sourceNoteIds": ["...", "..."]}.
sourceNoteIds lists the ids of the notes you drew from.

`, tag)
	for _, n := range notes {
		fmt.Fprintf(&sb, "id: %s\ntitle: %s\n%s\n\n", n.ID, n.Title, clip(n.Content, promptContentLimit))
	}

	reply, err := c.generate(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("ai: synthesize: %w", err)
	}

	var out Synthesis
	if err := decodeJSON(reply, &out); err != nil {
		return nil, err
	}
	if out.Title == "" || out.Content == "" {
		return nil, fmt.Errorf("ai: synthesis missing title or content: %w", apperr.ErrBadAIResponse)
	}
	return &out, nil
}

// Argument is one claim found across a chapter's notes.
type Argument struct {
	Claim         string   `json:"claim"`
	Evidence      []string `json:"evidence"`
	Counterpoints []string `json:"counterpoints"`
}

// ArgumentMap is the structured result of argument analysis.
type ArgumentMap struct {
	Thesis    string     `json:"thesis"`
	Arguments []Argument `json:"arguments"`
}

// AnalyzeArguments maps the claims, evidence, and tensions across every note
// under a tag. AI-only, no fallback.
func (c *Client) AnalyzeArguments(ctx context.Context, tag string, notes []models.Note) (*ArgumentMap, error) {
	if !c.Available() {
		return nil, fmt.Errorf("ai: analyze: %w", apperr.ErrAIUnavailable)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Analyze the arguments made across the notes below, all tagged %q.
Respond with JSON only:
{"thesis": "...", "arguments": [{"claim": "...", "evidence": ["..."], "counterpoints": ["..."]}]}

`, tag)
	for _, n := range notes {
		fmt.Fprintf(&sb, "title: %s\n%s\n\n", n.Title, clip(n.Content, promptContentLimit))
	}

	reply, err := c.generate(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("ai: analyze: %w", err)
	}

	var out ArgumentMap
	if err := decodeJSON(reply, &out); err != nil {
		return nil, err
	}
	if len(out.Arguments) == 0 {
		return nil, fmt.Errorf("ai: analysis has no arguments: %w", apperr.ErrBadAIResponse)
	}
	return &out, nil
}

// Reading is structured material extracted from imported source text.
type Reading struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"keyPoints"`
	SuggestedTags []string `json:"suggestedTags"`
}

// ExtractReading distills pasted or uploaded reading material into a note
// draft. AI-only, no fallback.
func (c *Client) ExtractReading(ctx context.Context, text string) (*Reading, error) {
	if !c.Available() {
		return nil, fmt.Errorf("ai: extract: %w", apperr.ErrAIUnavailable)
	}

	prompt := fmt.Sprintf(`Extract the essence of the reading material below.
Respond with JSON only:
{"title": "...", "summary": "...", "keyPoints": ["..."], "suggestedTags": ["..."]}
keyPoints holds the 3 to 7 most important points. Tags are short and lowercase.

%s`, clip(text, 12000))

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai: extract: %w", err)
	}

	var out Reading
	if err := decodeJSON(reply, &out); err != nil {
		return nil, err
	}
	if out.Title == "" || out.Summary == "" {
		return nil, fmt.Errorf("ai: reading missing title or summary: %w", apperr.ErrBadAIResponse)
	}
	return &out, nil
}

// Related is one suggested connection to an existing note.
type Related struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// FindRelatedNotes suggests existing notes conceptually related to the given
// one, with a short reason each. Suggestions naming unknown ids are dropped.
// AI-only, no fallback.
func (c *Client) FindRelatedNotes(ctx context.Context, note *models.Note, candidates []models.Note) ([]Related, error) {
	if !c.Available() {
		return nil, fmt.Errorf("ai: related: %w", apperr.ErrAIUnavailable)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Find notes conceptually related to this one:

title: %s
%s

Candidates:
`, note.Title, clip(note.Content, promptContentLimit))
	for _, n := range candidates {
		if n.ID == note.ID {
			continue
		}
		fmt.Fprintf(&sb, "id: %s\ntitle: %s\nsummary: %s\n\n", n.ID, n.Title, clip(n.Summary, 200))
	}
	sb.WriteString(`Respond with JSON only: {"related": [{"id": "...", "reason": "..."}]}
List at most 5, strongest connection first. Use only candidate ids.`)

	reply, err := c.generate(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("ai: related: %w", err)
	}

	var out struct {
		Related []Related `json:"related"`
	}
	if err := decodeJSON(reply, &out); err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(candidates))
	for _, n := range candidates {
		titles[n.ID] = n.Title
	}
	var kept []Related
	for _, r := range out.Related {
		title, ok := titles[r.ID]
		if !ok || r.ID == note.ID {
			continue
		}
		r.Title = title
		kept = append(kept, r)
	}
	return kept, nil
}
