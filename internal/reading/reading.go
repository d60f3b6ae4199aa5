// Package reading imports outside material (plain text, Markdown, PDF) and
// distills it into a note draft.
package reading

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dslipak/pdf"
	"github.com/mhollis/zettel/internal/ai"
)

// MaxUploadSize caps imported documents at 20MB.
const MaxUploadSize = 20 * 1024 * 1024

// Importer extracts text from uploads and distills it with the AI client.
type Importer struct {
	ai *ai.Client
}

// NewImporter creates an importer.
func NewImporter(client *ai.Client) *Importer {
	return &Importer{ai: client}
}

// Import extracts the document's text and distills it into a structured
// reading. Distillation requires the AI credential; extraction alone does not.
func (im *Importer) Import(ctx context.Context, filename string, data []byte) (*ai.Reading, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}
	return im.ai.ExtractReading(ctx, text)
}

// Distill runs extraction on already-plain text, for the paste path.
func (im *Importer) Distill(ctx context.Context, text string) (*ai.Reading, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("reading: empty text")
	}
	return im.ai.ExtractReading(ctx, text)
}

// ExtractText pulls plain text out of an uploaded document based on its
// file extension. Unknown extensions are treated as plain text when valid
// UTF-8, rejected otherwise.
func ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("reading: empty upload")
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("reading: upload exceeds %d bytes", MaxUploadSize)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	default:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("reading: %s is not text", filename)
		}
		return string(data), nil
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading: open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading: extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading: read pdf text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("reading: pdf contains no extractable text")
	}
	return text, nil
}

// ComposeNote renders a distilled reading as note fields: the summary
// followed by key points as a bulleted list.
func ComposeNote(r *ai.Reading) (title, content string, tags []string) {
	var sb strings.Builder
	sb.WriteString(r.Summary)
	if len(r.KeyPoints) > 0 {
		sb.WriteString("\n\nKey points:\n")
		for _, p := range r.KeyPoints {
			sb.WriteString("- ")
			sb.WriteString(p)
			sb.WriteString("\n")
		}
	}
	return r.Title, strings.TrimSpace(sb.String()), r.SuggestedTags
}
