package reading

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhollis/zettel/internal/ai"
	"github.com/mhollis/zettel/internal/apperr"
)

func TestExtractText_Plain(t *testing.T) {
	got, err := ExtractText("notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "hello world" {
		t.Errorf("got %q", got)
	}
}

func TestExtractText_Markdown(t *testing.T) {
	got, err := ExtractText("doc.md", []byte("# Title\n\nBody."))
	if err != nil || !strings.Contains(got, "Body.") {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestExtractText_RejectsBinary(t *testing.T) {
	if _, err := ExtractText("blob.bin", []byte{0xff, 0xfe, 0x00, 0x80}); err == nil {
		t.Fatal("expected error for non-UTF-8 upload")
	}
}

func TestExtractText_RejectsEmpty(t *testing.T) {
	if _, err := ExtractText("empty.txt", nil); err == nil {
		t.Fatal("expected error for empty upload")
	}
}

func TestExtractText_RejectsOversize(t *testing.T) {
	if _, err := ExtractText("big.txt", bytes.Repeat([]byte("a"), MaxUploadSize+1)); err == nil {
		t.Fatal("expected error for oversized upload")
	}
}

func TestExtractText_BadPDF(t *testing.T) {
	if _, err := ExtractText("doc.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}

func TestImport_RequiresCredential(t *testing.T) {
	im := NewImporter(ai.New(ai.Config{APIKey: ""}))
	_, err := im.Import(context.Background(), "doc.txt", []byte("some reading"))
	if !errors.Is(err, apperr.ErrAIUnavailable) {
		t.Errorf("err = %v, want ErrAIUnavailable", err)
	}
}

func TestDistill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := `{"title": "Paper", "summary": "Sum.", "keyPoints": ["one"], "suggestedTags": ["ml"]}`
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	im := NewImporter(ai.New(ai.Config{APIKey: "test-key", Endpoint: srv.URL}))
	r, err := im.Distill(context.Background(), "a long paper about machine learning")
	if err != nil {
		t.Fatalf("Distill: %v", err)
	}
	if r.Title != "Paper" {
		t.Errorf("reading = %+v", r)
	}

	if _, err := im.Distill(context.Background(), "   "); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestComposeNote(t *testing.T) {
	r := &ai.Reading{
		Title:         "Paper",
		Summary:       "Sum.",
		KeyPoints:     []string{"one", "two"},
		SuggestedTags: []string{"ml"},
	}
	title, content, tags := ComposeNote(r)
	if title != "Paper" || len(tags) != 1 {
		t.Errorf("title = %q, tags = %v", title, tags)
	}
	if !strings.HasPrefix(content, "Sum.") || !strings.Contains(content, "- one") {
		t.Errorf("content = %q", content)
	}
}
