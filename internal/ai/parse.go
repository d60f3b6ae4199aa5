package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mhollis/zettel/internal/apperr"
)

// decodeJSON extracts the JSON object or array embedded in a model reply and
// unmarshals it into v. Replies often wrap JSON in markdown fences or
// surrounding prose; everything outside the outermost braces is discarded.
// Anything that does not decode into v fails closed.
func decodeJSON(text string, v any) error {
	raw := extractJSON(text)
	if raw == "" {
		return fmt.Errorf("ai: no json in reply: %w", apperr.ErrBadAIResponse)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("ai: decode reply: %v: %w", err, apperr.ErrBadAIResponse)
	}
	return nil
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	var closer byte = '}'
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
