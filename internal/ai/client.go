// Package ai integrates the external generative-text API used for note
// enrichment, conversational search, synthesis, and argument analysis.
// It prepares prompts, parses JSON out of free-text replies, and defers to
// the local heuristic (package enrich) when no credential is configured.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the generative-text API base URL.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when configuration does not name one.
const DefaultModel = "gemini-2.5-flash"

// Config carries the AI credential and model selection.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
}

// Client talks to the generative-text HTTP endpoint.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

// New creates a client. The client is always constructed, even without a
// usable key; callers check Available before AI-only features.
func New(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Available reports whether a usable credential is configured.
func (c *Client) Available() bool {
	return ValidKey(c.apiKey)
}

// ValidKey rejects empty keys and unfilled template placeholders: a key
// containing "replace" or "change" is treated as absent.
func ValidKey(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return false
	}
	if strings.Contains(normalized, "replace") || strings.Contains(normalized, "change") {
		return false
	}
	return true
}

type apiRequest struct {
	Contents         []apiContent `json:"contents"`
	GenerationConfig apiGenConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type apiGenConfig struct {
	Temperature float64 `json:"temperature"`
}

type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate submits a prompt and returns the concatenated reply text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Contents: []apiContent{
			{Role: "user", Parts: []apiPart{{Text: prompt}}},
		},
		GenerationConfig: apiGenConfig{Temperature: 0.2},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: status %d: %s", resp.StatusCode, clip(string(body), 200))
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ai: unmarshal response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("ai: empty response")
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
