// Package ai wraps the external text-generation service (a Gemini-style REST
// API) behind a narrow Client interface, together with the prompt templates
// and the strict JSON parsing applied to model output.
//
// The model returns free text with no guaranteed structure; every consumer
// must run the response through ParseJSON (which strips markdown code fences
// and unmarshals strictly) before trusting it. Callers decide how a failure
// is surfaced: content generation treats it as a hard error, ranking
// enhancement swallows it and falls back to the computed ranking.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client produces a raw text completion for a prompt. Implementations must
// honor the context for cancellation and timeouts.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPClient calls a Gemini-style generateContent endpoint over HTTPS.
// The zero value is not usable; construct with NewHTTPClient.
type HTTPClient struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient builds an HTTPClient. Empty baseURL, model, or timeout fall
// back to the public endpoint, "gemini-pro", and 30s respectively.
func NewHTTPClient(baseURL, model, apiKey string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-pro"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// generateRequest is the wire shape of a generateContent call.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the response we consume.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt and returns the first candidate's concatenated
// text parts. Any transport failure, non-2xx status, or empty candidate list
// is returned as an error.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: calling generation endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("ai: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai: generation endpoint returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("ai: decoding response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("ai: response contained no candidates")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
