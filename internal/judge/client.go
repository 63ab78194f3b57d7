// Package judge calls the semantic judge — a language-capable reasoning
// service — for the checklist questions the rule library deliberately does
// not decide locally.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Client calls an Anthropic-style messages API and returns the assistant's
// plain-text reply.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type judgeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type judgeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Ask sends one user prompt and returns the judge's reply text, trimmed and
// with any surrounding code fence removed.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	return c.ask(ctx, "", prompt)
}

// AskWithSystem sends a prompt under a system instruction.
func (c *Client) AskWithSystem(ctx context.Context, system, prompt string) (string, error) {
	return c.ask(ctx, system, prompt)
}

func (c *Client) ask(ctx context.Context, system, prompt string) (string, error) {
	reqBody := judgeRequest{
		Model:       c.model,
		MaxTokens:   1000,
		Temperature: 0,
		System:      system,
		Messages:    []message{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("judge api: %w", err)
	}
	defer resp.Body.Close()
	c.stats.Record(time.Since(start).Milliseconds())

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge api status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp judgeResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("judge error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from judge")
	}

	var sb strings.Builder
	for _, part := range apiResp.Content {
		sb.WriteString(part.Text)
	}
	return stripCodeBlock(sb.String()), nil
}

// Stats returns the rolling latency statistics for this client.
func (c *Client) Stats() *Stats { return c.stats }

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json|html)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}
