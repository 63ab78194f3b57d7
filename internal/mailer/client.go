package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client sends mail through the HTTP mail relay.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	bcc        []string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, sender string, bcc []string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
		bcc:     bcc,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendOutcome delivers the proofing outcome email. An empty recipient falls
// back to the configured sender address.
func (c *Client) SendOutcome(ctx context.Context, to string, outcome Outcome) error {
	if to == "" {
		to = c.sender
	}
	body, err := json.Marshal(sendRequest{
		From:    c.sender,
		To:      []string{to},
		Bcc:     c.bcc,
		Subject: outcome.Subject(),
		HTML:    outcome.HTMLBody(),
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
