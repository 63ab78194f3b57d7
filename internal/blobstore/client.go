// Package blobstore is a thin client for the object-storage gateway that
// holds report inputs and proofing artifacts. Keys are bucket-relative paths
// such as "proofing/<workorder>/sections.json".
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with the object-storage gateway HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, bucket string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Bucket returns the bucket this client writes to.
func (c *Client) Bucket() string { return c.bucket }

func (c *Client) objectURL(key string) string {
	return c.baseURL + "/objects/" + url.PathEscape(c.bucket) + "/" + key
}

// Put stores an object under key with the given content type.
func (c *Client) Put(ctx context.Context, key, contentType string, data []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put object %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return nil
}

// Get retrieves an object. A missing key returns (nil, nil).
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get object %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return io.ReadAll(resp.Body)
}

// Exists checks for an object without fetching its body.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodHead, c.objectURL(key), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("head object: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("head object %s: status %d", key, resp.StatusCode)
	}
}

// PresignResponse is the gateway's reply to a presign request.
type PresignResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Presign returns a shareable download URL for an object. Links in outcome
// emails use the maximum seven-day lifetime so reviewers have the working
// week to pick them up.
func (c *Client) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 || ttl > 7*24*time.Hour {
		ttl = 7 * 24 * time.Hour
	}
	u := fmt.Sprintf("%s/presign/%s/%s?ttl=%d", c.baseURL, url.PathEscape(c.bucket), key, int(ttl.Seconds()))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("presign object %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var presigned PresignResponse
	if err := json.NewDecoder(resp.Body).Decode(&presigned); err != nil {
		return "", fmt.Errorf("decode presign response: %w", err)
	}
	return presigned.URL, nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
