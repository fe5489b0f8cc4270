// Package voice calls the hosted speech-to-text-and-translate collaborator.
// The bot only ever sees the final English transcript.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	http     *http.Client
	endpoint string
	sid      string // gateway credentials so the service can fetch the media
	token    string
}

func NewClient(endpoint, accountSID, authToken string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		sid:      accountSID,
		token:    authToken,
	}
}

// Configured is false when no endpoint was set; voice notes then fail fast
// with a user-visible error instead of a timeout.
func (c *Client) Configured() bool { return c.endpoint != "" }

func (c *Client) TranscribeAndTranslate(ctx context.Context, mediaURL string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("speech service not configured")
	}

	payload, err := json.Marshal(map[string]string{"media_url": mediaURL})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sid != "" {
		req.SetBasicAuth(c.sid, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech service: status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("speech service: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("speech service: empty transcript")
	}
	return out.Text, nil
}
