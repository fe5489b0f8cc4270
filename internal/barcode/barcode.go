// Package barcode calls the hosted image-decode collaborator for barcode
// photos sent over WhatsApp.
package barcode

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
	sid      string
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

func (c *Client) Configured() bool { return c.endpoint != "" }

func (c *Client) Decode(ctx context.Context, mediaURL string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("barcode service not configured")
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
		return "", fmt.Errorf("barcode service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("barcode service: status %d", resp.StatusCode)
	}

	var out struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("barcode service: %w", err)
	}
	if out.Data == "" {
		return "", fmt.Errorf("barcode service: nothing decoded")
	}
	return out.Data, nil
}
