package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MailClient delivers the email channel through a Resend-style HTTP
// API: bearer auth, JSON body, 2xx on success.
type MailClient struct {
	APIKey string
	From   string
	To     string

	APIURL     string
	HTTPClient *http.Client
}

func NewMailClient(apiKey, endpoint, from, to string) *MailClient {
	return &MailClient{
		APIKey:     apiKey,
		From:       from,
		To:         to,
		APIURL:     endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type mailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (c *MailClient) Send(ctx context.Context, subject, text string) error {
	payload, err := json.Marshal(mailPayload{
		From:    c.From,
		To:      []string{c.To},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail api error: status %s, body %s", resp.Status, string(body))
	}

	return nil
}
