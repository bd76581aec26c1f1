package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// PushoverClient delivers push notifications via the Pushover API.
type PushoverClient struct {
	Token    string
	User     string
	Priority int
	Sound    string

	APIURL     string
	HTTPClient *http.Client
}

func NewPushoverClient(token, user string, priority int, sound string) *PushoverClient {
	return &PushoverClient{
		Token:      token,
		User:       user,
		Priority:   priority,
		Sound:      sound,
		APIURL:     pushoverAPIURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *PushoverClient) Send(ctx context.Context, title, message string) error {
	params := url.Values{}
	params.Set("token", c.Token)
	params.Set("user", c.User)
	params.Set("title", title)
	params.Set("message", message)
	params.Set("priority", strconv.Itoa(c.Priority))
	if c.Sound != "" {
		params.Set("sound", c.Sound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushover api error: status %s, body %s", resp.Status, string(body))
	}

	return nil
}
