package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ChallengeResponse is the body of POST /api/v1/challenge.
type ChallengeResponse struct {
	Token string `json:"token"`
}

// ErrChallengePending is returned by RequestToken while the previous token
// has not been reset.
var ErrChallengePending = errors.New("verification challenge still pending")

// Client requests challenge tokens from a remote issuer. Only one challenge
// is outstanding at a time: RequestToken refuses until ResetChallenge
// releases the previous token.
type Client struct {
	url    string
	client *http.Client

	mu      sync.Mutex
	pending string
}

func NewClient(challengeURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: challengeURL, client: client}
}

func (c *Client) RequestToken(ctx context.Context) (string, error) {
	if c.Pending() {
		return "", ErrChallengePending
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build challenge request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("challenge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("challenge returned %s", resp.Status)
	}
	var body ChallengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode challenge response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("challenge returned an empty token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != "" {
		return "", ErrChallengePending
	}
	c.pending = body.Token
	return body.Token, nil
}

func (c *Client) ResetChallenge() {
	c.mu.Lock()
	c.pending = ""
	c.mu.Unlock()
}

// Pending reports whether a token was handed out and not yet reset.
func (c *Client) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != ""
}
