// Package gateway posts completed quizzes to the submission endpoint and
// holds the wire types both sides of that endpoint share.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/storefront/quizwidget/internal/quiz"
)

// TokenHeader carries the verification token on submissions.
const TokenHeader = "captchaToken"

var (
	// ErrRejected means the gateway answered but did not accept the quiz.
	ErrRejected = errors.New("submission rejected")

	ErrEmptyPayload = errors.New("payload has no answers")
	ErrMissingLabel = errors.New("payload item has no label")
)

// Reply is the body of a gateway response.
type Reply struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Validate checks the structural rules the gateway enforces before
// storing a payload. Answer content is not inspected.
func Validate(p quiz.Payload) error {
	if len(p) == 0 {
		return ErrEmptyPayload
	}
	for i, item := range p {
		if item.Label == "" {
			return fmt.Errorf("item %d: %w", i, ErrMissingLabel)
		}
	}
	return nil
}

// Client submits payloads to a remote gateway.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: url, client: client}
}

// Submit posts payload with token. A non-2xx status or a body whose
// success field is false yields ErrRejected.
func (c *Client) Submit(ctx context.Context, token string, payload quiz.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Status)
	}

	// Only an explicit success:false counts as a rejection on 2xx.
	var reply struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		return fmt.Errorf("decode submit response: %w", err)
	}
	if reply.Success != nil && !*reply.Success {
		return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
	}
	return nil
}
