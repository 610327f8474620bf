package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const DefaultRecaptchaURL = "https://www.google.com/recaptcha/api/siteverify"

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Recaptcha checks tokens against a reCAPTCHA siteverify endpoint.
type Recaptcha struct {
	secret string
	url    string
	client *http.Client
}

func NewRecaptcha(secret, verifyURL string, client *http.Client) *Recaptcha {
	if verifyURL == "" {
		verifyURL = DefaultRecaptchaURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Recaptcha{secret: secret, url: verifyURL, client: client}
}

func (r *Recaptcha) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	form := url.Values{"secret": {r.secret}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("siteverify returned %s", resp.Status)
	}
	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode siteverify response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrInvalidToken, strings.Join(result.ErrorCodes, ","))
	}
	return nil
}
