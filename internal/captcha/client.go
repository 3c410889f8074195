package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dumarte_backend/platform/logger"
)

const verifyPath = "/api/verify-captcha"

// ErrVerifierUnavailable wraps transport and protocol failures of the verifier.
var ErrVerifierUnavailable = errors.New("captcha verifier unavailable")

// Verification is the verifier's judgement on a token.
type Verification struct {
	Accepted bool
	Score    *float64
}

// Verifier redeems a token server-side.
type Verifier interface {
	Verify(ctx context.Context, token string) (Verification, error)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	OK    bool     `json:"ok"`
	Score *float64 `json:"score,omitempty"`
}

// Client is the HTTP client for the verification endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// NewClient creates a verifier client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		log:        log,
	}
}

// Verify posts the token and reports whether it was accepted. Any 2xx response
// with a decodable body is a verdict; everything else is ErrVerifierUnavailable.
func (c *Client) Verify(ctx context.Context, token string) (Verification, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return Verification{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return Verification{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("captcha", "verify", err)
		return Verification{}, fmt.Errorf("%w: %v", ErrVerifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		// A 4xx from the verifier is its way of refusing the token.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return Verification{Accepted: false}, nil
		}
		c.log.Error("captcha verifier upstream error", "status", resp.StatusCode)
		return Verification{}, fmt.Errorf("%w: status %d", ErrVerifierUnavailable, resp.StatusCode)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.log.Error("captcha verifier decode failed", "error", err)
		return Verification{}, fmt.Errorf("%w: decode response: %v", ErrVerifierUnavailable, err)
	}

	return Verification{Accepted: decoded.OK, Score: decoded.Score}, nil
}
