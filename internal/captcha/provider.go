// Package captcha holds the proof-of-humanity collaborators of the quote
// flow: token providers that obtain a short-lived token, and a client for the
// verification endpoint that redeems it.
package captcha

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultPollInterval matches the cadence used to wait for the provider script.
const DefaultPollInterval = 100 * time.Millisecond

// ErrTokenUnavailable is returned when no token could be obtained in time.
var ErrTokenUnavailable = errors.New("captcha token unavailable")

// TokenProvider obtains a token scoped to an action such as "contact".
// Implementations must give up when ctx is done.
type TokenProvider interface {
	AcquireToken(ctx context.Context, action string) (string, error)
}

// PresentedToken is a token the browser already obtained and sent along with
// the form.
type PresentedToken string

// AcquireToken implements TokenProvider.
func (p PresentedToken) AcquireToken(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	token := strings.TrimSpace(string(p))
	if token == "" {
		return "", fmt.Errorf("%w: no token presented", ErrTokenUnavailable)
	}
	return token, nil
}

// TokenSource reports a token once one is ready.
type TokenSource func(action string) (token string, ready bool, err error)

// PollingProvider waits for a token source to become ready, checking every
// Interval until the context deadline passes.
type PollingProvider struct {
	Source   TokenSource
	Interval time.Duration
}

// NewPollingProvider creates a provider polling source at DefaultPollInterval.
func NewPollingProvider(source TokenSource) *PollingProvider {
	return &PollingProvider{Source: source, Interval: DefaultPollInterval}
}

// AcquireToken implements TokenProvider.
func (p *PollingProvider) AcquireToken(ctx context.Context, action string) (string, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		token, ready, err := p.Source(action)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
		}
		if ready {
			token = strings.TrimSpace(token)
			if token == "" {
				return "", fmt.Errorf("%w: empty token", ErrTokenUnavailable)
			}
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, ctx.Err())
		case <-ticker.C:
		}
	}
}

// FileSource reads a token from path; the token is ready once the file exists
// and is non-empty. An operator or a headless browser drops the token there.
func FileSource(path string) TokenSource {
	return func(string) (string, bool, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		token := strings.TrimSpace(string(data))
		return token, token != "", nil
	}
}
