package captcha

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPresentedTokenTrimsAndRejectsEmpty(t *testing.T) {
	token, err := PresentedToken("  tok-1 ").AcquireToken(context.Background(), "contact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected trimmed token, got %q", token)
	}

	if _, err := PresentedToken("   ").AcquireToken(context.Background(), "contact"); !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestPollingProviderWaitsForReadiness(t *testing.T) {
	calls := 0
	provider := &PollingProvider{
		Interval: time.Millisecond,
		Source: func(action string) (string, bool, error) {
			if action != "contact" {
				t.Errorf("unexpected action %q", action)
			}
			calls++
			if calls < 3 {
				return "", false, nil
			}
			return "ready-token", true, nil
		},
	}

	token, err := provider.AcquireToken(context.Background(), "contact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "ready-token" || calls != 3 {
		t.Fatalf("expected token after 3 polls, got %q after %d", token, calls)
	}
}

func TestPollingProviderGivesUpAtDeadline(t *testing.T) {
	provider := &PollingProvider{
		Interval: time.Millisecond,
		Source:   func(string) (string, bool, error) { return "", false, nil },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := provider.AcquireToken(ctx, "contact")
	if !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestPollingProviderSourceError(t *testing.T) {
	provider := NewPollingProvider(func(string) (string, bool, error) {
		return "", false, errors.New("script failed to load")
	})

	if _, err := provider.AcquireToken(context.Background(), "contact"); !errors.Is(err, ErrTokenUnavailable) {
		t.Fatalf("expected ErrTokenUnavailable, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	source := FileSource(path)

	if _, ready, err := source("contact"); ready || err != nil {
		t.Fatalf("expected missing file to be not ready, got ready=%v err=%v", ready, err)
	}

	if err := os.WriteFile(path, []byte("file-token\n"), 0o600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	token, ready, err := source("contact")
	if err != nil || !ready || token != "file-token" {
		t.Fatalf("expected file-token ready, got %q ready=%v err=%v", token, ready, err)
	}
}
