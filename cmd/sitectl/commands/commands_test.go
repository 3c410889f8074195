package commands

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCountupPreviewEndsOnTarget(t *testing.T) {
	out, err := run(t, "countup", "$1.000.000", "--duration", "200ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `prefix="$" magnitude=1e+06 suffix=""`) {
		t.Fatalf("expected parse summary, got %q", out)
	}
	if !strings.HasSuffix(out, "\r$1000000\n") {
		t.Fatalf("expected final frame $1000000, got %q", out)
	}
}

func TestSubmitRequiresToken(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("EMAIL_RECIPIENT", "taller@example.com")

	if _, err := run(t, "submit", "--name", "Ana"); err == nil || !strings.Contains(err.Error(), "CAPTCHA token") {
		t.Fatalf("expected token error, got %v", err)
	}
}
