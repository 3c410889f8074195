package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dumarte_backend/platform/logger"
)

type gatewayConfig struct{ url string }

func (c gatewayConfig) GetWhatsAppURL() string           { return c.url }
func (c gatewayConfig) GetWhatsAppKey() string           { return "user:pass" }
func (c gatewayConfig) GetWhatsAppDeviceID() string      { return "device-1" }
func (c gatewayConfig) GetWhatsAppOperatorPhone() string { return "" }
func (c gatewayConfig) GetContactPhoneRegion() string    { return "CO" }

func TestNewClientDisabledWithoutURL(t *testing.T) {
	c := NewClient(gatewayConfig{}, logger.Nop())
	if c != nil {
		t.Fatalf("expected nil client")
	}
	if err := c.SendMessage(context.Background(), "3001234567", "hola"); err != nil {
		t.Fatalf("nil client must be a no-op, got %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	var got gowaRequest
	var auth, device string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send/message" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		device = r.Header.Get("X-Device-Id")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig{url: srv.URL + "/"}, logger.Nop())
	if err := c.SendMessage(context.Background(), "300 123 4567", "Nueva cotización"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phone != "573001234567" || got.Message != "Nueva cotización" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if auth != "Basic dXNlcjpwYXNz" || device != "device-1" {
		t.Fatalf("unexpected headers auth=%q device=%q", auth, device)
	}
}

func TestSendMessageErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(gatewayConfig{url: srv.URL}, logger.Nop())
	if err := c.SendMessage(context.Background(), "300 123 4567", "x"); err == nil {
		t.Fatalf("expected gateway error")
	}
	if err := c.SendMessage(context.Background(), "12", "x"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected invalid phone error, got %v", err)
	}
}
