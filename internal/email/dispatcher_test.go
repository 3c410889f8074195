package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dumarte_backend/platform/logger"
)

func samplePayload() DispatchPayload {
	return DispatchPayload{
		To:      "taller@example.com",
		Name:    "Ana",
		Email:   "ana@example.com",
		Phone:   "300 123 4567",
		City:    "Medellín",
		Service: "Cocinas Integrales",
		Message: "Quiero una cocina",
	}
}

func dispatcherFor(t *testing.T, handler http.HandlerFunc) *HTTPDispatcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPDispatcher(server.URL, server.Client(), logger.Nop())
}

func TestSendPostsWireFields(t *testing.T) {
	d := dispatcherFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/send-email" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		for _, key := range []string{"to", "name", "email", "telefono", "ciudad", "servicio", "mensaje"} {
			if body[key] == "" {
				t.Errorf("expected %q in payload", key)
			}
		}
		_, _ = w.Write([]byte(`{"ok":true,"message":"enviado"}`))
	})

	receipt, err := d.Send(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Message != "enviado" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestSendClassifiesStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Cause
	}{
		{http.StatusBadRequest, CauseMissingFields},
		{http.StatusForbidden, CauseUnauthorizedRecipient},
		{http.StatusBadGateway, CauseMailUpstream},
		{http.StatusInternalServerError, CauseServer},
		{http.StatusServiceUnavailable, CauseServer},
	}

	for _, tc := range cases {
		d := dispatcherFor(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"ok":false,"error":"nope","detail":"smtp said no"}`))
		})

		_, err := d.Send(context.Background(), samplePayload())
		dispatchErr, ok := AsDispatchError(err)
		if !ok {
			t.Fatalf("status %d: expected DispatchError, got %v", tc.status, err)
		}
		if dispatchErr.Cause != tc.want || dispatchErr.Status != tc.status {
			t.Fatalf("status %d: got cause %s status %d", tc.status, dispatchErr.Cause, dispatchErr.Status)
		}
		if dispatchErr.Detail != "smtp said no" {
			t.Fatalf("status %d: expected detail from body, got %q", tc.status, dispatchErr.Detail)
		}
	}
}

func TestSendOKFalseUsesStructuredCause(t *testing.T) {
	d := dispatcherFor(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"errorCause":"unauthorized_recipient"}`))
	})

	_, err := d.Send(context.Background(), samplePayload())
	dispatchErr, ok := AsDispatchError(err)
	if !ok || dispatchErr.Cause != CauseUnauthorizedRecipient {
		t.Fatalf("expected unauthorized recipient, got %v", err)
	}
}

func TestSendConnectivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	d := NewHTTPDispatcher(url, http.DefaultClient, logger.Nop())
	_, err := d.Send(context.Background(), samplePayload())
	dispatchErr, ok := AsDispatchError(err)
	if !ok || dispatchErr.Cause != CauseConnectivity || dispatchErr.Status != 0 {
		t.Fatalf("expected connectivity failure, got %v", err)
	}
}

func TestSendTruncatedBodyIsServerFailure(t *testing.T) {
	d := dispatcherFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true,`))
	})

	_, err := d.Send(context.Background(), samplePayload())
	dispatchErr, ok := AsDispatchError(err)
	if !ok || dispatchErr.Cause != CauseServer || dispatchErr.Status != http.StatusOK {
		t.Fatalf("expected server failure for truncated body, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected read error to be wrapped, got %v", err)
	}
}

func TestParseCauseDefaultsToServer(t *testing.T) {
	if ParseCause("something_else") != CauseServer {
		t.Fatalf("expected unknown cause to map to server")
	}
	if ParseCause("mail_upstream") != CauseMailUpstream {
		t.Fatalf("expected mail_upstream to be recognised")
	}
}

type emailSettings struct{ enabled bool }

func (s emailSettings) GetAPIBaseURL() string               { return "http://localhost" }
func (s emailSettings) GetHTTPClientTimeout() time.Duration { return time.Second }
func (s emailSettings) GetEmailEnabled() bool               { return s.enabled }
func (s emailSettings) GetEmailRecipient() string           { return "taller@example.com" }

func TestNewDispatcherHonoursEnabledFlag(t *testing.T) {
	if _, ok := NewDispatcher(emailSettings{enabled: false}, logger.Nop()).(NoopDispatcher); !ok {
		t.Fatalf("expected NoopDispatcher when email disabled")
	}
	if _, ok := NewDispatcher(emailSettings{enabled: true}, logger.Nop()).(*HTTPDispatcher); !ok {
		t.Fatalf("expected HTTPDispatcher when email enabled")
	}
}
