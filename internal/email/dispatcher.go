// Package email dispatches composed quote requests to the external
// email-sending endpoint. Delivery itself happens upstream.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"
)

const sendPath = "/api/send-email"

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// DispatchPayload is the message handed to the email endpoint.
type DispatchPayload struct {
	To      string `json:"to"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"telefono"`
	City    string `json:"ciudad"`
	Service string `json:"servicio"`
	Message string `json:"mensaje"`
}

// Receipt is the endpoint's acknowledgement of an accepted payload.
type Receipt struct {
	Message string
}

// Dispatcher hands a payload to the delivery backend.
type Dispatcher interface {
	Send(ctx context.Context, payload DispatchPayload) (Receipt, error)
}

// NoopDispatcher accepts everything without sending. Used when email is disabled.
type NoopDispatcher struct{}

func (NoopDispatcher) Send(ctx context.Context, payload DispatchPayload) (Receipt, error) {
	return Receipt{Message: "email disabled"}, nil
}

type dispatchResponse struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorCause string `json:"errorCause,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// HTTPDispatcher posts payloads to <baseURL>/api/send-email.
type HTTPDispatcher struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

// NewDispatcher returns the HTTP dispatcher, or a NoopDispatcher when email is
// disabled in configuration.
func NewDispatcher(cfg config.EmailConfig, log *logger.Logger) Dispatcher {
	if !cfg.GetEmailEnabled() {
		return NoopDispatcher{}
	}
	return NewHTTPDispatcher(cfg.GetAPIBaseURL(), &http.Client{Timeout: cfg.GetHTTPClientTimeout()}, log)
}

// NewHTTPDispatcher creates a dispatcher using client.
func NewHTTPDispatcher(baseURL string, client *http.Client, log *logger.Logger) *HTTPDispatcher {
	return &HTTPDispatcher{baseURL: baseURL, client: client, log: log}
}

// Send implements Dispatcher. Every failure is a *DispatchError.
func (d *HTTPDispatcher) Send(ctx context.Context, payload DispatchPayload) (Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.UpstreamError("email", "send", err)
		return Receipt{}, &DispatchError{Cause: CauseConnectivity, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		dispatchErr := &DispatchError{
			Cause:  CauseServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("read response: %w", err),
		}
		d.log.UpstreamError("email", "send", dispatchErr)
		return Receipt{}, dispatchErr
	}
	var decoded dispatchResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		dispatchErr := &DispatchError{
			Cause:  CauseFromStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: firstNonEmpty(decoded.Detail, decoded.Error),
		}
		d.log.UpstreamError("email", "send", dispatchErr)
		return Receipt{}, dispatchErr
	}

	if decodeErr != nil {
		return Receipt{}, &DispatchError{
			Cause:  CauseServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", decodeErr),
		}
	}

	if !decoded.OK {
		dispatchErr := &DispatchError{
			Cause:  ParseCause(decoded.ErrorCause),
			Status: resp.StatusCode,
			Detail: firstNonEmpty(decoded.Detail, decoded.Error),
		}
		d.log.UpstreamError("email", "send", dispatchErr)
		return Receipt{}, dispatchErr
	}

	return Receipt{Message: decoded.Message}, nil
}

// AsDispatchError extracts a *DispatchError from err.
func AsDispatchError(err error) (*DispatchError, bool) {
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr, true
	}
	return nil, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
