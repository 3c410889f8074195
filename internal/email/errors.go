package email

import (
	"fmt"
	"net/http"
)

// Cause classifies why a dispatch failed.
type Cause string

const (
	CauseUnauthorizedRecipient Cause = "unauthorized_recipient"
	CauseMissingFields         Cause = "missing_fields"
	CauseMailUpstream          Cause = "mail_upstream"
	CauseConnectivity          Cause = "connectivity"
	CauseServer                Cause = "server"
)

// DispatchError is a structured dispatch failure. Status is 0 when no HTTP
// response was received.
type DispatchError struct {
	Cause  Cause
	Status int
	Detail string
	Err    error
}

func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("email dispatch failed: %s", e.Cause)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// CauseFromStatus maps a non-2xx status to its cause.
func CauseFromStatus(status int) Cause {
	switch status {
	case http.StatusBadRequest:
		return CauseMissingFields
	case http.StatusForbidden:
		return CauseUnauthorizedRecipient
	case http.StatusBadGateway:
		return CauseMailUpstream
	case 0:
		return CauseConnectivity
	default:
		return CauseServer
	}
}

// ParseCause maps the endpoint's errorCause field; unknown values are CauseServer.
func ParseCause(value string) Cause {
	switch Cause(value) {
	case CauseUnauthorizedRecipient, CauseMissingFields, CauseMailUpstream, CauseConnectivity:
		return Cause(value)
	default:
		return CauseServer
	}
}
