// Package service implements the quote submission flow: field validation,
// CAPTCHA acquisition and verification, payload composition and email
// dispatch, reported as a single Outcome per attempt.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"dumarte_backend/internal/captcha"
	"dumarte_backend/internal/email"
	"dumarte_backend/internal/events"
	"dumarte_backend/platform/logger"
	"dumarte_backend/platform/validator"

	"github.com/google/uuid"
)

// DefaultAcquireTimeout bounds the wait for a CAPTCHA token.
const DefaultAcquireTimeout = 20 * time.Second

// DefaultAction scopes tokens issued for the contact form.
const DefaultAction = "contact"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// State is a step of one submission attempt.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingCaptchaToken
	StateVerifyingCaptcha
	StateSendingEmail
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAwaitingCaptchaToken:
		return "awaiting_captcha_token"
	case StateVerifyingCaptcha:
		return "verifying_captcha"
	case StateSendingEmail:
		return "sending_email"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RawFields are the contact form fields as entered. BudgetCode is nil when no
// budget option was selected.
type RawFields struct {
	Name        string
	Email       string
	Phone       string
	City        string
	ServiceCode string
	Message     string
	BudgetCode  *string
}

// QuoteRequest is a validated, trimmed quote request.
type QuoteRequest struct {
	Name        string `validate:"required"`
	Email       string `validate:"required"`
	Phone       string `validate:"required"`
	City        string
	ServiceCode string `validate:"required"`
	Message     string `validate:"required"`
	BudgetCode  string
}

// Notifier receives every outcome exactly once, after the attempt ends.
type Notifier interface {
	Notify(ctx context.Context, outcome Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, outcome Outcome)

func (f NotifierFunc) Notify(ctx context.Context, outcome Outcome) { f(ctx, outcome) }

// Config holds the flow settings.
type Config struct {
	Recipient      string
	Action         string
	AcquireTimeout time.Duration
	// MinScore rejects verifications whose score is below it. Zero disables
	// the check.
	MinScore float64
	// FallbackLink is offered with every non-validation failure.
	FallbackLink string
}

// Flow runs quote submissions against the CAPTCHA verifier and the email
// dispatcher. A Flow holds no per-attempt state and may be shared.
type Flow struct {
	cfg        Config
	val        *validator.Validator
	verifier   captcha.Verifier
	dispatcher email.Dispatcher
	notifier   Notifier
	eventBus   events.Bus
	log        *logger.Logger
}

// New creates a flow.
func New(cfg Config, val *validator.Validator, verifier captcha.Verifier, dispatcher email.Dispatcher, log *logger.Logger) *Flow {
	if cfg.Action == "" {
		cfg.Action = DefaultAction
	}
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = DefaultAcquireTimeout
	}
	return &Flow{
		cfg:        cfg,
		val:        val,
		verifier:   verifier,
		dispatcher: dispatcher,
		log:        log,
	}
}

// SetNotifier injects the outcome notifier.
func (f *Flow) SetNotifier(n Notifier) {
	f.notifier = n
}

// SetEventBus injects the event bus for submission events.
func (f *Flow) SetEventBus(bus events.Bus) {
	f.eventBus = bus
}

// Submit runs one attempt. The first failing step ends the attempt; later
// collaborators are not called.
func (f *Flow) Submit(ctx context.Context, fields RawFields, tokens captcha.TokenProvider) Outcome {
	return f.run(ctx, fields, tokens, nil)
}

func (f *Flow) run(ctx context.Context, fields RawFields, tokens captcha.TokenProvider, observe func(State)) Outcome {
	id := uuid.New()
	ctx = context.WithValue(ctx, logger.SubmissionIDKey, id.String())
	log := f.log.WithContext(ctx)

	transition := func(s State) {
		log.Debug("quote flow transition", "state", s.String())
		if observe != nil {
			observe(s)
		}
	}

	outcome := f.attempt(ctx, id, fields, tokens, transition)
	if outcome.Success {
		transition(StateSucceeded)
	} else {
		transition(StateFailed)
	}

	log.QuoteOutcome(id.String(), outcome.Success, string(outcome.Kind), string(outcome.Cause))
	if outcome.Detail != "" {
		log.Debug("quote failure detail", "detail", outcome.Detail)
	}
	if f.notifier != nil {
		f.notifier.Notify(ctx, outcome)
	}
	f.publish(ctx, outcome, fields)

	transition(StateIdle)
	return outcome
}

func (f *Flow) attempt(ctx context.Context, id uuid.UUID, fields RawFields, tokens captcha.TokenProvider, transition func(State)) Outcome {
	transition(StateValidating)
	req, cause := f.Validate(fields)
	if cause != "" {
		return failed(id, KindValidation, cause, "", "")
	}

	transition(StateAwaitingCaptchaToken)
	token, err := f.acquireToken(ctx, tokens)
	if err != nil {
		return failed(id, KindCaptcha, CauseCaptchaUnavailable, err.Error(), f.cfg.FallbackLink)
	}

	transition(StateVerifyingCaptcha)
	verification, err := f.verifier.Verify(ctx, token)
	if err != nil {
		return failed(id, KindCaptcha, CauseCaptchaUnavailable, err.Error(), f.cfg.FallbackLink)
	}
	if !f.accepted(verification) {
		return failed(id, KindCaptcha, CauseCaptchaRejected, "verification rejected", f.cfg.FallbackLink)
	}

	transition(StateSendingEmail)
	if _, err := f.dispatcher.Send(ctx, f.Compose(req)); err != nil {
		return failed(id, KindDelivery, deliveryCause(err), err.Error(), f.cfg.FallbackLink)
	}

	return succeeded(id)
}

// Validate trims the fields and runs the checks in order: required fields,
// email shape, phone digit count. It returns the first failing cause.
func (f *Flow) Validate(fields RawFields) (QuoteRequest, Cause) {
	req := QuoteRequest{
		Name:        strings.TrimSpace(fields.Name),
		Email:       strings.TrimSpace(fields.Email),
		Phone:       strings.TrimSpace(fields.Phone),
		City:        strings.TrimSpace(fields.City),
		ServiceCode: strings.TrimSpace(fields.ServiceCode),
		Message:     strings.TrimSpace(fields.Message),
	}
	if fields.BudgetCode != nil {
		req.BudgetCode = strings.TrimSpace(*fields.BudgetCode)
	}

	if err := f.val.Struct(req); err != nil {
		return req, CauseMissingFields
	}
	if !emailPattern.MatchString(req.Email) {
		return req, CauseInvalidEmail
	}
	if err := f.val.Var(req.Phone, "phonedigits"); err != nil {
		return req, CauseInvalidPhone
	}
	return req, ""
}

// Compose builds the dispatch payload for a validated request.
func (f *Flow) Compose(req QuoteRequest) email.DispatchPayload {
	return email.DispatchPayload{
		To:      f.cfg.Recipient,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		City:    req.City,
		Service: ServiceLabel(req.ServiceCode),
		Message: ComposeMessage(req.Message, req.BudgetCode),
	}
}

func (f *Flow) acquireToken(ctx context.Context, tokens captcha.TokenProvider) (string, error) {
	if tokens == nil {
		return "", captcha.ErrTokenUnavailable
	}
	acquireCtx, cancel := context.WithTimeout(ctx, f.cfg.AcquireTimeout)
	defer cancel()
	return tokens.AcquireToken(acquireCtx, f.cfg.Action)
}

func (f *Flow) accepted(v captcha.Verification) bool {
	if !v.Accepted {
		return false
	}
	if f.cfg.MinScore > 0 && v.Score != nil && *v.Score < f.cfg.MinScore {
		return false
	}
	return true
}

func deliveryCause(err error) Cause {
	dispatchErr, ok := email.AsDispatchError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return CauseConnectivity
		}
		return CauseServer
	}
	switch dispatchErr.Cause {
	case email.CauseUnauthorizedRecipient:
		return CauseUnauthorizedRecipient
	case email.CauseMissingFields:
		return CauseRejectedFields
	case email.CauseMailUpstream:
		return CauseMailUpstream
	case email.CauseConnectivity:
		return CauseConnectivity
	default:
		return CauseServer
	}
}

func (f *Flow) publish(ctx context.Context, outcome Outcome, fields RawFields) {
	if f.eventBus == nil {
		return
	}
	if outcome.Success {
		budget := ""
		if fields.BudgetCode != nil {
			budget = strings.TrimSpace(*fields.BudgetCode)
		}
		f.eventBus.Publish(ctx, events.QuoteSubmitted{
			BaseEvent:    events.NewBaseEvent(),
			SubmissionID: outcome.SubmissionID,
			Name:         strings.TrimSpace(fields.Name),
			Email:        strings.TrimSpace(fields.Email),
			Phone:        strings.TrimSpace(fields.Phone),
			City:         strings.TrimSpace(fields.City),
			ServiceCode:  strings.TrimSpace(fields.ServiceCode),
			BudgetCode:   budget,
		})
		return
	}
	f.eventBus.Publish(ctx, events.QuoteFailed{
		BaseEvent:    events.NewBaseEvent(),
		SubmissionID: outcome.SubmissionID,
		Kind:         string(outcome.Kind),
		Cause:        string(outcome.Cause),
		Detail:       outcome.Detail,
	})
}
