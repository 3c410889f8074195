// Package quotes provides the quote request module: the contact form
// submission flow exposed over HTTP.
package quotes

import (
	"time"

	"dumarte_backend/internal/captcha"
	"dumarte_backend/internal/email"
	"dumarte_backend/internal/events"
	apphttp "dumarte_backend/internal/http"
	"dumarte_backend/internal/quotes/handler"
	"dumarte_backend/internal/quotes/service"
	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"
	"dumarte_backend/platform/phone"
	"dumarte_backend/platform/validator"
)

// formIdleTTL is how long an unused per-client form is kept.
const formIdleTTL = 30 * time.Minute

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	flow    *service.Flow
	forms   *service.FormRegistry
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(cfg config.QuoteConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	verifier := captcha.NewClient(cfg.GetAPIBaseURL(), cfg.GetHTTPClientTimeout(), log)
	dispatcher := email.NewDispatcher(cfg, log)
	return NewModuleWith(cfg, verifier, dispatcher, eventBus, val, log)
}

// NewModuleWith wires the module around explicit collaborators.
func NewModuleWith(cfg config.QuoteConfig, verifier captcha.Verifier, dispatcher email.Dispatcher, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	flow := service.New(service.Config{
		Recipient:      cfg.GetEmailRecipient(),
		Action:         cfg.GetCaptchaAction(),
		AcquireTimeout: cfg.GetCaptchaAcquireTimeout(),
		MinScore:       cfg.GetCaptchaMinScore(),
		FallbackLink:   phone.WhatsAppLink(cfg.GetContactWhatsApp(), cfg.GetContactPhoneRegion()),
	}, val, verifier, dispatcher, log)
	if eventBus != nil {
		flow.SetEventBus(eventBus)
	}

	forms := service.NewFormRegistry(flow, formIdleTTL)

	return &Module{
		handler: handler.New(forms, val),
		flow:    flow,
		forms:   forms,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Flow returns the submission flow for non-HTTP callers.
func (m *Module) Flow() *service.Flow {
	return m.flow
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	quotes := ctx.V1.Group("/quotes")
	if ctx.QuoteRateLimiter != nil {
		m.handler.RegisterRoutes(quotes, ctx.QuoteRateLimiter.RateLimit())
		return
	}
	m.handler.RegisterRoutes(quotes)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
