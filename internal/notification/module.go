// Package notification provides event handlers that turn domain events into
// audit log lines and operator activity entries.
// This module subscribes to events and inverts the dependency: domain modules
// do not need to know who watches their outcomes.
package notification

import (
	"context"
	"fmt"
	"strings"

	"dumarte_backend/internal/events"
	apphttp "dumarte_backend/internal/http"
	notifhandler "dumarte_backend/internal/notification/handler"
	"dumarte_backend/internal/notification/inapp"
	"dumarte_backend/internal/notification/sse"
	"dumarte_backend/platform/logger"
)

// activityCapacity is how many recent entries the feed keeps.
const activityCapacity = 200

// WhatsAppSender delivers operator alerts.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Module is the notification module.
type Module struct {
	log           *logger.Logger
	sse           *sse.Service
	inAppService  *inapp.Service
	httpHandler   *notifhandler.HTTPHandler
	whatsapp      WhatsAppSender
	operatorPhone string
}

// New creates the notification module.
func New(log *logger.Logger) *Module {
	sseSvc := sse.New(log)
	inAppService := inapp.NewService(inapp.NewRepository(activityCapacity), log)
	inAppService.SetSSE(sseSvc)

	return &Module{
		log:          log,
		sse:          sseSvc,
		inAppService: inAppService,
		httpHandler:  notifhandler.NewHTTPHandler(inAppService, sseSvc),
	}
}

// SetWhatsAppSender enables WhatsApp alerts to the operator for every
// delivered quote request.
func (m *Module) SetWhatsAppSender(sender WhatsAppSender, operatorPhone string) {
	m.whatsapp = sender
	m.operatorPhone = operatorPhone
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the activity feed under the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.httpHandler.RegisterRoutes(ctx.Admin.Group("/activity"))
}

// InAppService exposes the activity feed.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// Close disconnects live dashboards.
func (m *Module) Close() { m.sse.Close() }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuoteSubmitted{}.EventName(), m)
	bus.Subscribe(events.QuoteFailed{}.EventName(), m)
	bus.Subscribe(events.GalleryRefreshed{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuoteSubmitted:
		return m.handleQuoteSubmitted(ctx, e)
	case events.QuoteFailed:
		return m.handleQuoteFailed(ctx, e)
	case events.GalleryRefreshed:
		return m.handleGalleryRefreshed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleQuoteSubmitted(ctx context.Context, e events.QuoteSubmitted) error {
	m.log.WithContext(ctx).Info("quote request delivered",
		"submissionId", e.SubmissionID.String(),
		"service", e.ServiceCode,
		"city", e.City,
	)
	m.inAppService.Send(inapp.SendParams{
		Type:       sse.EventQuoteSubmitted,
		Title:      "Nueva cotización",
		Content:    fmt.Sprintf("%s (%s) solicitó %s", e.Name, e.Email, e.ServiceCode),
		ResourceID: e.SubmissionID.String(),
		Category:   "success",
	})

	if m.whatsapp == nil || m.operatorPhone == "" {
		return nil
	}
	if err := m.whatsapp.SendMessage(ctx, m.operatorPhone, quoteAlert(e)); err != nil {
		m.log.UpstreamError("whatsapp", "quote alert", err)
	}
	return nil
}

func quoteAlert(e events.QuoteSubmitted) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nueva cotización de %s\n", e.Name)
	fmt.Fprintf(&b, "Servicio: %s\n", e.ServiceCode)
	if e.City != "" {
		fmt.Fprintf(&b, "Ciudad: %s\n", e.City)
	}
	if e.BudgetCode != "" {
		fmt.Fprintf(&b, "Presupuesto: %s\n", e.BudgetCode)
	}
	fmt.Fprintf(&b, "Contacto: %s / %s", e.Phone, e.Email)
	return b.String()
}

func (m *Module) handleQuoteFailed(ctx context.Context, e events.QuoteFailed) error {
	// Validation failures are the visitor's to fix and would only add noise.
	if e.Kind == "validation" {
		return nil
	}
	m.log.WithContext(ctx).Warn("quote request failed",
		"submissionId", e.SubmissionID.String(),
		"kind", e.Kind,
		"cause", e.Cause,
		"detail", e.Detail,
	)
	m.inAppService.Send(inapp.SendParams{
		Type:       sse.EventQuoteFailed,
		Title:      "Cotización no enviada",
		Content:    fmt.Sprintf("%s: %s", e.Kind, e.Cause),
		ResourceID: e.SubmissionID.String(),
		Category:   "error",
	})
	return nil
}

func (m *Module) handleGalleryRefreshed(ctx context.Context, e events.GalleryRefreshed) error {
	m.log.WithContext(ctx).Info("gallery refreshed", "projects", e.Projects, "categories", e.Categories)
	m.inAppService.Send(inapp.SendParams{
		Type:     sse.EventGalleryRefreshed,
		Title:    "Galería actualizada",
		Content:  fmt.Sprintf("%d proyectos en %d categorías", e.Projects, e.Categories),
		Category: "info",
	})
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
