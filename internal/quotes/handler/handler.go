package handler

import (
	"net/http"

	"dumarte_backend/internal/captcha"
	"dumarte_backend/internal/quotes/service"
	"dumarte_backend/internal/quotes/transport"
	"dumarte_backend/platform/httpkit"
	"dumarte_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for quote submissions.
type Handler struct {
	forms *service.FormRegistry
	val   *validator.Validator
}

// New creates a new quotes handler.
func New(forms *service.FormRegistry, val *validator.Validator) *Handler {
	return &Handler{forms: forms, val: val}
}

// RegisterRoutes registers the quote routes. submitMiddleware runs before the
// submit endpoint only (rate limiting).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc) {
	rg.GET("/options", h.Options)
	rg.GET("/status", h.Status)
	rg.POST("", append(submitMiddleware, h.Submit)...)
}

// Submit handles POST /api/v1/quotes
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "field too long", nil)
		return
	}

	fields := service.RawFields{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		ServiceCode: req.Service,
		Message:     req.Message,
		BudgetCode:  req.Budget,
	}

	form := h.forms.Form(c.ClientIP())
	outcome, err := form.Submit(c.Request.Context(), fields, captcha.PresentedToken(req.CaptchaToken))
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.SubmitQuoteResponse{
		Success:      outcome.Success,
		SubmissionID: outcome.SubmissionID.String(),
		Kind:         string(outcome.Kind),
		Cause:        string(outcome.Cause),
		Title:        outcome.Title,
		Message:      outcome.Message,
		FallbackLink: outcome.FallbackLink,
	}
	if outcome.Success {
		httpkit.OK(c, resp)
		return
	}
	httpkit.JSON(c, outcome.Err().HTTPStatus(), resp)
}

// Options handles GET /api/v1/quotes/options
func (h *Handler) Options(c *gin.Context) {
	resp := transport.FormOptionsResponse{}
	for _, code := range service.ServiceCodes() {
		resp.Services = append(resp.Services, transport.Option{Code: code, Label: service.ServiceLabel(code)})
	}
	for _, code := range service.BudgetCodes() {
		resp.Budgets = append(resp.Budgets, transport.Option{Code: code, Label: service.BudgetLabel(code)})
	}
	httpkit.OK(c, resp)
}

// Status handles GET /api/v1/quotes/status
func (h *Handler) Status(c *gin.Context) {
	form, ok := h.forms.Lookup(c.ClientIP())
	if !ok {
		httpkit.OK(c, transport.FormStatusResponse{State: service.StateIdle.String()})
		return
	}
	httpkit.OK(c, transport.FormStatusResponse{
		Busy:  form.Busy(),
		State: form.State().String(),
	})
}
