package handler

import (
	"net/http"
	"strconv"

	"dumarte_backend/internal/gallery/service"
	"dumarte_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the project gallery.
type Handler struct {
	svc *service.Service
}

// New creates a new gallery handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the public gallery routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/categories", h.Categories)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/images/:index", h.Image)
}

// RegisterAdminRoutes registers the operator gallery routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/refresh", h.Refresh)
}

// List handles GET /api/v1/projects?category=
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Categories handles GET /api/v1/projects/categories
func (h *Handler) Categories(c *gin.Context) {
	result, err := h.svc.Categories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get handles GET /api/v1/projects/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Image handles GET /api/v1/projects/:id/images/:index
func (h *Handler) Image(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	result, err := h.svc.Image(c.Request.Context(), id, index)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Refresh handles POST /api/v1/admin/projects/refresh
func (h *Handler) Refresh(c *gin.Context) {
	result, err := h.svc.Refresh(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return value, true
}
