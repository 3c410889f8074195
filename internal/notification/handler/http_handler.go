package handler

import (
	"strconv"

	"dumarte_backend/internal/notification/inapp"
	"dumarte_backend/internal/notification/sse"
	"dumarte_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type HTTPHandler struct {
	svc *inapp.Service
	sse *sse.Service
}

func NewHTTPHandler(svc *inapp.Service, sseSvc *sse.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc, sse: sseSvc}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	if h.sse != nil {
		rg.GET("/stream", h.sse.Handler())
	}
}

func (h *HTTPHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	items := h.svc.List(limit)
	httpkit.OK(c, gin.H{
		"items": items,
		"total": len(items),
	})
}
