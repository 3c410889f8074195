package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dumarte_backend/internal/countup"
	"dumarte_backend/internal/stats/repository"
	"dumarte_backend/internal/stats/transport"
	"dumarte_backend/platform/apperr"
	"dumarte_backend/platform/httpkit"
	"dumarte_backend/platform/logger"
	"dumarte_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// frameBuffer lets the counter run slightly ahead of a slow connection.
const frameBuffer = 16

// Handler serves the stats list and count-up streams.
type Handler struct {
	store         *repository.Store
	val           *validator.Validator
	log           *logger.Logger
	frameInterval time.Duration
}

// New creates a new stats handler.
func New(store *repository.Store, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{store: store, val: val, log: log, frameInterval: countup.DefaultFrameInterval}
}

// SetFrameInterval overrides the delay between streamed frames.
func (h *Handler) SetFrameInterval(d time.Duration) {
	if d > 0 {
		h.frameInterval = d
	}
}

// RegisterRoutes registers the stats routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id/count-up", h.CountUp)
}

// List handles GET /api/v1/stats
func (h *Handler) List(c *gin.Context) {
	stats := h.store.List()
	resp := make([]transport.StatResponse, 0, len(stats))
	for _, s := range stats {
		parsed := countup.Parse(s.Value)
		resp = append(resp, transport.StatResponse{
			ID:        s.ID,
			Label:     s.Label,
			Value:     s.Value,
			Prefix:    parsed.Prefix,
			Magnitude: parsed.Magnitude,
			Suffix:    parsed.Suffix,
			Decimals:  s.Decimals,
		})
	}
	httpkit.OK(c, resp)
}

// CountUp handles GET /api/v1/stats/:id/count-up as a Server-Sent Events
// stream. The connection owns one counter, closed when the client leaves.
func (h *Handler) CountUp(c *gin.Context) {
	stat, ok := h.store.Get(c.Param("id"))
	if !ok {
		httpkit.HandleError(c, apperr.NotFound(fmt.Sprintf("stat %q not found", c.Param("id"))))
		return
	}

	var q transport.CountUpQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "decimals must be between 0 and 6", nil)
		return
	}
	duration, err := parseDuration(q.Duration)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid duration", nil)
		return
	}

	spec := countup.Spec{Duration: duration, DecimalPlaces: stat.Decimals}
	if q.Decimals != nil {
		spec.DecimalPlaces = *q.Decimals
	}
	if q.Start != nil {
		spec.StartValue = *q.Start
	}

	ctx := c.Request.Context()
	frames := make(chan countup.Frame, frameBuffer)
	counter := countup.New(spec, stat.Value, func(f countup.Frame) {
		select {
		case frames <- f:
		case <-ctx.Done():
		}
	}, countup.WithFrameInterval(h.frameInterval))
	defer counter.Close()

	trigger := countup.NewTrigger()
	counter.Attach(trigger)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	plan := counter.Plan()
	c.SSEvent("plan", gin.H{
		"id":         stat.ID,
		"prefix":     plan.Prefix,
		"suffix":     plan.Suffix,
		"start":      plan.Start,
		"target":     plan.Target,
		"decimals":   plan.Decimals,
		"durationMs": plan.Duration.Milliseconds(),
	})
	c.Writer.Flush()

	trigger.Report(1)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("count-up client disconnected", "stat", stat.ID)
			return
		case frame := <-frames:
			c.SSEvent("frame", frame)
			c.Writer.Flush()
			if frame.Final {
				return
			}
		}
	}
}

// parseDuration accepts Go durations ("1.5s") or plain milliseconds ("1500").
// An empty value selects the default duration.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}
