package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "dumarte_backend/internal/http"
	"dumarte_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerConfig struct{}

func (routerConfig) GetHTTPAddr() string         { return ":0" }
func (routerConfig) GetCORSAllowAll() bool       { return false }
func (routerConfig) GetCORSOrigins() []string    { return []string{"https://site.example.com"} }
func (routerConfig) GetTrustedProxies() []string { return nil }
func (routerConfig) GetAdminAPIKey() string      { return "secret" }
func (routerConfig) GetQuoteRatePerMinute() int  { return 6 }

type healthFunc func(ctx context.Context) error

func (f healthFunc) Ping(ctx context.Context) error { return f(ctx) }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	ctx.V1.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
	ctx.Admin.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "admin pong") })
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	return New(&apphttp.App{
		Config:  routerConfig{},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func do(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	if rec := do(newEngine(nil), httptest.NewRequest(http.MethodGet, "/api/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}

	down := newEngine(healthFunc(func(context.Context) error { return errors.New("redis down") }))
	if rec := do(down, httptest.NewRequest(http.MethodGet, "/api/ready", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503, got %d", rec.Code)
	}
}

func TestModuleRoutesAndAdminGuard(t *testing.T) {
	engine := newEngine(nil)

	rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected public route with request id, got %d", rec.Code)
	}

	if rec := do(engine, httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
	req.Header.Set("X-Admin-Key", "secret")
	if rec := do(engine, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin key, got %d", rec.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://site.example.com")
	rec := do(newEngine(nil), req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://site.example.com" {
		t.Fatalf("expected CORS header for site origin, got %q", got)
	}
}

func TestClientIPIgnoresForwardedForByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("X-Forwarded-For", "10.9.9.9")
	if rec := do(newEngine(nil), req); rec.Body.String() != "203.0.113.7" {
		t.Fatalf("expected socket address as client IP, got %q", rec.Body.String())
	}
}
