package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dumarte_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const sampleJSON = `[
  {"id": 1, "titulo": "Cocina moderna", "descripcion": "Cocina en L", "categoria": "cocinas", "tags": ["madera"], "imagenes": ["a.jpg", "b.jpg"]},
  {"id": 2, "titulo": "Closet", "descripcion": "Closet de pared", "categoria": "closets"}
]`

func TestFileSourceDecodesSpanishKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proyectos.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	projects, err := FileSource{Path: path}.FetchProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 || projects[0].Title != "Cocina moderna" || len(projects[0].Images) != 2 {
		t.Fatalf("unexpected projects %+v", projects)
	}
	if projects[1].Tags == nil || projects[1].Images == nil {
		t.Fatalf("expected nil slices normalised to empty")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.FetchProjects(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer server.Close()

	projects, err := HTTPSource{URL: server.URL + "/proyectos.json", Client: server.Client()}.FetchProjects(context.Background())
	if err != nil || len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d err=%v", len(projects), err)
	}

	_, err = HTTPSource{URL: server.URL + "/broken"}.FetchProjects(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

type countingSource struct {
	calls    atomic.Int32
	delay    time.Duration
	projects []Project
}

func (s *countingSource) FetchProjects(context.Context) ([]Project, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.projects, nil
}

func TestCachedSourceFetchesOnceUntilRefresh(t *testing.T) {
	source := &countingSource{projects: []Project{{ID: 1}}}
	cached := NewCachedSource(source, NewMemoryCache(), logger.Nop())

	for i := 0; i < 3; i++ {
		if _, err := cached.FetchProjects(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected a single fetch, got %d", got)
	}

	if _, err := cached.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	if got := source.calls.Load(); got != 2 {
		t.Fatalf("expected refresh to fetch again, got %d", got)
	}
}

func TestCachedSourceCollapsesConcurrentMisses(t *testing.T) {
	source := &countingSource{projects: []Project{{ID: 1}}, delay: 50 * time.Millisecond}
	cached := NewCachedSource(source, NewMemoryCache(), logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cached.FetchProjects(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected concurrent misses to share one fetch, got %d", got)
	}
}

func TestRedisCacheRoundTripAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisCache(client, "", time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Load(ctx); ok || err != nil {
		t.Fatalf("expected empty cache, got ok=%v err=%v", ok, err)
	}

	if err := cache.Store(ctx, []Project{{ID: 7, Title: "Mueble"}}); err != nil {
		t.Fatalf("store: %v", err)
	}
	projects, ok, err := cache.Load(ctx)
	if err != nil || !ok || len(projects) != 1 || projects[0].Title != "Mueble" {
		t.Fatalf("unexpected load %+v ok=%v err=%v", projects, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Load(ctx); ok {
		t.Fatalf("expected entry to expire")
	}

	_ = cache.Store(ctx, []Project{{ID: 7}})
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(DefaultRedisKey) {
		t.Fatalf("expected key removed")
	}
}

func TestCachedSourceSharesRedisAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	source := &countingSource{projects: []Project{{ID: 1}}}
	first := NewCachedSource(source, NewRedisCache(client, "", 0), logger.Nop())
	second := NewCachedSource(source, NewRedisCache(client, "", 0), logger.Nop())

	if _, err := first.FetchProjects(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := second.FetchProjects(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := source.calls.Load(); got != 1 {
		t.Fatalf("expected second instance to hit redis, got %d fetches", got)
	}
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	if _, err := NewRedisClient("://nope"); err == nil {
		t.Fatalf("expected parse error")
	}
}
