package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"dumarte_backend/internal/adapters/storage"
	"dumarte_backend/internal/events"
	"dumarte_backend/internal/gallery/repository"
	"dumarte_backend/platform/apperr"
	"dumarte_backend/platform/logger"
)

type fakeSource struct {
	projects  []repository.Project
	err       error
	refreshes int
}

func (f *fakeSource) FetchProjects(context.Context) ([]repository.Project, error) {
	return f.projects, f.err
}

func (f *fakeSource) Refresh(context.Context) ([]repository.Project, error) {
	f.refreshes++
	return f.projects, f.err
}

func sampleProjects() []repository.Project {
	return []repository.Project{
		{ID: 1, Title: "Cocina", Category: "cocinas", Images: []string{"assets/img/c1.jpg", "proyectos/c2.jpg", "proyectos/c3.jpg"}},
		{ID: 2, Title: "Closet", Category: "closets", Images: []string{"https://cdn.example.com/closet.jpg"}},
		{ID: 3, Title: "Cocina 2", Category: "cocinas", Images: []string{}},
	}
}

type fakeStorage struct {
	mu   sync.Mutex
	keys []string
	fail string
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if key == f.fail {
		return nil, errors.New("presign failed")
	}
	return &storage.PresignedURL{URL: "https://minio.local/" + bucket + "/" + key + "?sig=1", FileKey: key, ExpiresAt: time.Now()}, nil
}

func (f *fakeStorage) UploadFile(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", nil
}
func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (f *fakeStorage) ValidateContentType(string) error               { return nil }
func (f *fakeStorage) ValidateFileSize(int64) error                   { return nil }

func TestListFiltersByCategory(t *testing.T) {
	svc := New(&fakeSource{projects: sampleProjects()}, nil, logger.Nop())

	all, err := svc.List(context.Background(), "")
	if err != nil || all.Total != 3 || all.Category != AllCategories {
		t.Fatalf("expected all projects, got %+v err=%v", all, err)
	}

	todos, _ := svc.List(context.Background(), "todos")
	if todos.Total != 3 {
		t.Fatalf("expected todos to select all, got %d", todos.Total)
	}

	cocinas, _ := svc.List(context.Background(), "cocinas")
	if cocinas.Total != 2 || cocinas.Items[0].ID != 1 || cocinas.Items[1].ID != 3 {
		t.Fatalf("unexpected cocinas filter %+v", cocinas)
	}

	none, _ := svc.List(context.Background(), "remodelacion")
	if none.Total != 0 || none.Items == nil {
		t.Fatalf("expected empty non-nil list, got %+v", none)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := New(&fakeSource{projects: sampleProjects()}, nil, logger.Nop())

	if _, err := svc.Get(context.Background(), 99); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	p, err := svc.Get(context.Background(), 2)
	if err != nil || p.Title != "Closet" {
		t.Fatalf("unexpected project %+v err=%v", p, err)
	}
}

func TestSourceFailureIsUnavailable(t *testing.T) {
	svc := New(&fakeSource{err: repository.ErrSourceUnavailable}, nil, logger.Nop())
	if _, err := svc.List(context.Background(), ""); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCategoriesInFirstAppearanceOrder(t *testing.T) {
	svc := New(&fakeSource{projects: sampleProjects()}, nil, logger.Nop())
	cats, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 || cats[0].Category != "cocinas" || cats[0].Count != 2 || cats[1].Category != "closets" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func TestStorageResolverPresignsObjectKeysOnly(t *testing.T) {
	store := &fakeStorage{}
	svc := New(&fakeSource{projects: sampleProjects()}, NewStorageResolver(store, "project-images"), logger.Nop())

	p, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Images[0] != "assets/img/c1.jpg" {
		t.Fatalf("expected asset path passthrough, got %q", p.Images[0])
	}
	if !strings.HasPrefix(p.Images[1], "https://minio.local/project-images/proyectos/c2.jpg") {
		t.Fatalf("expected presigned URL, got %q", p.Images[1])
	}
	if len(store.keys) != 2 {
		t.Fatalf("expected two presign calls, got %v", store.keys)
	}
}

func TestUnresolvableImagesAreDropped(t *testing.T) {
	store := &fakeStorage{fail: "proyectos/c2.jpg"}
	svc := New(&fakeSource{projects: sampleProjects()}, NewStorageResolver(store, "b"), logger.Nop())

	p, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Images) != 2 || p.Images[0] != "assets/img/c1.jpg" {
		t.Fatalf("expected failed image dropped, got %v", p.Images)
	}
}

func TestImageNavigation(t *testing.T) {
	svc := New(&fakeSource{projects: sampleProjects()}, nil, logger.Nop())

	first, err := svc.Image(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.IsFirst || first.IsLast || !first.HasMultiple || first.Prev != nil || first.Next == nil || *first.Next != 1 {
		t.Fatalf("unexpected first image %+v", first)
	}

	last, _ := svc.Image(context.Background(), 1, 2)
	if !last.IsLast || last.Next != nil || last.Prev == nil || *last.Prev != 1 {
		t.Fatalf("unexpected last image %+v", last)
	}

	single, _ := svc.Image(context.Background(), 2, 0)
	if !single.IsFirst || !single.IsLast || single.HasMultiple {
		t.Fatalf("unexpected single image %+v", single)
	}

	if _, err := svc.Image(context.Background(), 1, 3); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected out of range index to be not found, got %v", err)
	}
	if _, err := svc.Image(context.Background(), 3, 0); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected project without images to be not found, got %v", err)
	}
}

func TestRefreshPublishesEvent(t *testing.T) {
	source := &fakeSource{projects: sampleProjects()}
	bus := events.NewInMemoryBus(logger.Nop())
	var got events.GalleryRefreshed
	bus.Subscribe(events.GalleryRefreshed{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = e.(events.GalleryRefreshed)
		return nil
	}))

	svc := New(source, nil, logger.Nop())
	svc.SetEventBus(bus)

	resp, err := svc.Refresh(context.Background())
	bus.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.refreshes != 1 || resp.Projects != 3 || resp.Categories != 2 {
		t.Fatalf("unexpected refresh %+v (refreshes=%d)", resp, source.refreshes)
	}
	if got.Projects != 3 {
		t.Fatalf("expected refresh event, got %+v", got)
	}
}
