package service

import (
	"context"
	"strings"

	"dumarte_backend/internal/adapters/storage"
)

// ImageResolver turns a stored image reference into a URL a browser can load.
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) (string, error)
}

// PassthroughResolver returns references unchanged.
type PassthroughResolver struct{}

func (PassthroughResolver) ResolveImage(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// StorageResolver presigns object keys in the project images bucket. Absolute
// URLs and site asset paths pass through.
type StorageResolver struct {
	storage storage.StorageService
	bucket  string
}

// NewStorageResolver creates a resolver over bucket.
func NewStorageResolver(svc storage.StorageService, bucket string) *StorageResolver {
	return &StorageResolver{storage: svc, bucket: bucket}
}

func (r *StorageResolver) ResolveImage(ctx context.Context, ref string) (string, error) {
	if IsPublicRef(ref) {
		return ref, nil
	}
	presigned, err := r.storage.GenerateDownloadURL(ctx, r.bucket, strings.TrimPrefix(ref, "/"))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// IsPublicRef reports whether ref is already loadable without presigning.
func IsPublicRef(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "assets/") ||
		strings.HasPrefix(lower, "/assets/")
}
