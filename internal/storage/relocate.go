package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// relocateTimeout bounds the fetch-and-upload of one inbound photo.
const relocateTimeout = 30 * time.Second

// MediaFetcher downloads an inbound media attachment from the provider.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, mediaURL string) (io.ReadCloser, string, error)
}

// PhotoRelocator moves inbound job photos from provider-hosted URLs into
// object storage.
type PhotoRelocator struct {
	storage Service
	fetcher MediaFetcher
	bucket  string
}

// NewPhotoRelocator creates a relocator for the given bucket. Returns nil
// when storage is unavailable; a nil relocator reports itself as disabled.
func NewPhotoRelocator(storage Service, fetcher MediaFetcher, bucket string) *PhotoRelocator {
	if storage == nil || fetcher == nil {
		return nil
	}
	return &PhotoRelocator{storage: storage, fetcher: fetcher, bucket: bucket}
}

// Relocate downloads the media and stores it under jobs/{jobID}/{filename},
// returning the new locator and object key. A nil relocator returns an error
// so the caller keeps the original URL.
func (p *PhotoRelocator) Relocate(ctx context.Context, jobID int64, mediaURL string) (string, string, error) {
	if p == nil {
		return "", "", fmt.Errorf("photo storage not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, relocateTimeout)
	defer cancel()

	body, contentType, err := p.fetcher.FetchMedia(ctx, mediaURL)
	if err != nil {
		return "", "", err
	}
	defer func() {
		_ = body.Close()
	}()

	key := fmt.Sprintf("jobs/%d/%s", jobID, objectName(mediaURL))
	if err := p.storage.UploadObject(ctx, p.bucket, key, contentType, body, -1); err != nil {
		return "", "", err
	}

	return fmt.Sprintf("s3://%s/%s", p.bucket, key), key, nil
}

// objectName derives a collision-safe filename from the media URL.
func objectName(mediaURL string) string {
	base := path.Base(strings.SplitN(mediaURL, "?", 2)[0])
	if base == "." || base == "/" || base == "" {
		base = "media"
	}
	return fmt.Sprintf("%s_%s", uuid.New().String()[:8], base)
}
