// Package storage provides a domain-agnostic interface for S3-compatible
// object storage, plus the job-photo relocation adapter built on it.
package storage

import (
	"context"
	"io"
)

// Service defines the interface for object storage operations.
type Service interface {
	// UploadObject uploads an object from an io.Reader under the given key.
	// size may be -1 when unknown.
	UploadObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}
