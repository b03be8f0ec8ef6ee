/*
Package storage provides object storage for message file attachments and
group pictures.

Files never pass through this server: clients upload and download directly
against time-limited pre-signed URLs, and only the resulting storage key
travels through the chat engine (as a message's fileUrl or a group's picture
reference).
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// FileStorage defines the public interface for the file storage service.
type FileStorage interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewFileStorage is the factory function for FileStorage.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewFileStorage(cfg ServiceConfig) (FileStorage, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
