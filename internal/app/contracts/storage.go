package contracts

import (
	"context"
	"io"
)

type StorageService interface {
	// UploadImage stores the object and returns its object name.
	UploadImage(ctx context.Context, reader io.Reader, size int64, contentType, prefix string) (objectName string, err error)
	// PresignedURL returns a time-limited public URL for a stored object.
	PresignedURL(ctx context.Context, objectName string) (string, error)
}
