package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage holds user-scoped blobs: profile photos and exported
// reports.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key, contentType string, data io.Reader) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PhotoKey is the canonical object key for a user's profile photo.
// One photo per user; uploads overwrite.
func PhotoKey(userID string) string {
	return fmt.Sprintf("photos/%s", userID)
}

// ReportKey is the object key for an exported grade report.
func ReportKey(userID, name string) string {
	return fmt.Sprintf("reports/%s/%s", userID, name)
}
