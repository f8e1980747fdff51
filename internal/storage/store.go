// Package storage keeps uploaded documents in an S3 compatible blob store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// DefaultBucket is used when no bucket is configured.
const DefaultBucket = "interview-docs"

// SignedURLExpiry is how long a download URL stays valid.
const SignedURLExpiry = time.Hour

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Store defines the blob operations used for documents.
type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with an underscore.
func SanitizeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// StoredFileName prefixes the sanitized name with a millisecond timestamp.
func StoredFileName(original string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeFileName(original))
}

// ObjectKey builds the per-user, per-application key "<user>/<application>/<file>".
func ObjectKey(userID, applicationID, fileName string) string {
	return strings.Trim(userID, "/") + "/" + strings.Trim(applicationID, "/") + "/" + strings.TrimLeft(fileName, "/")
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object key is required")
	}
	return nil
}
