package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"my resume (final).pdf", "my_resume__final_.pdf"},
		{"履歴書.pdf", "___.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"cv-2024.v2.pdf", "cv-2024.v2.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestStoredFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-my_cv.pdf", StoredFileName("my cv.pdf", now))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "user-1/app-2/1700000000123-cv.pdf", ObjectKey("user-1", "app-2", "1700000000123-cv.pdf"))
	assert.Equal(t, "user-1/app-2/cv.pdf", ObjectKey("user-1/", "/app-2", "/cv.pdf"))
}

func TestNewS3Store_Validation(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewS3Store(S3Config{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "access key and secret key are required")

	store, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBucket, store.Bucket())
}

func TestS3Store_SignedURLIsLocal(t *testing.T) {
	store, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123", Bucket: "docs"})
	require.NoError(t, err)

	u, err := store.SignedURL(context.Background(), "user-1/app-2/cv.pdf", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/docs/user-1/app-2/cv.pdf?"), u)
	assert.Contains(t, u, "X-Amz-Expires=3600")

	_, err = store.SignedURL(context.Background(), " ", time.Hour)
	assert.Error(t, err)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := ObjectKey("user-1", "app-2", "cv.pdf")

	require.NoError(t, store.Upload(ctx, key, strings.NewReader("%PDF-1.7"), 8, "application/pdf"))

	data, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, []string{key}, store.Keys("user-1/"))

	u, err := store.SignedURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Contains(t, u, "memory:///"+key)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(key)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.SignedURL(ctx, key, time.Hour)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_RejectsEmptyKey(t *testing.T) {
	err := NewMemoryStore().Upload(context.Background(), "", strings.NewReader("x"), 1, "")
	assert.ErrorContains(t, err, "object key is required")
}
