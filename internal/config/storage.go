package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/interview-prep/internal/storage"
)

// NewStorageConfig reads the blob store settings from S3_ENDPOINT,
// S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION and S3_USE_SSL.
// It returns nil when S3_ENDPOINT is unset.
func NewStorageConfig() (*storage.S3Config, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	cfg := &storage.S3Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
		UseSSL:    true,
	}
	if cfg.Bucket == "" {
		cfg.Bucket = storage.DefaultBucket
	}
	if v := os.Getenv("S3_USE_SSL"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid S3_USE_SSL: %v", err)
		}
		cfg.UseSSL = useSSL
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}
	return cfg, nil
}
