package storage

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/abduss/sharebox/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	minioDefaultPort   = "9000"
	bucketProbeTimeout = 5 * time.Second
)

// NewObjectStoreClient connects to the MinIO endpoint backing the blob store.
func NewObjectStoreClient(cfg config.MinIOConfig) (*minio.Client, error) {
	endpoint := cfg.Endpoint
	if _, _, err := net.SplitHostPort(endpoint); err != nil {
		endpoint = net.JoinHostPort(endpoint, minioDefaultPort)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	return client, nil
}

// PrepareBucket provisions the blob bucket on first run. Existing buckets are
// left untouched.
func PrepareBucket(ctx context.Context, client *minio.Client, cfg config.MinIOConfig) error {
	ctx, cancel := context.WithTimeout(ctx, bucketProbeTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("probe bucket %q: %w", cfg.Bucket, err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		return fmt.Errorf("provision bucket %q: %w", cfg.Bucket, err)
	}

	return nil
}
