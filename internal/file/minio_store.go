package file

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOStore adapts minio.Client to the blob store contract. Objects live in
// a single flat bucket keyed by server-generated storage keys.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore constructs an adapter bound to one bucket.
func NewMinIOStore(client *minio.Client, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

// Put streams the object under the given key. MinIO exposes the object only
// after the full write succeeds, so a failed upload leaves nothing visible.
func (s *MinIOStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("store object: %w", err)
	}
	return nil
}

// Get opens the object for reading. A missing key yields ErrObjectNotFound;
// any other storage fault is reported as-is.
func (s *MinIOStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	// GetObject defers errors to the first read, so probe existence first to
	// keep "missing" distinguishable from "unreadable".
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch object: %w", err)
	}
	return object, nil
}

// Remove deletes the object. Used only to roll back failed uploads.
func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
