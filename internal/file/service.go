package file

import (
	"context"
	"fmt"
	"io"
	"mime"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type catalog interface {
	Create(ctx context.Context, meta Record) (Record, error)
	GetByID(ctx context.Context, fileID uuid.UUID) (Record, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Record, error)
}

type blobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// Service orchestrates validated uploads and ownership-scoped reads.
type Service struct {
	catalog   catalog
	blobs     blobStore
	validator *Validator
	log       *zap.Logger
}

// NewService constructs a file service. A nil logger disables logging.
func NewService(catalog catalog, blobs blobStore, validator *Validator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:   catalog,
		blobs:     blobs,
		validator: validator,
		log:       log,
	}
}

// Upload validates the payload, streams it into the blob store under a fresh
// storage key, then records the metadata. Validation runs fully before any
// bytes are written.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, rawName string, declaredSize int64, reader io.Reader) (Record, error) {
	ext, err := s.validator.Validate(rawName, declaredSize)
	if err != nil {
		return Record{}, err
	}

	// The storage key never echoes the user-supplied name.
	storageKey := fmt.Sprintf("%s.%s", uuid.NewString(), ext)

	if err := s.blobs.Put(ctx, storageKey, reader, declaredSize, contentTypeFor(ext)); err != nil {
		return Record{}, err
	}

	meta := Record{
		OwnerID:      ownerID,
		OriginalName: rawName,
		Extension:    ext,
		SizeBytes:    declaredSize,
		StorageKey:   storageKey,
	}

	stored, err := s.catalog.Create(ctx, meta)
	if err != nil {
		if removeErr := s.blobs.Remove(ctx, storageKey); removeErr != nil {
			s.log.Warn("orphaned blob left after catalog failure",
				zap.String("storage_key", storageKey),
				zap.Error(removeErr))
		}
		return Record{}, err
	}

	return stored, nil
}

// List returns the caller's records in upload order.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	return s.catalog.ListByOwner(ctx, ownerID)
}

// Download returns the record and an object reader, restricted to the owner.
func (s *Service) Download(ctx context.Context, callerID, fileID uuid.UUID) (Record, io.ReadCloser, error) {
	meta, err := s.catalog.GetByID(ctx, fileID)
	if err != nil {
		return Record{}, nil, err
	}

	if err := AuthorizeOwner(meta, callerID); err != nil {
		return Record{}, nil, err
	}

	object, err := s.blobs.Get(ctx, meta.StorageKey)
	if err != nil {
		return Record{}, nil, err
	}

	return meta, object, nil
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
