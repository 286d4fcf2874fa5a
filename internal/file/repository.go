package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

// Repository is the file catalog backed by PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new record, assigning its identifier and upload time. All
// other fields must already be validated by the caller.
func (r *Repository) Create(ctx context.Context, meta Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO files (id, owner_id, original_name, extension, size_bytes, storage_key, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, owner_id, original_name, extension, size_bytes, storage_key, uploaded_at;`

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		meta.OwnerID,
		meta.OriginalName,
		meta.Extension,
		meta.SizeBytes,
		meta.StorageKey,
	)

	var stored Record
	if err := row.Scan(&stored.ID, &stored.OwnerID, &stored.OriginalName, &stored.Extension, &stored.SizeBytes, &stored.StorageKey, &stored.UploadedAt); err != nil {
		return Record{}, fmt.Errorf("create file record: %w", err)
	}
	return stored, nil
}

// GetByID fetches a single record. Ownership is not checked here.
func (r *Repository) GetByID(ctx context.Context, fileID uuid.UUID) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, original_name, extension, size_bytes, storage_key, uploaded_at
FROM files
WHERE id = $1;`

	var meta Record
	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&meta.ID,
		&meta.OwnerID,
		&meta.OriginalName,
		&meta.Extension,
		&meta.SizeBytes,
		&meta.StorageKey,
		&meta.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("get file record: %w", err)
	}
	return meta, nil
}

// ListByOwner returns the owner's records in insertion order, keyed by the
// monotonic seq column; random UUIDs and same-instant timestamps cannot
// provide that ordering.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, owner_id, original_name, extension, size_bytes, storage_key, uploaded_at
FROM files
WHERE owner_id = $1
ORDER BY seq;`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []Record
	for rows.Next() {
		var meta Record
		if err := rows.Scan(&meta.ID, &meta.OwnerID, &meta.OriginalName, &meta.Extension, &meta.SizeBytes, &meta.StorageKey, &meta.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan file record: %w", err)
		}
		files = append(files, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}
