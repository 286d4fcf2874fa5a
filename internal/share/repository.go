package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

// Repository persists share tokens in PostgreSQL. The share_tokens table
// carries a unique constraint on the token value, making check-and-insert a
// single atomic step.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a new token repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new token. A unique-constraint violation on the value is
// reported as ErrTokenExists so the caller can regenerate.
func (r *Repository) Insert(ctx context.Context, token Token) (Token, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO share_tokens (id, token, file_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, token, file_id, created_at, expires_at;`

	row := r.pool.QueryRow(ctx, query,
		uuid.New(),
		token.Value,
		token.FileID,
		token.CreatedAt,
		token.ExpiresAt,
	)

	var stored Token
	if err := row.Scan(&stored.ID, &stored.Value, &stored.FileID, &stored.CreatedAt, &stored.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return Token{}, ErrTokenExists
		}
		return Token{}, fmt.Errorf("insert share token: %w", err)
	}
	return stored, nil
}

// FindByValue looks a token up by exact value match.
func (r *Repository) FindByValue(ctx context.Context, value string) (Token, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT id, token, file_id, created_at, expires_at
FROM share_tokens
WHERE token = $1;`

	var token Token
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&token.ID,
		&token.Value,
		&token.FileID,
		&token.CreatedAt,
		&token.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrInvalidToken
		}
		return Token{}, fmt.Errorf("find share token: %w", err)
	}
	return token, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
