package share

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abduss/sharebox/internal/file"
	"github.com/google/uuid"
)

const (
	// tokenBytes gives 128 bits of entropy per token value.
	tokenBytes       = 16
	maxIssueAttempts = 3
	expiryFormat     = "2006-01-02 15:04:05"
)

type tokenStore interface {
	Insert(ctx context.Context, token Token) (Token, error)
	FindByValue(ctx context.Context, value string) (Token, error)
}

type fileCatalog interface {
	GetByID(ctx context.Context, fileID uuid.UUID) (file.Record, error)
}

type blobStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Service issues and resolves expiring share tokens.
type Service struct {
	tokens  tokenStore
	files   fileCatalog
	blobs   blobStore
	ttl     time.Duration
	baseURL string
	nowFunc func() time.Time
}

// NewService constructs a share service with the default 24h validity window
// unless configured otherwise.
func NewService(tokens tokenStore, files fileCatalog, blobs blobStore, ttl time.Duration, baseURL string) *Service {
	return &Service{
		tokens:  tokens,
		files:   files,
		blobs:   blobs,
		ttl:     ttl,
		baseURL: baseURL,
		nowFunc: time.Now,
	}
}

// Issue creates a share token for the file, restricted to its owner. The
// token value comes from a cryptographically strong source; the database
// unique constraint makes the uniqueness check and insert atomic, and a
// collision simply triggers regeneration.
func (s *Service) Issue(ctx context.Context, fileID, callerID uuid.UUID) (Token, LinkResponse, error) {
	rec, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return Token{}, LinkResponse{}, err
	}

	if err := file.AuthorizeOwner(rec, callerID); err != nil {
		return Token{}, LinkResponse{}, err
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		value, err := generateTokenValue()
		if err != nil {
			return Token{}, LinkResponse{}, fmt.Errorf("generate token value: %w", err)
		}

		now := s.nowFunc()
		token := Token{
			Value:     value,
			FileID:    rec.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}

		stored, err := s.tokens.Insert(ctx, token)
		if err != nil {
			if errors.Is(err, ErrTokenExists) {
				continue
			}
			return Token{}, LinkResponse{}, err
		}

		return stored, s.linkResponse(stored), nil
	}

	return Token{}, LinkResponse{}, ErrIssuanceFailed
}

// Resolve validates a token and re-resolves its file. Possession of a live
// token is the sole authorization factor; no ownership check happens here. A
// token whose file no longer resolves reads as invalid, so broken references
// leak nothing to anonymous callers.
func (s *Service) Resolve(ctx context.Context, value string) (file.Record, Token, error) {
	token, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		return file.Record{}, Token{}, err
	}

	if !token.Live(s.nowFunc()) {
		return file.Record{}, Token{}, ErrTokenExpired
	}

	rec, err := s.files.GetByID(ctx, token.FileID)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			return file.Record{}, Token{}, ErrInvalidToken
		}
		return file.Record{}, Token{}, err
	}

	return rec, token, nil
}

// Open resolves the token and opens the underlying blob for download.
func (s *Service) Open(ctx context.Context, value string) (file.Record, io.ReadCloser, error) {
	rec, _, err := s.Resolve(ctx, value)
	if err != nil {
		return file.Record{}, nil, err
	}

	reader, err := s.blobs.Get(ctx, rec.StorageKey)
	if err != nil {
		if errors.Is(err, file.ErrObjectNotFound) {
			return file.Record{}, nil, ErrInvalidToken
		}
		return file.Record{}, nil, err
	}

	return rec, reader, nil
}

func (s *Service) linkResponse(token Token) LinkResponse {
	return LinkResponse{
		ShareLink:  fmt.Sprintf("%s/%s", s.baseURL, token.Value),
		Token:      token.Value,
		ExpiryTime: token.ExpiresAt.Format(expiryFormat),
		Message:    fmt.Sprintf("Share link generated successfully. Valid for %d hours.", int(s.ttl.Hours())),
	}
}

func generateTokenValue() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
