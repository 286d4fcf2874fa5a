package share

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/abduss/sharebox/internal/file"
	"github.com/google/uuid"
)

const testBaseURL = "http://localhost:8080/v1/share/download"

func newTestService(ttl time.Duration) (*Service, *fakeTokenStore, *fakeFileCatalog, *fakeBlobs) {
	tokens := newFakeTokenStore()
	files := newFakeFileCatalog()
	blobs := newFakeBlobs()
	service := NewService(tokens, files, blobs, ttl, testBaseURL)
	return service, tokens, files, blobs
}

func addFile(files *fakeFileCatalog, blobs *fakeBlobs, ownerID uuid.UUID, content []byte) file.Record {
	rec := file.Record{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		OriginalName: "notes.txt",
		Extension:    "txt",
		SizeBytes:    int64(len(content)),
		StorageKey:   uuid.NewString() + ".txt",
		UploadedAt:   time.Now(),
	}
	files.records[rec.ID] = rec
	blobs.objects[rec.StorageKey] = content
	return rec
}

func TestIssueAndResolveRoundTrip(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.nowFunc = func() time.Time { return issuedAt }

	token, link, err := service.Issue(context.Background(), rec.ID, ownerID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if !token.ExpiresAt.Equal(token.CreatedAt.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry = createdAt + 24h, got %v", token.ExpiresAt.Sub(token.CreatedAt))
	}
	if link.Token != token.Value {
		t.Fatalf("link token mismatch")
	}
	if link.ShareLink != testBaseURL+"/"+token.Value {
		t.Fatalf("unexpected share link: %s", link.ShareLink)
	}
	if link.ExpiryTime != "2025-06-02 12:00:00" {
		t.Fatalf("unexpected formatted expiry: %s", link.ExpiryTime)
	}

	// Resolution takes no caller identity: the token alone grants access.
	got, resolved, err := service.Resolve(context.Background(), token.Value)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("resolved wrong file")
	}
	if resolved.Value != token.Value {
		t.Fatalf("resolved wrong token")
	}
}

func TestIssueRequiresOwnership(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	rec := addFile(files, blobs, uuid.New(), []byte("payload"))

	_, _, err := service.Issue(context.Background(), rec.ID, uuid.New())
	if !errors.Is(err, file.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestIssueUnknownFile(t *testing.T) {
	service, _, _, _ := newTestService(24 * time.Hour)

	_, _, err := service.Issue(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, file.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	service, tokens, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.nowFunc = func() time.Time { return issuedAt }

	token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	service.nowFunc = func() time.Time { return issuedAt.Add(24*time.Hour + time.Second) }

	if _, _, err := service.Resolve(context.Background(), token.Value); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Soft expiry: the record stays persisted, it is just inert.
	if _, ok := tokens.byValue[token.Value]; !ok {
		t.Fatalf("expected expired token to remain persisted")
	}
}

func TestResolveUnknownToken(t *testing.T) {
	service, _, _, _ := newTestService(24 * time.Hour)

	if _, _, err := service.Resolve(context.Background(), "never-issued"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveBrokenFileReference(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// A token whose file vanished must read the same as a bad token.
	delete(files.records, rec.ID)

	if _, _, err := service.Resolve(context.Background(), token.Value); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for broken reference, got %v", err)
	}
}

func TestIssueRetriesOnCollision(t *testing.T) {
	service, tokens, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	tokens.collisions = 2
	if _, _, err := service.Issue(context.Background(), rec.ID, ownerID); err != nil {
		t.Fatalf("expected issuance to survive two collisions, got %v", err)
	}

	tokens.collisions = 3
	if _, _, err := service.Issue(context.Background(), rec.ID, ownerID); !errors.Is(err, ErrIssuanceFailed) {
		t.Fatalf("expected ErrIssuanceFailed after exhausted retries, got %v", err)
	}
}

func TestIssuedTokenValuesAreUnique(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
		if err != nil {
			t.Fatalf("Issue %d returned error: %v", i, err)
		}
		if _, dup := seen[token.Value]; dup {
			t.Fatalf("duplicate token value after %d issuances", i)
		}
		seen[token.Value] = struct{}{}
	}
}

func TestOpenStreamsFileBytes(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	content := []byte("shared payload")
	rec := addFile(files, blobs, ownerID, content)

	token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	got, reader, err := service.Open(context.Background(), token.Value)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer reader.Close()

	if got.OriginalName != rec.OriginalName {
		t.Fatalf("unexpected record from Open")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read shared download: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Fatalf("shared bytes differ from upload")
	}
}

// --- helpers & fakes ---

type fakeTokenStore struct {
	byValue map[string]Token
	// collisions forces the next N inserts to report ErrTokenExists.
	collisions int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byValue: make(map[string]Token)}
}

func (f *fakeTokenStore) Insert(ctx context.Context, token Token) (Token, error) {
	if f.collisions > 0 {
		f.collisions--
		return Token{}, ErrTokenExists
	}
	if _, exists := f.byValue[token.Value]; exists {
		return Token{}, ErrTokenExists
	}
	token.ID = uuid.New()
	f.byValue[token.Value] = token
	return token, nil
}

func (f *fakeTokenStore) FindByValue(ctx context.Context, value string) (Token, error) {
	token, ok := f.byValue[value]
	if !ok {
		return Token{}, ErrInvalidToken
	}
	return token, nil
}

type fakeFileCatalog struct {
	records map[uuid.UUID]file.Record
}

func newFakeFileCatalog() *fakeFileCatalog {
	return &fakeFileCatalog{records: make(map[uuid.UUID]file.Record)}
}

func (f *fakeFileCatalog) GetByID(ctx context.Context, fileID uuid.UUID) (file.Record, error) {
	rec, ok := f.records[fileID]
	if !ok {
		return file.Record{}, file.ErrFileNotFound
	}
	return rec, nil
}

type fakeBlobs struct {
	objects map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, file.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
