package share

import (
	"time"

	"github.com/google/uuid"
)

// Token is one expiring share credential bound to a single file. Tokens are
// immutable after creation; liveness is computed from ExpiresAt at read time,
// never stored.
type Token struct {
	ID        uuid.UUID
	Value     string
	FileID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Live reports whether the token grants access at the given instant.
func (t Token) Live(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// LinkResponse is returned to the owner after issuing a share link.
type LinkResponse struct {
	ShareLink  string `json:"shareLink"`
	Token      string `json:"token"`
	ExpiryTime string `json:"expiryTime"`
	Message    string `json:"message"`
}
