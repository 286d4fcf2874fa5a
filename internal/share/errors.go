package share

import "errors"

var (
	// ErrInvalidToken covers unknown token values and tokens whose file no
	// longer resolves. The two cases are indistinguishable to callers.
	ErrInvalidToken = errors.New("invalid share token")
	// ErrTokenExpired is returned for tokens past their expiry. The record
	// stays persisted but is permanently inert.
	ErrTokenExpired = errors.New("share token expired")
	// ErrTokenExists signals a token value collision on insert.
	ErrTokenExists = errors.New("share token already exists")
	// ErrIssuanceFailed is returned when token generation exhausts its retries.
	ErrIssuanceFailed = errors.New("share token issuance failed")
)
