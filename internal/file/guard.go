package file

import "github.com/google/uuid"

// AuthorizeOwner compares the caller against the record's owner. Every
// owner-scoped read must pass through here before the blob store is touched.
func AuthorizeOwner(rec Record, callerID uuid.UUID) error {
	if rec.OwnerID != callerID {
		return ErrPermissionDenied
	}
	return nil
}
