package file

import (
	"time"

	"github.com/google/uuid"
)

// Record is the catalog entry for one stored file. Records are immutable
// after creation.
type Record struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	OriginalName string
	Extension    string
	SizeBytes    int64
	StorageKey   string
	UploadedAt   time.Time
}

// Response is the caller-facing projection of a Record. The storage key and
// owner are deliberately omitted.
type Response struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"fileType"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"uploadTime"`
}

// ToResponse maps a Record to its response payload.
func (r Record) ToResponse() Response {
	return Response{
		ID:         r.ID,
		Filename:   r.OriginalName,
		FileType:   r.Extension,
		Size:       r.SizeBytes,
		UploadTime: r.UploadedAt,
	}
}
