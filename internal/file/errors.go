package file

import "errors"

var (
	// ErrEmptyFile rejects uploads with no content.
	ErrEmptyFile = errors.New("empty file")
	// ErrFileTooLarge signals that the upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType rejects extensions outside the allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileNotFound signals that the catalog has no such record.
	ErrFileNotFound = errors.New("file not found")
	// ErrPermissionDenied is returned when the caller does not own the record.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrObjectNotFound signals a storage key with no backing object.
	ErrObjectNotFound = errors.New("object not found")
)
