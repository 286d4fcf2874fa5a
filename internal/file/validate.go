package file

import (
	"strings"

	"github.com/abduss/sharebox/internal/config"
)

// Validator enforces size and extension policy before any bytes are stored.
type Validator struct {
	maxSizeBytes int64
	allowed      map[string]struct{}
}

// NewValidator builds a Validator from upload configuration.
func NewValidator(cfg config.UploadConfig) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Validator{
		maxSizeBytes: cfg.MaxFileSizeBytes,
		allowed:      allowed,
	}
}

// Validate checks the declared size and filename against policy and returns
// the lower-cased extension. It has no side effects.
func (v *Validator) Validate(rawName string, declaredSize int64) (string, error) {
	if declaredSize <= 0 {
		return "", ErrEmptyFile
	}
	if declaredSize > v.maxSizeBytes {
		return "", ErrFileTooLarge
	}

	ext := extensionOf(rawName)
	if _, ok := v.allowed[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// extensionOf returns the lower-cased substring after the last dot. A name
// without a dot yields the empty string, which never passes the allow-list.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
