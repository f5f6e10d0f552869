package sharebox

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultBucket is the single well-known bucket holding every upload.
	DefaultBucket = "share-files"

	// FilenameTag is the object tag carrying the client's original filename.
	FilenameTag = "filename"
)

// StoredObject is an uploaded object as read back from the backend.
type StoredObject struct {
	Key              string
	Content          []byte
	ContentType      string
	OriginalFilename string
	HasFilename      bool
}

// UploadRequest carries everything the gateway needs from one upload.
// HasFilename distinguishes an absent share-filename header from a present one.
type UploadRequest struct {
	Token          string
	ClientFilename string
	HasFilename    bool
	Body           []byte
}

// UploadResult describes a stored upload.
type UploadResult struct {
	Key              string
	Size             int64
	OriginalFilename string
	Tagged           bool
}

// Tables holds configurable table names for tag storage.
type Tables struct {
	Tags string `mapstructure:"tags"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Tags == "" {
		return errors.New("validate tables: tags table name cannot be empty")
	}

	if !IsValidTableName(t.Tags) {
		return fmt.Errorf("validate tables: invalid tags table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Tags)
	}

	return nil
}
