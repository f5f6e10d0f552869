package sharebox

import (
	"crypto/sha1" //#nosec G505 -- short public identifiers, not a security boundary
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel filename hints sent by the screenshot and text-paste clients.
// They select a format but never produce a filename tag.
const (
	ScreenshotHint = ">sc"
	TextHint       = ">txt"
)

// DefaultFormat is used when the client sends no filename hint.
const DefaultFormat = "txt"

// KeyIDLength is the number of hex characters in a generated key.
const KeyIDLength = 10

// Resolution is the outcome of resolving a client filename hint.
type Resolution struct {
	Format           string
	OriginalFilename string
	HasFilename      bool
}

// ResolveHint derives the key extension and the filename tag from the
// optional share-filename hint. present reports whether the client sent one.
//
// The rules are deterministic and never fail:
//   - no hint: format "txt", no filename
//   - last dot segment ">sc" or ">txt": format "png" or "txt"
//   - a single segment (no dot): empty format
//   - a last segment that cannot end a key ("2 final", "txt~", "c#"): empty format
//   - otherwise: the last dot segment
//
// The hint becomes the filename tag verbatim unless it is exactly one of
// the sentinel values. An empty hint is treated as no hint at all, so it
// yields "txt" and no tag rather than an empty format and an empty tag.
func ResolveHint(hint string, present bool) Resolution {
	if !present || hint == "" {
		return Resolution{Format: DefaultFormat}
	}

	parts := strings.Split(hint, ".")
	last := parts[len(parts)-1]

	var format string
	switch {
	case last == ScreenshotHint:
		format = "png"
	case last == TextHint:
		format = "txt"
	case len(parts) >= 2 && isKeyExtension(last):
		format = last
	}

	res := Resolution{Format: format}
	if hint != ScreenshotHint && hint != TextHint {
		res.OriginalFilename = hint
		res.HasFilename = true
	}
	return res
}

// isKeyExtension reports whether ext can follow the generated id without
// producing a key that retrieval would reject.
func isKeyExtension(ext string) bool {
	return IsValidKey(ext) && len(ext) <= MaxKeyLength-KeyIDLength-1
}

// KeyGenerator produces a fresh short identifier for each call.
type KeyGenerator func() string

// TimestampKeyGenerator hashes the current local wall-clock time together
// with a random nonce and keeps the first KeyIDLength hex characters.
func TimestampKeyGenerator(now func() time.Time) KeyGenerator {
	if now == nil {
		now = time.Now
	}
	return func() string {
		h := sha1.New() //#nosec G401
		h.Write([]byte(now().Local().Format(time.RFC3339Nano)))
		h.Write([]byte(uuid.NewString()))
		return hex.EncodeToString(h.Sum(nil))[:KeyIDLength]
	}
}

// BuildKey appends the format as an extension when it is non-empty.
func BuildKey(id, format string) string {
	if format == "" {
		return id
	}
	return id + "." + format
}
