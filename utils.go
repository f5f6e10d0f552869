package sharebox

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeyLength is the S3 object key limit in bytes.
const MaxKeyLength = 1024

// IsValidKey validates that a key is a single, safe object name.
// It checks that the key:
//   - is not empty, "." or ".."
//   - contains no path separators ("/" or "\")
//   - contains none of the characters ? # ~
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20), DEL (0x7f), or whitespace
//   - is at most 1024 bytes long (the S3 key limit)
//
// Returns true if the key is valid, false otherwise.
func IsValidKey(k string) bool {
	if k == "" || k == "." || k == ".." {
		return false
	}

	if len(k) > MaxKeyLength {
		return false
	}

	if strings.ContainsAny(k, `/\?#~`) {
		return false
	}

	if !utf8.ValidString(k) {
		return false
	}

	for _, r := range k {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
