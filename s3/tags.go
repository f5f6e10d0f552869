package s3

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const (
	encodedPrefix = "b64:"
	maxTagValue   = 256
)

// EncodeTagValue makes value acceptable as an S3 tag value. Values already in
// the S3 tag alphabet are returned unchanged. Anything else is stored as
// "b64:" followed by unpadded base64url, truncated on a rune boundary so the
// result stays within the 256 character limit.
func EncodeTagValue(value string) string {
	if isPlainTagValue(value) {
		return value
	}

	// (256 - len(prefix)) * 3 / 4 source bytes fit after encoding.
	limit := (maxTagValue - len(encodedPrefix)) * 3 / 4
	if len(value) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut]
	}
	return encodedPrefix + base64.RawURLEncoding.EncodeToString([]byte(value))
}

// DecodeTagValue reverses EncodeTagValue. Malformed payloads are returned as stored.
func DecodeTagValue(value string) string {
	payload, ok := strings.CutPrefix(value, encodedPrefix)
	if !ok {
		return value
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return value
	}
	return string(raw)
}

func isPlainTagValue(v string) bool {
	if strings.HasPrefix(v, encodedPrefix) || utf8.RuneCountInString(v) > maxTagValue {
		return false
	}
	if !utf8.ValidString(v) {
		return false
	}
	for _, r := range v {
		if !tagRuneAllowed(r) {
			return false
		}
	}
	return true
}

// tagRuneAllowed matches the alphabet minio-go accepts for tag values:
// ASCII letters, digits, space and _ . : / = + - @.
func tagRuneAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune(" _.:/=+-@", r)
}
