package sharebox

import "strings"

// DefaultContentType is served for extensions missing from the table.
const DefaultContentType = "application/octet-stream"

// contentTypes must stay byte-for-byte stable: existing clients match on
// these exact strings.
var contentTypes = map[string]string{
	// image
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	// audio
	"aac":  "audio/aac",
	"mid":  "audio/midi",
	"midi": "audio/midi",
	"oga":  "audio/ogg",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	"weba": "audio/webm",
	// video
	"mp4":  "video/mp4",
	"mpeg": "video/mpeg",
	"ogv":  "video/ogg",
	"webm": "video/webm",
	// text
	"css":  "text/css",
	"csv":  "text/csv",
	"html": "text/html",
	"htm":  "text/html",
	"js":   "text/javascript",
	"mjs":  "text/javascript",
	"txt":  "text/plain",
	"":     "text/plain",
	// application
	"json": "application/json",
	"pdf":  "application/pdf",
}

// ContentTypeFor returns the MIME type served for an extension (without the
// leading dot). Lookups are case-sensitive.
func ContentTypeFor(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return DefaultContentType
}

// ExtensionOf returns the text after the last dot of key. A leading dot
// (".profile") does not start an extension.
func ExtensionOf(key string) string {
	i := strings.LastIndexByte(key, '.')
	if i <= 0 {
		return ""
	}
	return key[i+1:]
}
