package clientcli

import "io"

// Filename hints with a special meaning to the server. Neither is stored as
// the object's filename.
const (
	ScreenshotHint = ">sc"
	TextHint       = ">txt"
)

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	// Filename is sent as the share-filename header. When empty the base
	// name of LocalPath is used.
	Filename string
	// Screenshot sends the screenshot hint instead of a filename.
	Screenshot bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	URL       string `json:"url"`
	Key       string `json:"file_id"`
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	// Key is a file id or a full URL returned by an upload.
	Key       string
	LocalPath string // empty = original filename or file id, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	Key         string `json:"file_id"`
	LocalPath   string `json:"local_path"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// uploadEnvelope mirrors the JSON body of POST /upload.
type uploadEnvelope struct {
	Ok    *envelopeMessage `json:"Ok"`
	Error *envelopeMessage `json:"Error"`
}

type envelopeMessage struct {
	Message string `json:"message"`
}

// namedReader pairs a body with the filename hint sent for it.
type namedReader struct {
	io.Reader
	hint    string
	hasHint bool
}
