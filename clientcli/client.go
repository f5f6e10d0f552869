package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

const (
	tokenHeader    = "share-token"
	filenameHeader = "share-filename"
)

// Client performs operations against a sharebox server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// UploadFile uploads a local file. The filename hint defaults to the file's
// base name.
func (c *Client) UploadFile(ctx context.Context, opts UploadOptions) (UploadResult, error) {
	if opts.LocalPath == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	file, err := os.Open(opts.LocalPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	hint := opts.Filename
	switch {
	case opts.Screenshot:
		hint = ScreenshotHint
	case hint == "":
		hint = filepath.Base(opts.LocalPath)
	}

	result, err := c.upload(ctx, namedReader{Reader: file, hint: hint, hasHint: true})
	if err != nil {
		return UploadResult{}, err
	}
	result.LocalPath = opts.LocalPath
	return result, nil
}

// Upload sends r as a text paste. The server stores it as a .txt object
// without a filename.
func (c *Client) Upload(ctx context.Context, r io.Reader) (UploadResult, error) {
	return c.upload(ctx, namedReader{Reader: r, hint: TextHint, hasHint: true})
}

// UploadNamed sends r with an explicit filename hint.
func (c *Client) UploadNamed(ctx context.Context, r io.Reader, filename string) (UploadResult, error) {
	return c.upload(ctx, namedReader{Reader: r, hint: filename, hasHint: true})
}

func (c *Client) upload(ctx context.Context, body namedReader) (UploadResult, error) {
	if c.config.Token == "" {
		return UploadResult{}, fmt.Errorf("upload: %w", ErrTokenRequired)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/upload", bytes.NewReader(content))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(tokenHeader, c.config.Token)
	if body.hasHint {
		req.Header.Set(filenameHeader, body.hint)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	// A rejected token may come back with 200, so the envelope decides.
	var env uploadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return UploadResult{}, parseServerError(resp.StatusCode, raw)
		}
		return UploadResult{}, fmt.Errorf("parse response: %w", err)
	}
	if env.Error != nil {
		return UploadResult{}, &APIError{StatusCode: resp.StatusCode, Body: env.Error.Message}
	}
	if env.Ok == nil || resp.StatusCode != http.StatusOK {
		return UploadResult{}, parseServerError(resp.StatusCode, raw)
	}

	return UploadResult{
		URL:  env.Ok.Message,
		Key:  KeyFromURL(env.Ok.Message),
		Size: int64(len(content)),
	}, nil
}

// CheckEndpoint posts an upload without a token and expects the token
// rejection envelope back, which only a sharebox server sends. Nothing is
// stored.
func (c *Client) CheckEndpoint(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/upload", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", ErrNotShareServer, resp.StatusCode)
	}
	var env uploadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return fmt.Errorf("%w: unexpected body %q", ErrNotShareServer, truncate(string(raw), 80))
	}
	return nil
}

// Download fetches an object.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	key := KeyFromURL(opts.Key)
	if key == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/"+url.PathEscape(key), http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		Key:         key,
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = key
		if result.Filename != "" {
			localPath = filepath.Base(result.Filename)
		}
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// KeyFromURL returns the file id of a share URL. A bare id is returned as is.
func KeyFromURL(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		s = u.Path
	}
	s = strings.Trim(s, "/")
	if s == "" {
		return ""
	}
	return path.Base(s)
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested file does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrPayloadTooLarge is returned when the upload exceeds the server cap (413).
	ErrPayloadTooLarge = &APIError{StatusCode: http.StatusRequestEntityTooLarge}
)

// IsInvalidToken reports whether err is a token rejection. Servers may send
// it with either 200 or 401.
func IsInvalidToken(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.Body == "Invalid token"
}
