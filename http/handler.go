package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sharebox/sharebox"
	"github.com/sharebox/sharebox/metrics"
)

//go:embed favicon.ico
var defaultFavicon []byte

const (
	tokenHeader    = "share-token"
	filenameHeader = "share-filename"
)

type Service interface {
	Upload(ctx context.Context, req sharebox.UploadRequest) (sharebox.UploadResult, error)
	Get(ctx context.Context, key string) (sharebox.StoredObject, error)
}

// Recorder receives per-request outcomes. *metrics.Metrics implements it.
type Recorder interface {
	ObserveUpload(outcome string, size int64)
	ObserveRetrieval(outcome string)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// MaxPayload caps upload bodies in bytes. Zero disables the cap.
	MaxPayload int64
	// PublicURL, when set, replaces the scheme and host in returned links.
	PublicURL string
	// RejectStatus is the status sent with an invalid token (default 200).
	RejectStatus int
	// Favicon overrides the embedded icon.
	Favicon []byte
	CORS    CORSConfig

	Recorder       Recorder
	MetricsHandler http.Handler
	MetricsPath    string
}

// Handler serves the upload and retrieval endpoints.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.RejectStatus == 0 {
		cfg.RejectStatus = http.StatusOK
	}
	if len(cfg.Favicon) == 0 {
		cfg.Favicon = defaultFavicon
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Handler{config: cfg, service: service}
}

// Router returns the gateway's http.Handler.
//
// Routes:
//   - POST /upload: store the raw body, answer with a JSON envelope
//   - GET /{file_id}: stream an object back
//   - /favicon.ico: embedded icon (any method)
//   - GET /healthz: liveness probe
//   - metrics path: Prometheus exposition, when a metrics handler is set
//
// Everything else, including known paths with the wrong method, is a 404.
// Trailing slashes are stripped before routing.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(h.handleNotFound)
	r.MethodNotAllowed(h.handleNotFound)

	r.HandleFunc("/favicon.ico", h.handleFavicon)
	r.Get("/healthz", h.handleHealth)
	if h.config.MetricsHandler != nil {
		r.Method(http.MethodGet, h.config.MetricsPath, h.config.MetricsHandler)
	}

	r.With(LimitBody(h.config.MaxPayload)).Post("/upload", h.handleUpload)
	r.Get("/{file_id}", h.handleGet)

	return r
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: limit %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		} else {
			err = fmt.Errorf("read upload body: %w", err)
		}
		h.observeUpload(err, 0)
		HandleUploadError(w, err, h.config.RejectStatus)
		return
	}

	filenames := r.Header.Values(filenameHeader)
	req := sharebox.UploadRequest{
		Token:       r.Header.Get(tokenHeader),
		HasFilename: len(filenames) > 0,
		Body:        body,
	}
	if req.HasFilename {
		req.ClientFilename = filenames[0]
	}

	result, err := h.service.Upload(r.Context(), req)
	h.observeUpload(err, result.Size)
	if err != nil {
		HandleUploadError(w, err, h.config.RejectStatus)
		return
	}

	WriteUploadOK(w, h.baseURL(r)+"/"+url.PathEscape(result.Key))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "file_id")
	// chi routes on RawPath when the client's escaping differs from the
	// default, and the parameter is still escaped in that case.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(key)
		if err != nil {
			WriteNotFound(w)
			return
		}
		key = unescaped
	}

	obj, err := h.service.Get(r.Context(), key)
	if h.config.Recorder != nil {
		h.config.Recorder.ObserveRetrieval(metrics.Outcome(err))
	}
	if err != nil {
		HandleGetError(w, err)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.HasFilename {
		w.Header().Set("Content-Disposition", ContentDisposition(obj.OriginalFilename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Content)
}

func (h *Handler) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/x-icon")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.config.Favicon)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) observeUpload(err error, size int64) {
	if h.config.Recorder == nil {
		return
	}
	outcome := metrics.Outcome(err)
	if errors.Is(err, ErrPayloadTooLarge) {
		outcome = metrics.OutcomeTooLarge
	}
	h.config.Recorder.ObserveUpload(outcome, size)
}

// baseURL returns scheme://host as seen by the client.
func (h *Handler) baseURL(r *http.Request) string {
	if h.config.PublicURL != "" {
		return strings.TrimRight(h.config.PublicURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}

	host := r.Host
	if fwd := firstValue(r.Header.Get("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}

	return scheme + "://" + host
}

func firstValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

var dispositionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ContentDisposition builds an inline disposition carrying filename as a
// quoted string.
func ContentDisposition(filename string) string {
	return `inline; filename="` + dispositionEscaper.Replace(filename) + `"`
}
