package sharebox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ObjectStore defines the operations the gateway needs from an
// S3-compatible object store. Implementations must be safe for concurrent
// use by many request goroutines.
//
// All methods accept a context for cancellation and timeout control.
// Implementations should respect context cancellation and return errors
// that wrap context.DeadlineExceeded when a deadline fires.
type ObjectStore interface {
	// EnsureBucket guarantees that bucket exists, creating it if needed.
	// It must be idempotent: a concurrent creator winning the race is not
	// an error.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject stores content under key, replacing any existing object.
	PutObject(ctx context.Context, bucket, key string, content []byte, contentType string) error

	// SetObjectTag attaches a string tag to an existing object.
	SetObjectTag(ctx context.Context, bucket, key, name, value string) error

	// GetObject returns the full content of an object.
	// Returns ErrNotFound if the key does not exist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// GetObjectTags returns the tags of an object, or an empty map when it
	// has none. Returns ErrNotFound if the key does not exist.
	GetObjectTags(ctx context.Context, bucket, key string) (map[string]string, error)

	// ObjectExists reports whether key is already taken.
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)
}

// Observer receives the outcome of every backend call. It is optional.
type Observer interface {
	ObserveBackend(op string, err error, duration time.Duration)
}

// ServiceConfig holds configuration options for ShareService.
type ServiceConfig struct {
	Bucket         string
	BackendTimeout time.Duration // Timeout applied to each backend call (default: 30s)
	KeyAttempts    int           // Key generation attempts before giving up (default: 5)
	Verifier       *TokenVerifier
	KeyGenerator   KeyGenerator // default: TimestampKeyGenerator(time.Now)
	Observer       Observer
}

// ShareService implements the upload and retrieval flows on top of an
// ObjectStore.
type ShareService struct {
	store          ObjectStore
	bucket         string
	backendTimeout time.Duration
	keyAttempts    int
	verifier       *TokenVerifier
	generateKey    KeyGenerator
	observer       Observer
}

func NewShareService(store ObjectStore, cfg ServiceConfig) (*ShareService, error) {
	if store == nil {
		return nil, fmt.Errorf("new share service: %w: store is required", ErrInvalidInput)
	}
	if cfg.Verifier == nil {
		return nil, fmt.Errorf("new share service: %w: token verifier is required", ErrInvalidInput)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	timeout := cfg.BackendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.KeyAttempts
	if attempts <= 0 {
		attempts = 5
	}
	gen := cfg.KeyGenerator
	if gen == nil {
		gen = TimestampKeyGenerator(time.Now)
	}

	return &ShareService{
		store:          store,
		bucket:         bucket,
		backendTimeout: timeout,
		keyAttempts:    attempts,
		verifier:       cfg.Verifier,
		generateKey:    gen,
		observer:       cfg.Observer,
	}, nil
}

// Bucket returns the bucket this service reads and writes.
func (s *ShareService) Bucket() string {
	return s.bucket
}

// Bootstrap makes sure the bucket exists. Upload calls it on every request;
// calling it at startup only moves the first creation out of the request path.
func (s *ShareService) Bootstrap(ctx context.Context) error {
	return s.call(ctx, "ensure_bucket", ErrStorageWrite, func(ctx context.Context) error {
		return s.store.EnsureBucket(ctx, s.bucket)
	})
}

// Upload verifies the token, resolves the key, and stores the object.
//
// The method performs the following steps:
//  1. Verifies the shared token (no backend call happens on failure)
//  2. Resolves format and filename tag from the filename hint
//  3. Ensures the bucket exists
//  4. Picks a key not already present in the bucket
//  5. Writes the body
//  6. Tags the object with the original filename, when there is one
//
// Error types returned:
//   - ErrUnauthorized: token mismatch
//   - ErrStorageWrite: bootstrap or write failed
//   - ErrStorageRead: the key collision check failed
//   - ErrStorageTag: tagging failed (the object itself was stored)
//   - ErrTimeout: a backend call exceeded the configured timeout
//   - ErrKeyCollision: every generated key was already taken
//
// Nothing is retried, and a failed tag does not remove the stored object.
func (s *ShareService) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if err := s.verifier.Verify(req.Token); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	res := ResolveHint(req.ClientFilename, req.HasFilename)

	if err := s.Bootstrap(ctx); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	key, err := s.freeKey(ctx, res.Format)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	contentType := ContentTypeFor(res.Format)
	err = s.call(ctx, "put_object", ErrStorageWrite, func(ctx context.Context) error {
		return s.store.PutObject(ctx, s.bucket, key, req.Body, contentType)
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", key, err)
	}

	result := UploadResult{Key: key, Size: int64(len(req.Body))}

	if res.HasFilename {
		err = s.call(ctx, "set_object_tag", ErrStorageTag, func(ctx context.Context) error {
			return s.store.SetObjectTag(ctx, s.bucket, key, FilenameTag, res.OriginalFilename)
		})
		if err != nil {
			return UploadResult{}, fmt.Errorf("upload %s: %w", key, err)
		}
		result.OriginalFilename = res.OriginalFilename
		result.Tagged = true
	}

	slog.Info("a new file has been received", "key", key, "size", result.Size, "tagged", result.Tagged)
	return result, nil
}

func (s *ShareService) freeKey(ctx context.Context, format string) (string, error) {
	for range s.keyAttempts {
		key := BuildKey(s.generateKey(), format)

		var exists bool
		err := s.call(ctx, "object_exists", ErrStorageRead, func(ctx context.Context) error {
			var err error
			exists, err = s.store.ObjectExists(ctx, s.bucket, key)
			return err
		})
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
		slog.Warn("generated key already taken", "key", key)
	}
	return "", fmt.Errorf("%w: %d attempts", ErrKeyCollision, s.keyAttempts)
}

// Get reads an object and its filename tag back.
//
// Error types returned:
//   - ErrNotFound: key is malformed or does not exist
//   - ErrStorageRead: the backend failed to read content or tags
//   - ErrTimeout: a backend call exceeded the configured timeout
func (s *ShareService) Get(ctx context.Context, key string) (StoredObject, error) {
	if !IsValidKey(key) {
		return StoredObject{}, fmt.Errorf("get object: %w", ErrNotFound)
	}

	obj := StoredObject{
		Key:         key,
		ContentType: ContentTypeFor(ExtensionOf(key)),
	}

	err := s.call(ctx, "get_object", ErrStorageRead, func(ctx context.Context) error {
		var err error
		obj.Content, err = s.store.GetObject(ctx, s.bucket, key)
		return err
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("get object %s: %w", key, err)
	}

	var tags map[string]string
	err = s.call(ctx, "get_object_tags", ErrStorageRead, func(ctx context.Context) error {
		var err error
		tags, err = s.store.GetObjectTags(ctx, s.bucket, key)
		return err
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("get object %s: %w", key, err)
	}

	if name, ok := tags[FilenameTag]; ok {
		obj.OriginalFilename = name
		obj.HasFilename = true
	}

	return obj, nil
}

// call runs one backend operation under the configured timeout and
// classifies its failure. ErrNotFound passes through untouched.
func (s *ShareService) call(ctx context.Context, op string, kind error, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.backendTimeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	if s.observer != nil {
		s.observer.ObserveBackend(op, err, time.Since(start))
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
}
