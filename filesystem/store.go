// Package filesystem provides a local-disk object store for sharebox.
// Buckets are top-level directories under a sandboxed root, writes are
// atomic (temp file and rename), and tags live in a sharebox.TagRepo.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sharebox/sharebox"
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
	tags sharebox.TagRepo
}

var _ sharebox.ObjectStore = (*Store)(nil)

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root, tags sharebox.TagRepo) *Store {
	return &Store{root: root, tags: tags}
}

// EnsureBucket creates the bucket directory. An existing directory is success.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sharebox.IsValidKey(bucket) {
		return fmt.Errorf("ensure bucket: %w: %q", sharebox.ErrInvalidInput, bucket)
	}

	err := s.root.Mkdir(bucket, 0o755)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// PutObject atomically writes content under bucket/key using a temp file and
// rename. The content type is derived from the key on read, so it is not stored.
func (s *Store) PutObject(ctx context.Context, bucket, key string, content []byte, _ string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	path, err := objectPath(bucket, key)
	if err != nil {
		return err
	}

	tmpFile := filepath.Join(bucket, tmpFileName())
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, &ctxReader{ctx: ctx, r: bytes.NewReader(content)}); err != nil {
		return fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	if renameErr := s.root.Rename(tmpFile, path); renameErr != nil {
		return fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return nil
}

// SetObjectTag records a tag for an existing object.
// Returns sharebox.ErrNotFound if the object does not exist.
func (s *Store) SetObjectTag(ctx context.Context, bucket, key, name, value string) error {
	exists, err := s.ObjectExists(ctx, bucket, key)
	if err != nil {
		return err
	}
	if !exists {
		return sharebox.ErrNotFound
	}

	if err := s.tags.SetTag(ctx, bucket, key, name, value); err != nil {
		return fmt.Errorf("set object tag %s: %w", key, err)
	}
	return nil
}

// GetObject reads the whole object. Returns sharebox.ErrNotFound if the file does not exist.
func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := objectPath(bucket, key)
	if err != nil {
		return nil, sharebox.ErrNotFound
	}

	f, err := s.root.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, sharebox.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(&ctxReader{ctx: ctx, r: f})
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// GetObjectTags returns the object's tags from the tag repository.
// Returns sharebox.ErrNotFound if the object does not exist.
func (s *Store) GetObjectTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	exists, err := s.ObjectExists(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharebox.ErrNotFound
	}

	tags, err := s.tags.GetTags(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get object tags %s: %w", key, err)
	}
	if tags == nil {
		tags = map[string]string{}
	}
	return tags, nil
}

func (s *Store) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := objectPath(bucket, key)
	if err != nil {
		return false, err
	}

	info, err := s.root.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

func objectPath(bucket, key string) (string, error) {
	if !sharebox.IsValidKey(bucket) || !sharebox.IsValidKey(key) {
		return "", fmt.Errorf("object path: %w: %s/%s", sharebox.ErrInvalidInput, bucket, key)
	}
	return filepath.Join(bucket, key), nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
