// Package s3 implements sharebox.ObjectStore on top of MinIO or any
// S3-compatible object store reachable through minio-go.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
	"github.com/sharebox/sharebox"
	"golang.org/x/sync/singleflight"
)

// Config describes how to reach the object store.
type Config struct {
	Endpoint  string
	Port      int
	AccessKey string
	SecretKey string
	Secure    bool
	Region    string
}

// Addr returns the host:port the client dials.
func (c Config) Addr() string {
	if c.Port == 0 {
		return c.Endpoint
	}
	return net.JoinHostPort(c.Endpoint, strconv.Itoa(c.Port))
}

// Store is a sharebox.ObjectStore backed by a single long-lived minio client.
type Store struct {
	client *minio.Client
	region string

	ensured sync.Map // bucket name -> struct{}
	flight  singleflight.Group
}

var _ sharebox.ObjectStore = (*Store)(nil)

// New builds the client. No network traffic happens until the first call.
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("new s3 store: %w: endpoint is required", sharebox.ErrInvalidInput)
	}

	client, err := minio.New(cfg.Addr(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("new s3 store: create minio client: %w", err)
	}

	return &Store{client: client, region: cfg.Region}, nil
}

// bucketCheckTimeout bounds a shared bucket check, which no single caller's
// context controls.
const bucketCheckTimeout = 30 * time.Second

// EnsureBucket checks for the bucket by name and creates it when missing.
// Concurrent callers for the same bucket share one round trip, and success
// is remembered for the lifetime of the Store.
//
// The shared check runs detached from the caller that started it, so one
// cancelled request does not fail the others waiting on it. Each caller
// still stops waiting when its own ctx is done.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	if _, ok := s.ensured.Load(bucket); ok {
		return nil
	}

	ch := s.flight.DoChan(bucket, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bucketCheckTimeout)
		defer cancel()

		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region})
			if err != nil && !isBucketTaken(err) {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
			if err == nil {
				slog.Info("created bucket", "bucket", bucket)
			}
		}
		s.ensured.Store(bucket, struct{}{})
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("ensure bucket %s: %w", bucket, ctx.Err())
	}
}

func (s *Store) PutObject(ctx context.Context, bucket, key string, content []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *Store) SetObjectTag(ctx context.Context, bucket, key, name, value string) error {
	t, err := tags.NewTags(map[string]string{name: EncodeTagValue(value)}, true)
	if err != nil {
		return fmt.Errorf("set object tag %s: %w", key, err)
	}

	if err := s.client.PutObjectTagging(ctx, bucket, key, t, minio.PutObjectTaggingOptions{}); err != nil {
		if isNotFound(err) {
			return sharebox.ErrNotFound
		}
		return fmt.Errorf("set object tag %s: %w", key, err)
	}
	return nil
}

func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, sharebox.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer func() { _ = obj.Close() }()

	// minio defers the request until the first read.
	content, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, sharebox.ErrNotFound
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return content, nil
}

func (s *Store) GetObjectTags(ctx context.Context, bucket, key string) (map[string]string, error) {
	t, err := s.client.GetObjectTagging(ctx, bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, sharebox.ErrNotFound
		}
		return nil, fmt.Errorf("get object tags %s: %w", key, err)
	}

	out := make(map[string]string)
	if t == nil {
		return out, nil
	}
	for k, v := range t.ToMap() {
		out[k] = DecodeTagValue(v)
	}
	return out, nil
}

func (s *Store) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat object %s: %w", key, err)
}

func isNotFound(err error) bool {
	errResp := minio.ErrorResponse{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusNotFound ||
			errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket"
	}
	return false
}

func isBucketTaken(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return true
	}
	return false
}
