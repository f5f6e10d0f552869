package clientcli_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharebox/sharebox/clientcli"
)

func newClient(t *testing.T, endpoint string) *clientcli.Client {
	t.Helper()
	client, err := clientcli.New(&clientcli.Config{Endpoint: endpoint, Token: "s3cret"})
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("empty endpoint uses default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestClient_UploadFile(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/upload", r.URL.Path)
			assert.Equal(t, "s3cret", r.Header.Get("share-token"))
			assert.Equal(t, "report.pdf", r.Header.Get("share-filename"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, "test content", string(body))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"Ok":{"message":"http://share.test/abc1234567.pdf"}}`))
		}))
		defer server.Close()

		localPath := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(localPath, []byte("test content"), 0o600))

		result, err := newClient(t, server.URL).UploadFile(context.Background(), clientcli.UploadOptions{
			LocalPath: localPath,
		})
		require.NoError(t, err)

		assert.Equal(t, localPath, result.LocalPath)
		assert.Equal(t, "http://share.test/abc1234567.pdf", result.URL)
		assert.Equal(t, "abc1234567.pdf", result.Key)
		assert.Equal(t, int64(12), result.Size)
	})

	t.Run("screenshot sends hint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, clientcli.ScreenshotHint, r.Header.Get("share-filename"))
			_, _ = w.Write([]byte(`{"Ok":{"message":"http://share.test/abc.png"}}`))
		}))
		defer server.Close()

		localPath := filepath.Join(t.TempDir(), "shot.png")
		require.NoError(t, os.WriteFile(localPath, []byte{0x89, 'P', 'N', 'G'}, 0o600))

		result, err := newClient(t, server.URL).UploadFile(context.Background(), clientcli.UploadOptions{
			LocalPath:  localPath,
			Screenshot: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "abc.png", result.Key)
	})

	t.Run("invalid token with 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"Error":{"message":"Invalid token"}}`))
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).Upload(context.Background(), strings.NewReader("hi"))
		require.Error(t, err)
		assert.True(t, clientcli.IsInvalidToken(err))
	})

	t.Run("payload too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			_, _ = w.Write([]byte(`{"Error":{"message":"Payload too large"}}`))
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).Upload(context.Background(), strings.NewReader("hi"))
		assert.ErrorIs(t, err, clientcli.ErrPayloadTooLarge)
		assert.False(t, clientcli.IsInvalidToken(err))
	})

	t.Run("non json error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("bad gateway"))
		}))
		defer server.Close()

		_, err := newClient(t, server.URL).Upload(context.Background(), strings.NewReader("hi"))
		var apiErr *clientcli.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := newClient(t, "http://localhost").UploadFile(context.Background(), clientcli.UploadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
	})

	t.Run("missing token", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost"})
		require.NoError(t, err)

		_, err = client.Upload(context.Background(), strings.NewReader("hi"))
		assert.ErrorIs(t, err, clientcli.ErrTokenRequired)
	})
}

func TestClient_Upload_TextHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, clientcli.TextHint, r.Header.Get("share-filename"))
		_, _ = w.Write([]byte(`{"Ok":{"message":"http://share.test/abc.txt"}}`))
	}))
	defer server.Close()

	result, err := newClient(t, server.URL).Upload(context.Background(), strings.NewReader("pasted"))
	require.NoError(t, err)
	assert.Equal(t, "abc.txt", result.Key)
	assert.Equal(t, int64(6), result.Size)
}

func TestClient_Download(t *testing.T) {
	serve := func(t *testing.T) *httptest.Server {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/abc.pdf" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("File not found"))
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `inline; filename="report.pdf"`)
			_, _ = w.Write([]byte("downloaded content"))
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("to explicit file", func(t *testing.T) {
		server := serve(t)
		localPath := filepath.Join(t.TempDir(), "out", "downloaded.pdf")

		result, reader, err := newClient(t, server.URL).Download(context.Background(), clientcli.DownloadOptions{
			Key:       "abc.pdf",
			LocalPath: localPath,
		})
		require.NoError(t, err)
		assert.Nil(t, reader)
		assert.Equal(t, "application/pdf", result.ContentType)
		assert.Equal(t, "report.pdf", result.Filename)
		assert.Equal(t, int64(18), result.Size)

		content, err := os.ReadFile(localPath)
		require.NoError(t, err)
		assert.Equal(t, "downloaded content", string(content))
	})

	t.Run("full url to stdout", func(t *testing.T) {
		server := serve(t)

		result, reader, err := newClient(t, server.URL).Download(context.Background(), clientcli.DownloadOptions{
			Key:       server.URL + "/abc.pdf",
			LocalPath: "-",
		})
		require.NoError(t, err)
		require.NotNil(t, reader)
		defer func() { _ = reader.Close() }()

		assert.Equal(t, "-", result.LocalPath)
		assert.Equal(t, "abc.pdf", result.Key)

		content, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "downloaded content", string(content))
	})

	t.Run("not found", func(t *testing.T) {
		server := serve(t)

		_, _, err := newClient(t, server.URL).Download(context.Background(), clientcli.DownloadOptions{
			Key:       "missing.txt",
			LocalPath: "-",
		})
		assert.ErrorIs(t, err, clientcli.ErrNotFound)

		var apiErr *clientcli.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.IsNotFound())
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := newClient(t, "http://localhost").Download(context.Background(), clientcli.DownloadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyKey)
	})
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare id", "abc123.png", "abc123.png"},
		{"full url", "https://share.example.com/abc123.png", "abc123.png"},
		{"url with trailing slash", "https://share.example.com/abc123.png/", "abc123.png"},
		{"leading slash", "/abc123.png", "abc123.png"},
		{"surrounding space", "  abc123  ", "abc123"},
		{"empty", "", ""},
		{"host only", "https://share.example.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clientcli.KeyFromURL(tt.input))
		})
	}
}

func TestClient_CheckEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "rejection with 200", status: http.StatusOK, body: `{"Error":{"message":"Invalid token"}}`},
		{name: "rejection with 401", status: http.StatusUnauthorized, body: `{"Error":{"message":"Invalid token"}}`},
		{name: "html page", status: http.StatusOK, body: `<html></html>`, wantErr: true},
		{name: "accepted upload", status: http.StatusOK, body: `{"Ok":{"message":"http://x/abc"}}`, wantErr: true},
		{name: "not found", status: http.StatusNotFound, body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/upload", r.URL.Path)
				assert.Empty(t, r.Header.Get("share-token"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := newClient(t, server.URL).CheckEndpoint(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, clientcli.ErrNotShareServer)
				return
			}
			assert.NoError(t, err)
		})
	}
}
