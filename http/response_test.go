package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharebox/sharebox"
	shareboxhttp "github.com/sharebox/sharebox/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, shareboxhttp.WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWriteUploadOK(t *testing.T) {
	rec := httptest.NewRecorder()
	shareboxhttp.WriteUploadOK(rec, "http://share.test/abc.txt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Ok":{"message":"http://share.test/abc.txt"}}`, rec.Body.String())
}

func TestHandleUploadError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		rejectStatus int
		wantStatus   int
		wantMessage  string
	}{
		{"unauthorized default", fmt.Errorf("upload: %w", sharebox.ErrUnauthorized), http.StatusOK, http.StatusOK, "Invalid token"},
		{"unauthorized 401", fmt.Errorf("upload: %w", sharebox.ErrUnauthorized), http.StatusUnauthorized, http.StatusUnauthorized, "Invalid token"},
		{"payload too large", shareboxhttp.ErrPayloadTooLarge, http.StatusOK, http.StatusRequestEntityTooLarge, "Payload too large"},
		{"timeout", fmt.Errorf("upload: put_object: %w: %w", sharebox.ErrTimeout, context.DeadlineExceeded), http.StatusOK, http.StatusGatewayTimeout, "Storage backend timed out"},
		{"storage write", fmt.Errorf("upload: %w", sharebox.ErrStorageWrite), http.StatusOK, http.StatusInternalServerError, "Internal server error"},
		{"storage tag", fmt.Errorf("upload: %w", sharebox.ErrStorageTag), http.StatusOK, http.StatusInternalServerError, "Internal server error"},
		{"storage read", fmt.Errorf("upload: %w", sharebox.ErrStorageRead), http.StatusOK, http.StatusInternalServerError, "Internal server error"},
		{"key collision", fmt.Errorf("upload: %w", sharebox.ErrKeyCollision), http.StatusOK, http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusOK, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			shareboxhttp.HandleUploadError(rec, tt.err, tt.rejectStatus)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"Error":{"message":%q}}`, tt.wantMessage), rec.Body.String())
		})
	}
}

func TestHandleGetError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", fmt.Errorf("get object: %w", sharebox.ErrNotFound), http.StatusNotFound, "File not found"},
		{"timeout", fmt.Errorf("get object: %w", sharebox.ErrTimeout), http.StatusGatewayTimeout, "Storage backend timed out\n"},
		{"storage read", fmt.Errorf("get object: %w", sharebox.ErrStorageRead), http.StatusInternalServerError, "Internal server error\n"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			shareboxhttp.HandleGetError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
