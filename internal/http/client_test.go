package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetString_SendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())
	body, err := client.GetString(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, "Mozilla/5.0", gotUA)
	assert.Equal(t, "text/html", gotAccept)
}

func TestClient_GetString_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(DefaultOptions()).GetString(context.Background(), srv.URL)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, "404 Not Found", fe.Status)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_GetString_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(DefaultOptions()).GetString(context.Background(), url)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
	assert.NotNil(t, fe.Err)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond

	_, err := NewClient(opts).GetString(context.Background(), srv.URL)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
}

func TestClient_GetFileSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "1234")
	}))
	defer srv.Close()

	size, err := NewClient(DefaultOptions()).GetFileSize(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, size)
}

func TestClient_DownloadFile(t *testing.T) {
	payload := []byte("0123456789abcdef")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "pic.jpg")
	var lastWritten int64
	n, err := NewClient(DefaultOptions()).DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	require.NoError(t, err)

	assert.EqualValues(t, len(payload), n)
	assert.EqualValues(t, len(payload), lastWritten)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestClient_DownloadFile_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "pic.jpg")
	_, err := NewClient(DefaultOptions()).DownloadFile(context.Background(), srv.URL, dest, nil)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.NoFileExists(t, dest)
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	opts := DefaultOptions()
	opts.RequestsPerSecond = 20
	client := NewClient(opts)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// burst of one: the 2nd and 3rd requests wait ~50ms each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
