package httprange

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, content []byte) *httptest.Server {
	t.Helper()

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "content.bin", time.Time{}, bytes.NewReader(content))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestFetcher_Size(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 100)
	s := newTestServer(t, content)

	size, err := New(s.URL).Size(context.Background())
	assert.NoErrorf(t, err, "Size() error = %v", err)
	assert.EqualValues(t, len(content), size)
}

func TestFetcher_Fetch(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 100)
	s := newTestServer(t, content)
	f := New(s.URL)

	tests := []struct {
		name       string
		start, end int64
	}{
		{name: "first byte", start: 0, end: 0},
		{name: "interior window", start: 137, end: 481},
		{name: "trailing window", start: int64(len(content)) - 22, end: int64(len(content)) - 1},
		{name: "whole file", start: 0, end: int64(len(content)) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := f.Fetch(context.Background(), tt.start, tt.end)
			assert.NoErrorf(t, err, "Fetch(%d, %d) error = %v", tt.start, tt.end, err)
			assert.Equal(t, content[tt.start:tt.end+1], data)
		})
	}
}

func TestFetcher_Fetch_InvalidRange(t *testing.T) {
	s := newTestServer(t, []byte("0123456789"))
	f := New(s.URL)

	_, err := f.Fetch(context.Background(), 5, 4)
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), -1, 4)
	assert.Error(t, err)
}

func TestFetcher_Fetch_RangeIgnored(t *testing.T) {
	// a server that replies 200 with the full content regardless of the Range header.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("full content, not a range"))
	}))
	t.Cleanup(s.Close)

	_, err := New(s.URL).Fetch(context.Background(), 0, 3)
	assert.ErrorIs(t, err, ErrRangeNotSupported)
}

func TestFetcher_StatusError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(s.Close)
	f := New(s.URL)

	var statusErr *StatusError

	_, err := f.Size(context.Background())
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	_, err = f.Fetch(context.Background(), 0, 3)
	assert.ErrorAs(t, err, &statusErr)
}

func TestFetcher_Fetch_ShortBody(t *testing.T) {
	// a server that replies 206 with fewer bytes than the requested window.
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("ab"))
	}))
	t.Cleanup(s.Close)

	_, err := New(s.URL).Fetch(context.Background(), 0, 9)
	assert.Error(t, err)
}
