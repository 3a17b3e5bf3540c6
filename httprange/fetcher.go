// Package httprange fetches byte windows of a remote file with HTTP range requests.
//
// A Fetcher is bound to a single URL for its lifetime. It issues HEAD requests to
// probe the remote file's size and ranged GET requests (RFC 7233 single-range,
// inclusive offsets) to retrieve exact byte windows, which is enough to read
// selected pieces of very large files without downloading them in full.
package httprange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Options customises New.
type Options struct {
	// Client is the http.Client to be used with every request.
	//
	// By default, a client with DefaultTimeout is used so that a stalled transfer fails the call instead of
	// hanging indefinitely.
	Client *http.Client
}

// DefaultTimeout bounds each individual HTTP call made by the default client.
const DefaultTimeout = 2 * time.Minute

// Fetcher retrieves byte ranges of the remote file at a fixed URL.
type Fetcher struct {
	client *http.Client
	url    string
}

// New returns a Fetcher bound to the given URL.
func New(url string, optFns ...func(*Options)) *Fetcher {
	opts := &Options{
		Client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, fn := range optFns {
		fn(opts)
	}

	return &Fetcher{client: opts.Client, url: url}
}

// URL returns the URL this Fetcher is bound to.
func (f *Fetcher) URL() string {
	return f.url
}

// Size probes the remote file's total size with a HEAD request.
func (f *Fetcher) Size(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, f.url, nil)
	if err != nil {
		return 0, fmt.Errorf("create HEAD request error: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HEAD %s error: %w", f.url, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: f.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("HEAD %s: missing or invalid Content-Length %q", f.url, resp.Header.Get("Content-Length"))
	}

	return size, nil
}

// Fetch returns exactly the bytes in [start, end] (inclusive on both ends) of the remote file.
//
// The server must honour the Range header with a 206 Partial Content response; a 200 response carrying the full
// content is reported as ErrRangeNotSupported rather than sliced locally. Short responses are also errors: callers
// rely on getting exactly end-start+1 bytes.
func (f *Fetcher) Fetch(ctx context.Context, start, end int64) ([]byte, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("invalid range [%d, %d]", start, end)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create GET request error: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s error: %w", f.url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
	case http.StatusOK:
		return nil, fmt.Errorf("GET %s range [%d, %d]: %w", f.url, start, end, ErrRangeNotSupported)
	default:
		return nil, &StatusError{URL: f.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	n := end - start + 1
	if resp.ContentLength >= 0 && resp.ContentLength != n {
		return nil, fmt.Errorf("GET %s range [%d, %d]: expected %d bytes, server declared %d", f.url, start, end, n, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, n))
	if err != nil {
		return nil, fmt.Errorf("GET %s range [%d, %d]: read body error: %w", f.url, start, end, err)
	}
	if int64(len(data)) != n {
		return nil, fmt.Errorf("GET %s range [%d, %d]: insufficient read: expected %d bytes, got %d", f.url, start, end, n, len(data))
	}

	return data, nil
}
