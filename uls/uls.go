// Package uls retrieves records from the FCC Universal Licensing System bulk data files.
//
// The FCC publishes the complete amateur radio licensee database as a ZIP archive of several hundred megabytes.
// Only the entity file (EN.dat) inside it is of interest here, so the package reads just that one member using HTTP
// range requests and keeps a time-bounded compressed copy on disk to spare the FCC servers on repeated runs.
package uls

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/n1jfu/qrz/httprange"
	"github.com/n1jfu/qrz/zipscan"
)

const (
	// DefaultURL is the FCC's complete amateur radio license archive.
	DefaultURL = "https://data.fcc.gov/download/pub/uls/complete/l_amat.zip"
	// DefaultMaxAge is how long a cached entity file remains valid.
	DefaultMaxAge = 7 * 24 * time.Hour
	// EntitySuffix matches the entity file's name inside the archive regardless of any leading path.
	EntitySuffix = "EN.dat"
)

// Client downloads members of the FCC ULS archive with a local cache.
type Client struct {
	// URL of the remote archive. Defaults to DefaultURL if empty.
	URL string
	// CachePath is where the cached member is stored, gzip-compressed. Defaults to DefaultCachePath() if empty.
	CachePath string
	// MaxAge is the cache validity window, measured against the cache file's modification time. Defaults to
	// DefaultMaxAge if zero.
	MaxAge time.Duration
	// HTTPClient is used for all requests. Defaults to a client with httprange.DefaultTimeout if nil.
	HTTPClient *http.Client
	// Logger receives progress messages. Quiet if nil.
	Logger *log.Logger
}

// DefaultCachePath returns the default location of the cached entity file.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "qrz", "en_dat.gz")
	}
	return filepath.Join(home, ".cache", "qrz", "en_dat.gz")
}

// EntityFile returns the decompressed content of the archive's entity file (EN.dat), from cache if fresh.
func (c *Client) EntityFile(ctx context.Context) ([]byte, error) {
	return c.Member(ctx, EntitySuffix)
}

// Member returns the decompressed content of the single archive member whose name ends with the given suffix
// (case-insensitive).
//
// A cache file younger than MaxAge short-circuits all network access. On a cache miss the member is fetched with
// range requests, written back to the cache, and returned; any failure along the way aborts the whole operation
// without touching the cache.
func (c *Client) Member(ctx context.Context, suffix string) ([]byte, error) {
	url, path, maxAge := c.URL, c.CachePath, c.MaxAge
	if url == "" {
		url = DefaultURL
	}
	if path == "" {
		path = DefaultCachePath()
	}
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	if data, ok := c.readCache(path, maxAge); ok {
		return data, nil
	}

	c.logf("reading central directory of %s", url)

	f := httprange.New(url, func(opts *httprange.Options) {
		if c.HTTPClient != nil {
			opts.Client = c.HTTPClient
		}
	})

	a, err := zipscan.Open(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("open remote archive error: %w", err)
	}

	e, err := a.FindSuffix(suffix)
	if err != nil {
		return nil, err
	}

	c.logf(`downloading "%s" (%s compressed, %s uncompressed)`,
		e.Name, humanize.Bytes(uint64(e.CompressedSize)), humanize.Bytes(uint64(e.UncompressedSize)))

	data, err := a.Extract(ctx, e)
	if err != nil {
		// a size mismatch is worth reporting but the data is still usable.
		var mismatch *zipscan.SizeMismatchError
		if !errors.As(err, &mismatch) {
			return nil, err
		}

		c.logf("warning: %v", mismatch)
	}

	if err = writeCache(path, data); err != nil {
		return nil, fmt.Errorf("write cache error: %w", err)
	}
	c.logf(`cached to "%s"`, path)

	return data, nil
}

func (c *Client) logf(format string, v ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}
