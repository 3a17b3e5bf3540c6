package uls

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// readCache returns the decompressed cache content if the file exists and its modification time is within maxAge.
//
// A stale, missing, or unreadable cache file is treated the same way: the caller fetches fresh data and overwrites
// it. The modification time is the sole source of cache age; the file holds nothing but the gzip'd member bytes.
func (c *Client) readCache(path string, maxAge time.Duration) ([]byte, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if age := time.Since(fi.ModTime()); age >= maxAge {
		c.logf("cache is %s old, refreshing", age.Round(time.Hour))
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		c.logf(`ignoring unreadable cache file "%s": %v`, path, err)
		return nil, false
	}

	data, err := io.ReadAll(zr)
	if _ = zr.Close(); err != nil {
		c.logf(`ignoring unreadable cache file "%s": %v`, path, err)
		return nil, false
	}

	return data, true
}

// writeCache stores data gzip-compressed at path, replacing any existing file.
//
// The content is written to a temporary file in the same directory and renamed into place so that a failed write
// never leaves a truncated cache behind.
func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(f)
	_, err = zw.Write(data)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf(`write "%s" error: %w`, f.Name(), err)
	}

	if err = os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return err
	}

	return nil
}
