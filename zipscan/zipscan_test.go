package zipscan

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/n1jfu/qrz/httprange"
	"github.com/stretchr/testify/assert"
)

// serveArchive serves the given archive bytes with range support and returns a fetcher bound to it plus a counter of
// requests received.
func serveArchive(t *testing.T, archive []byte) (*httprange.Fetcher, *int) {
	t.Helper()

	requests := new(int)
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		http.ServeContent(w, r, "test.zip", time.Time{}, bytes.NewReader(archive))
	}))
	t.Cleanup(s.Close)

	return httprange.New(s.URL), requests
}

// buildArchive creates a ZIP archive in memory with archive/zip.
func buildArchive(t *testing.T, files map[string]string, method uint16, comment string) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	if comment != "" {
		err := zw.SetComment(comment)
		assert.NoErrorf(t, err, "SetComment(...) error = %v", err)
	}

	for name, content := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		assert.NoErrorf(t, err, "CreateHeader(%s) error = %v", name, err)
		_, err = w.Write([]byte(content))
		assert.NoErrorf(t, err, "Write(%s) error = %v", name, err)
	}

	err := zw.Close()
	assert.NoErrorf(t, err, "Close() error = %v", err)

	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	files := map[string]string{
		"l_amat/EN.dat": "EN|L|12345||N1ABC|\n",
		"l_amat/HD.dat": "HD|L|12345|\n",
		"counts":        "9\n",
	}

	tests := []struct {
		name    string
		method  uint16
		comment string
	}{
		{
			name:   "deflate",
			method: zip.Deflate,
		},
		{
			name:   "store",
			method: zip.Store,
		},
		{
			name:    "long archive comment",
			method:  zip.Deflate,
			comment: strings.Repeat("seventy-three! ", 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := serveArchive(t, buildArchive(t, files, tt.method, tt.comment))

			a, err := Open(context.Background(), f)
			assert.NoErrorf(t, err, "Open() error = %v", err)
			assert.Len(t, a.Entries(), len(files))
			assert.Len(t, a.Names(), len(files))

			for name, content := range files {
				e, ok := a.Entries()[name]
				assert.Truef(t, ok, "entry %s not found", name)
				assert.Equal(t, tt.method, e.Method)
				assert.Equal(t, uint32(len(content)), e.UncompressedSize)
			}
		})
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	files := map[string]string{
		"l_amat/EN.dat": "EN|L|12345||N1ABC|\nEN|L|12346||K2DEF|\n",
		"empty.dat":     "",
	}

	for _, method := range []uint16{zip.Store, zip.Deflate} {
		name := "store"
		if method == zip.Deflate {
			name = "deflate"
		}

		t.Run(name, func(t *testing.T) {
			f, _ := serveArchive(t, buildArchive(t, files, method, ""))

			a, err := Open(context.Background(), f)
			assert.NoErrorf(t, err, "Open() error = %v", err)

			for name, content := range files {
				data, err := a.Extract(context.Background(), a.Entries()[name])
				assert.NoErrorf(t, err, "Extract(%s) error = %v", name, err)
				assert.Equal(t, content, string(data))
			}
		})
	}
}

func TestOpen_RequestCount(t *testing.T) {
	archive := buildArchive(t, map[string]string{"EN.dat": "EN|L|1|\n"}, zip.Deflate, "")
	f, requests := serveArchive(t, archive)

	// one HEAD (size probe) plus two GETs (trailing window, central directory).
	a, err := Open(context.Background(), f)
	assert.NoErrorf(t, err, "Open() error = %v", err)
	assert.Equal(t, 3, *requests)

	// two more GETs per extraction: local file header, payload.
	_, err = a.Extract(context.Background(), a.Entries()["EN.dat"])
	assert.NoErrorf(t, err, "Extract() error = %v", err)
	assert.Equal(t, 5, *requests)
}

func TestFindSuffix(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"l_amat/EN.dat": "EN|\n",
		"l_amat/AM.dat": "AM|\n",
	}, zip.Deflate, "")
	f, _ := serveArchive(t, archive)

	a, err := Open(context.Background(), f)
	assert.NoErrorf(t, err, "Open() error = %v", err)

	tests := []struct {
		suffix   string
		expected string
		err      error
	}{
		{suffix: "EN.dat", expected: "l_amat/EN.dat"},
		{suffix: "en.DAT", expected: "l_amat/EN.dat"},
		{suffix: "AM.dat", expected: "l_amat/AM.dat"},
		{suffix: "VC.dat", err: ErrEntryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.suffix, func(t *testing.T) {
			e, err := a.FindSuffix(tt.suffix)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			assert.NoErrorf(t, err, "FindSuffix(%s) error = %v", tt.suffix, err)
			assert.Equal(t, tt.expected, e.Name)
		})
	}
}

func TestOpen_NotAZip(t *testing.T) {
	f, _ := serveArchive(t, bytes.Repeat([]byte("not a zip file. "), 64))

	_, err := Open(context.Background(), f)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestOpen_TooSmall(t *testing.T) {
	f, _ := serveArchive(t, []byte("tiny"))

	_, err := Open(context.Background(), f)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseCentralDirectory_Deterministic(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"a.dat": "aaaa",
		"b.dat": "bbbb",
		"c.dat": "cccc",
	}, zip.Deflate, "")
	f, _ := serveArchive(t, archive)

	a, err := Open(context.Background(), f)
	assert.NoErrorf(t, err, "Open() error = %v", err)

	cd, err := f.Fetch(context.Background(), int64(a.eocd.CDOffset), int64(a.eocd.CDOffset)+int64(a.eocd.CDSize)-1)
	assert.NoErrorf(t, err, "Fetch(CD) error = %v", err)

	e1, n1, err := parseCentralDirectory(cd)
	assert.NoError(t, err)
	e2, n2, err := parseCentralDirectory(cd)
	assert.NoError(t, err)
	assert.Equal(t, e1, e2)
	assert.Equal(t, n1, n2)
	assert.Equal(t, a.Entries(), e1)
}

func TestParseCentralDirectory_CorruptSignature(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"a.dat": "aaaa",
		"b.dat": "bbbb",
	}, zip.Deflate, "")
	f, _ := serveArchive(t, archive)

	a, err := Open(context.Background(), f)
	assert.NoErrorf(t, err, "Open() error = %v", err)

	cd, err := f.Fetch(context.Background(), int64(a.eocd.CDOffset), int64(a.eocd.CDOffset)+int64(a.eocd.CDSize)-1)
	assert.NoErrorf(t, err, "Fetch(CD) error = %v", err)

	// clobber the second record's signature; the scan must fail rather than resync.
	i := bytes.Index(cd[4:], cdfhSigBytes) + 4
	copy(cd[i:], []byte("XXXX"))

	_, _, err = parseCentralDirectory(cd)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.EqualValues(t, i, formatErr.Offset)
}
