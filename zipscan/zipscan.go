// Package zipscan reads single members out of remote ZIP archives using HTTP range requests.
//
// Opening an archive costs three requests (one size probe, one for the trailing window holding the end of central
// directory record, one for the central directory itself); extracting a member costs two more (its local file header
// and its compressed payload). The archive is never downloaded in full, which makes the package practical for
// archives of hundreds of megabytes when only one member is wanted.
//
// ZIP64, multi-disk, and encrypted archives are not supported.
package zipscan

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/n1jfu/qrz/httprange"
)

const (
	lfhSig  = 0x04034b50
	cdfhSig = 0x02014b50
	eocdSig = 0x06054b50
)

var (
	lfhSigBytes  = putUint32(lfhSig)
	cdfhSigBytes = putUint32(cdfhSig)
	eocdSigBytes = putUint32(eocdSig)
)

func putUint32(v uint32) (b []byte) {
	b = make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// Compression methods appearing in central directory and local file headers.
const (
	// MethodStore identifies members stored without compression.
	MethodStore uint16 = 0
	// MethodDeflate identifies members compressed with raw DEFLATE.
	MethodDeflate uint16 = 8
)

// Entry describes one archive member as recorded in the central directory.
type Entry struct {
	// Name is the member's path within the archive, decoded permissively: bytes that do not form valid UTF-8 are
	// replaced rather than failing the scan.
	Name string
	// Offset is the position of the member's local file header, relative to the start of the archive.
	Offset uint32
	// CompressedSize is the size of the member's payload as stored.
	CompressedSize uint32
	// UncompressedSize is the declared size of the member after decompression.
	UncompressedSize uint32
	// Method is the compression method code. Only MethodStore and MethodDeflate can be extracted; any other code
	// is kept verbatim and rejected only if that member is extracted.
	Method uint16
}

// Archive is a remote ZIP archive whose central directory has been read.
//
// An Archive is immutable after Open and safe for concurrent use; independent members may be extracted in parallel.
type Archive struct {
	fetcher *httprange.Fetcher
	size    int64
	eocd    eocdRecord
	entries map[string]Entry
	names   []string
}

// Open probes the remote file's size, locates the end of central directory record, and reads the central directory.
func Open(ctx context.Context, f *httprange.Fetcher) (*Archive, error) {
	size, err := f.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe size error: %w", err)
	}

	r, err := locateEOCD(ctx, f, size)
	if err != nil {
		return nil, err
	}

	// the EOCD is only trusted if the central directory it points at actually fits in the file.
	cdEnd := int64(r.CDOffset) + int64(r.CDSize)
	if cdEnd > size {
		return nil, &FormatError{Offset: int64(r.CDOffset), Reason: fmt.Sprintf("central directory [%d, %d) exceeds archive size %d", r.CDOffset, cdEnd, size)}
	}

	var entries map[string]Entry
	var names []string
	if r.CDSize > 0 {
		cd, err := f.Fetch(ctx, int64(r.CDOffset), cdEnd-1)
		if err != nil {
			return nil, fmt.Errorf("fetch central directory error: %w", err)
		}

		if entries, names, err = parseCentralDirectory(cd); err != nil {
			return nil, err
		}
	} else {
		entries = make(map[string]Entry)
	}

	return &Archive{fetcher: f, size: size, eocd: r, entries: entries, names: names}, nil
}

// Size returns the total size in bytes of the remote archive.
func (a *Archive) Size() int64 {
	return a.size
}

// Entries returns the central directory as a mapping from member name to Entry.
//
// If a name appears more than once in the central directory, the last occurrence wins. The returned map is shared;
// callers must not modify it.
func (a *Archive) Entries() map[string]Entry {
	return a.entries
}

// Names returns the member names in central directory scan order, without duplicates.
func (a *Archive) Names() []string {
	return a.names
}

// FindSuffix returns the first entry in scan order whose name ends with the given suffix, compared case-insensitively.
//
// ErrEntryNotFound is returned if no member matches.
func (a *Archive) FindSuffix(suffix string) (Entry, error) {
	lower := strings.ToLower(suffix)
	for _, name := range a.names {
		if strings.HasSuffix(strings.ToLower(name), lower) {
			return a.entries[name], nil
		}
	}

	return Entry{}, fmt.Errorf(`no member matching suffix "%s": %w`, suffix, ErrEntryNotFound)
}
