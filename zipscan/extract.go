package zipscan

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Extract fetches and decompresses one member's payload.
//
// The member's local file header is read first to find where its payload actually starts; the header's variable-size
// name and extra fields sit between the 30-byte fixed header and the compressed data, and their lengths in the local
// header can differ from the central directory's copy.
//
// If the decompressed length disagrees with the central directory's declared uncompressed size, the decompressed
// bytes are returned together with a *SizeMismatchError so the caller can decide whether that is fatal.
func (a *Archive) Extract(ctx context.Context, e Entry) ([]byte, error) {
	switch e.Method {
	case MethodStore, MethodDeflate:
	default:
		return nil, &UnsupportedMethodError{Name: e.Name, Method: e.Method}
	}

	lfh, err := a.fetcher.Fetch(ctx, int64(e.Offset), int64(e.Offset)+29)
	if err != nil {
		return nil, fmt.Errorf(`fetch local file header of "%s" error: %w`, e.Name, err)
	}
	if !bytes.Equal(lfh[:4], lfhSigBytes) {
		return nil, &FormatError{Offset: int64(e.Offset), Reason: fmt.Sprintf("mismatched local file header signature, got 0x%x, expected 0x%x", lfh[:4], lfhSigBytes)}
	}

	// name and extra lengths are the last two fields of the fixed header, at offsets 26 and 28.
	n := binary.LittleEndian.Uint16(lfh[26:28])
	m := binary.LittleEndian.Uint16(lfh[28:30])
	start := int64(e.Offset) + 30 + int64(n) + int64(m)

	var data []byte
	if e.CompressedSize > 0 {
		if data, err = a.fetcher.Fetch(ctx, start, start+int64(e.CompressedSize)-1); err != nil {
			return nil, fmt.Errorf(`fetch payload of "%s" error: %w`, e.Name, err)
		}
	}

	if e.Method == MethodDeflate {
		r := flate.NewReader(bytes.NewReader(data))
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf(`inflate "%s" error: %w`, e.Name, err)
		}
		if err = r.Close(); err != nil {
			return nil, fmt.Errorf(`inflate "%s" error: %w`, e.Name, err)
		}
	}

	if uint32(len(data)) != e.UncompressedSize {
		return data, &SizeMismatchError{Name: e.Name, Declared: e.UncompressedSize, Actual: len(data)}
	}

	return data, nil
}
