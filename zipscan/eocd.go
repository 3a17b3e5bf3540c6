package zipscan

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/n1jfu/qrz/httprange"
)

// maxEOCDSearch is the largest possible distance of the EOCD signature from the end of the archive: the 22-byte
// fixed-size record plus a comment of up to 65535 bytes.
const maxEOCDSearch = 22 + 65535

// eocdRecord models the end of central directory record of a ZIP file.
//
// See https://en.wikipedia.org/wiki/ZIP_(file_format)#End_of_central_directory_record_(EOCD).
type eocdRecord struct {
	// CDCount is the total number of central directory records.
	CDCount uint16
	// CDSize is the size of the central directory in bytes.
	CDSize uint32
	// CDOffset is the offset of the start of the central directory, relative to the start of the archive.
	CDOffset uint32
}

// locateEOCD fetches the archive's trailing window and searches it backwards for the EOCD record.
//
// The rightmost signature match wins: the true EOCD always sits after the central directory, so any earlier
// occurrence of the signature bytes can only come from the comment field or member data spilling into the window.
func locateEOCD(ctx context.Context, f *httprange.Fetcher, size int64) (r eocdRecord, err error) {
	n := min(int64(maxEOCDSearch), size)
	if n < 22 {
		return r, &FormatError{Offset: 0, Reason: fmt.Sprintf("file too small to be a ZIP archive (%d bytes)", size)}
	}

	window, err := f.Fetch(ctx, size-n, size-1)
	if err != nil {
		return r, fmt.Errorf("fetch trailing window error: %w", err)
	}

	for i := int64(len(window)) - 22; i >= 0; i-- {
		if bytes.Equal(window[i:i+4], eocdSigBytes) {
			return unmarshalEOCDRecord(([22]byte)(window[i : i+22]))
		}
	}

	return r, &FormatError{Offset: size - n, Reason: "end of central directory signature not found; most likely not a ZIP file"}
}

// unmarshalEOCDRecord decodes the fixed-size part of the EOCD record.
func unmarshalEOCDRecord(b [22]byte) (r eocdRecord, err error) {
	data := &struct {
		Signature     uint32
		DiskNumber    uint16
		CDDiskOffset  uint16
		CDCountOnDisk uint16
		CDCount       uint16
		CDSize        uint32
		CDOffset      uint32
		CommentLength uint16
	}{}

	if err = binary.Read(bytes.NewReader(b[:]), binary.LittleEndian, data); err != nil {
		return r, fmt.Errorf("unmarshal EOCD error: %w", err)
	}

	return eocdRecord{
		CDCount:  data.CDCount,
		CDSize:   data.CDSize,
		CDOffset: data.CDOffset,
	}, nil
}
