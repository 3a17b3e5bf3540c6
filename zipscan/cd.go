package zipscan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// parseCentralDirectory scans the raw central directory region sequentially and decodes every file header.
//
// Returns the entries as a map from name to Entry (last duplicate wins) along with the names in scan order. Stopping
// before the end of the region is tolerated only at a clean boundary: an EOCD signature at the cursor ends the scan,
// as does a trailing fragment too short to hold another fixed header. Any other signature mismatch means the region
// offsets were wrong, and the scan fails rather than skipping ahead to resync.
func parseCentralDirectory(cd []byte) (entries map[string]Entry, names []string, err error) {
	entries = make(map[string]Entry)

	for pos := 0; pos+46 <= len(cd); {
		if !bytes.Equal(cd[pos:pos+4], cdfhSigBytes) {
			if bytes.Equal(cd[pos:pos+4], eocdSigBytes) {
				break
			}

			return nil, nil, &FormatError{Offset: int64(pos), Reason: fmt.Sprintf("mismatched central directory signature, got 0x%x, expected 0x%x", cd[pos:pos+4], cdfhSigBytes)}
		}

		e, n, m, k, err := unmarshalCDFileHeader(([46]byte)(cd[pos : pos+46]))
		if err != nil {
			return nil, nil, err
		}

		if pos+46+n > len(cd) {
			return nil, nil, &FormatError{Offset: int64(pos), Reason: fmt.Sprintf("file name (%d bytes) overruns central directory", n)}
		}
		e.Name = decodeName(cd[pos+46 : pos+46+n])

		if _, ok := entries[e.Name]; !ok {
			names = append(names, e.Name)
		}
		entries[e.Name] = e

		pos += 46 + n + m + k
	}

	return entries, names, nil
}

// unmarshalCDFileHeader decodes the fixed-size part of a central directory file header, returning the entry along
// with the lengths of the variable-size name, extra, and comment fields that follow it.
func unmarshalCDFileHeader(b [46]byte) (e Entry, n, m, k int, err error) {
	data := &struct {
		Signature         uint32
		CreatorVersion    uint16
		ReaderVersion     uint16
		Flags             uint16
		Method            uint16
		ModifiedTime      uint16
		ModifiedDate      uint16
		CRC32             uint32
		CompressedSize    uint32
		UncompressedSize  uint32
		FileNameLength    uint16
		ExtraFieldLength  uint16
		FileCommentLength uint16
		DiskNumber        uint16
		InternalAttrs     uint16
		ExternalAttrs     uint32
		Offset            uint32
	}{}

	if err = binary.Read(bytes.NewReader(b[:]), binary.LittleEndian, data); err != nil {
		return e, 0, 0, 0, fmt.Errorf("unmarshal CD file header error: %w", err)
	}

	e = Entry{
		Offset:           data.Offset,
		CompressedSize:   data.CompressedSize,
		UncompressedSize: data.UncompressedSize,
		Method:           data.Method,
	}

	return e, int(data.FileNameLength), int(data.ExtraFieldLength), int(data.FileCommentLength), nil
}

// decodeName converts raw name bytes to a string, substituting the Unicode replacement character for each byte that
// does not form valid UTF-8. Member names never fail the scan.
func decodeName(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, r := range string(b) {
		sb.WriteRune(r)
	}
	return sb.String()
}
