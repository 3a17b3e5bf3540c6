package zipscan

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned by Archive.FindSuffix if no member name matches.
var ErrEntryNotFound = errors.New("entry not found in central directory")

// FormatError indicates the archive's structure could not be parsed: a missing or mismatched signature, or offsets
// pointing outside the file. The archive is assumed malformed; there is no recovery.
type FormatError struct {
	// Offset is the position the error was detected at. For central directory errors it is relative to the start
	// of the central directory region; otherwise it is relative to the start of the archive.
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed ZIP archive at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedMethodError is returned by Archive.Extract for members compressed with a method other than
// MethodStore or MethodDeflate. Other members of the same archive remain extractable.
type UnsupportedMethodError struct {
	Name   string
	Method uint16
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf(`"%s": unsupported compression method %d`, e.Name, e.Method)
}

// SizeMismatchError reports that a member's decompressed length disagrees with the uncompressed size declared in the
// central directory. Archive.Extract returns it alongside the decompressed bytes; the caller decides whether to
// treat it as fatal.
type SizeMismatchError struct {
	Name     string
	Declared uint32
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf(`"%s": decompressed to %d bytes, expected %d`, e.Name, e.Actual, e.Declared)
}
