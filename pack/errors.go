// SPDX-License-Identifier: MIT

package pack

import "errors"

// Sentinel errors for pack format operations. Use errors.Is in callers.
var (
	// ErrEmptyPath means a PackPath segment sequence had no segments.
	ErrEmptyPath = errors.New("pack path has no segments")
	// ErrInvalidSegment means a path segment violated the PackPath grammar.
	ErrInvalidSegment = errors.New("invalid path segment")
	// ErrDuplicatePath means two inserts resolved to the same PackPath.
	ErrDuplicatePath = errors.New("duplicate pack path")
	// ErrBlobTooLarge means a string or byte blob exceeds the u32 length field.
	ErrBlobTooLarge = errors.New("blob exceeds uint32 length limit")
	// ErrPackTooLarge means the serialized buffer would exceed 4 GiB.
	ErrPackTooLarge = errors.New("serialized pack exceeds 4 GiB")
	// ErrBufferTooSmall means the buffer is shorter than the fixed footer.
	ErrBufferTooSmall = errors.New("buffer too small for pack footer")
	// ErrUnaligned means the buffer's start address lacks the required 16-byte alignment.
	ErrUnaligned = errors.New("buffer start address is not 16-byte aligned")
	// ErrBadMagic means the footer's magic bytes did not match.
	ErrBadMagic = errors.New("pack footer: bad magic")
	// ErrUnsupportedVersion means the footer's format version is not understood.
	ErrUnsupportedVersion = errors.New("pack footer: unsupported format version")
	// ErrOffsetOutOfRange means an offset read from the footer or heap points outside the buffer.
	ErrOffsetOutOfRange = errors.New("pack offset out of range")
	// ErrCorruptTable means the hash table failed an internal consistency check.
	ErrCorruptTable = errors.New("pack hash table is corrupt")
)
