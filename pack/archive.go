// SPDX-License-Identifier: MIT

package pack

import (
	"encoding/binary"
	"unsafe"

	"github.com/webstaticpack/webstaticpack/internal/xhash"
)

// ArchivedPack is the zero-copy, read-only projection of a serialized pack.
// Every accessor borrows directly from the buffer passed to Load; the
// ArchivedPack's lifetime is the buffer's lifetime.
type ArchivedPack struct {
	buf     []byte
	f       footer
	entries []byte // entriesOffset .. entriesOffset+entryCount*entryRecordSize
	buckets []byte // bucketsOffset .. bucketsOffset+bucketCount*4
}

// ArchivedFile is the zero-copy projection of one packed File. ContentType
// and ETag are string views over buf; the body slices alias buf directly.
type ArchivedFile struct {
	ContentType string
	ETag        string
	Identity    []byte
	Gzip        []byte
	Brotli      []byte
}

// HasEncoding reports whether f carries a body for enc.
func (f ArchivedFile) HasEncoding(enc ContentEncoding) bool {
	switch enc {
	case Identity:
		return true
	case Gzip:
		return f.Gzip != nil
	case Brotli:
		return f.Brotli != nil
	default:
		return false
	}
}

// Body returns f's body for enc and whether that encoding is present.
func (f ArchivedFile) Body(enc ContentEncoding) ([]byte, bool) {
	switch enc {
	case Identity:
		return f.Identity, true
	case Gzip:
		return f.Gzip, f.Gzip != nil
	case Brotli:
		return f.Brotli, f.Brotli != nil
	default:
		return nil, false
	}
}

// Load casts buf's tail in place as a pack footer and bounds-checks every
// offset reachable from it, without parsing path strings or file contents.
// It fails if buf is too small, insufficiently aligned, carries a bad magic
// or unsupported version, or any offset escapes the buffer. On success,
// Lookup is allocation-free.
func Load(buf []byte) (*ArchivedPack, error) {
	if !isAligned16(buf) {
		return nil, ErrUnaligned
	}
	if len(buf) < footerSize {
		return nil, ErrBufferTooSmall
	}

	f, err := decodeFooter(buf[len(buf)-footerSize:])
	if err != nil {
		return nil, err
	}

	heap := buf[:len(buf)-footerSize]

	entriesEnd, ok := addU32(f.entriesOffset, f.entryCount*entryRecordSize)
	if !ok || entriesEnd > uint32(len(heap)) {
		return nil, ErrOffsetOutOfRange
	}
	bucketsEnd, ok := addU32(f.bucketsOffset, f.bucketCount*4)
	if !ok || bucketsEnd > uint32(len(heap)) {
		return nil, ErrOffsetOutOfRange
	}

	entries := heap[f.entriesOffset:entriesEnd]
	buckets := heap[f.bucketsOffset:bucketsEnd]

	for i := uint32(0); i < f.entryCount; i++ {
		rec := decodeEntryRecord(entries[i*entryRecordSize:])
		if err := validateEntryOffsets(heap, rec); err != nil {
			return nil, err
		}
	}
	for i := uint32(0); i < f.bucketCount; i++ {
		idx := decodeBucket(buckets[i*4:])
		if idx != emptyBucket && (idx < 0 || uint32(idx) >= f.entryCount) {
			return nil, ErrCorruptTable
		}
	}

	return &ArchivedPack{buf: buf, f: f, entries: entries, buckets: buckets}, nil
}

// LoadCopyAligned copies buf into a freshly allocated, 16-byte-aligned
// buffer and loads that copy. Use this when the caller cannot guarantee
// alignment of the original bytes (e.g. a plain os.ReadFile result).
func LoadCopyAligned(buf []byte) (*ArchivedPack, error) {
	aligned := make([]byte, len(buf)+16)
	start := 0
	for uintptr(unsafe.Pointer(&aligned[start]))%16 != 0 {
		start++
	}
	copy(aligned[start:], buf)
	return Load(aligned[start : start+len(buf) : start+len(buf)])
}

func isAligned16(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&buf[0]))%16 == 0
}

func addU32(a, b uint32) (uint32, bool) {
	sum := a + b
	return sum, sum >= a
}

func validateEntryOffsets(heap []byte, rec entryRecord) error {
	for _, off := range []uint32{rec.pathOffset, rec.typeOffset, rec.etagOffset, rec.identityOffset} {
		if err := validateBlobBounds(heap, off); err != nil {
			return err
		}
	}
	if rec.gzipOffset != 0 {
		if err := validateBlobBounds(heap, rec.gzipOffset); err != nil {
			return err
		}
	}
	if rec.brotliOffset != 0 {
		if err := validateBlobBounds(heap, rec.brotliOffset); err != nil {
			return err
		}
	}
	return nil
}

func validateBlobBounds(heap []byte, offset uint32) error {
	end, ok := addU32(offset, 4)
	if !ok || end > uint32(len(heap)) {
		return ErrOffsetOutOfRange
	}
	length := binary.LittleEndian.Uint32(heap[offset:])
	end, ok = addU32(end, length)
	if !ok || end > uint32(len(heap)) {
		return ErrOffsetOutOfRange
	}
	return nil
}

func readBlobBytes(heap []byte, offset uint32) []byte {
	length := binary.LittleEndian.Uint32(heap[offset:])
	start := offset + 4
	return heap[start : start+length]
}

func readBlobString(heap []byte, offset uint32) string {
	b := readBlobBytes(heap, offset)
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Lookup returns the ArchivedFile at path, if any, with no allocation.
func (a *ArchivedPack) Lookup(path string) (ArchivedFile, bool) {
	if a.f.bucketCount == 0 {
		return ArchivedFile{}, false
	}

	h := xhash.PathHash(a.f.hashSeed, path)
	slot := uint32(h % uint64(a.f.bucketCount))

	for probes := uint32(0); probes < a.f.bucketCount; probes++ {
		idx := decodeBucket(a.buckets[slot*4:])
		if idx == emptyBucket {
			return ArchivedFile{}, false
		}

		rec := decodeEntryRecord(a.entries[uint32(idx)*entryRecordSize:])
		if readBlobString(a.heap(), rec.pathOffset) == path {
			return a.fileAt(rec), true
		}

		slot = (slot + 1) % a.f.bucketCount
	}

	return ArchivedFile{}, false
}

func (a *ArchivedPack) heap() []byte {
	return a.buf[:len(a.buf)-footerSize]
}

func (a *ArchivedPack) fileAt(rec entryRecord) ArchivedFile {
	heap := a.heap()

	file := ArchivedFile{
		ContentType: readBlobString(heap, rec.typeOffset),
		ETag:        readBlobString(heap, rec.etagOffset),
		Identity:    readBlobBytes(heap, rec.identityOffset),
	}
	if rec.gzipOffset != 0 {
		file.Gzip = readBlobBytes(heap, rec.gzipOffset)
	}
	if rec.brotliOffset != 0 {
		file.Brotli = readBlobBytes(heap, rec.brotliOffset)
	}
	return file
}

// EntryCount returns the number of files in the archived pack.
func (a *ArchivedPack) EntryCount() int {
	return int(a.f.entryCount)
}
