// SPDX-License-Identifier: MIT

package pack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/webstaticpack/webstaticpack/internal/xhash"
)

// Serialize lays out p as a single byte buffer per the pack format: a heap
// of length-prefixed blobs and fixed-width records, followed by a 32-byte
// footer at the tail. The result is deterministic for identical input: paths
// are sorted before writing, and the hash-table seed is derived from the
// sorted path list rather than from process state.
func Serialize(p *Pack) ([]byte, error) {
	paths := p.Paths()

	heap := new(bytes.Buffer)
	heap.Write(make([]byte, heapGuardSize))

	records := make([]entryRecord, len(paths))
	for i, path := range paths {
		file, _ := p.Lookup(path)
		rec, err := writeFileToHeap(heap, file, path.String())
		if err != nil {
			return nil, fmt.Errorf("serialize %q: %w", path.String(), err)
		}
		records[i] = rec
	}

	entriesOffset, err := alignedOffset(heap)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		var buf [entryRecordSize]byte
		encodeEntryRecord(buf[:], rec)
		heap.Write(buf[:])
	}

	seed := deriveSeed(paths)
	bucketCount := nextPowerOfTwo(uint32(len(paths)) * 2)
	if bucketCount < 1 {
		bucketCount = 1
	}
	buckets := buildHashTable(seed, paths, bucketCount)

	bucketsOffset, err := alignedOffset(heap)
	if err != nil {
		return nil, err
	}
	for _, idx := range buckets {
		var buf [4]byte
		encodeBucket(buf[:], idx)
		heap.Write(buf[:])
	}

	if heap.Len() > math.MaxUint32 {
		return nil, ErrPackTooLarge
	}

	out := heap.Bytes()
	result := make([]byte, len(out)+footerSize)
	copy(result, out)
	encodeFooter(result[len(out):], footer{
		version:       footerVersion,
		entryCount:    uint32(len(paths)),
		hashSeed:      seed,
		bucketCount:   bucketCount,
		bucketsOffset: bucketsOffset,
		entriesOffset: entriesOffset,
	})

	return result, nil
}

// writeFileToHeap appends path/file's blobs to heap and returns the entry
// record pointing at them. Blob order matches field order in entryRecord.
func writeFileToHeap(heap *bytes.Buffer, file File, path string) (entryRecord, error) {
	pathOff, err := writeBlob(heap, []byte(path))
	if err != nil {
		return entryRecord{}, err
	}
	typeOff, err := writeBlob(heap, []byte(file.ContentType))
	if err != nil {
		return entryRecord{}, err
	}
	etagOff, err := writeBlob(heap, []byte(file.ETag))
	if err != nil {
		return entryRecord{}, err
	}
	identOff, err := writeBlob(heap, file.Identity)
	if err != nil {
		return entryRecord{}, err
	}

	var gzipOff, brotliOff uint32
	if file.Gzip != nil {
		gzipOff, err = writeBlob(heap, file.Gzip)
		if err != nil {
			return entryRecord{}, err
		}
	}
	if file.Brotli != nil {
		brotliOff, err = writeBlob(heap, file.Brotli)
		if err != nil {
			return entryRecord{}, err
		}
	}

	return entryRecord{
		pathOffset:     pathOff,
		typeOffset:     typeOff,
		etagOffset:     etagOff,
		identityOffset: identOff,
		gzipOffset:     gzipOff,
		brotliOffset:   brotliOff,
	}, nil
}

// writeBlob appends a (u32 length, bytes, pad-to-4) record to heap and
// returns its start offset.
func writeBlob(heap *bytes.Buffer, data []byte) (uint32, error) {
	if len(data) > math.MaxUint32 {
		return 0, ErrBlobTooLarge
	}

	off, err := alignedOffset(heap)
	if err != nil {
		return 0, err
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	heap.Write(lenBuf[:])
	heap.Write(data)
	if pad := (4 - heap.Len()%4) % 4; pad != 0 {
		heap.Write(make([]byte, pad))
	}

	return off, nil
}

// alignedOffset returns heap's current length, which is always a multiple
// of 4 by construction, guarding against overflow past the u32 offset space.
func alignedOffset(heap *bytes.Buffer) (uint32, error) {
	if heap.Len() > math.MaxUint32 {
		return 0, ErrPackTooLarge
	}
	return uint32(heap.Len()), nil
}

// deriveSeed computes a fixed, input-derived hash-table seed from the sorted
// path list, satisfying the format's determinism requirement without
// depending on process state or insertion order.
func deriveSeed(paths []PackPath) uint64 {
	joined := new(strings.Builder)
	for _, p := range paths {
		joined.WriteString(p.String())
		joined.WriteByte(0)
	}
	return xhash.PathHash(0, joined.String())
}

// buildHashTable places each path's entry index into an open-addressed
// bucket array sized bucketCount, probing linearly on collision.
func buildHashTable(seed uint64, paths []PackPath, bucketCount uint32) []int32 {
	buckets := make([]int32, bucketCount)
	for i := range buckets {
		buckets[i] = emptyBucket
	}

	for i, p := range paths {
		h := xhash.PathHash(seed, p.String())
		slot := uint32(h % uint64(bucketCount))
		for buckets[slot] != emptyBucket {
			slot = (slot + 1) % bucketCount
		}
		buckets[slot] = int32(i)
	}

	return buckets
}
