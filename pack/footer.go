// SPDX-License-Identifier: MIT

package pack

import "encoding/binary"

// Footer layout, little-endian, 32 bytes, anchored at the final 32 bytes of
// a serialized buffer:
//
//	magic         [4]byte  "WSPK"
//	version       uint16
//	reserved      uint16
//	entryCount    uint32
//	hashSeed      uint64
//	bucketCount   uint32
//	bucketsOffset uint32   heap offset of the bucket array
//	entriesOffset uint32   heap offset of the entry record array
const (
	footerSize = 32

	footerMagic        = "WSPK"
	footerVersion      = uint16(1)
	footerMagicOff     = 0
	footerVersionOff   = 4
	footerReservedOff  = 6
	footerEntryCntOff  = 8
	footerHashSeedOff  = 12
	footerBucketCntOff = 20
	footerBucketsOff   = 24
	footerEntriesOff   = 28
)

// entryRecordSize is the fixed width of one serialized entry: six u32 heap
// offsets (path, content type, etag, identity, gzip, brotli).
const entryRecordSize = 24

// heapGuardSize reserves the first 4 bytes of the heap as an always-present,
// never-referenced region, so that offset 0 is unambiguously "absent" for
// the optional gzip/brotli offset fields.
const heapGuardSize = 4

type footer struct {
	version       uint16
	entryCount    uint32
	hashSeed      uint64
	bucketCount   uint32
	bucketsOffset uint32
	entriesOffset uint32
}

func encodeFooter(buf []byte, f footer) {
	copy(buf[footerMagicOff:footerMagicOff+4], footerMagic)
	binary.LittleEndian.PutUint16(buf[footerVersionOff:], f.version)
	binary.LittleEndian.PutUint16(buf[footerReservedOff:], 0)
	binary.LittleEndian.PutUint32(buf[footerEntryCntOff:], f.entryCount)
	binary.LittleEndian.PutUint64(buf[footerHashSeedOff:], f.hashSeed)
	binary.LittleEndian.PutUint32(buf[footerBucketCntOff:], f.bucketCount)
	binary.LittleEndian.PutUint32(buf[footerBucketsOff:], f.bucketsOffset)
	binary.LittleEndian.PutUint32(buf[footerEntriesOff:], f.entriesOffset)
}

func decodeFooter(buf []byte) (footer, error) {
	if len(buf) != footerSize {
		return footer{}, ErrBufferTooSmall
	}
	if string(buf[footerMagicOff:footerMagicOff+4]) != footerMagic {
		return footer{}, ErrBadMagic
	}

	f := footer{
		version:       binary.LittleEndian.Uint16(buf[footerVersionOff:]),
		entryCount:    binary.LittleEndian.Uint32(buf[footerEntryCntOff:]),
		hashSeed:      binary.LittleEndian.Uint64(buf[footerHashSeedOff:]),
		bucketCount:   binary.LittleEndian.Uint32(buf[footerBucketCntOff:]),
		bucketsOffset: binary.LittleEndian.Uint32(buf[footerBucketsOff:]),
		entriesOffset: binary.LittleEndian.Uint32(buf[footerEntriesOff:]),
	}
	if f.version != footerVersion {
		return footer{}, ErrUnsupportedVersion
	}
	return f, nil
}

// entryRecord is the fixed-width, on-disk representation of one File. Every
// offset is relative to the start of the heap; 0 means "absent" for the
// optional fields, safe because heapGuardSize reserves offset 0.
type entryRecord struct {
	pathOffset     uint32
	typeOffset     uint32
	etagOffset     uint32
	identityOffset uint32
	gzipOffset     uint32
	brotliOffset   uint32
}

func encodeEntryRecord(buf []byte, r entryRecord) {
	binary.LittleEndian.PutUint32(buf[0:], r.pathOffset)
	binary.LittleEndian.PutUint32(buf[4:], r.typeOffset)
	binary.LittleEndian.PutUint32(buf[8:], r.etagOffset)
	binary.LittleEndian.PutUint32(buf[12:], r.identityOffset)
	binary.LittleEndian.PutUint32(buf[16:], r.gzipOffset)
	binary.LittleEndian.PutUint32(buf[20:], r.brotliOffset)
}

func decodeEntryRecord(buf []byte) entryRecord {
	return entryRecord{
		pathOffset:     binary.LittleEndian.Uint32(buf[0:]),
		typeOffset:     binary.LittleEndian.Uint32(buf[4:]),
		etagOffset:     binary.LittleEndian.Uint32(buf[8:]),
		identityOffset: binary.LittleEndian.Uint32(buf[12:]),
		gzipOffset:     binary.LittleEndian.Uint32(buf[16:]),
		brotliOffset:   binary.LittleEndian.Uint32(buf[20:]),
	}
}

// emptyBucket is the sentinel value for an unoccupied bucket slot.
const emptyBucket = int32(-1)

func encodeBucket(buf []byte, idx int32) {
	binary.LittleEndian.PutUint32(buf, uint32(idx))
}

func decodeBucket(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}

// nextPowerOfTwo returns the smallest power of two >= n, minimum 1.
func nextPowerOfTwo(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}
