// SPDX-License-Identifier: MIT

package pack

import (
	"sort"
	"strings"
)

// PathInfo is metadata-only inspection of one archived entry: every File
// attribute except the body bytes themselves.
type PathInfo struct {
	Path        string
	ContentType string
	ETag        string
	Size        int
	HasGzip     bool
	HasBrotli   bool
}

// ListPaths returns metadata for every file in a, sorted by path, without
// reading any identity/gzip/brotli bytes.
func (a *ArchivedPack) ListPaths() []PathInfo {
	heap := a.heap()
	out := make([]PathInfo, a.f.entryCount)

	for i := uint32(0); i < a.f.entryCount; i++ {
		rec := decodeEntryRecord(a.entries[i*entryRecordSize:])
		out[i] = PathInfo{
			Path:        readBlobString(heap, rec.pathOffset),
			ContentType: readBlobString(heap, rec.typeOffset),
			ETag:        readBlobString(heap, rec.etagOffset),
			Size:        len(readBlobBytes(heap, rec.identityOffset)),
			HasGzip:     rec.gzipOffset != 0,
			HasBrotli:   rec.brotliOffset != 0,
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// PathsWithPrefix returns ListPaths filtered to entries whose path starts
// with prefix.
func (a *ArchivedPack) PathsWithPrefix(prefix string) []PathInfo {
	all := a.ListPaths()
	out := all[:0]
	for _, info := range all {
		if strings.HasPrefix(info.Path, prefix) {
			out = append(out, info)
		}
	}
	return out
}
