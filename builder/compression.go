// SPDX-License-Identifier: MIT

package builder

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/woozymasta/pathrules"
)

// compressBufferPool reuses the scratch buffers compressGzip/compressBrotli
// write compressed output into, one per worker goroutine's call rather than
// one per file, mirroring the teacher's defaultPackCopyBufferPool.
var compressBufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// acquireCompressBuffer returns a reset scratch buffer and a release
// callback that returns it to the pool.
func acquireCompressBuffer() (*bytes.Buffer, func()) {
	buf := compressBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // pool contains only *bytes.Buffer
	buf.Reset()

	return buf, func() {
		compressBufferPool.Put(buf)
	}
}

// compressMatcher holds compiled allow-list rules restricting which paths
// are compression candidates, on top of the mandatory size threshold.
type compressMatcher struct {
	matcher *pathrules.Matcher
}

func newCompressMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*compressMatcher, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCompressPattern, err)
	}

	return &compressMatcher{matcher: matcher}, nil
}

// Match reports whether path is eligible for compression under the
// configured allow-list. A nil matcher means no restriction beyond size.
func (m *compressMatcher) Match(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}
	return m.matcher.Included(path, false)
}

// isCompressCandidate applies the mandatory size threshold and the optional
// path allow-list.
func isCompressCandidate(opts BuildOptions, matcher *compressMatcher, path string, size int) bool {
	if size < int(opts.MinCompressSize) || size > int(opts.MaxCompressSize) {
		return false
	}
	return matcher.Match(path)
}

// compressGzip compresses data at the fixed configured level, using a
// pooled scratch buffer for the compressed output.
func compressGzip(data []byte, level int) ([]byte, error) {
	buf, release := acquireCompressBuffer()
	defer release()

	w, err := gzip.NewWriterLevel(buf, level)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip writer: %w", ErrCompressorFailed, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: gzip write: %w", ErrCompressorFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: gzip close: %w", ErrCompressorFailed, err)
	}

	return bytes.Clone(buf.Bytes()), nil
}

// compressBrotli compresses data at the fixed configured quality, using a
// pooled scratch buffer for the compressed output.
func compressBrotli(data []byte, quality int) ([]byte, error) {
	buf, release := acquireCompressBuffer()
	defer release()

	w := brotli.NewWriterLevel(buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: brotli write: %w", ErrCompressorFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: brotli close: %w", ErrCompressorFailed, err)
	}

	return bytes.Clone(buf.Bytes()), nil
}
