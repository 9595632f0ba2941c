// SPDX-License-Identifier: MIT

package builder

import (
	"runtime"
	"time"

	"github.com/woozymasta/pathrules"
)

// Default builder tuning values.
const (
	DefaultMinCompressSize = 512
	DefaultMaxCompressSize = 16 * 1024 * 1024
	DefaultGzipLevel       = 9
	DefaultBrotliQuality   = 11
)

// Input is one source file to be packed: already-rooted, already-split path
// segments plus its raw content. The caller owns filesystem walking and
// path stripping; Build only validates and packs what it is given.
type Input struct {
	PathSegments []string
	Content      []byte
}

// FileBuildProgress reports one completed per-file pipeline step, allowing a
// caller to observe compression decisions without the builder logging
// itself.
type FileBuildProgress struct {
	Path             string
	IdentitySize     int
	GzipCandidate    bool
	GzipRetained     bool
	GzipSize         int
	BrotliCandidate  bool
	BrotliRetained   bool
	BrotliSize       int
}

// BuildOptions configures Build behavior.
type BuildOptions struct {
	// OnFileDone is called once per input after all compression has
	// finished, from the goroutine that called Build, in input order as each
	// file is inserted. It is never called concurrently.
	OnFileDone func(FileBuildProgress)
	// Compress defines an optional allow-list of path patterns restricting
	// which files are compression candidates, layered on top of the size
	// threshold below. A nil/empty list means every file meeting the size
	// threshold is a candidate.
	Compress []pathrules.Rule
	// CompressMatcherOptions controls compression path rule matching.
	CompressMatcherOptions pathrules.MatcherOptions
	// MinCompressSize disables compression for identity bodies smaller than
	// this size. Default 512 bytes, matching the spec's suggested threshold.
	MinCompressSize uint32
	// MaxCompressSize disables compression for identity bodies larger than
	// this size, bounding peak build memory. Default 16 MiB.
	MaxCompressSize uint32
	// GzipLevel is the fixed gzip compression level. Default 9 (maximal).
	GzipLevel int
	// BrotliQuality is the fixed brotli compression quality. Default 11
	// (maximal); build cost is paid once per spec §4.2.
	BrotliQuality int
	// MaxWorkers bounds the compression worker pool. Zero means GOMAXPROCS.
	MaxWorkers int
}

func (opts *BuildOptions) applyDefaults() {
	if opts.MinCompressSize == 0 {
		opts.MinCompressSize = DefaultMinCompressSize
	}
	if opts.MaxCompressSize == 0 || opts.MaxCompressSize <= opts.MinCompressSize {
		opts.MaxCompressSize = DefaultMaxCompressSize
	}
	if opts.GzipLevel == 0 {
		opts.GzipLevel = DefaultGzipLevel
	}
	if opts.BrotliQuality == 0 {
		opts.BrotliQuality = DefaultBrotliQuality
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}
	if opts.CompressMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.CompressMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}
	if opts.CompressMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.CompressMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// BuildResult carries build-wide statistics, mirroring what a packer CLI
// reports after a successful run.
type BuildResult struct {
	FileCount   int
	RawBytes    int64
	GzipBytes   int64
	BrotliBytes int64
	Duration    time.Duration
}
