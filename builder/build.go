// SPDX-License-Identifier: MIT

// Package builder implements the per-file build pipeline described in the
// pack format's §4.2: path validation, content-type inference, strong-hash
// computation, and compressed-variant selection, fanned out across a
// bounded worker pool and assembled into a deterministic Pack.
package builder

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/webstaticpack/webstaticpack/internal/xhash"
	"github.com/webstaticpack/webstaticpack/pack"
)

// Build runs the per-file pipeline over inputs and returns the resulting
// Pack plus build statistics. Compression of distinct files is
// parallelized across opts.MaxWorkers goroutines; insertion into the
// returned Pack happens in input order regardless of worker completion
// order, so the result is deterministic for identical inputs.
func Build(inputs []Input, opts BuildOptions) (*pack.Pack, BuildResult, error) {
	if len(inputs) == 0 {
		return nil, BuildResult{}, ErrEmptyInputs
	}

	opts.applyDefaults()

	matcher, err := newCompressMatcher(opts.Compress, opts.CompressMatcherOptions)
	if err != nil {
		return nil, BuildResult{}, err
	}

	start := time.Now()

	paths := make([]pack.PackPath, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i, in := range inputs {
		p, err := pack.NewPackPathFromSegments(in.PathSegments)
		if err != nil {
			return nil, BuildResult{}, fmt.Errorf("%w: %q: %w", ErrInvalidPath, joinSegments(in.PathSegments), err)
		}
		if prior, dup := seen[p.String()]; dup {
			return nil, BuildResult{}, fmt.Errorf("%w: %q (inputs %d and %d)", ErrDuplicatePath, p.String(), prior, i)
		}
		seen[p.String()] = i
		paths[i] = p
	}

	results := make([]pack.File, len(inputs))
	progresses := make([]FileBuildProgress, len(inputs))
	errs := make([]error, len(inputs))

	workers := opts.MaxWorkers
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if workers < 1 {
		workers = 1
	}

	taskCh := make(chan int, len(inputs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			for i := range taskCh {
				file, progress, err := buildOne(inputs[i], paths[i].String(), opts, matcher)
				results[i] = file
				progresses[i] = progress
				errs[i] = err
			}
		})
	}
	for i := range inputs {
		taskCh <- i
	}
	close(taskCh)
	wg.Wait()

	p := pack.NewPack()
	result := BuildResult{Duration: time.Since(start)}

	for i, path := range paths {
		if errs[i] != nil {
			return nil, BuildResult{}, fmt.Errorf("build %q: %w", path.String(), errs[i])
		}
		if err := p.Insert(path, results[i]); err != nil {
			return nil, BuildResult{}, fmt.Errorf("insert %q: %w", path.String(), err)
		}

		result.FileCount++
		result.RawBytes += int64(len(results[i].Identity))
		if results[i].Gzip != nil {
			result.GzipBytes += int64(len(results[i].Gzip))
		}
		if results[i].Brotli != nil {
			result.BrotliBytes += int64(len(results[i].Brotli))
		}

		if opts.OnFileDone != nil {
			opts.OnFileDone(progresses[i])
		}
	}

	return p, result, nil
}

// buildOne runs the deterministic per-file pipeline: content-type
// inference, ETag digest, and candidate compression.
func buildOne(in Input, path string, opts BuildOptions, matcher *compressMatcher) (pack.File, FileBuildProgress, error) {
	file := pack.File{
		ContentType: inferContentType(path, in.Content),
		ETag:        xhash.ETag(in.Content),
		Identity:    in.Content,
	}
	progress := FileBuildProgress{Path: path, IdentitySize: len(in.Content)}

	if isCompressCandidate(opts, matcher, path, len(in.Content)) {
		progress.GzipCandidate = true
		gz, err := compressGzip(in.Content, opts.GzipLevel)
		if err != nil {
			return pack.File{}, FileBuildProgress{}, err
		}
		if len(gz) < len(in.Content) {
			file.Gzip = gz
			progress.GzipRetained = true
			progress.GzipSize = len(gz)
		}

		progress.BrotliCandidate = true
		br, err := compressBrotli(in.Content, opts.BrotliQuality)
		if err != nil {
			return pack.File{}, FileBuildProgress{}, err
		}
		if len(br) < len(in.Content) {
			file.Brotli = br
			progress.BrotliRetained = true
			progress.BrotliSize = len(br)
		}
	}

	return file, progress, nil
}

// BuildAndWrite runs Build and writes the serialized pack directly to w, a
// convenience over Build+pack.Serialize for callers that only want a sink.
func BuildAndWrite(w io.Writer, inputs []Input, opts BuildOptions) (BuildResult, error) {
	p, result, err := Build(inputs, opts)
	if err != nil {
		return BuildResult{}, err
	}

	buf, err := pack.Serialize(p)
	if err != nil {
		return BuildResult{}, err
	}

	if _, err := w.Write(buf); err != nil {
		return BuildResult{}, fmt.Errorf("write pack: %w", err)
	}

	return result, nil
}

func joinSegments(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
