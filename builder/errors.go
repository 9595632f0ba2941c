// SPDX-License-Identifier: MIT

package builder

import "errors"

// Sentinel errors for build operations. Use errors.Is in callers.
var (
	// ErrEmptyInputs means Build was called with no inputs.
	ErrEmptyInputs = errors.New("no inputs provided for build")
	// ErrInvalidPath means one input's path segments failed PackPath validation.
	ErrInvalidPath = errors.New("invalid input path")
	// ErrDuplicatePath means two inputs resolved to the same PackPath.
	ErrDuplicatePath = errors.New("duplicate input path")
	// ErrCompressorFailed means a gzip or brotli compressor returned an error.
	ErrCompressorFailed = errors.New("compressor failed")
	// ErrInvalidCompressPattern means a BuildOptions.Compress rule failed to compile.
	ErrInvalidCompressPattern = errors.New("invalid compress rules")
)
