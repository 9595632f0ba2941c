// SPDX-License-Identifier: MIT

package responder

import "errors"

// Sentinel errors for responder request handling. Use errors.Is in callers.
var (
	// ErrMethodNotAllowed means the request method is neither GET nor HEAD.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrNotFound means the path failed PackPath validation or has no entry.
	ErrNotFound = errors.New("not found")
	// ErrNotAcceptable means no available encoding satisfies Accept-Encoding.
	ErrNotAcceptable = errors.New("not acceptable")
)
