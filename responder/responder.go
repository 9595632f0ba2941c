// SPDX-License-Identifier: MIT

// Package responder implements the HTTP state machine described in the
// pack format's §4.3: method gating, path lookup, ETag short-circuit, and
// Accept-Encoding negotiation. It performs no I/O and holds no mutable
// state; every Respond call is independent and reentrant.
package responder

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/webstaticpack/webstaticpack/pack"
)

// Request is the (method, path, headers) tuple a Responder answers. Path is
// the request path as received (a leading "/" is stripped before lookup);
// Header carries only the recognized request headers, If-None-Match and
// Accept-Encoding.
type Request struct {
	Method string
	Path   string
	Header http.Header
}

// Response is a fully-formed HTTP response head plus a borrowed body slice.
// Body aliases the archived pack's bytes for GET 200 responses; it is nil
// for HEAD, 304, and every error response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Responder answers HTTP request tuples against an archived pack. It is
// stateless with respect to requests: the only state is the borrowed pack
// and a precomputed Cache-Control value, and it is safe for concurrent use.
type Responder struct {
	archived     *pack.ArchivedPack
	cacheControl string
}

// New returns a Responder borrowing archived. archived must outlive the
// Responder and every Response it produces.
func New(archived *pack.ArchivedPack, opts Options) *Responder {
	opts.applyDefaults()
	return &Responder{archived: archived, cacheControl: opts.CacheControl}
}

// Respond runs the single-pass algorithm of spec §4.3 and returns a typed
// error on any of MethodNotAllowed, NotFound, NotAcceptable.
func (r *Responder) Respond(req Request) (Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return Response{}, ErrMethodNotAllowed
	}

	path, ok := normalizePath(req.Path)
	if !ok {
		return Response{}, ErrNotFound
	}

	file, ok := r.archived.Lookup(path)
	if !ok {
		return Response{}, ErrNotFound
	}

	if r.ifNoneMatchHits(req.Header, file.ETag) {
		return r.notModified(file), nil
	}

	enc, err := negotiate(req.Header.Get("Accept-Encoding"), file)
	if err != nil {
		return Response{}, err
	}

	body, _ := file.Body(enc)
	return r.ok(req.Method, file, enc, body), nil
}

// RespondFlatten is Respond with every error converted to the canonical
// HTTP error response per spec §4.3's error table.
func (r *Responder) RespondFlatten(req Request) Response {
	resp, err := r.Respond(req)
	if err == nil {
		return resp
	}
	return errorResponse(err)
}

// normalizePath strips a single leading slash (the conventional form of an
// HTTP request path) and validates the remainder as a PackPath. It returns
// ok=false for anything the validator rejects, which Respond maps to 404.
func normalizePath(raw string) (string, bool) {
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return "", false
	}
	if _, err := pack.NewPackPath(raw); err != nil {
		return "", false
	}
	return raw, true
}

// ifNoneMatchHits reports whether header's If-None-Match lists etag
// byte-for-byte, or is the wildcard "*".
func (r *Responder) ifNoneMatchHits(header http.Header, etag string) bool {
	value := header.Get("If-None-Match")
	if value == "" {
		return false
	}
	for _, candidate := range strings.Split(value, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func (r *Responder) notModified(file pack.ArchivedFile) Response {
	h := make(http.Header, 2)
	h.Set("ETag", file.ETag)
	h.Set("Cache-Control", r.cacheControl)
	return Response{Status: http.StatusNotModified, Header: h}
}

func (r *Responder) ok(method string, file pack.ArchivedFile, enc pack.ContentEncoding, body []byte) Response {
	h := make(http.Header, 6)
	h.Set("Content-Type", file.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("ETag", file.ETag)
	h.Set("Cache-Control", r.cacheControl)
	h.Set("Vary", "Accept-Encoding")
	if enc != pack.Identity {
		h.Set("Content-Encoding", enc.String())
	}

	resp := Response{Status: http.StatusOK, Header: h}
	if method == http.MethodGet {
		resp.Body = body
	}
	return resp
}

// errorResponse renders err as the canonical HTTP error response from
// spec §4.3's table. Panics on an err not originating from Respond, which
// would indicate a programming error rather than a request outcome.
func errorResponse(err error) Response {
	switch err {
	case ErrMethodNotAllowed:
		h := make(http.Header, 1)
		h.Set("Allow", "GET, HEAD")
		return Response{Status: http.StatusMethodNotAllowed, Header: h}
	case ErrNotFound:
		return Response{Status: http.StatusNotFound, Header: make(http.Header)}
	case ErrNotAcceptable:
		h := make(http.Header, 1)
		h.Set("Vary", "Accept-Encoding")
		return Response{Status: http.StatusNotAcceptable, Header: h}
	default:
		panic("responder: errorResponse called with unrecognized error: " + err.Error())
	}
}
