// SPDX-License-Identifier: MIT

package responder

import (
	"strconv"
	"strings"

	"github.com/webstaticpack/webstaticpack/pack"
)

// preference orders candidate encodings by tie-break preference when two
// encodings tie on q-value: brotli > gzip > identity, to prefer the
// smaller payload.
var preference = []pack.ContentEncoding{pack.Brotli, pack.Gzip, pack.Identity}

// acceptEncoding is the parsed form of an Accept-Encoding header: explicit
// per-token q-values plus an optional wildcard q-value.
type acceptEncoding struct {
	explicit    map[string]float64
	hasWildcard bool
	wildcardQ   float64
}

// parseAcceptEncoding parses a comma-separated list of "token[;q=NUMBER]"
// entries. An empty header parses to an empty acceptEncoding, which yields
// the same negotiation result as an absent header (identity;q=1 only) via
// effectiveQ's defaulting rule.
func parseAcceptEncoding(header string) acceptEncoding {
	ae := acceptEncoding{explicit: make(map[string]float64)}
	if strings.TrimSpace(header) == "" {
		return ae
	}

	for _, part := range strings.Split(header, ",") {
		token, q := parseAcceptEncodingEntry(part)
		if token == "" {
			continue
		}
		if token == "*" {
			ae.hasWildcard = true
			ae.wildcardQ = q
			continue
		}
		ae.explicit[token] = q
	}

	return ae
}

// parseAcceptEncodingEntry parses one "token" or "token;q=NUMBER" entry,
// lower-casing the token for case-insensitive matching. An entry with an
// unparseable q defaults to q=1, matching common HTTP client behavior.
func parseAcceptEncodingEntry(entry string) (string, float64) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", 0
	}

	token := entry
	q := 1.0

	if idx := strings.IndexByte(entry, ';'); idx >= 0 {
		token = strings.TrimSpace(entry[:idx])
		params := entry[idx+1:]
		for _, param := range strings.Split(params, ";") {
			param = strings.TrimSpace(param)
			name, val, ok := strings.Cut(param, "=")
			if !ok || strings.TrimSpace(name) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				q = parsed
			}
		}
	}

	return strings.ToLower(token), q
}

// effectiveQ returns the q-value ae assigns to enc, applying the spec's
// identity-default and wildcard rules.
func (ae acceptEncoding) effectiveQ(enc pack.ContentEncoding) float64 {
	token := encodingToken(enc)
	if q, ok := ae.explicit[token]; ok {
		return q
	}
	if ae.hasWildcard {
		return ae.wildcardQ
	}
	if enc == pack.Identity {
		return 1
	}
	return 0
}

// encodingToken returns the Accept-Encoding token used to name enc:
// "identity" for the uncompressed body and pack.ContentEncoding.String()
// for Gzip/Brotli.
func encodingToken(enc pack.ContentEncoding) string {
	if enc == pack.Identity {
		return "identity"
	}
	return enc.String()
}

// negotiate selects the encoding with the highest q>0 among file's
// available encodings, tie-breaking by preference. It returns
// ErrNotAcceptable if no encoding has q>0.
func negotiate(header string, file pack.ArchivedFile) (pack.ContentEncoding, error) {
	ae := parseAcceptEncoding(header)

	best := pack.ContentEncoding(-1)
	bestQ := 0.0

	for _, enc := range preference {
		if !file.HasEncoding(enc) {
			continue
		}
		q := ae.effectiveQ(enc)
		if q <= 0 {
			continue
		}
		if q > bestQ || best == -1 {
			best, bestQ = enc, q
		}
	}

	if best == -1 {
		return 0, ErrNotAcceptable
	}
	return best, nil
}
