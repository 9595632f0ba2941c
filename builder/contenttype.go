// SPDX-License-Identifier: MIT

package builder

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultContentType = "application/octet-stream"

// inferContentType determines a File's content_type from the last path
// segment's extension, falling back to content sniffing for extensions the
// stdlib mime table doesn't know, and finally to application/octet-stream.
// Text types get an explicit utf-8 charset unless already parameterized.
func inferContentType(name string, content []byte) string {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		if detected := mimetype.Detect(content); detected != nil {
			ct = detected.String()
		}
	}
	if ct == "" {
		ct = defaultContentType
	}

	return ensureTextCharset(ct)
}

// ensureTextCharset appends "; charset=utf-8" to a text/* MIME type that
// doesn't already carry a parameter list.
func ensureTextCharset(ct string) string {
	if !strings.HasPrefix(ct, "text/") {
		return ct
	}
	if strings.Contains(ct, ";") {
		return ct
	}
	return ct + "; charset=utf-8"
}
