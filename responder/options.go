// SPDX-License-Identifier: MIT

package responder

// DefaultCacheControl is applied when Options.CacheControl is left empty.
// Packed assets are content-addressed by strong ETag and never mutate in
// place, so a long, immutable cache lifetime is safe.
const DefaultCacheControl = "public, max-age=31536000, immutable"

// Options configures a Responder.
type Options struct {
	// CacheControl is the header value attached to every 200/304 response.
	// Defaults to DefaultCacheControl.
	CacheControl string
}

func (o *Options) applyDefaults() {
	if o.CacheControl == "" {
		o.CacheControl = DefaultCacheControl
	}
}
