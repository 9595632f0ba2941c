// SPDX-License-Identifier: MIT

/*
Package builder implements the pack-building pipeline: it consumes a
stream of (path, bytes) inputs already chosen and rooted by the caller,
and produces a pack.Pack ready for pack.Serialize.

	inputs := []builder.Input{
	    {PathSegments: []string{"index.html"}, Content: []byte("<h1>hi</h1>")},
	    {PathSegments: []string{"style.css"}, Content: cssBytes},
	}

	p, result, err := builder.Build(inputs, builder.BuildOptions{})
	if err != nil {
	    return err
	}
	_ = result.FileCount

	buf, err := pack.Serialize(p)

Compression candidates can be restricted with a path allow-list layered on
top of the mandatory size threshold:

	builder.BuildOptions{
	    Compress: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.css"},
	        {Action: pathrules.ActionInclude, Pattern: "*.js"},
	    },
	    CompressMatcherOptions: pathrules.MatcherOptions{
	        CaseInsensitive: true,
	        DefaultAction:   pathrules.ActionExclude,
	    },
	}

Build validates every input path, rejects duplicates, and fans compression
out across a bounded worker pool while keeping final insertion order
(and therefore the serialized bytes) deterministic for identical input.
*/
package builder
