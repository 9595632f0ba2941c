// SPDX-License-Identifier: MIT

/*
Package pack defines the on-disk static-asset pack format and its zero-copy
in-memory projection.

A Pack is a mapping from PackPath to File, built once by package builder and
serialized to a single byte buffer. A buffer produced this way can be loaded
back with no parsing pass: Load bounds-checks a fixed footer at the buffer's
tail and returns an ArchivedPack whose Lookup reads directly out of the
original bytes.

# Building and loading

	p := pack.NewPack()
	path, _ := pack.NewPackPath("index.html")
	_ = p.Insert(path, pack.File{
	    ContentType: "text/html; charset=utf-8",
	    ETag:        `"...64 hex chars..."`,
	    Identity:    []byte("<h1>hi</h1>"),
	})
	buf, err := pack.Serialize(p)
	if err != nil {
	    return err
	}

	archived, err := pack.Load(buf)
	if err != nil {
	    return err
	}
	file, ok := archived.Lookup("index.html")
	_ = ok

# Loading from disk

	archived, mapped, err := pack.MapFile("assets.pack")
	if err != nil {
	    return err
	}
	defer mapped.Close()
*/
package pack
