// SPDX-License-Identifier: MIT

package builder

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/sha3"

	"github.com/webstaticpack/webstaticpack/pack"
)

func TestBuildEmptyInputs(t *testing.T) {
	t.Parallel()

	_, _, err := Build(nil, BuildOptions{})
	if !errors.Is(err, ErrEmptyInputs) {
		t.Fatalf("Build(nil) error = %v, want ErrEmptyInputs", err)
	}
}

func TestBuildInvalidPath(t *testing.T) {
	t.Parallel()

	inputs := []Input{{PathSegments: []string{"..", "etc", "passwd"}, Content: []byte("x")}}
	_, _, err := Build(inputs, BuildOptions{})
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Build() error = %v, want ErrInvalidPath", err)
	}
}

func TestBuildDuplicatePath(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{PathSegments: []string{"a.html"}, Content: []byte("1")},
		{PathSegments: []string{"a.html"}, Content: []byte("2")},
	}
	_, _, err := Build(inputs, BuildOptions{})
	if !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("Build() error = %v, want ErrDuplicatePath", err)
	}
}

func TestBuildContentTypeAndCompression(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{PathSegments: []string{"a.html"}, Content: []byte("<h1>hi</h1>")},
		{PathSegments: []string{"a.bin"}, Content: bytes.Repeat([]byte{0xAB}, 600)},
	}

	p, result, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.FileCount != 2 {
		t.Fatalf("FileCount = %d, want 2", result.FileCount)
	}

	htmlPath, _ := pack.NewPackPath("a.html")
	html, ok := p.Lookup(htmlPath)
	if !ok {
		t.Fatalf("a.html missing from pack")
	}
	if html.ContentType != "text/html; charset=utf-8" {
		t.Errorf("a.html ContentType = %q, want text/html; charset=utf-8", html.ContentType)
	}
	// Below the default 512-byte compression threshold: no compressed variants.
	if html.Gzip != nil || html.Brotli != nil {
		t.Errorf("a.html got compressed variants below MinCompressSize")
	}

	binPath, _ := pack.NewPackPath("a.bin")
	bin, ok := p.Lookup(binPath)
	if !ok {
		t.Fatalf("a.bin missing from pack")
	}
	if bin.ContentType != "application/octet-stream" {
		t.Errorf("a.bin ContentType = %q, want application/octet-stream", bin.ContentType)
	}
}

func TestBuildCompressesLargeCompressibleFile(t *testing.T) {
	t.Parallel()

	css := []byte(strings.Repeat("body{color:red}\n", 300))
	inputs := []Input{{PathSegments: []string{"style.css"}, Content: css}}

	p, _, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path, _ := pack.NewPackPath("style.css")
	file, ok := p.Lookup(path)
	if !ok {
		t.Fatalf("style.css missing from pack")
	}
	if file.Gzip == nil {
		t.Fatalf("expected gzip variant for repetitive css")
	}
	if len(file.Gzip) >= len(css) {
		t.Errorf("gzip variant not smaller: %d >= %d", len(file.Gzip), len(css))
	}
	if file.Brotli == nil {
		t.Fatalf("expected brotli variant for repetitive css")
	}
	if len(file.Brotli) >= len(css) {
		t.Errorf("brotli variant not smaller: %d >= %d", len(file.Brotli), len(css))
	}
}

func TestBuildCompressedVariantsDecompressToIdentity(t *testing.T) {
	t.Parallel()

	css := []byte(strings.Repeat("body{color:red}\n", 300))
	inputs := []Input{{PathSegments: []string{"style.css"}, Content: css}}

	p, _, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path, _ := pack.NewPackPath("style.css")
	file, ok := p.Lookup(path)
	if !ok {
		t.Fatalf("style.css missing from pack")
	}

	if file.Gzip == nil {
		t.Fatalf("expected gzip variant for repetitive css")
	}
	gzr, err := gzip.NewReader(bytes.NewReader(file.Gzip))
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	gunzipped, err := io.ReadAll(gzr)
	if err != nil {
		t.Fatalf("gzip decompress error = %v", err)
	}
	if !bytes.Equal(gunzipped, file.Identity) {
		t.Fatalf("gunzip(content_gzip) != content_identity")
	}

	if file.Brotli == nil {
		t.Fatalf("expected brotli variant for repetitive css")
	}
	unbrotlied, err := io.ReadAll(brotli.NewReader(bytes.NewReader(file.Brotli)))
	if err != nil {
		t.Fatalf("brotli decompress error = %v", err)
	}
	if !bytes.Equal(unbrotlied, file.Identity) {
		t.Fatalf("unbrotli(content_brotli) != content_identity")
	}
}

func TestBuildETagMatchesDigest(t *testing.T) {
	t.Parallel()

	inputs := []Input{{PathSegments: []string{"a.txt"}, Content: []byte("hello world")}}
	p, _, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path, _ := pack.NewPackPath("a.txt")
	file, _ := p.Lookup(path)
	if len(file.ETag) != 66 || file.ETag[0] != '"' || file.ETag[65] != '"' {
		t.Fatalf("ETag = %q, want quoted 64-hex-char digest", file.ETag)
	}
	sum := sha3.Sum256([]byte("hello world"))
	if want := `"` + hex.EncodeToString(sum[:]) + `"`; file.ETag != want {
		t.Fatalf("ETag = %q, want %q", file.ETag, want)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	inputs := []Input{
		{PathSegments: []string{"a.html"}, Content: []byte("<h1>hi</h1>")},
		{PathSegments: []string{"b.css"}, Content: bytes.Repeat([]byte("x"), 2000)},
		{PathSegments: []string{"c.bin"}, Content: bytes.Repeat([]byte{1, 2, 3}, 400)},
	}

	p1, _, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p2, _, err := Build(inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	buf1, err := pack.Serialize(p1)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	buf2, err := pack.Serialize(p2)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	if !bytes.Equal(buf1, buf2) {
		t.Fatalf("Serialize(Build(inputs)) not deterministic across runs")
	}
}

func TestBuildAndWrite(t *testing.T) {
	t.Parallel()

	inputs := []Input{{PathSegments: []string{"index.html"}, Content: []byte("hi")}}
	var buf bytes.Buffer

	result, err := BuildAndWrite(&buf, inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildAndWrite() error = %v", err)
	}
	if result.FileCount != 1 {
		t.Fatalf("FileCount = %d, want 1", result.FileCount)
	}

	archived, err := pack.Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if archived.EntryCount() != 1 {
		t.Fatalf("EntryCount() = %d, want 1", archived.EntryCount())
	}
}

func TestBuildOnFileDoneCallback(t *testing.T) {
	t.Parallel()

	css := []byte(strings.Repeat("a", 2000))
	inputs := []Input{
		{PathSegments: []string{"small.txt"}, Content: []byte("x")},
		{PathSegments: []string{"big.css"}, Content: css},
	}

	var progresses []FileBuildProgress
	_, _, err := Build(inputs, BuildOptions{
		OnFileDone: func(p FileBuildProgress) {
			progresses = append(progresses, p)
		},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(progresses) != 2 {
		t.Fatalf("got %d progress callbacks, want 2", len(progresses))
	}

	byPath := map[string]FileBuildProgress{}
	for _, p := range progresses {
		byPath[p.Path] = p
	}
	if byPath["small.txt"].GzipCandidate {
		t.Errorf("small.txt should not be a compression candidate")
	}
	if !byPath["big.css"].GzipRetained {
		t.Errorf("big.css should retain a gzip variant")
	}
}

func TestBuildRespectsMaxCompressSize(t *testing.T) {
	t.Parallel()

	big := bytes.Repeat([]byte("z"), 2000)
	inputs := []Input{{PathSegments: []string{"huge.bin"}, Content: big}}

	p, _, err := Build(inputs, BuildOptions{MaxCompressSize: 1000})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	path, _ := pack.NewPackPath("huge.bin")
	file, _ := p.Lookup(path)
	if file.Gzip != nil || file.Brotli != nil {
		t.Errorf("expected no compressed variants above MaxCompressSize")
	}
}
