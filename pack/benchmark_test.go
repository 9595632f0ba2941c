// SPDX-License-Identifier: MIT

package pack

import (
	"fmt"
	"testing"
)

func buildBenchArchive(b *testing.B, n int) *ArchivedPack {
	b.Helper()

	p := NewPack()
	for i := 0; i < n; i++ {
		path, err := NewPackPath(fmt.Sprintf("assets/file-%04d.css", i))
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Insert(path, File{
			ContentType: "text/css; charset=utf-8",
			ETag:        `"0000000000000000000000000000000000000000000000000000000000000000"`,
			Identity:    []byte("body{color:red}"),
		}); err != nil {
			b.Fatal(err)
		}
	}

	buf, err := Serialize(p)
	if err != nil {
		b.Fatal(err)
	}
	archived, err := Load(buf)
	if err != nil {
		b.Fatal(err)
	}
	return archived
}

func BenchmarkLookupHit(b *testing.B) {
	archived := buildBenchArchive(b, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := archived.Lookup("assets/file-0512.css"); !ok {
			b.Fatal("expected hit")
		}
	}
}

func BenchmarkLookupMiss(b *testing.B) {
	archived := buildBenchArchive(b, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := archived.Lookup("assets/does-not-exist.css"); ok {
			b.Fatal("expected miss")
		}
	}
}

func BenchmarkSerializeLargePack(b *testing.B) {
	p := NewPack()
	for i := 0; i < 2000; i++ {
		path, err := NewPackPath(fmt.Sprintf("assets/file-%04d.css", i))
		if err != nil {
			b.Fatal(err)
		}
		if err := p.Insert(path, File{
			ContentType: "text/css; charset=utf-8",
			ETag:        `"0000000000000000000000000000000000000000000000000000000000000000"`,
			Identity:    []byte("body{color:red}"),
		}); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Serialize(p); err != nil {
			b.Fatal(err)
		}
	}
}
