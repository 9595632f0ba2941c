// SPDX-License-Identifier: MIT

package xhash

import (
	"regexp"
	"testing"
)

var etagPattern = regexp.MustCompile(`^"[0-9a-f]{64}"$`)

func TestETagFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content []byte
	}{
		{name: "empty", content: nil},
		{name: "short", content: []byte("hi")},
		{name: "binary", content: []byte{0x00, 0xff, 0x10, 0x02}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ETag(tc.content)
			if !etagPattern.MatchString(got) {
				t.Fatalf("ETag(%v) = %q, want quoted 64-char lowercase hex", tc.content, got)
			}
		})
	}
}

func TestETagDeterministic(t *testing.T) {
	t.Parallel()

	content := []byte("same bytes every time")
	if ETag(content) != ETag(content) {
		t.Fatal("ETag is not deterministic for identical content")
	}
	if ETag(content) == ETag([]byte("different bytes")) {
		t.Fatal("ETag collided for different content")
	}
}

func TestPathHashDeterministicAndSeedSensitive(t *testing.T) {
	t.Parallel()

	if PathHash(1, "a/b.txt") != PathHash(1, "a/b.txt") {
		t.Fatal("PathHash is not deterministic for the same seed and path")
	}
	if PathHash(1, "a/b.txt") == PathHash(2, "a/b.txt") {
		t.Fatal("PathHash did not change with a different seed")
	}
	if PathHash(1, "a/b.txt") == PathHash(1, "a/c.txt") {
		t.Fatal("PathHash collided for two different paths (suspiciously, not a correctness bug by itself)")
	}
}
