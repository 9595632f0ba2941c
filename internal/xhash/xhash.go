// SPDX-License-Identifier: MIT

// Package xhash provides the two hash primitives shared by the pack format
// and the builder: the strong per-file ETag digest and the on-disk hash
// table's bucket hash.
package xhash

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/sha3"
)

// seedMixConstant is the finalizer multiplier used to fold a table seed into
// an xxhash digest without re-hashing the path bytes with the seed prepended.
const seedMixConstant = 0x9E3779B97F4A7C15

// ETag returns the quoted lowercase hex SHA3-256 digest of content, formatted
// exactly as the pack format's File.ETag attribute requires.
func ETag(content []byte) string {
	sum := sha3.Sum256(content)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// PathHash returns a 64-bit hash of path mixed with seed, used to place an
// entry in the archived pack's bucket array. It never allocates.
func PathHash(seed uint64, path string) uint64 {
	h := xxhash.Sum64String(path)
	h ^= seed
	h *= seedMixConstant
	h ^= h >> 32
	return h
}
