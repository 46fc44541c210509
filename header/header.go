// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package header implements the canonical 80-byte Bitcoin block header
// encoding and the in-place nonce/timestamp splicing the mining loop needs
// on every pass.
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Size is the length in bytes of a serialized block header.
const Size = 80

const (
	versionOffset    = 0
	prevHashOffset   = 4
	merkleRootOffset = 36
	timeOffset       = 68
	bitsOffset       = 72
	nonceOffset      = 76
)

// Header is the 80-byte Bitcoin block header, all multi-byte fields
// little-endian on the wire.
type Header struct {
	Version       int32
	PrevBlockHash chainhash.Hash
	MerkleRoot    chainhash.Hash
	Time          uint32
	Bits          uint32
	Nonce         uint32
}

// Encode serializes h into its canonical 80-byte representation.
func (h *Header) Encode() [Size]byte {
	var buf [Size]byte

	binary.LittleEndian.PutUint32(buf[versionOffset:], uint32(h.Version))
	copy(buf[prevHashOffset:merkleRootOffset], h.PrevBlockHash[:])
	copy(buf[merkleRootOffset:timeOffset], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[timeOffset:], h.Time)
	binary.LittleEndian.PutUint32(buf[bitsOffset:], h.Bits)
	binary.LittleEndian.PutUint32(buf[nonceOffset:], h.Nonce)

	return buf
}

// Decode is the inverse of Encode.
func Decode(buf [Size]byte) Header {
	var h Header

	h.Version = int32(binary.LittleEndian.Uint32(buf[versionOffset:]))
	copy(h.PrevBlockHash[:], buf[prevHashOffset:merkleRootOffset])
	copy(h.MerkleRoot[:], buf[merkleRootOffset:timeOffset])
	h.Time = binary.LittleEndian.Uint32(buf[timeOffset:])
	h.Bits = binary.LittleEndian.Uint32(buf[bitsOffset:])
	h.Nonce = binary.LittleEndian.Uint32(buf[nonceOffset:])

	return h
}

// SpliceNonce overwrites bytes [76,80) of buf with n, little-endian. It
// touches no other byte.
func SpliceNonce(buf *[Size]byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[nonceOffset:], n)
}

// SpliceTime overwrites bytes [68,72) of buf with t, little-endian. It
// touches no other byte.
func SpliceTime(buf *[Size]byte, t uint32) {
	binary.LittleEndian.PutUint32(buf[timeOffset:], t)
}

// Hash returns the double-SHA-256 block hash of an encoded header, using
// the same primitive (chainhash.DoubleHashH) the rest of the btcsuite
// ecosystem uses for block hashing.
func Hash(buf [Size]byte) chainhash.Hash {
	return chainhash.DoubleHashH(buf[:])
}

// LessThanTarget reports whether hash, interpreted as a 256-bit
// little-endian unsigned integer exactly as the Bitcoin consensus encoding
// does, compares strictly less than target. Equality does not satisfy the
// proof-of-work predicate. Both arguments must already be in that same
// little-endian convention; callers decoding target from a getblocktemplate
// response (hex-encoded big-endian per BIP22/23) must reverse it first —
// block.Decode does this, unlike the straight pass-through hex decode it
// uses for hash-like fields that already arrive little-endian.
func LessThanTarget(hash, target chainhash.Hash) bool {
	// chainhash.Hash stores bytes in the same internal order regardless of
	// interpretation; comparing from the most-significant byte of the
	// little-endian integer (i.e. the last byte of the array) down to the
	// least-significant gives the numeric comparison directly.
	for i := chainhash.HashSize - 1; i >= 0; i-- {
		switch {
		case hash[i] < target[i]:
			return true
		case hash[i] > target[i]:
			return false
		}
	}
	return false
}

// String renders a header for logging.
func (h Header) String() string {
	return fmt.Sprintf("version=%d prev=%s merkle=%s time=%d bits=%08x nonce=%08x",
		h.Version, h.PrevBlockHash, h.MerkleRoot, h.Time, h.Bits, h.Nonce)
}
