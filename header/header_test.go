// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package header

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		Version:       2,
		PrevBlockHash: chainhash.Hash{1, 2, 3},
		MerkleRoot:    chainhash.Hash{4, 5, 6},
		Time:          1_700_000_000,
		Bits:          0x1d00ffff,
		Nonce:         0xdeadbeef,
	}

	buf := h.Encode()
	got := Decode(buf)

	require.Equal(t, h, got)
}

func TestSpliceNonceTouchesOnlyNonceBytes(t *testing.T) {
	h := Header{Version: 1, Time: 42, Bits: 7, Nonce: 0}
	buf := h.Encode()

	before := buf
	SpliceNonce(&buf, 0x01020304)

	require.Equal(t, before[:nonceOffset], buf[:nonceOffset])
	require.Equal(t, uint32(0x01020304), Decode(buf).Nonce)
}

func TestSpliceTimeTouchesOnlyTimeBytes(t *testing.T) {
	h := Header{Version: 1, Bits: 7, Nonce: 99}
	buf := h.Encode()

	before := buf
	SpliceTime(&buf, 123456)

	require.Equal(t, before[:timeOffset], buf[:timeOffset])
	require.Equal(t, before[bitsOffset:], buf[bitsOffset:])
	require.Equal(t, uint32(123456), Decode(buf).Time)
}

// TestGenesisVector exercises the genesis-block hash/target pair: hash is
// chainhash.DoubleHashH's raw (little-endian-integer) output for the genesis
// header, decoded straight from hex with no reversal; target is the
// difficulty-1 target as getblocktemplate would deliver it, hex-encoded
// big-endian per BIP22/23, so it is byte-reversed here exactly as
// block.Decode reverses it before handing it to LessThanTarget. Unlike a
// uniform-byte target, the hash's nonzero bytes sit at the low end of the
// array and the target's near the high end, so an inverted byte-order
// convention on either side would flip the comparison's outcome.
func TestGenesisVector(t *testing.T) {
	hashHex := "6fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c68d619" + "0000000000"
	rawHash, err := hex.DecodeString(hashHex)
	require.NoError(t, err)
	var hash chainhash.Hash
	copy(hash[:], rawHash)

	targetHex := "00000000ffff" + strings.Repeat("00", 26)
	rawTarget, err := hex.DecodeString(targetHex)
	require.NoError(t, err)
	var target chainhash.Hash
	for i, b := range rawTarget {
		target[chainhash.HashSize-1-i] = b
	}

	require.True(t, LessThanTarget(hash, target))
	require.False(t, LessThanTarget(target, hash))
}

func TestLessThanTargetEqualIsNotLess(t *testing.T) {
	var h chainhash.Hash
	h[10] = 5
	require.False(t, LessThanTarget(h, h))
}

func TestString(t *testing.T) {
	h := Header{Version: 1}
	require.Contains(t, h.String(), "version=1")
}
