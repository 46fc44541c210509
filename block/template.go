// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block decodes a getblocktemplate RPC result into the typed,
// immutable Template value the rest of the miner works with.
package block

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// NonceRange is the half-open range [Start, End) of nonces the template
// grants this miner, as parsed from the template's 8-byte noncerange hex
// blob.
type NonceRange struct {
	Start uint32
	End   uint32
}

// Empty reports whether the range contains no nonces.
func (r NonceRange) Empty() bool {
	return r.Start >= r.End
}

// Len returns the number of nonces in the range.
func (r NonceRange) Len() uint64 {
	if r.Empty() {
		return 0
	}
	return uint64(r.End) - uint64(r.Start)
}

// TxSummary is one transaction offered by the template.
type TxSummary struct {
	Txid   chainhash.Hash
	Data   []byte
	Hash   chainhash.Hash
	Fee    uint64
	Weight uint32
}

// Template is the immutable value decoded from a getblocktemplate response.
// It is consumed exactly once by the mining loop and then dropped.
type Template struct {
	Version           int32
	PreviousBlockHash chainhash.Hash
	Transactions      []TxSummary
	LongPollID        string
	Target            chainhash.Hash
	Bits              [4]byte
	CurrentTime       uint32
	CoinbaseValue     uint64
	NonceRange        NonceRange
}
