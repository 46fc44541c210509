// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package assemble builds a candidate block from a decoded template: the
// coinbase transaction paying the caller's address, and the 80-byte mining
// header those transactions commit to.
package assemble

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/blackridge-labs/btcminer/block"
	"github.com/blackridge-labs/btcminer/header"
)

// CandidateBlock is a header paired with its transaction set. TxData[0] is
// always the coinbase transaction synthesised by Assemble; the remainder
// are the template's transactions decoded back into wire.MsgTx values.
//
// It is mutated only in its header's Nonce and Time fields during search.
type CandidateBlock struct {
	Header header.Header
	TxData []*wire.MsgTx
}

// Assemble builds a coinbase transaction paying payoutScript and the full
// candidate block for template.
//
// merkle_root is set to transactions[0].hash unconditionally, per the
// known simplification documented in SPEC_FULL.md §9 open question 1 — this
// is not a correct merkle computation over the coinbase plus templated
// transactions, and building one is explicitly out of scope (Non-goal:
// "building the merkle tree of non-coinbase transactions").
func Assemble(t *block.Template, payoutScript []byte) (*CandidateBlock, error) {
	if len(t.Transactions) == 0 {
		return nil, ErrNoMerkleLeaf
	}

	coinbase := newCoinbaseTx(t.CoinbaseValue, payoutScript)

	txData := make([]*wire.MsgTx, 0, len(t.Transactions)+1)
	txData = append(txData, coinbase)

	for _, tx := range t.Transactions {
		msgTx := new(wire.MsgTx)
		if err := msgTx.Deserialize(bytes.NewReader(tx.Data)); err != nil {
			// The template's own consensus encoding is a given interface
			// (§1); a transaction we cannot decode back cannot be carried
			// in the block body, so it is dropped from txData. The header's
			// MerkleRoot below is Transactions[0].Hash either way.
			continue
		}
		txData = append(txData, msgTx)
	}

	h := header.Header{
		Version:       t.Version,
		PrevBlockHash: t.PreviousBlockHash,
		MerkleRoot:    t.Transactions[0].Hash,
		Time:          t.CurrentTime,
		Bits:          binary.LittleEndian.Uint32(t.Bits[:]),
		Nonce:         t.NonceRange.Start,
	}

	return &CandidateBlock{Header: h, TxData: txData}, nil
}

// newCoinbaseTx builds the coinbase transaction: version 1, locktime 0, one
// null-outpoint input whose script_sig pushes a single integer zero,
// sequence 0xFFFFFFFF, empty witness; one output paying value to script.
func newCoinbaseTx(value uint64, script []byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)

	sigScript, err := txscript.NewScriptBuilder().AddInt64(0).Script()
	if err != nil {
		// AddInt64(0) never fails; this is unreachable in practice.
		sigScript = nil
	}

	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{
			Hash:  chainhash.Hash{},
			Index: math.MaxUint32,
		},
		SignatureScript: sigScript,
		Sequence:        wire.MaxTxInSequenceNum,
	})

	tx.AddTxOut(&wire.TxOut{
		Value:    int64(btcutil.Amount(value)),
		PkScript: script,
	})

	return tx
}

// ToMsgBlock builds the full wire.MsgBlock ready for consensus encoding and
// submission.
func (c *CandidateBlock) ToMsgBlock() *wire.MsgBlock {
	wireHeader := wire.BlockHeader{
		Version:    c.Header.Version,
		PrevBlock:  c.Header.PrevBlockHash,
		MerkleRoot: c.Header.MerkleRoot,
		Timestamp:  time.Unix(int64(c.Header.Time), 0),
		Bits:       c.Header.Bits,
		Nonce:      c.Header.Nonce,
	}

	msgBlock := wire.NewMsgBlock(&wireHeader)
	for _, tx := range c.TxData {
		msgBlock.AddTransaction(tx)
	}
	return msgBlock
}
