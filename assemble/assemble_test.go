// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assemble

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/blackridge-labs/btcminer/block"
)

func samplePayoutScript(t *testing.T) []byte {
	t.Helper()
	script, err := txscript.NewScriptBuilder().AddOp(txscript.OP_TRUE).Script()
	require.NoError(t, err)
	return script
}

func encodedTx(t *testing.T, tx *wire.MsgTx) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

func TestAssembleNoTransactionsErrors(t *testing.T) {
	tmpl := &block.Template{}
	_, err := Assemble(tmpl, samplePayoutScript(t))
	require.ErrorIs(t, err, ErrNoMerkleLeaf)
}

func TestAssembleHappyPath(t *testing.T) {
	nonCoinbase := wire.NewMsgTx(wire.TxVersion)
	nonCoinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: chainhash.Hash{9}, Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})

	tmpl := &block.Template{
		Version:           2,
		PreviousBlockHash: chainhash.Hash{1},
		CurrentTime:       1700000000,
		Bits:              [4]byte{0xff, 0xff, 0x00, 0x1d},
		CoinbaseValue:     5_000_000_000,
		NonceRange:        block.NonceRange{Start: 10, End: 20},
		Transactions: []block.TxSummary{
			{Hash: chainhash.Hash{2}, Data: encodedTx(t, nonCoinbase)},
		},
	}

	candidate, err := Assemble(tmpl, samplePayoutScript(t))
	require.NoError(t, err)

	require.Len(t, candidate.TxData, 2, "coinbase plus the one template transaction")
	require.Equal(t, int32(2), candidate.Header.Version)
	require.Equal(t, tmpl.PreviousBlockHash, candidate.Header.PrevBlockHash)
	require.Equal(t, tmpl.Transactions[0].Hash, candidate.Header.MerkleRoot)
	require.Equal(t, tmpl.CurrentTime, candidate.Header.Time)
	require.Equal(t, uint32(10), candidate.Header.Nonce)

	coinbase := candidate.TxData[0]
	require.Len(t, coinbase.TxIn, 1)
	require.Equal(t, uint32(0xffffffff), coinbase.TxIn[0].PreviousOutPoint.Index)
	require.True(t, coinbase.TxIn[0].PreviousOutPoint.Hash.IsEqual(&chainhash.Hash{}))
	require.Len(t, coinbase.TxOut, 1)
	require.Equal(t, int64(5_000_000_000), coinbase.TxOut[0].Value)
}

func TestAssembleDropsUndecodableTransaction(t *testing.T) {
	tmpl := &block.Template{
		PreviousBlockHash: chainhash.Hash{1},
		Bits:              [4]byte{0xff, 0xff, 0x00, 0x1d},
		Transactions: []block.TxSummary{
			{Hash: chainhash.Hash{2}, Data: []byte{0xff, 0xff, 0xff}},
		},
	}

	candidate, err := Assemble(tmpl, samplePayoutScript(t))
	require.NoError(t, err)
	require.Len(t, candidate.TxData, 1, "only the coinbase survives an undecodable template tx")
}

func TestToMsgBlockRoundTrips(t *testing.T) {
	tmpl := &block.Template{
		PreviousBlockHash: chainhash.Hash{1},
		Bits:              [4]byte{0xff, 0xff, 0x00, 0x1d},
		CurrentTime:       123,
		Transactions: []block.TxSummary{
			{Hash: chainhash.Hash{2}, Data: []byte{}},
		},
	}

	candidate, err := Assemble(tmpl, samplePayoutScript(t))
	require.NoError(t, err)

	msgBlock := candidate.ToMsgBlock()
	require.Equal(t, candidate.Header.Version, msgBlock.Header.Version)
	require.Equal(t, candidate.Header.MerkleRoot, msgBlock.Header.MerkleRoot)
	require.Len(t, msgBlock.Transactions, len(candidate.TxData))
}
