// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Decode converts a btcjson.GetBlockTemplateResult — the already-unmarshalled
// response of a getblocktemplate RPC call — into a Template. The JSON
// envelope and HTTP transport are the rpcclient package's concern; this
// function only does the field mapping and hex/range decoding spec.md §4.1
// describes:
//
//	previousblockhash -> PreviousBlockHash
//	longpollid        -> LongPollID
//	curtime           -> CurrentTime
//	coinbasevalue     -> CoinbaseValue
//	noncerange        -> NonceRange
func Decode(result *btcjson.GetBlockTemplateResult) (*Template, error) {
	prevHash, err := decodeHash(result.PreviousHash)
	if err != nil {
		return nil, &DecodeError{Field: "previousblockhash", Err: err}
	}

	target, err := decodeTarget(result.Target)
	if err != nil {
		return nil, &DecodeError{Field: "target", Err: err}
	}

	bits, err := decodeHexN(result.Bits, 4)
	if err != nil {
		return nil, &DecodeError{Field: "bits", Err: err}
	}

	nonceRange, err := decodeNonceRange(result.NonceRange)
	if err != nil {
		return nil, &DecodeError{Field: "noncerange", Err: err}
	}

	txs := make([]TxSummary, len(result.Transactions))
	for i, tx := range result.Transactions {
		txHash, err := decodeHash(tx.Hash)
		if err != nil {
			return nil, &DecodeError{Field: "transactions[].hash", Err: err}
		}

		data, err := hex.DecodeString(tx.Data)
		if err != nil || len(tx.Data)%2 != 0 {
			return nil, &DecodeError{Field: "transactions[].data", Err: &ErrBadHex{Length: len(tx.Data)}}
		}

		// The template's own consensus encoding is the authoritative
		// source for txid (the non-witness transaction id); the node's
		// JSON only reliably carries the witness-inclusive "hash" used
		// as the merkle leaf, so txid is derived here rather than
		// trusted from a separate wire field.
		var msgTx wire.MsgTx
		var txid chainhash.Hash
		if err := msgTx.Deserialize(bytes.NewReader(data)); err == nil {
			txid = msgTx.TxHash()
		}

		txs[i] = TxSummary{
			Txid:   txid,
			Data:   data,
			Hash:   txHash,
			Fee:    uint64(tx.Fee),
			Weight: uint32(tx.Weight),
		}
	}

	var coinbaseValue uint64
	if result.CoinbaseValue != nil {
		coinbaseValue = uint64(*result.CoinbaseValue)
	}

	var b4 [4]byte
	copy(b4[:], bits)

	return &Template{
		Version:           result.Version,
		PreviousBlockHash: prevHash,
		Transactions:      txs,
		LongPollID:        result.LongPollID,
		Target:            target,
		Bits:              b4,
		CurrentTime:       uint32(result.CurTime),
		CoinbaseValue:     coinbaseValue,
		NonceRange:        nonceRange,
	}, nil
}

func decodeHash(s string) (chainhash.Hash, error) {
	raw, err := decodeHexN(s, chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	copy(h[:], raw)
	return h, nil
}

// decodeTarget parses getblocktemplate's "target" field. Unlike
// previousblockhash and the per-tx hash, which already arrive in the
// same byte order header.Hash's double-SHA-256 output uses, target is
// hex-encoded big-endian (BIP22/23): its first hex byte is the number's most
// significant byte. header.LessThanTarget compares byte-for-byte against a
// hash that treats the *last* array byte as most significant, so the decoded
// bytes are reversed here to land in that same convention.
func decodeTarget(s string) (chainhash.Hash, error) {
	raw, err := decodeHexN(s, chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	for i, b := range raw {
		h[chainhash.HashSize-1-i] = b
	}
	return h, nil
}

func decodeHexN(s string, n int) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &ErrBadHex{Length: len(s)}
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, &ErrBadHex{Length: len(s)}
	}
	if n > 0 && len(raw) != n {
		return nil, &ErrBadHex{Length: len(s)}
	}
	return raw, nil
}

// decodeNonceRange parses an 8-hex-byte blob into two little-endian u32
// values (start, end), e.g. "00000000ffffffff" -> {0, 0xFFFFFFFF}.
func decodeNonceRange(s string) (NonceRange, error) {
	raw, err := decodeHexN(s, 8)
	if err != nil {
		return NonceRange{}, err
	}

	start := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
	end := uint32(raw[4]) | uint32(raw[5])<<8 | uint32(raw[6])<<16 | uint32(raw[7])<<24

	if start > end {
		return NonceRange{}, &ErrBadNonceRange{Start: start, End: end}
	}

	return NonceRange{Start: start, End: end}, nil
}
