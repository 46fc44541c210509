// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/stretchr/testify/require"
)

func validResult() *btcjson.GetBlockTemplateResult {
	zero32 := "00" + repeat("00", 31)
	targetHex := zero32[:62] + "01"
	return &btcjson.GetBlockTemplateResult{
		Version:       1,
		PreviousHash:  zero32,
		Target:        targetHex,
		Bits:          "1d00ffff",
		NonceRange:    "00000000ffffffff",
		LongPollID:    "abc123",
		CurTime:       1700000000,
		CoinbaseValue: int64Ptr(5000000000),
		Transactions: []btcjson.GetBlockTemplateResultTx{
			{
				Data: "00",
				Hash: zero32,
				Fee:  0,
			},
		},
	}
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func TestDecodeHappyPath(t *testing.T) {
	result := validResult()

	tmpl, err := Decode(result)
	require.NoError(t, err)
	require.Equal(t, int32(1), tmpl.Version)
	require.Equal(t, "abc123", tmpl.LongPollID)
	require.Equal(t, uint32(1700000000), tmpl.CurrentTime)
	require.Equal(t, uint64(5000000000), tmpl.CoinbaseValue)
	require.Equal(t, NonceRange{Start: 0, End: 0xffffffff}, tmpl.NonceRange)
	require.Len(t, tmpl.Transactions, 1)
}

func TestDecodeBadHashLength(t *testing.T) {
	result := validResult()
	result.PreviousHash = "deadbeef"

	_, err := Decode(result)
	require.Error(t, err)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, "previousblockhash", decErr.Field)
}

func TestDecodeBadNonceRangeOrdering(t *testing.T) {
	result := validResult()
	result.NonceRange = "ffffffff00000000" // start > end

	_, err := Decode(result)
	require.Error(t, err)

	var rangeErr *ErrBadNonceRange
	require.ErrorAs(t, err, &rangeErr)
}

func TestDecodeOddLengthHex(t *testing.T) {
	result := validResult()
	result.Bits = "abc"

	_, err := Decode(result)
	require.Error(t, err)
}

func TestNonceRangeEmptyAndLen(t *testing.T) {
	require.True(t, NonceRange{Start: 5, End: 5}.Empty())
	require.True(t, NonceRange{Start: 5, End: 3}.Empty())
	require.False(t, NonceRange{Start: 0, End: 1}.Empty())

	require.Equal(t, uint64(0), NonceRange{Start: 5, End: 5}.Len())
	require.Equal(t, uint64(10), NonceRange{Start: 0, End: 10}.Len())
}
