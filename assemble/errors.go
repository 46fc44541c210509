// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assemble

import "errors"

// ErrNoMerkleLeaf is returned when a template has no transactions to seed
// the (simplified) merkle root with.
var ErrNoMerkleLeaf = errors.New("assemble: template has no transactions, no merkle leaf available")
