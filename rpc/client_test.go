// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmitRejectedErrorMessage(t *testing.T) {
	err := &SubmitRejectedError{Reason: "bad-cb-length"}
	require.Contains(t, err.Error(), "bad-cb-length")
}

func TestNewAcceptsUnreachableHost(t *testing.T) {
	// New only validates configuration and constructs the HTTP client; it
	// never dials, so even a host with no listener must succeed here.
	client, err := New(Config{Host: "127.0.0.1:1", User: "u", Password: "p"})
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Shutdown()
}
