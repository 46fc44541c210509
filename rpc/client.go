// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc wraps github.com/btcsuite/btcd/rpcclient, the collaborator
// that owns the JSON-RPC transport, request/response envelope, and HTTP
// Basic-auth framing described in SPEC_FULL.md §6. This package does not
// reimplement any of that; it only selects the three RPC methods the miner
// needs and translates getblocktemplate's result into our own Template type.
package rpc

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btclog"

	"github.com/blackridge-labs/btcminer/assemble"
	"github.com/blackridge-labs/btcminer/block"
)

// UseLogger directs rpcclient's own transport logging to logger, following
// the UseLogger idiom the rest of this module's packages use.
func UseLogger(logger btclog.Logger) {
	rpcclient.UseLogger(logger)
}

// Config carries the connection parameters the HTTP/auth collaborator
// needs. Sourcing these (CLI flags, environment) is internal/config's job.
type Config struct {
	Host     string
	User     string
	Password string
}

// Client is a thin façade over rpcclient.Client exposing exactly the three
// methods SPEC_FULL.md §6 lists.
type Client struct {
	inner *rpcclient.Client
}

// New dials no connection (rpcclient is request/response over HTTP, not a
// persistent session) but validates the supplied configuration.
func New(cfg Config) (*Client, error) {
	conn := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	inner, err := rpcclient.New(conn, nil)
	if err != nil {
		return nil, fmt.Errorf("rpc: connect: %w", err)
	}

	return &Client{inner: inner}, nil
}

// Shutdown releases the underlying HTTP client's resources.
func (c *Client) Shutdown() {
	c.inner.Shutdown()
}

// GetNewAddress requests a fresh payout address from the node's wallet.
func (c *Client) GetNewAddress() (string, error) {
	addr, err := c.inner.GetNewAddress("")
	if err != nil {
		return "", fmt.Errorf("rpc: getnewaddress: %w", err)
	}
	return addr.String(), nil
}

// GetBlockTemplate issues getblocktemplate. When pollID is empty it uses
// the rules/capabilities request that starts a fresh polling session;
// otherwise it long-polls with the given id, per spec.md §6.
func (c *Client) GetBlockTemplate(pollID string) (*block.Template, error) {
	req := &btcjson.TemplateRequest{
		Capabilities: []string{"coinbase/append", "longpoll"},
	}
	if pollID != "" {
		req.LongPollID = pollID
	} else {
		req.Rules = []string{"segwit"}
	}

	result, err := c.inner.GetBlockTemplate(req)
	if err != nil {
		return nil, fmt.Errorf("rpc: getblocktemplate: %w", err)
	}

	tmpl, err := block.Decode(result)
	if err != nil {
		return nil, fmt.Errorf("rpc: decode template: %w", err)
	}
	return tmpl, nil
}

// SubmitRejectedError is returned when the node accepted the submitblock
// call but reported a rejection reason rather than a null result. It is
// not fatal: the caller logs it and continues mining the next template.
type SubmitRejectedError struct {
	Reason string
}

func (e *SubmitRejectedError) Error() string {
	return fmt.Sprintf("rpc: submitblock rejected: %s", e.Reason)
}

// SubmitBlock submits the consensus serialization of candidate via
// submitblock. A rejection reported by the node surfaces as a
// SubmitRejectedError rather than an error the caller must treat as fatal.
func (c *Client) SubmitBlock(candidate *assemble.CandidateBlock) error {
	msgBlock := candidate.ToMsgBlock()

	if err := c.inner.SubmitBlock(btcutil.NewBlock(msgBlock), nil); err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(err, &rpcErr) {
			return &SubmitRejectedError{Reason: rpcErr.Message}
		}
		return fmt.Errorf("rpc: submitblock: %w", err)
	}
	return nil
}
