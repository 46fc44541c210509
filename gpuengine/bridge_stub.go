// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !cgo

package gpuengine

// adapterHandle is the pure-Go fallback used when no C toolchain is
// available to build the cgo adapter bridge. It always reports one
// software device, matching the degrade-rather-than-fail behavior
// guiperry-HASHER's CUDA method takes when IsAvailable reports false: the
// package still functions, just without a physical accelerator backing it.
type adapterHandle struct {
	opened bool
}

func requestAdapter() (*adapterHandle, error) {
	return &adapterHandle{}, nil
}

func (a *adapterHandle) openDevice() error {
	a.opened = true
	return nil
}

func (a *adapterHandle) close() error {
	a.opened = false
	return nil
}
