// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build cgo

package gpuengine

/*
#include <stdlib.h>

// Mock compute-adapter enumeration for development and CI machines without
// a physical accelerator attached. A real bridge would link against the
// vendor's runtime (CUDA, OpenCL, Metal) and replace these two calls.
static int mock_adapter_count(void) {
	return 1;
}

static int mock_open_device(int adapter) {
	return 0; // success
}
*/
import "C"

import "sync"

// adapterHandle wraps the cgo compute-adapter handshake. Real backends
// would hold a device/queue/pipeline handle here; the nonce scan itself
// runs entirely in Go (device.go), so this handle only gates availability.
type adapterHandle struct {
	mu     sync.Mutex
	opened bool
}

func requestAdapter() (*adapterHandle, error) {
	if int(C.mock_adapter_count()) < 1 {
		return nil, ErrNoAdapter
	}
	return &adapterHandle{}, nil
}

func (a *adapterHandle) openDevice() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if rc := C.mock_open_device(0); rc != 0 {
		return ErrNoDevice
	}
	a.opened = true
	return nil
}

func (a *adapterHandle) close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opened = false
	return nil
}
