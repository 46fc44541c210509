// Copyright (c) 2025 btcminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gpuengine

import "errors"

// These are fatal for the current dispatch; the caller may retry with a
// fresh Device or surface them.
var (
	// ErrNoAdapter is returned when no compute adapter could be found.
	ErrNoAdapter = errors.New("gpuengine: no adapter found")
	// ErrNoDevice is returned when an adapter was found but a device
	// could not be opened on it.
	ErrNoDevice = errors.New("gpuengine: no device found")
	// ErrBufferMap is returned when the output buffer could not be
	// mapped for a host-side read (device lost, map refused).
	ErrBufferMap = errors.New("gpuengine: buffer map failed")
)
