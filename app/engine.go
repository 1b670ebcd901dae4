// =================================================================================
//
//			pcmtap - https://www.foxhollow.cc/projects/pcmtap/
//
//		 pcmtap is a simple CLI utility for playback and capture of chunked
//	  raw PCM audio between ordinary files and an ALSA device
//
//		 Copyright (c) 2025 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================

// Package app contains the chunked transfer engine: the synchronous
// loops that move PCM frames between a device session and ordinary
// files, together with glitch recovery and the playback/capture
// drivers built on top of them.
package app

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"pcmtap/audio"
	"pcmtap/meter"
	"pcmtap/model"
	"pcmtap/shared"
)

// Engine runs chunked transfers against one open device session. It
// is single threaded; the only cross-thread inputs are the signal
// flags, polled at chunk boundaries.
type Engine struct {
	device audio.Device
	dir    audio.Direction
	format model.StreamFormat
	opts   model.TransferOptions
	flags  *shared.Flags

	meter    *meter.Meter
	onLevels func([]model.SignalLevel)
	onGlitch func()
	remap    *audio.Remapper

	chunkFrames  int
	bufferFrames int
	frameBytes   int
	sampleBytes  int
	silence      []byte

	// frames transferred so far, readable from the display goroutine
	frames atomic.Int64

	suspicious int
}

// NewEngine wires a transfer engine to an open device session. The
// chunk and buffer sizes in opts must be the granted sizes negotiated
// by the device, not the requested ones.
func NewEngine(device audio.Device, dir audio.Direction, format model.StreamFormat, opts model.TransferOptions, flags *shared.Flags) (*Engine, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	if opts.ChunkFrames <= 0 || opts.BufferFrames <= 0 {
		return nil, fmt.Errorf("chunk size %d / buffer size %d not usable", opts.ChunkFrames, opts.BufferFrames)
	}

	// A chunk filling the whole ring buffer leaves the device no room
	// to keep streaming while the next chunk is prepared.
	if opts.ChunkFrames >= opts.BufferFrames {
		return nil, fmt.Errorf("can't use chunk of %d frames with a buffer of %d frames", opts.ChunkFrames, opts.BufferFrames)
	}

	if opts.TestCoef < 1 {
		opts.TestCoef = 1
	}

	e := &Engine{
		device:       device,
		dir:          dir,
		format:       format,
		opts:         opts,
		flags:        flags,
		chunkFrames:  opts.ChunkFrames,
		bufferFrames: opts.BufferFrames,
		frameBytes:   format.FrameBytes(),
		sampleBytes:  format.Format.Bytes(),
	}

	// One chunk of silence in wire order, copied from when padding
	// short playback chunks.
	e.silence = bytes.Repeat(format.Format.SilencePattern(), e.chunkFrames*format.Channels)

	return e, nil
}

// SetMeter attaches a peak meter. onLevels receives the updated
// readings after every metered transfer and may be nil.
func (e *Engine) SetMeter(m *meter.Meter, onLevels func([]model.SignalLevel)) {
	e.meter = m
	e.onLevels = onLevels
}

// SetErrorCounter attaches a callback invoked once for every
// recovered glitch and every suspicious buffer position reading.
func (e *Engine) SetErrorCounter(fn func()) {
	e.onGlitch = fn
}

func (e *Engine) countGlitch() {
	if e.onGlitch != nil {
		e.onGlitch()
	}
}

// SetRemapper attaches a channel remapper, applied before writes on
// playback and after reads on capture.
func (e *Engine) SetRemapper(r *audio.Remapper) {
	e.remap = r
}

// ChunkBytes returns the size of one full chunk in bytes.
func (e *Engine) ChunkBytes() int {
	return e.chunkFrames * e.frameBytes
}

// ChunkFrames returns the granted chunk size in frames.
func (e *Engine) ChunkFrames() int {
	return e.chunkFrames
}

// Frames returns the total frame count moved through the engine.
func (e *Engine) Frames() int64 {
	return e.frames.Load()
}

func (e *Engine) observe(data []byte, frames int) {
	if e.meter == nil {
		return
	}

	e.meter.Observe(data, frames*e.format.Channels)

	if e.onLevels != nil {
		e.onLevels(e.meter.Levels())
	}
}

func (e *Engine) observeN(bufs [][]byte, frames int) {
	if e.meter == nil {
		return
	}

	e.meter.ObserveN(bufs, frames)

	if e.onLevels != nil {
		e.onLevels(e.meter.Levels())
	}
}
