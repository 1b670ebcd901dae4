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

package app

import (
	"errors"
	"fmt"
	"time"

	"pcmtap/audio"
)

// readyWait bounds how long a blocked transfer waits for the device
// to become ready again.
const readyWait = 100 * time.Millisecond

// TransferOut submits frames interleaved frames from buf to the
// device. A chunk shorter than the chunk size is padded with silence
// first, so the device always receives whole chunks. Returns the
// number of frames the device accepted, including padding; a return
// below frames means the transfer was aborted.
func (e *Engine) TransferOut(buf []byte, frames int) (int, error) {
	if frames < e.chunkFrames {
		buf = e.padChunk(buf, frames)
		frames = e.chunkFrames
	}

	if e.remap != nil {
		buf = e.remap.Interleaved(buf, frames)
	}

	offset := 0
	written := 0

	for written < frames && !e.flags.Aborting() {
		n, err := e.device.WriteFrames(buf[offset:], frames-written)

		if e.opts.TestPosition {
			e.checkPosition()
		}

		switch {
		case errors.Is(err, audio.ErrWouldBlock) || (err == nil && n < frames-written):
			if !e.opts.NoWait {
				e.device.Wait(readyWait)
			}
		case errors.Is(err, audio.ErrXrun):
			if rerr := e.recoverXrun(); rerr != nil {
				return written, rerr
			}
		case errors.Is(err, audio.ErrSuspended):
			if rerr := e.recoverSuspend(); rerr != nil {
				return written, rerr
			}
		case err != nil:
			return written, fmt.Errorf("write error: %w", err)
		}

		if n > 0 {
			e.observe(buf[offset:offset+n*e.frameBytes], n)
			e.frames.Add(int64(n))
			written += n
			offset += n * e.frameBytes
		}
	}

	return written, nil
}

// TransferIn fills buf with frames interleaved frames from the
// device. Unlike playback there is no padding; the only short return
// is an abort, and the shortfall is reported to the caller so capture
// can end gracefully.
func (e *Engine) TransferIn(buf []byte, frames int) (int, error) {
	offset := 0
	read := 0

	for read < frames && !e.flags.Aborting() {
		n, err := e.device.ReadFrames(buf[offset:], frames-read)

		if e.opts.TestPosition {
			e.checkPosition()
		}

		switch {
		case errors.Is(err, audio.ErrWouldBlock) || (err == nil && n < frames-read):
			if !e.opts.NoWait {
				e.device.Wait(readyWait)
			}
		case errors.Is(err, audio.ErrXrun):
			if rerr := e.recoverXrun(); rerr != nil {
				return read, rerr
			}
		case errors.Is(err, audio.ErrSuspended):
			if rerr := e.recoverSuspend(); rerr != nil {
				return read, rerr
			}
		case err != nil:
			return read, fmt.Errorf("read error: %w", err)
		}

		if n > 0 {
			region := buf[offset : offset+n*e.frameBytes]

			if e.remap != nil {
				copy(region, e.remap.Interleaved(region, n))
			}

			e.observe(region, n)
			e.frames.Add(int64(n))
			read += n
			offset += n * e.frameBytes
		}
	}

	return read, nil
}

// TransferOutN is the non-interleaved variant of TransferOut, one
// buffer per channel. The device reports a single frame count that
// applies to every channel, so all channels advance in lockstep.
func (e *Engine) TransferOutN(bufs [][]byte, frames int) (int, error) {
	if frames < e.chunkFrames {
		bufs = e.padChunkN(bufs, frames)
		frames = e.chunkFrames
	}

	if e.remap != nil {
		bufs = e.remap.NonInterleaved(bufs)
	}

	chans := make([][]byte, len(bufs))
	regions := make([][]byte, len(bufs))
	written := 0

	for written < frames && !e.flags.Aborting() {
		offset := written * e.sampleBytes
		for i := range bufs {
			chans[i] = bufs[i][offset:]
		}

		n, err := e.device.WriteFramesN(chans, frames-written)

		if e.opts.TestPosition {
			e.checkPosition()
		}

		switch {
		case errors.Is(err, audio.ErrWouldBlock) || (err == nil && n < frames-written):
			if !e.opts.NoWait {
				e.device.Wait(readyWait)
			}
		case errors.Is(err, audio.ErrXrun):
			if rerr := e.recoverXrun(); rerr != nil {
				return written, rerr
			}
		case errors.Is(err, audio.ErrSuspended):
			if rerr := e.recoverSuspend(); rerr != nil {
				return written, rerr
			}
		case err != nil:
			return written, fmt.Errorf("writev error: %w", err)
		}

		if n > 0 {
			for i := range chans {
				regions[i] = chans[i][:n*e.sampleBytes]
			}
			e.observeN(regions, n)

			e.frames.Add(int64(n))
			written += n
		}
	}

	return written, nil
}

// TransferInN is the non-interleaved variant of TransferIn. With a
// remapper attached the device fills the caller's buffers through the
// reordered pointers, so no sample data is copied.
func (e *Engine) TransferInN(bufs [][]byte, frames int) (int, error) {
	if e.remap != nil {
		bufs = e.remap.NonInterleaved(bufs)
	}

	chans := make([][]byte, len(bufs))
	regions := make([][]byte, len(bufs))
	read := 0

	for read < frames && !e.flags.Aborting() {
		offset := read * e.sampleBytes
		for i := range bufs {
			chans[i] = bufs[i][offset:]
		}

		n, err := e.device.ReadFramesN(chans, frames-read)

		if e.opts.TestPosition {
			e.checkPosition()
		}

		switch {
		case errors.Is(err, audio.ErrWouldBlock) || (err == nil && n < frames-read):
			if !e.opts.NoWait {
				e.device.Wait(readyWait)
			}
		case errors.Is(err, audio.ErrXrun):
			if rerr := e.recoverXrun(); rerr != nil {
				return read, rerr
			}
		case errors.Is(err, audio.ErrSuspended):
			if rerr := e.recoverSuspend(); rerr != nil {
				return read, rerr
			}
		case err != nil:
			return read, fmt.Errorf("readv error: %w", err)
		}

		if n > 0 {
			for i := range chans {
				regions[i] = chans[i][:n*e.sampleBytes]
			}
			e.observeN(regions, n)

			e.frames.Add(int64(n))
			read += n
		}
	}

	return read, nil
}

// padChunk extends a short interleaved chunk to a full one with
// silence samples, returning the padded buffer.
func (e *Engine) padChunk(buf []byte, frames int) []byte {
	padded := make([]byte, e.ChunkBytes())
	n := copy(padded, buf[:frames*e.frameBytes])
	copy(padded[n:], e.silence)

	return padded
}

func (e *Engine) padChunkN(bufs [][]byte, frames int) [][]byte {
	chunkBytes := e.chunkFrames * e.sampleBytes
	padded := make([][]byte, len(bufs))

	for i := range bufs {
		padded[i] = make([]byte, chunkBytes)
		n := copy(padded[i], bufs[i][:frames*e.sampleBytes])
		copy(padded[i][n:], e.silence)
	}

	return padded
}
