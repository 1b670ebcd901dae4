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
	"io"
	"log/slog"
)

// Playback streams raw PCM from src to the device in whole chunks.
// limitBytes bounds the transfer when positive; zero or negative
// means play until the source ends. Returns the number of source
// bytes delivered.
//
// The device is drained before returning so queued audio finishes
// playing, including after a signal-requested abort.
func (e *Engine) Playback(src io.Reader, limitBytes int64) (int64, error) {
	chunkBytes := e.ChunkBytes()
	buf := make([]byte, chunkBytes)

	var written int64

	for !e.flags.Aborting() {
		want := chunkBytes
		if limitBytes > 0 {
			remain := limitBytes - written
			if remain <= 0 {
				break
			}
			if remain < int64(want) {
				want = int(remain)
			}
		}

		n, err := io.ReadFull(src, buf[:want])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return written, fmt.Errorf("read error: %w", err)
		}

		frames := n / e.frameBytes
		if frames == 0 {
			break
		}

		w, werr := e.TransferOut(buf[:frames*e.frameBytes], frames)
		if werr != nil {
			return written, werr
		}

		// A padded final chunk reports the full chunk size; anything
		// below the requested count means the transfer was aborted.
		if w < frames {
			break
		}

		written += int64(frames) * int64(e.frameBytes)

		if frames < e.chunkFrames {
			break
		}
	}

	if err := e.device.Drain(); err != nil {
		slog.Warn(fmt.Sprintf("drain error: %v", err))
	}

	return written, nil
}

// PlaybackN plays one source per channel through the device's
// non-interleaved path. All sources advance in lockstep; the shortest
// source ends the transfer.
func (e *Engine) PlaybackN(srcs []io.Reader, limitBytes int64) (int64, error) {
	if len(srcs) != e.format.Channels {
		return 0, fmt.Errorf("expected %d sources, got %d", e.format.Channels, len(srcs))
	}

	chunkBytes := e.chunkFrames * e.sampleBytes
	bufs := make([][]byte, len(srcs))
	for i := range bufs {
		bufs[i] = make([]byte, chunkBytes)
	}

	var written int64

	for !e.flags.Aborting() {
		want := chunkBytes
		if limitBytes > 0 {
			remain := (limitBytes - written) / int64(e.format.Channels)
			if remain <= 0 {
				break
			}
			if remain < int64(want) {
				want = int(remain)
			}
		}

		minFrames := want / e.sampleBytes
		short := minFrames < e.chunkFrames

		for i, src := range srcs {
			n, err := io.ReadFull(src, bufs[i][:want])
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return written, fmt.Errorf("read error: %w", err)
			}

			frames := n / e.sampleBytes
			if frames < minFrames {
				minFrames = frames
				short = true
			}
		}

		if minFrames == 0 {
			break
		}

		w, werr := e.TransferOutN(bufs, minFrames)
		if werr != nil {
			return written, werr
		}

		if w < minFrames {
			break
		}

		written += int64(minFrames) * int64(e.frameBytes)

		if short {
			break
		}
	}

	if err := e.device.Drain(); err != nil {
		slog.Warn(fmt.Sprintf("drain error: %v", err))
	}

	return written, nil
}
