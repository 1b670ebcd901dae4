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
	"fmt"

	"pcmtap/audio"
)

// Capture streams raw PCM from the device into the capture file set,
// rotating files at chunk boundaries when the set asks for it.
// limitBytes bounds the transfer when positive. Returns the number of
// bytes written across all files.
//
// A short read from the device ends the capture gracefully; only
// device escalation or a sink write error is returned as an error.
func (e *Engine) Capture(files *audio.CaptureFileSet, limitBytes int64) (int64, error) {
	chunkBytes := e.ChunkBytes()
	buf := make([]byte, chunkBytes)

	if err := files.Open(); err != nil {
		return 0, err
	}

	var total int64

	for !e.flags.Aborting() {
		if files.ShouldRotate() {
			if err := files.Rotate(); err != nil {
				files.Close()
				return total, err
			}
		}

		want := chunkBytes
		if limitBytes > 0 {
			remain := limitBytes - total
			if remain <= 0 {
				break
			}
			if remain < int64(want) {
				want = int(remain)
			}
		}

		// Trim the read before a rotation so the file closes at
		// exactly the threshold byte.
		if budget := files.RemainingBytes(); budget > 0 && budget < int64(want) {
			want = int(budget)
		}

		frames := want / e.frameBytes
		if frames == 0 {
			break
		}

		n, err := e.TransferIn(buf[:frames*e.frameBytes], frames)
		if err != nil {
			files.Close()
			return total, err
		}

		if n > 0 {
			if werr := files.Write(buf[:n*e.frameBytes]); werr != nil {
				files.Close()
				return total, fmt.Errorf("write error: %w", werr)
			}

			total += int64(n) * int64(e.frameBytes)
		}

		if n < frames {
			break
		}
	}

	if err := files.Close(); err != nil {
		return total, fmt.Errorf("close error: %w", err)
	}

	return total, nil
}

// CaptureN captures one file per channel through the device's
// non-interleaved path. The per-channel sets never rotate; rotation
// is a single-file capture feature.
func (e *Engine) CaptureN(sets []*audio.CaptureFileSet, limitBytes int64) (int64, error) {
	if len(sets) != e.format.Channels {
		return 0, fmt.Errorf("expected %d sinks, got %d", e.format.Channels, len(sets))
	}

	chunkBytes := e.chunkFrames * e.sampleBytes
	bufs := make([][]byte, len(sets))
	for i := range bufs {
		bufs[i] = make([]byte, chunkBytes)
	}

	for _, set := range sets {
		if err := set.Open(); err != nil {
			closeSets(sets)
			return 0, err
		}
	}

	var total int64

	for !e.flags.Aborting() {
		want := chunkBytes
		if limitBytes > 0 {
			remain := (limitBytes - total) / int64(e.format.Channels)
			if remain <= 0 {
				break
			}
			if remain < int64(want) {
				want = int(remain)
			}
		}

		frames := want / e.sampleBytes
		if frames == 0 {
			break
		}

		n, err := e.TransferInN(bufs, frames)
		if err != nil {
			closeSets(sets)
			return total, err
		}

		for i, set := range sets {
			if n == 0 {
				break
			}

			if werr := set.Write(bufs[i][:n*e.sampleBytes]); werr != nil {
				closeSets(sets)
				return total, fmt.Errorf("write error: %w", werr)
			}
		}

		total += int64(n) * int64(e.frameBytes)

		if n < frames {
			break
		}
	}

	for _, set := range sets {
		if err := set.Close(); err != nil {
			return total, fmt.Errorf("close error: %w", err)
		}
	}

	return total, nil
}

func closeSets(sets []*audio.CaptureFileSet) {
	for _, set := range sets {
		set.Close()
	}
}
