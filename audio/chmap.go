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

package audio

import (
	"fmt"
)

// ChannelMap is a permutation mapping each output channel position to
// the input channel it is sourced from. A nil map means identity.
type ChannelMap []int

// DefaultLayout returns the conventional speaker positions for a
// channel count, used when the device does not report its own layout.
func DefaultLayout(channels int) []string {
	layouts := map[int][]string{
		1: {"MONO"},
		2: {"FL", "FR"},
		4: {"FL", "FR", "RL", "RR"},
		6: {"FL", "FR", "RL", "RR", "FC", "LFE"},
		8: {"FL", "FR", "RL", "RR", "FC", "LFE", "SL", "SR"},
	}

	if layout, ok := layouts[channels]; ok {
		return layout
	}

	layout := make([]string, channels)
	for i := range layout {
		layout[i] = fmt.Sprintf("CH%d", i)
	}

	return layout
}

// BuildMap matches a requested channel order against the order the
// device reports. Each requested position claims one device channel
// reporting the identical physical position; a claimed channel is
// never reused. Positions are compared as opaque strings ("FL",
// "FR", ...).
func BuildMap(requested, device []string) (ChannelMap, error) {
	if len(requested) != len(device) {
		return nil, fmt.Errorf("%w: requested %d channels, device has %d",
			ErrChannelMismatch, len(requested), len(device))
	}

	claimed := make([]bool, len(device))
	m := make(ChannelMap, len(requested))
	identity := true

	for ch, want := range requested {
		// Prefer the same slot when it matches outright.
		if !claimed[ch] && device[ch] == want {
			claimed[ch] = true
			m[ch] = ch
			continue
		}

		found := -1
		for i, pos := range device {
			if !claimed[i] && pos == want {
				found = i
				break
			}
		}

		if found < 0 {
			return nil, fmt.Errorf("%w: channel %d (%s) has no match in device layout",
				ErrChannelMismatch, ch, want)
		}

		claimed[found] = true
		m[ch] = found
		identity = false
	}

	if identity {
		// No reordering needed, callers skip the remap entirely.
		return nil, nil
	}

	return m, nil
}

// Remapper applies a ChannelMap to transfer buffers. Interleaved data
// is relocated frame by frame through a scratch buffer sized to the
// current chunk; non-interleaved data is remapped by pointer
// reassignment only.
type Remapper struct {
	m           ChannelMap
	sampleBytes int

	scratch []byte
	reorder [][]byte
}

func NewRemapper(m ChannelMap, sampleBytes int) *Remapper {
	return &Remapper{m: m, sampleBytes: sampleBytes}
}

// Interleaved returns the remapped view of frames frames of data. The
// returned slice is only valid until the next call.
func (r *Remapper) Interleaved(data []byte, frames int) []byte {
	if r.m == nil {
		return data
	}

	channels := len(r.m)
	step := channels * r.sampleBytes
	need := frames * step

	if len(r.scratch) < need {
		r.scratch = make([]byte, need)
	}

	for frame := 0; frame < frames; frame++ {
		src := data[frame*step:]
		dst := r.scratch[frame*step:]

		for ch, from := range r.m {
			copy(dst[ch*r.sampleBytes:(ch+1)*r.sampleBytes],
				src[from*r.sampleBytes:(from+1)*r.sampleBytes])
		}
	}

	return r.scratch[:need]
}

// NonInterleaved returns the per-channel buffers reordered according
// to the map, without copying sample data.
func (r *Remapper) NonInterleaved(bufs [][]byte) [][]byte {
	if r.m == nil {
		return bufs
	}

	if r.reorder == nil {
		r.reorder = make([][]byte, len(r.m))
	}

	for ch, from := range r.m {
		r.reorder[ch] = bufs[from]
	}

	return r.reorder
}
