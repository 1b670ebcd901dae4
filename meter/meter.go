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

// Package meter computes live peak amplitude readings from raw PCM
// sample data, as percentages of the format's full scale.
package meter

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"pcmtap/model"
)

// Meter tracks per-channel instantaneous and windowed-maximum peak
// levels. The windowed maximum resets once per wall-clock second, or
// when the position check reports a suspicious buffer position.
type Meter struct {
	format   model.StreamFormat
	channels int

	decode func(data []byte, samples int)

	peak    []int32
	instant []int
	maxPerc []int
	clip    bool

	// slot pins the decoders to one channel while a non-interleaved
	// buffer is fed; -1 restores the interleaved round-robin.
	slot int

	windowSec int64
	now       func() time.Time
}

// New builds a meter for the negotiated format. Mono mode folds all
// channels into a single reading; per-channel mode meters each
// channel separately.
func New(format model.StreamFormat, mode model.MeterMode) (*Meter, error) {
	channels := 1
	if mode == model.MeterPerChannel {
		channels = format.Channels
	}

	m := &Meter{
		format:   format,
		channels: channels,
		peak:     make([]int32, channels),
		instant:  make([]int, channels),
		maxPerc:  make([]int, channels),
		slot:     -1,
		now:      time.Now,
	}

	// The decoder is selected once here; the per-sample loops carry
	// no width dispatch.
	switch format.Format.Width() {
	case 8:
		m.decode = m.decode8
	case 16:
		m.decode = m.decode16
	case 24:
		m.decode = m.decode24
	case 32:
		m.decode = m.decode32
	default:
		return nil, fmt.Errorf("unsupported bit size %d", format.Format.Width())
	}

	return m, nil
}

// Channels returns the number of metered channels.
func (m *Meter) Channels() int {
	return m.channels
}

// Observe feeds one successfully transferred interleaved region to
// the meter; data holds frames * channels samples. Non-interleaved
// regions go through ObserveN instead.
func (m *Meter) Observe(data []byte, samples int) {
	m.begin()
	m.decode(data, samples)
	m.update()
}

// ObserveN feeds one non-interleaved region, one buffer per device
// channel, each holding samples samples of that channel alone. In
// mono mode every buffer folds into the single reading.
func (m *Meter) ObserveN(bufs [][]byte, samples int) {
	m.begin()

	for ch, data := range bufs {
		m.slot = ch % m.channels
		m.decode(data, samples)
	}
	m.slot = -1

	m.update()
}

func (m *Meter) begin() {
	for c := range m.peak {
		m.peak[c] = 0
	}
	m.clip = false
}

// update converts the collected peaks into percentages and rolls the
// one-second maximum window.
func (m *Meter) update() {
	fullScale := m.format.Format.FullScale()

	for c := range m.peak {
		if m.format.Format.Width() > 16 {
			// Dividing the peak keeps the intermediate product from
			// overflowing for wide formats.
			m.instant[c] = int(m.peak[c] / (fullScale / 100))
		} else {
			m.instant[c] = int(m.peak[c] * 100 / fullScale)
		}

		if m.instant[c] > 100 {
			m.clip = true
		}
	}

	sec := m.now().Unix()
	if sec > m.windowSec {
		m.windowSec = sec
		for c := range m.maxPerc {
			m.maxPerc[c] = 0
		}
	}

	for c := range m.maxPerc {
		if m.instant[c] > m.maxPerc[c] {
			m.maxPerc[c] = m.instant[c]
		}
	}
}

// ResetWindow discards the current windowed maxima, used after a
// suspicious buffer position reading.
func (m *Meter) ResetWindow() {
	for c := range m.maxPerc {
		m.maxPerc[c] = 0
	}
}

// Levels returns the current readings, one per metered channel.
func (m *Meter) Levels() []model.SignalLevel {
	levels := make([]model.SignalLevel, m.channels)

	for c := range levels {
		levels[c] = model.SignalLevel{
			Instant: m.instant[c],
			Max:     m.maxPerc[c],
			Clip:    m.clip && m.instant[c] > 100,
		}
	}

	return levels
}

func (m *Meter) note(c int, val int32) int {
	target := c
	if m.slot >= 0 {
		target = m.slot
	}

	if val > m.peak[target] {
		m.peak[target] = val
	}

	c++
	if c >= m.channels {
		c = 0
	}

	return c
}

func (m *Meter) decode8(data []byte, samples int) {
	mask := byte(m.format.Format.SilenceValue())

	c := 0
	for i := 0; i < samples; i++ {
		val := int32(int8(data[i] ^ mask))
		if val < 0 {
			val = -val
		}

		c = m.note(c, val)
	}
}

func (m *Meter) decode16(data []byte, samples int) {
	mask := uint16(m.format.Format.SilenceValue())
	bigEndian := m.format.Format.BigEndian()

	c := 0
	for i := 0; i < samples; i++ {
		var raw uint16
		if bigEndian {
			raw = binary.BigEndian.Uint16(data[2*i:])
		} else {
			raw = binary.LittleEndian.Uint16(data[2*i:])
		}

		val := int32(int16(raw ^ mask))
		if val < 0 {
			val = -val
		}

		c = m.note(c, val)
	}
}

func (m *Meter) decode24(data []byte, samples int) {
	mask := int32(m.format.Format.SilenceValue())
	bigEndian := m.format.Format.BigEndian()

	c := 0
	for i := 0; i < samples; i++ {
		p := data[3*i:]

		var val int32
		if bigEndian {
			val = int32(p[0])<<16 | int32(p[1])<<8 | int32(p[2])
		} else {
			val = int32(p[0]) | int32(p[1])<<8 | int32(p[2])<<16
		}

		val ^= mask

		// Sign-extend the 24 bit value before taking the magnitude.
		if val&(1<<23) != 0 {
			val |= ^int32(0) << 24
		}

		if val < 0 {
			val = -val
		}

		c = m.note(c, val)
	}
}

func (m *Meter) decode32(data []byte, samples int) {
	mask := m.format.Format.SilenceValue()
	bigEndian := m.format.Format.BigEndian()

	c := 0
	for i := 0; i < samples; i++ {
		var raw uint32
		if bigEndian {
			raw = binary.BigEndian.Uint32(data[4*i:])
		} else {
			raw = binary.LittleEndian.Uint32(data[4*i:])
		}

		val := int32(raw ^ mask)

		// The most negative value has no positive counterpart, clamp
		// instead of wrapping.
		if val == math.MinInt32 {
			val = math.MaxInt32
		} else if val < 0 {
			val = -val
		}

		c = m.note(c, val)
	}
}
