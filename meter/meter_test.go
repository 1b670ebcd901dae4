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

package meter

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcmtap/model"
)

func mono(format model.SampleFormat) model.StreamFormat {
	return model.StreamFormat{Format: format, Channels: 1, Rate: 48000}
}

func s16le(samples ...int16) []byte {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}
	return data
}

func s32le(samples ...int32) []byte {
	data := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[4*i:], uint32(s))
	}
	return data
}

func s24le(samples ...int32) []byte {
	data := make([]byte, 3*len(samples))
	for i, s := range samples {
		data[3*i] = byte(s)
		data[3*i+1] = byte(s >> 8)
		data[3*i+2] = byte(s >> 16)
	}
	return data
}

func TestMeterS16Peak(t *testing.T) {
	m, err := New(mono(model.FormatS16LE), model.MeterMono)
	require.NoError(t, err)

	data := s16le(0, 1000, -2000, 500)
	m.Observe(data, 4)

	levels := m.Levels()
	require.Len(t, levels, 1)
	assert.Equal(t, 2000*100/32768, levels[0].Instant)
	assert.False(t, levels[0].Clip)
}

func TestMeterSilenceIsZero(t *testing.T) {
	tests := []struct {
		name    string
		format  model.SampleFormat
		samples int
	}{
		{"U8", model.FormatU8, 16},
		{"S16_LE", model.FormatS16LE, 16},
		{"S24_3LE", model.FormatS24LE, 16},
		{"U32_LE", model.FormatU32LE, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(mono(tt.format), model.MeterMono)
			require.NoError(t, err)

			pattern := tt.format.SilencePattern()
			data := make([]byte, 0, tt.samples*len(pattern))
			for i := 0; i < tt.samples; i++ {
				data = append(data, pattern...)
			}

			m.Observe(data, tt.samples)
			assert.Equal(t, 0, m.Levels()[0].Instant)
		})
	}
}

func TestMeterU8UsesSilenceMask(t *testing.T) {
	m, err := New(mono(model.FormatU8), model.MeterMono)
	require.NoError(t, err)

	// 0xFF is full positive on an unsigned stream
	m.Observe([]byte{0xFF}, 1)
	assert.Equal(t, 127*100/128, m.Levels()[0].Instant)

	// 0x00 is full negative
	m.Observe([]byte{0x00}, 1)
	assert.Equal(t, 100, m.Levels()[0].Instant)
}

func TestMeterS24SignExtension(t *testing.T) {
	m, err := New(mono(model.FormatS24LE), model.MeterMono)
	require.NoError(t, err)

	m.Observe(s24le(-4194304), 1)
	assert.Equal(t, 4194304/((1<<23)/100), m.Levels()[0].Instant)

	m.Observe(s24le(8388607), 1)
	assert.Equal(t, 8388607/((1<<23)/100), m.Levels()[0].Instant)
}

func TestMeterS32MostNegativeClamps(t *testing.T) {
	m, err := New(mono(model.FormatS32LE), model.MeterMono)
	require.NoError(t, err)

	m.Observe(s32le(math.MinInt32), 1)

	full := int32(math.MaxInt32)
	assert.Equal(t, int(full/(full/100)), m.Levels()[0].Instant)
}

func TestMeterPerChannel(t *testing.T) {
	format := model.StreamFormat{Format: model.FormatS16LE, Channels: 2, Rate: 48000}

	m, err := New(format, model.MeterPerChannel)
	require.NoError(t, err)
	require.Equal(t, 2, m.Channels())

	// interleaved: left loud, right quiet
	m.Observe(s16le(16384, 100, -16384, -100), 4)

	levels := m.Levels()
	require.Len(t, levels, 2)
	assert.Equal(t, 16384*100/32768, levels[0].Instant)
	assert.Equal(t, 100*100/32768, levels[1].Instant)
}

func TestMeterObserveNPerChannel(t *testing.T) {
	format := model.StreamFormat{Format: model.FormatS16LE, Channels: 2, Rate: 48000}

	m, err := New(format, model.MeterPerChannel)
	require.NoError(t, err)

	// one buffer per channel: left loud, right quiet
	left := s16le(16384, -8192, 100, 0)
	right := s16le(50, -100, 25, 0)

	m.ObserveN([][]byte{left, right}, 4)

	levels := m.Levels()
	require.Len(t, levels, 2)
	assert.Equal(t, 16384*100/32768, levels[0].Instant)
	assert.Equal(t, 100*100/32768, levels[1].Instant)
}

func TestMeterObserveNMonoFolds(t *testing.T) {
	format := model.StreamFormat{Format: model.FormatS16LE, Channels: 2, Rate: 48000}

	m, err := New(format, model.MeterMono)
	require.NoError(t, err)

	m.ObserveN([][]byte{s16le(100, 0), s16le(-16384, 0)}, 2)

	levels := m.Levels()
	require.Len(t, levels, 1)
	assert.Equal(t, 16384*100/32768, levels[0].Instant, "loudest channel wins the folded reading")
}

func TestMeterObserveNThenInterleaved(t *testing.T) {
	format := model.StreamFormat{Format: model.FormatS16LE, Channels: 2, Rate: 48000}

	m, err := New(format, model.MeterPerChannel)
	require.NoError(t, err)

	m.ObserveN([][]byte{s16le(16384), s16le(0)}, 1)

	// a later interleaved region must round-robin again
	m.Observe(s16le(0, 8192), 2)

	levels := m.Levels()
	assert.Equal(t, 0, levels[0].Instant)
	assert.Equal(t, 8192*100/32768, levels[1].Instant)
}

func TestMeterMonoFoldsChannels(t *testing.T) {
	format := model.StreamFormat{Format: model.FormatS16LE, Channels: 2, Rate: 48000}

	m, err := New(format, model.MeterMono)
	require.NoError(t, err)
	require.Equal(t, 1, m.Channels())

	m.Observe(s16le(100, -16384), 2)
	assert.Equal(t, 16384*100/32768, m.Levels()[0].Instant)
}

func TestMeterWindowedMax(t *testing.T) {
	m, err := New(mono(model.FormatS16LE), model.MeterMono)
	require.NoError(t, err)

	clock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m.Observe(s16le(16384), 1)
	m.Observe(s16le(3277), 1)

	levels := m.Levels()
	assert.Equal(t, 3277*100/32768, levels[0].Instant)
	assert.Equal(t, 16384*100/32768, levels[0].Max, "max holds within the window")

	// the next second starts a fresh window
	clock = clock.Add(time.Second)
	m.Observe(s16le(8192), 1)
	assert.Equal(t, 8192*100/32768, m.Levels()[0].Max)
}

func TestMeterResetWindow(t *testing.T) {
	m, err := New(mono(model.FormatS16LE), model.MeterMono)
	require.NoError(t, err)

	clock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	m.Observe(s16le(16384), 1)
	require.NotZero(t, m.Levels()[0].Max)

	m.ResetWindow()
	assert.Zero(t, m.Levels()[0].Max)
}
