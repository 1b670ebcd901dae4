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

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name string
		want SampleFormat
		ok   bool
	}{
		{"S16_LE", FormatS16LE, true},
		{"s16_le", FormatS16LE, true},
		{"U8", FormatU8, true},
		{"S24_3LE", FormatS24LE, true},
		{"S32_BE", FormatS32BE, true},
		{"U32_LE", FormatU32LE, true},
		{"FLOAT_LE", FormatUnknown, false},
		{"", FormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)

			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatProperties(t *testing.T) {
	tests := []struct {
		format SampleFormat
		width  int
		bytes  int
		signed bool
		big    bool
	}{
		{FormatS8, 8, 1, true, false},
		{FormatU8, 8, 1, false, false},
		{FormatS16LE, 16, 2, true, false},
		{FormatU16BE, 16, 2, false, true},
		{FormatS24LE, 24, 3, true, false},
		{FormatS24BE, 24, 3, true, true},
		{FormatS32LE, 32, 4, true, false},
		{FormatU32BE, 32, 4, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.width, tt.format.Width())
			assert.Equal(t, tt.bytes, tt.format.Bytes())
			assert.Equal(t, tt.signed, tt.format.Signed())
			assert.Equal(t, tt.big, tt.format.BigEndian())
		})
	}
}

func TestSilencePattern(t *testing.T) {
	assert.Equal(t, []byte{0x80}, FormatU8.SilencePattern())
	assert.Equal(t, []byte{0x00}, FormatS8.SilencePattern())
	assert.Equal(t, []byte{0x00, 0x00}, FormatS16LE.SilencePattern())
	assert.Equal(t, []byte{0x00, 0x80}, FormatU16LE.SilencePattern())
	assert.Equal(t, []byte{0x80, 0x00}, FormatU16BE.SilencePattern())
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, FormatU32LE.SilencePattern())
}

func TestFullScale(t *testing.T) {
	assert.Equal(t, int32(128), FormatS8.FullScale())
	assert.Equal(t, int32(32768), FormatS16LE.FullScale())
	assert.Equal(t, int32(1<<23), FormatS24LE.FullScale())

	// 1 << 31 does not fit a signed 32 bit value
	assert.Equal(t, int32(math.MaxInt32), FormatS32LE.FullScale())
}

func TestStreamFormatValidate(t *testing.T) {
	good := StreamFormat{Format: FormatS16LE, Channels: 2, Rate: 48000}
	require.NoError(t, good.Validate())
	assert.Equal(t, 4, good.FrameBytes())
	assert.Equal(t, 192000, good.BytesPerSecond())

	assert.Error(t, StreamFormat{Format: FormatUnknown, Channels: 2, Rate: 48000}.Validate())
	assert.Error(t, StreamFormat{Format: FormatS16LE, Channels: 0, Rate: 48000}.Validate())
	assert.Error(t, StreamFormat{Format: FormatS16LE, Channels: 2, Rate: 0}.Validate())
}
