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
	"fmt"
	"math"
	"strings"
)

// SampleFormat identifies a linear PCM sample encoding. Only the
// fixed-width linear encodings are supported; 24 bit samples are
// packed in three bytes.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatS8
	FormatU8
	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE
	FormatS24LE
	FormatS24BE
	FormatS32LE
	FormatS32BE
	FormatU32LE
	FormatU32BE
)

var formatNames = map[SampleFormat]string{
	FormatS8:    "S8",
	FormatU8:    "U8",
	FormatS16LE: "S16_LE",
	FormatS16BE: "S16_BE",
	FormatU16LE: "U16_LE",
	FormatU16BE: "U16_BE",
	FormatS24LE: "S24_3LE",
	FormatS24BE: "S24_3BE",
	FormatS32LE: "S32_LE",
	FormatS32BE: "S32_BE",
	FormatU32LE: "U32_LE",
	FormatU32BE: "U32_BE",
}

func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "UNKNOWN"
}

// ParseFormat resolves a sample format by its ALSA-style name,
// case insensitive.
func ParseFormat(name string) (SampleFormat, error) {
	for format, known := range formatNames {
		if strings.EqualFold(name, known) {
			return format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("unknown sample format '%s'", name)
}

// Width returns the number of significant bits per sample.
func (f SampleFormat) Width() int {
	switch f {
	case FormatS8, FormatU8:
		return 8
	case FormatS16LE, FormatS16BE, FormatU16LE, FormatU16BE:
		return 16
	case FormatS24LE, FormatS24BE:
		return 24
	case FormatS32LE, FormatS32BE, FormatU32LE, FormatU32BE:
		return 32
	}

	return 0
}

// Bytes returns the number of bytes each sample occupies.
func (f SampleFormat) Bytes() int {
	return f.Width() / 8
}

func (f SampleFormat) Signed() bool {
	switch f {
	case FormatU8, FormatU16LE, FormatU16BE, FormatU32LE, FormatU32BE:
		return false
	}

	return true
}

func (f SampleFormat) BigEndian() bool {
	switch f {
	case FormatS16BE, FormatU16BE, FormatS24BE, FormatS32BE, FormatU32BE:
		return true
	}

	return false
}

// SilenceValue returns the bit pattern representing zero amplitude,
// as an unsigned value of Width() bits. For signed encodings this is
// zero; unsigned encodings sit at mid scale.
func (f SampleFormat) SilenceValue() uint32 {
	if f.Signed() {
		return 0
	}

	return 1 << (uint(f.Width()) - 1)
}

// SilencePattern returns the byte sequence of one silent sample in
// wire order.
func (f SampleFormat) SilencePattern() []byte {
	val := f.SilenceValue()
	n := f.Bytes()
	pattern := make([]byte, n)

	for i := 0; i < n; i++ {
		shift := uint(8 * i)
		if f.BigEndian() {
			shift = uint(8 * (n - 1 - i))
		}

		pattern[i] = byte(val >> shift)
	}

	return pattern
}

// FullScale returns the largest positive sample value the format can
// represent, once normalized to a signed zero-centered value.
func (f SampleFormat) FullScale() int32 {
	max := int32(1) << (uint(f.Width()) - 1)
	if max <= 0 {
		max = math.MaxInt32
	}

	return max
}

// StreamFormat is the negotiated stream configuration. It is fixed for
// the duration of a transfer.
type StreamFormat struct {
	Format   SampleFormat
	Channels int
	Rate     int
}

func (f StreamFormat) Validate() error {
	if f.Format == FormatUnknown || f.Format.Width() == 0 {
		return fmt.Errorf("unsupported sample format")
	}

	if f.Channels < 1 {
		return fmt.Errorf("channel count %d is invalid", f.Channels)
	}

	if f.Rate < 1 {
		return fmt.Errorf("rate %d is invalid", f.Rate)
	}

	return nil
}

// FrameBytes returns the size of one frame (one sample per channel).
func (f StreamFormat) FrameBytes() int {
	return f.Format.Bytes() * f.Channels
}

// BytesPerSecond returns the raw data rate of the stream.
func (f StreamFormat) BytesPerSecond() int {
	return f.FrameBytes() * f.Rate
}

func (f StreamFormat) Describe() string {
	layout := "Mono"
	if f.Channels == 2 {
		layout = "Stereo"
	} else if f.Channels > 2 {
		layout = fmt.Sprintf("Channels %d", f.Channels)
	}

	return fmt.Sprintf("%s, Rate %d Hz, %s", f.Format, f.Rate, layout)
}
