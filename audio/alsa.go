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
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/gen2brain/alsa"
	"golang.org/x/sys/unix"

	"pcmtap/model"
)

// DeviceParams is everything needed to open and configure a PCM
// stream. Negotiation itself is delegated to the ALSA library; the
// engine only consumes the resulting session.
type DeviceParams struct {
	Name   string
	Stream Direction
	Format model.StreamFormat

	ChunkFrames  int
	BufferFrames int

	Nonblock bool
}

// AlsaDevice is the Device implementation backed by the kernel ALSA
// interface. The stream is opened with NORESTART so that xruns
// surface to the recovery machine instead of being restarted behind
// its back.
type AlsaDevice struct {
	pcm    *alsa.PCM
	stream Direction
	format model.StreamFormat

	// scratch holds one interleaved chunk for the non-interleaved
	// adapter paths.
	scratch []byte
}

func alsaFormat(f model.SampleFormat) (alsa.PcmFormat, error) {
	switch f {
	case model.FormatS8:
		return alsa.SNDRV_PCM_FORMAT_S8, nil
	case model.FormatU8:
		return alsa.SNDRV_PCM_FORMAT_U8, nil
	case model.FormatS16LE:
		return alsa.SNDRV_PCM_FORMAT_S16_LE, nil
	case model.FormatS16BE:
		return alsa.SNDRV_PCM_FORMAT_S16_BE, nil
	case model.FormatU16LE:
		return alsa.SNDRV_PCM_FORMAT_U16_LE, nil
	case model.FormatU16BE:
		return alsa.SNDRV_PCM_FORMAT_U16_BE, nil
	case model.FormatS24LE:
		return alsa.SNDRV_PCM_FORMAT_S24_3LE, nil
	case model.FormatS24BE:
		return alsa.SNDRV_PCM_FORMAT_S24_3BE, nil
	case model.FormatS32LE:
		return alsa.SNDRV_PCM_FORMAT_S32_LE, nil
	case model.FormatS32BE:
		return alsa.SNDRV_PCM_FORMAT_S32_BE, nil
	case model.FormatU32LE:
		return alsa.SNDRV_PCM_FORMAT_U32_LE, nil
	case model.FormatU32BE:
		return alsa.SNDRV_PCM_FORMAT_U32_BE, nil
	}

	return alsa.SNDRV_PCM_FORMAT_INVALID, fmt.Errorf("sample format %s not supported by device backend", f)
}

// OpenAlsaDevice opens the named PCM ("hw:C,D") and installs the
// requested configuration.
func OpenAlsaDevice(params DeviceParams) (*AlsaDevice, error) {
	pcmFormat, err := alsaFormat(params.Format.Format)
	if err != nil {
		return nil, err
	}

	flags := alsa.PCM_OUT | alsa.PCM_NORESTART | alsa.PCM_MONOTONIC
	if params.Stream == Capture {
		flags = alsa.PCM_IN | alsa.PCM_NORESTART | alsa.PCM_MONOTONIC
	}

	if params.Nonblock {
		flags |= alsa.PCM_NONBLOCK
	}

	periodCount := uint32(4)
	if params.ChunkFrames > 0 && params.BufferFrames > params.ChunkFrames {
		periodCount = uint32(params.BufferFrames / params.ChunkFrames)
	}

	config := alsa.Config{
		Channels:    uint32(params.Format.Channels),
		Rate:        uint32(params.Format.Rate),
		PeriodSize:  uint32(params.ChunkFrames),
		PeriodCount: periodCount,
		Format:      pcmFormat,
	}

	pcm, err := alsa.PcmOpenByName(params.Name, flags, &config)
	if err != nil {
		return nil, fmt.Errorf("audio open error: %w", err)
	}

	dev := &AlsaDevice{
		pcm:     pcm,
		stream:  params.Stream,
		format:  params.Format,
		scratch: make([]byte, int(pcm.PeriodSize())*params.Format.FrameBytes()),
	}

	return dev, nil
}

// ChunkFrames returns the period size the device actually granted.
func (d *AlsaDevice) ChunkFrames() int {
	return int(d.pcm.PeriodSize())
}

// BufferFrames returns the granted ring buffer size.
func (d *AlsaDevice) BufferFrames() int {
	return int(d.pcm.BufferSize())
}

// classify maps the library's errno-wrapped failures onto the
// sentinel errors the engine understands.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.EAGAIN):
		return ErrWouldBlock
	case errors.Is(err, syscall.EPIPE):
		return ErrXrun
	case errors.Is(err, unix.ESTRPIPE):
		return ErrSuspended
	}

	return err
}

func (d *AlsaDevice) WriteFrames(buf []byte, frames int) (int, error) {
	n, err := d.pcm.Write(buf[:frames*d.format.FrameBytes()])
	if err != nil {
		return 0, classify(err)
	}

	return n, nil
}

func (d *AlsaDevice) ReadFrames(buf []byte, frames int) (int, error) {
	n, err := d.pcm.Read(buf[:frames*d.format.FrameBytes()])
	if err != nil {
		return 0, classify(err)
	}

	return n, nil
}

// WriteFramesN adapts the per-channel call onto the interleaved
// syscall: the kernel's non-interleaved access mode is not exposed by
// the library, so the adapter interleaves into a scratch chunk. The
// single returned count holds for every channel.
func (d *AlsaDevice) WriteFramesN(bufs [][]byte, frames int) (int, error) {
	sampleBytes := d.format.Format.Bytes()
	d.interleave(bufs, frames, sampleBytes)

	n, err := d.pcm.Write(d.scratch[:frames*d.format.FrameBytes()])
	if err != nil {
		return 0, classify(err)
	}

	return n, nil
}

func (d *AlsaDevice) ReadFramesN(bufs [][]byte, frames int) (int, error) {
	n, err := d.pcm.Read(d.scratch[:frames*d.format.FrameBytes()])
	if err != nil {
		return 0, classify(err)
	}

	sampleBytes := d.format.Format.Bytes()
	d.deinterleave(bufs, n, sampleBytes)

	return n, nil
}

func (d *AlsaDevice) interleave(bufs [][]byte, frames, sampleBytes int) {
	for frame := 0; frame < frames; frame++ {
		for ch := range bufs {
			src := bufs[ch][frame*sampleBytes : (frame+1)*sampleBytes]
			dstOff := (frame*len(bufs) + ch) * sampleBytes
			copy(d.scratch[dstOff:dstOff+sampleBytes], src)
		}
	}
}

func (d *AlsaDevice) deinterleave(bufs [][]byte, frames, sampleBytes int) {
	for frame := 0; frame < frames; frame++ {
		for ch := range bufs {
			srcOff := (frame*len(bufs) + ch) * sampleBytes
			dst := bufs[ch][frame*sampleBytes : (frame+1)*sampleBytes]
			copy(dst, d.scratch[srcOff:srcOff+sampleBytes])
		}
	}
}

func (d *AlsaDevice) Wait(timeout time.Duration) (bool, error) {
	ready, err := d.pcm.Wait(int(timeout.Milliseconds()))
	if err != nil {
		return false, classify(err)
	}

	return ready, nil
}

func (d *AlsaDevice) Status() (Status, error) {
	state := d.pcm.State()

	// The library does not expose the driver's trigger timestamp, so
	// glitch duration reporting falls back to the no-timestamp path.
	return Status{State: mapState(state)}, nil
}

func mapState(s alsa.PcmState) State {
	switch s {
	case alsa.SNDRV_PCM_STATE_OPEN:
		return StateOpen
	case alsa.SNDRV_PCM_STATE_SETUP:
		return StateSetup
	case alsa.SNDRV_PCM_STATE_PREPARED:
		return StatePrepared
	case alsa.SNDRV_PCM_STATE_RUNNING:
		return StateRunning
	case alsa.SNDRV_PCM_STATE_XRUN:
		return StateXrun
	case alsa.SNDRV_PCM_STATE_DRAINING:
		return StateDraining
	case alsa.SNDRV_PCM_STATE_PAUSED:
		return StatePaused
	case alsa.SNDRV_PCM_STATE_SUSPENDED:
		return StateSuspended
	case alsa.SNDRV_PCM_STATE_DISCONNECTED:
		return StateDisconnected
	}

	return StateUnknown
}

func (d *AlsaDevice) Prepare() error {
	return d.pcm.Prepare()
}

func (d *AlsaDevice) Resume() error {
	err := d.pcm.Resume()
	if err != nil && errors.Is(err, syscall.EAGAIN) {
		return ErrTryAgain
	}

	return err
}

func (d *AlsaDevice) AvailDelay() (int, int, error) {
	delay, err := d.pcm.Delay()
	if err != nil {
		return 0, 0, classify(err)
	}

	// Frame availability is not separately reported by the library.
	return 0, delay, nil
}

func (d *AlsaDevice) Drain() error {
	return d.pcm.Drain()
}

func (d *AlsaDevice) Close() error {
	return d.pcm.Close()
}
