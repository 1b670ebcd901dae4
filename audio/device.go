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
	"time"
)

// Direction distinguishes the two stream directions.
type Direction int

const (
	Playback Direction = iota
	Capture
)

func (d Direction) String() string {
	if d == Capture {
		return "Capture"
	}

	return "Playback"
}

// GlitchName is the conventional name of a buffer xrun for the
// direction: an underrun starves playback, an overrun floods capture.
func (d Direction) GlitchName() string {
	if d == Capture {
		return "overrun"
	}

	return "underrun"
}

// State mirrors the device's stream state as reported by its driver.
type State int

const (
	StateUnknown State = iota
	StateOpen
	StateSetup
	StatePrepared
	StateRunning
	StateXrun
	StateDraining
	StatePaused
	StateSuspended
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateSetup:
		return "SETUP"
	case StatePrepared:
		return "PREPARED"
	case StateRunning:
		return "RUNNING"
	case StateXrun:
		return "XRUN"
	case StateDraining:
		return "DRAINING"
	case StatePaused:
		return "PAUSED"
	case StateSuspended:
		return "SUSPENDED"
	case StateDisconnected:
		return "DISCONNECTED"
	}

	return "UNKNOWN"
}

// Status is a point-in-time snapshot of the device. TriggerTime is
// the timestamp of the event that last stopped the stream, when the
// driver provides one; the zero value means no timestamp available.
type Status struct {
	State       State
	TriggerTime time.Time
}

// Device is the negotiated device session the transfer engine runs
// against. Frame counts are in frames, not bytes; a successful call
// may accept or produce fewer frames than requested.
//
// I/O methods report glitches through the sentinel errors in this
// package: ErrWouldBlock, ErrXrun, ErrSuspended. Anything else is
// unrecoverable.
type Device interface {
	// WriteFrames submits up to frames interleaved frames from buf.
	WriteFrames(buf []byte, frames int) (int, error)

	// ReadFrames fills buf with up to frames interleaved frames.
	ReadFrames(buf []byte, frames int) (int, error)

	// WriteFramesN submits frames from one buffer per channel. The
	// returned count applies to every channel.
	WriteFramesN(bufs [][]byte, frames int) (int, error)

	// ReadFramesN fills one buffer per channel. The returned count
	// applies to every channel.
	ReadFramesN(bufs [][]byte, frames int) (int, error)

	// Wait blocks until the device is ready for I/O or the timeout
	// expires.
	Wait(timeout time.Duration) (bool, error)

	// Status queries the current stream state.
	Status() (Status, error)

	// Prepare returns the stream to a state where I/O can restart
	// after an xrun or a failed resume.
	Prepare() error

	// Resume attempts to leave the suspended state. Returns
	// ErrTryAgain while the device has not released the suspend.
	Resume() error

	// AvailDelay reports the available frame count and stream delay
	// for buffer position plausibility checks. Implementations that
	// cannot report availability return zero for avail.
	AvailDelay() (avail int, delay int, err error)

	// Drain blocks until already-queued playback frames have been
	// played.
	Drain() error

	Close() error
}
