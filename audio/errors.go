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

import "errors"

var (
	// ErrWouldBlock is returned when the device cannot accept or
	// produce frames yet. Always retried, never surfaced.
	ErrWouldBlock = errors.New("device not ready")

	// ErrXrun is returned when the device reports a buffer underrun
	// (playback) or overrun (capture).
	ErrXrun = errors.New("buffer xrun")

	// ErrSuspended is returned when the device entered a power
	// suspend state mid stream.
	ErrSuspended = errors.New("device suspended")

	// ErrTryAgain is returned by Resume while the device has not yet
	// released its suspend state.
	ErrTryAgain = errors.New("resume not complete")

	// ErrChannelMismatch is returned when a requested channel map
	// cannot be reconciled with the device's channel layout.
	ErrChannelMismatch = errors.New("channel map does not match device layout")
)
