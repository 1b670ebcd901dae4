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

package shared

import (
	"sync/atomic"
)

// Flags is the process-wide signal state shared between the signal
// handlers and the transfer engine. Both flags are set asynchronously
// and polled at chunk boundaries only, never mid call.
type Flags struct {
	abort  atomic.Bool
	rotate atomic.Bool
}

func NewFlags() *Flags {
	return &Flags{}
}

// RequestAbort asks the transfer loops to stop at the next chunk
// boundary.
func (f *Flags) RequestAbort() {
	f.abort.Store(true)
}

func (f *Flags) Aborting() bool {
	return f.abort.Load()
}

// RequestRotate asks the capture loop to start a new output file.
// Setting it repeatedly before it is observed has the same effect as
// setting it once.
func (f *Flags) RequestRotate() {
	f.rotate.Store(true)
}

// TakeRotate consumes a pending rotation request, re-arming the flag
// for the next one.
func (f *Flags) TakeRotate() bool {
	return f.rotate.CompareAndSwap(true, false)
}
