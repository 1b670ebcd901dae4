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
	"log/slog"
)

// checkPosition samples the device's available-frames and delay
// counters after each I/O call and flags readings far outside the
// buffer size. The plausible window is +/- coef * buffer / 2. A
// suspicious reading also resets the peak meter's windowed maxima,
// since the samples backing them can no longer be trusted.
func (e *Engine) checkPosition() {
	avail, delay, err := e.device.AvailDelay()
	if err != nil {
		return
	}

	outOfRange := e.opts.TestCoef * e.bufferFrames / 2

	if avail > outOfRange || avail < -outOfRange ||
		delay > outOfRange || delay < -outOfRange {
		e.suspicious++
		e.countGlitch()

		slog.Warn(fmt.Sprintf("Suspicious buffer position (%d total): avail = %d, delay = %d, buffer = %d",
			e.suspicious, avail, delay, e.bufferFrames))

		if e.meter != nil {
			e.meter.ResetWindow()
		}
	}
}
