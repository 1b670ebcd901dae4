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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pcmtap/audio"
)

// resumeRetryDelay spaces out resume attempts while the device still
// reports the suspend as pending.
const resumeRetryDelay = time.Second

// recoverXrun handles an xrun reported by the device. It queries the
// stream state, reports the glitch, and reprepares the stream so the
// transfer loop can continue at the byte offset it reached. A non-nil
// return escalates: the glitch policy is fatal, the reprepare failed,
// or the device is in a state this machine does not recognize.
func (e *Engine) recoverXrun() error {
	status, err := e.device.Status()
	if err != nil {
		return fmt.Errorf("status error: %w", err)
	}

	switch status.State {
	case audio.StateXrun:
		if e.opts.FatalErrors {
			return fmt.Errorf("fatal %s", e.dir.GlitchName())
		}

		e.countGlitch()

		if !e.opts.Quiet {
			if status.TriggerTime.IsZero() {
				slog.Warn(fmt.Sprintf("%s!!!", e.dir.GlitchName()))
			} else {
				ms := float64(time.Since(status.TriggerTime).Microseconds()) / 1000.0
				slog.Warn(fmt.Sprintf("%s!!! (at least %.3f ms long)", e.dir.GlitchName(), ms))
			}
		}

		if err := e.device.Prepare(); err != nil {
			return fmt.Errorf("xrun: prepare error: %w", err)
		}

		return nil

	case audio.StateDraining:
		// A capture stream landing in the draining state usually means
		// the source changed format under us; reprepare and retry.
		if e.dir == audio.Capture {
			e.countGlitch()

			if !e.opts.Quiet {
				slog.Warn("capture stream format change? attempting recover")
			}

			if err := e.device.Prepare(); err != nil {
				return fmt.Errorf("xrun(DRAINING): prepare error: %w", err)
			}

			return nil
		}
	}

	return fmt.Errorf("read/write error, state = %s", status.State)
}

// recoverSuspend retries resume until the device either comes back or
// rejects it outright, then falls back to a reprepare. Only a failed
// reprepare escalates.
func (e *Engine) recoverSuspend() error {
	if !e.opts.Quiet {
		slog.Warn("Suspended. Trying resume.")
	}

	err := e.device.Resume()
	for errors.Is(err, audio.ErrTryAgain) {
		time.Sleep(resumeRetryDelay)
		err = e.device.Resume()
	}

	if err != nil {
		if !e.opts.Quiet {
			slog.Warn("Resume failed. Restarting stream.")
		}

		if err := e.device.Prepare(); err != nil {
			return fmt.Errorf("suspend: prepare error: %w", err)
		}
	}

	if !e.opts.Quiet {
		slog.Info("Suspend recovery done.")
	}

	return nil
}
