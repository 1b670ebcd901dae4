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

// Package display renders transfer progress: either a compact VU
// meter printed to stderr, or a full-screen TUI with per-channel
// level meters.
package display

import (
	"log/slog"

	"pcmtap/model"
)

// Status is the transport state shown to the user.
type Status int

const (
	StatusStarting Status = iota
	StatusPlaying
	StatusRecording
	StatusShuttingDown
	StatusFailed
)

var statusNames = map[Status]string{
	StatusStarting:     "Starting",
	StatusPlaying:      "Playing",
	StatusRecording:    "Recording",
	StatusShuttingDown: "Shutting down",
	StatusFailed:       "Failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "Unknown"
}

// UI is the rendering surface the drivers update during a transfer.
type UI interface {
	Start()
	Shutdown()
	SetTransportStatus(status Status)
	SetAudioFormat(format string)
	SetDuration(duration float64)
	SetTransferredSize(size uint64)
	SetFileName(name string)
	IncrementErrorCount()
	UpdateSignalLevels(levels []model.SignalLevel)
	WriteLevelLog(level slog.Level, message string)
}
