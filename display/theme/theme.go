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

// Package theme holds the shared colors and rune symbols used by the
// TUI widgets.
package theme

import (
	"github.com/gdamore/tcell/v2"
)

const (
	Blue      = tcell.ColorBlue
	Green     = tcell.Color71
	Pink      = tcell.Color131
	Red       = tcell.Color124
	RedRGB    = "AF0000"
	SoftGreen = tcell.Color72
	Yellow    = tcell.Color142
	YellowRGB = "AFAF00"
	Gray      = tcell.ColorGray
	GrayRGB   = "808080"

	BorderColor = tcell.Color243

	LevelMeterAlternateBackgroundColor = tcell.Color233
)

const (
	RuneClock  = rune(9201) // ⏱
	RunePlay   = rune(9205) // ⏵
	RuneRecord = rune(9210) // ⏺
	RuneStop   = rune(9209) // ⏹
	RuneFailed = rune(9932) // ⛌
)
