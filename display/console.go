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

package display

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pcmtap/model"
)

// Console is the stderr VU meter: a single \r-rewritten line, one bar
// for mono metering or two mirrored bars for stereo. Status fields
// other than the meter go through the normal logger.
type Console struct {
	out     *os.File
	drawn   bool
	started bool
}

func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

func (c *Console) Start() {
	c.started = true
}

// Shutdown terminates the meter line so later output starts on a
// fresh line.
func (c *Console) Shutdown() {
	if c.drawn {
		fmt.Fprintln(c.out)
		c.drawn = false
	}
}

func (c *Console) SetTransportStatus(status Status) {}

func (c *Console) SetAudioFormat(format string) {}

func (c *Console) SetDuration(duration float64) {}

func (c *Console) SetTransferredSize(size uint64) {}

func (c *Console) SetFileName(name string) {}

func (c *Console) IncrementErrorCount() {}

func (c *Console) WriteLevelLog(level slog.Level, message string) {}

func (c *Console) UpdateSignalLevels(levels []model.SignalLevel) {
	if !c.started || len(levels) == 0 {
		return
	}

	if len(levels) == 2 {
		c.drawStereo(levels)
	} else {
		c.drawMono(levels[0])
	}

	c.drawn = true
}

const (
	monoBarLength   = 50
	stereoBarLength = 35
)

func (c *Console) drawMono(level model.SignalLevel) {
	line := make([]byte, 0, monoBarLength+2)

	val := 0
	for ; val <= level.Instant*monoBarLength/100 && val < monoBarLength; val++ {
		line = append(line, '#')
	}
	for ; val <= level.Max*monoBarLength/100 && val < monoBarLength; val++ {
		line = append(line, ' ')
	}
	line = append(line, '+')
	for val++; val <= monoBarLength; val++ {
		line = append(line, ' ')
	}

	fmt.Fprintf(c.out, "\r%s", line)

	if level.Instant > 100 {
		fmt.Fprintf(c.out, " !clip  ")
	} else {
		fmt.Fprintf(c.out, "%3d%%", level.Instant)
	}
}

// drawStereo renders two bars growing outward from a center divider:
//
//	    ###+        00%|00%        +###
func (c *Console) drawStereo(levels []model.SignalLevel) {
	lineLen := stereoBarLength*2 + 9
	line := []byte(strings.Repeat(" ", lineLen))
	line[stereoBarLength+4] = '|'

	for ch := 0; ch < 2; ch++ {
		p := levels[ch].Instant * stereoBarLength / 100
		if p > stereoBarLength {
			p = stereoBarLength
		}

		if ch == 0 {
			for i := 0; i < p; i++ {
				line[stereoBarLength-1-i] = '#'
			}
		} else {
			for i := 0; i < p; i++ {
				line[stereoBarLength+8+i] = '#'
			}
		}

		p = levels[ch].Max * stereoBarLength / 100
		if p > stereoBarLength-1 {
			p = stereoBarLength - 1
		}

		if ch == 0 {
			line[stereoBarLength-1-p] = '+'
		} else {
			line[stereoBarLength+8+p] = '+'
		}

		var label string
		if levels[ch].Instant > 100 {
			label = "MAX"
		} else {
			label = fmt.Sprintf("%02d%%", levels[ch].Max)
		}

		if ch == 0 {
			copy(line[stereoBarLength+1:], label)
		} else {
			copy(line[stereoBarLength+5:], label)
		}
	}

	fmt.Fprintf(c.out, "\r%s", line)
}
