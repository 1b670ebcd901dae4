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

package custom

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// LevelMeter renders one channel's signal level as a vertical bar,
// scaled in percent of full scale. Above the bar sits the channel
// number, below it the rolling maximum; a clipped signal lights the
// channel number red until cleared.
type LevelMeter struct {
	*cview.Box

	// Rune to use when rendering the empty area of the level meter.
	emptyRune rune

	// Rune to use when rendering the filled area of the level meter.
	filledRune rune

	channelNumber string

	// Current levels, percent of full scale.
	level          int
	peakLevel      int
	peakHoldTimeMs int
	lastPeakTime   int64
	maxLevel       int
	clipped        bool

	// percent value of each meter row, top down
	meterSteps []int

	// meter level to foreground color map
	colorMap map[int]tcell.Color

	sync.RWMutex
}

// NewLevelMeter returns a new level meter bar.
func NewLevelMeter(meterSteps []int, colorMap map[int]tcell.Color) *LevelMeter {
	p := &LevelMeter{
		Box:            cview.NewBox(),
		emptyRune:      rune(9617),
		filledRune:     rune(9607),
		peakHoldTimeMs: 750,
		meterSteps:     meterSteps,
		colorMap:       colorMap,
	}
	p.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)
	return p
}

func (p *LevelMeter) SetChannelNumber(name string) {
	p.Lock()
	defer p.Unlock()

	p.channelNumber = name
}

// SetLevel sets the current instantaneous level in percent.
func (p *LevelMeter) SetLevel(level int) {
	p.Lock()
	defer p.Unlock()

	p.level = level

	if p.level < 0 {
		p.level = 0
	} else if p.level > 100 {
		p.level = 100
	}

	if p.level > p.peakLevel || (time.Now().UnixMilli()-p.lastPeakTime) > int64(p.peakHoldTimeMs) {
		p.peakLevel = p.level
		p.lastPeakTime = time.Now().UnixMilli()
	}
}

// GetLevel gets the current level.
func (p *LevelMeter) GetLevel() int {
	p.RLock()
	defer p.RUnlock()

	return p.level
}

// SetMaxLevel sets the rolling maximum shown below the bar.
func (p *LevelMeter) SetMaxLevel(level int) {
	p.Lock()
	defer p.Unlock()

	p.maxLevel = level
}

// SetClipped marks or clears the clip indicator.
func (p *LevelMeter) SetClipped(clipped bool) {
	p.Lock()
	defer p.Unlock()

	p.clipped = clipped
}

func getLevelColor(colorMap map[int]tcell.Color, currentLevel int) tcell.Color {
	keys := make([]int, 0, len(colorMap))

	for k := range colorMap {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	for key := range keys {
		mapLevel := keys[key]
		mapColor := colorMap[mapLevel]
		if currentLevel >= mapLevel {
			return mapColor
		}
	}

	return tcell.ColorPurple
}

// Draw draws this primitive onto the screen.
func (p *LevelMeter) Draw(screen tcell.Screen) {
	if !p.GetVisible() {
		return
	}

	p.Box.Draw(screen)

	p.Lock()
	defer p.Unlock()

	x, y, meterWidth, _ := p.GetInnerRect()
	foundPeak := false

	labelStyle := tcell.StyleDefault.Bold(true).Background(p.GetBackgroundColor())
	if p.clipped {
		labelStyle = labelStyle.Foreground(tcell.ColorRed)
	}

	fmtString := fmt.Sprintf("%%%dv", meterWidth)
	runeArray := []rune(fmt.Sprintf(fmtString, p.channelNumber))
	for w := 0; w < meterWidth; w++ {
		screen.SetContent(x+w, y, runeArray[w], nil, labelStyle)
	}

	y += 1

	for step := 0; step < len(p.meterSteps); step++ {
		stepLevel := p.meterSteps[step]
		doDraw := false
		foregroundColor := getLevelColor(p.colorMap, stepLevel)
		style := tcell.StyleDefault.Foreground(foregroundColor).Background(p.GetBackgroundColor())

		if !foundPeak && p.peakLevel >= stepLevel {
			foundPeak = true
			style = style.Bold(true)
			doDraw = true
		} else if p.level >= stepLevel {
			doDraw = true
		}

		if doDraw {
			for w := 0; w < meterWidth; w++ {
				screen.SetContent(x+w, y+step, p.filledRune, nil, style)
			}
		} else {
			for w := 0; w < meterWidth; w++ {
				screen.SetContent(x+w, y+step, p.emptyRune, nil, style.Dim(true))
			}
		}
	}

	y += len(p.meterSteps)

	// rolling max below the bar
	runeArray = []rune(fmt.Sprintf(fmtString, p.maxLevel))
	maxColor := getLevelColor(p.colorMap, p.maxLevel)
	maxStyle := tcell.StyleDefault.Bold(true).Foreground(maxColor).Background(p.GetBackgroundColor())
	for w := 0; w < meterWidth; w++ {
		screen.SetContent(x+w, y, runeArray[w], nil, maxStyle)
	}
}
