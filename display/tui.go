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
	"time"

	"pcmtap/display/custom"
	"pcmtap/display/theme"
	"pcmtap/model"
	"pcmtap/reaper"
	"pcmtap/util"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

//
// constants
//

const (
	layoutMeterWidth            = 4
	layoutStatusItemHeaderWidth = 14
	layoutStatusGridWidth       = 51
)

//
// variables
//

var (
	meterSteps = []int{
		100, 95, 90, 85, 80, 75, 70,
		65, 60, 55, 50, 45, 40, 35,
		30, 25, 20, 15, 10, 5}

	levelColors = map[int]tcell.Color{
		100: theme.Red,
		95:  theme.Pink,
		85:  theme.Yellow,
		60:  theme.Green,
		0:   theme.SoftGreen,
	}
)

//
// types
//

type Tui struct {
	app             *cview.Application
	shutdownChannel chan bool

	errorCount int

	gridApp            *cview.Grid
	gridLevelMeters    *cview.Grid
	elementLevelMeters []*custom.LevelMeter

	tvLogs            *cview.TextView
	tvTransportStatus *custom.StatusText
	tvDevice          *custom.StatusText
	tvPosition        *custom.StatusText
	tvFormat          *custom.StatusText
	tvTransferred     *custom.StatusText
	tvFileName        *custom.StatusText
	tvErrorCount      *custom.StatusText
}

//
// constructor
//

func NewTui(device string, channelCount int) *Tui {
	tui := &Tui{
		shutdownChannel:    make(chan bool, 1),
		errorCount:         0,
		elementLevelMeters: make([]*custom.LevelMeter, 0),
	}

	tui.initialize(device, channelCount)

	return tui
}

//
// lifecycle management
//

func (tui *Tui) initialize(device string, channelCount int) {
	tui.app = cview.NewApplication()
	defer tui.app.HandlePanic()

	meterRowHeight := len(meterSteps) + 2

	statusRowCount := 7
	statusRows := make([]int, statusRowCount)
	for i := range statusRowCount {
		statusRows[i] = 1
	}

	//
	// main application grid
	tui.gridApp = cview.NewGrid()
	tui.gridApp.SetPadding(0, 0, 0, 0)
	tui.gridApp.SetColumns(-1)
	tui.gridApp.SetBorders(true)
	tui.gridApp.SetBordersColor(theme.BorderColor)
	tui.gridApp.SetRows(statusRowCount, meterRowHeight, -1)
	tui.gridApp.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)

	//
	// grid for the status fields
	gridStatus := cview.NewGrid()
	gridStatus.SetPadding(0, 0, 1, 1)
	gridStatus.SetColumns(layoutStatusGridWidth, -1)
	gridStatus.SetRows(statusRows...)
	gridStatus.SetBackgroundColor(cview.Styles.PrimitiveBackgroundColor)

	tui.tvTransportStatus = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Status", string(theme.RuneClock)+" Starting")
	tui.tvTransportStatus.SetColor(theme.Yellow)
	tui.tvDevice = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Device", device)
	tui.tvPosition = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Position", "00:00:00.000")
	tui.tvFormat = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Format", "Unknown")
	tui.tvTransferred = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Transferred", "0 bytes")
	tui.tvFileName = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "File", "")
	tui.tvErrorCount = custom.NewStatusTextField(layoutStatusItemHeaderWidth, "Errors", "0")

	gridStatus.AddItem(tui.tvTransportStatus.GetGrid(), 0, 0, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvDevice.GetGrid(), 1, 0, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvPosition.GetGrid(), 2, 0, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvFormat.GetGrid(), 3, 0, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvTransferred.GetGrid(), 4, 0, 1, 1, 0, 0, false)
	gridStatus.AddItem(tui.tvFileName.GetGrid(), 5, 0, 1, 2, 0, 0, false)
	gridStatus.AddItem(tui.tvErrorCount.GetGrid(), 6, 0, 1, 1, 0, 0, false)

	tui.gridApp.AddItem(gridStatus, 0, 0, 1, 1, 0, 0, false)

	//
	// grid for the level meters
	tui.gridLevelMeters = cview.NewGrid()
	tui.gridLevelMeters.SetPadding(0, 0, 0, 0)
	tui.gridLevelMeters.SetColumns(-1)

	tui.gridApp.AddItem(tui.gridLevelMeters, 1, 0, 1, 1, 0, 0, false)
	tui.setChannelCount(channelCount)

	//
	// grid for the log output view
	tui.tvLogs = cview.NewTextView()
	tui.tvLogs.SetPadding(0, 0, 0, 0)
	tui.tvLogs.SetDynamicColors(true)

	tui.gridApp.AddItem(tui.tvLogs, 2, 0, 1, 1, 0, 0, true)

	tui.app.SetRoot(tui.gridApp, true)
}

func (tui *Tui) Start() {
	reaper.Register("tui")

	go func() {
		defer tui.app.HandlePanic()

		tui.app.SetInputCapture(tui.eventHandler)

		if err := tui.app.Run(); err != nil {
			panic(err)
		}

		tui.shutdownChannel <- true
		reaper.Done("tui")
	}()

	go tui.redrawLoop()
}

func (tui *Tui) Shutdown() {
	slog.Debug("Shutting down TUI")
	tui.app.Stop()

	slog.Debug("Waiting for TUI to shut down")
	tui.WaitForShutdown()
}

func (tui *Tui) WaitForShutdown() {
	<-tui.shutdownChannel
}

//
// private functions
//

func (tui *Tui) eventHandler(event *tcell.EventKey) *tcell.EventKey {
	// Anything handled here will be executed on the main thread
	switch event.Key() {
	case tcell.KeyEsc:
	case tcell.KeyCtrlC:
		go reaper.Reap()
		return nil
	}

	return event
}

func (tui *Tui) redrawLoop() {
	defer tui.app.HandlePanic()

	slog.Debug("TUI loop started")

	for {
		if len(tui.shutdownChannel) > 0 {
			slog.Info("TUI shutting down")
			tui.app.QueueUpdateDraw(func() {})
			break
		}

		tui.app.QueueUpdateDraw(func() {})
		time.Sleep(50 * time.Millisecond)
	}
}

func (tui *Tui) setChannelCount(channelCount int) {
	tui.elementLevelMeters = make([]*custom.LevelMeter, channelCount)

	levelColumns := make([]int, channelCount+2)
	levelColumns[0] = 5
	for i := range channelCount {
		levelColumns[i+1] = layoutMeterWidth
	}
	levelColumns[channelCount+1] = -1

	tui.gridLevelMeters.SetColumns(levelColumns...)

	meterStepLabel := cview.NewTextView()
	meterStepLabel.SetPadding(0, 0, 0, 0)

	meterStepLabel.Write([]byte(fmt.Sprintln()))
	for step := 0; step < len(meterSteps); step++ {
		meterStepLabel.Write([]byte(fmt.Sprintf("%3v\n", fmt.Sprintf("%d", meterSteps[step]))))
	}
	tui.gridLevelMeters.AddItem(meterStepLabel, 0, 0, 1, 1, 0, 0, false)

	for i := range channelCount {
		tui.elementLevelMeters[i] = custom.NewLevelMeter(meterSteps, levelColors)
		tui.elementLevelMeters[i].SetBorder(false)
		tui.elementLevelMeters[i].SetPadding(0, 0, 1, 1)
		tui.elementLevelMeters[i].SetChannelNumber(fmt.Sprintf("%d", i+1))

		if i%2 == 1 {
			tui.elementLevelMeters[i].SetBackgroundColor(theme.LevelMeterAlternateBackgroundColor)
		}

		tui.gridLevelMeters.AddItem(tui.elementLevelMeters[i], 0, i+1, 1, 1, 0, 0, false)
	}
}

//
// status update functions
//

func (tui *Tui) SetTransportStatus(status Status) {
	var icon rune
	var color tcell.Color

	switch status {
	case StatusStarting:
		icon = theme.RuneClock
		color = theme.Yellow
	case StatusPlaying:
		icon = theme.RunePlay
		color = theme.Green
	case StatusRecording:
		icon = theme.RuneRecord
		color = theme.Red
	case StatusShuttingDown:
		icon = theme.RuneStop
		color = theme.Yellow
	case StatusFailed:
		icon = theme.RuneFailed
		color = theme.Red
	}

	tui.tvTransportStatus.SetCurrentValue(string(icon) + " " + status.String())
	tui.tvTransportStatus.SetColor(color)
}

func (tui *Tui) SetDuration(duration float64) {
	tui.tvPosition.SetCurrentValue(util.FormatDuration(duration))
}

func (tui *Tui) SetAudioFormat(format string) {
	tui.tvFormat.SetCurrentValue(format)
}

func (tui *Tui) SetTransferredSize(size uint64) {
	tui.tvTransferred.SetCurrentValue(util.FormatSize(size))
}

func (tui *Tui) SetFileName(name string) {
	tui.tvFileName.SetCurrentValue(name)
}

func (tui *Tui) IncrementErrorCount() {
	tui.errorCount++
	tui.tvErrorCount.SetCurrentValue(fmt.Sprintf("%d", tui.errorCount))

	if tui.errorCount > 0 {
		tui.tvErrorCount.SetColor(theme.Red)
	}
}

//
// channel strips
//

func (tui *Tui) UpdateSignalLevels(levels []model.SignalLevel) {
	for i := range levels {
		if i >= len(tui.elementLevelMeters) {
			break
		}

		tui.elementLevelMeters[i].SetLevel(levels[i].Instant)
		tui.elementLevelMeters[i].SetMaxLevel(levels[i].Max)
		tui.elementLevelMeters[i].SetClipped(levels[i].Clip)
	}
}

//
// logging
//

func (tui *Tui) WriteLevelLog(level slog.Level, message string) {
	color := "-"

	if level == slog.LevelWarn {
		color = "#" + theme.YellowRGB
	} else if level == slog.LevelError {
		color = "#" + theme.RedRGB + "::b"
	} else if level == slog.LevelDebug {
		color = "#" + theme.GrayRGB
	}

	tui.tvLogs.Write([]byte(fmt.Sprintf("[%s][%s[] [%s[] %s[-:-:-]\n", color, time.Now().Format("2006-01-02 15:04:05"), level.String(), message)))
}
