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
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"pcmtap/audio"
	"pcmtap/display"
	"pcmtap/meter"
	"pcmtap/model"
	"pcmtap/reaper"
	"pcmtap/shared"
	"pcmtap/util"
)

// defaultBufferTime is the ring buffer length requested when no
// explicit sizes were given; the chunk is a quarter of the buffer.
const defaultBufferTime = 500 * time.Millisecond

// Run opens the device, wires the display and the meter, and drives
// one playback or capture session to completion. The returned code is
// the process exit status.
func Run(dir audio.Direction, args *model.CommandLineArgs, fileNames []string) int {
	config := util.ReadConfig(args)

	sampleFormat, err := model.ParseFormat(config.Format)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	format := model.StreamFormat{
		Format:   sampleFormat,
		Channels: config.Channels,
		Rate:     config.Rate,
	}

	if err := format.Validate(); err != nil {
		slog.Error(err.Error())
		return 1
	}

	meterMode, ok := model.MeterModeMap[strings.ToLower(args.VuMeter)]
	if args.VuMeter != "" && !ok {
		slog.Error("Invalid meter mode specified: " + args.VuMeter)
		return 1
	}

	flags := shared.NewFlags()

	removePid, err := shared.WritePidFile(args.PidFile)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}
	reaper.Callback("pid file", removePid)

	chunkFrames, bufferFrames := resolveSizes(args, format.Rate)

	device, err := audio.OpenAlsaDevice(audio.DeviceParams{
		Name:         config.Device,
		Stream:       dir,
		Format:       format,
		ChunkFrames:  chunkFrames,
		BufferFrames: bufferFrames,
		Nonblock:     args.Nonblock,
	})
	if err != nil {
		slog.Error(err.Error())
		return 1
	}
	reaper.Callback("close device", func() { device.Close() })

	opts := model.TransferOptions{
		ChunkFrames:  device.ChunkFrames(),
		BufferFrames: device.BufferFrames(),
		NoWait:       args.NoWait,
		FatalErrors:  args.FatalErrors,
		Quiet:        args.Quiet,
		TestPosition: args.TestPosition,
		TestCoef:     args.TestCoef,
	}

	engine, err := NewEngine(device, dir, format, opts, flags)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	if args.ChannelMap != "" {
		requested := strings.Split(strings.ToUpper(args.ChannelMap), ",")

		chmap, err := audio.BuildMap(requested, audio.DefaultLayout(format.Channels))
		if err != nil {
			slog.Error(err.Error())
			return 1
		}

		if chmap != nil {
			engine.SetRemapper(audio.NewRemapper(chmap, format.Format.Bytes()))
		}
	}

	ui := setupDisplay(config, args, meterMode, format)

	if meterMode != model.MeterNone {
		m, err := meter.New(format, meterMode)
		if err != nil {
			slog.Error(err.Error())
			return 1
		}

		var onLevels func([]model.SignalLevel)
		if ui != nil {
			onLevels = ui.UpdateSignalLevels
		}

		engine.SetMeter(m, onLevels)
	}

	shared.CatchSignals(flags, nil)

	if ui != nil {
		engine.SetErrorCounter(ui.IncrementErrorCount)
		ui.SetAudioFormat(format.Describe())
		ui.Start()
		reaper.Callback("display", ui.Shutdown)

		startProgressUpdates(ui, engine, format)
	}

	code := runTransfer(dir, engine, ui, args, format, flags, fileNames)

	reaper.Reap()
	reaper.Wait()

	return code
}

func runTransfer(dir audio.Direction, engine *Engine, ui display.UI, args *model.CommandLineArgs, format model.StreamFormat, flags *shared.Flags, fileNames []string) int {
	limit := limitBytes(args, format)

	if dir == audio.Playback {
		return runPlayback(engine, ui, args, format, fileNames, limit)
	}

	return runCapture(engine, ui, args, format, flags, fileNames, limit)
}

func runPlayback(engine *Engine, ui display.UI, args *model.CommandLineArgs, format model.StreamFormat, fileNames []string, limit int64) int {
	if ui != nil {
		ui.SetTransportStatus(display.StatusPlaying)
	}

	var written int64
	var err error

	if args.SeparateChannels {
		names := expandChannelNames(fileNames, format.Channels)

		srcs := make([]io.Reader, len(names))
		files := make([]*os.File, len(names))

		for i, name := range names {
			f, oerr := os.Open(name)
			if oerr != nil {
				slog.Error(oerr.Error())
				return 1
			}
			files[i] = f
			srcs[i] = f
		}
		defer closeFiles(files)

		slog.Info(fmt.Sprintf("Playing %s, %s", strings.Join(names, ", "), format.Describe()))
		written, err = engine.PlaybackN(srcs, limit)
	} else {
		name := "-"
		if len(fileNames) > 0 {
			name = fileNames[0]
		}

		src := io.Reader(os.Stdin)
		if name != "-" {
			f, oerr := os.Open(name)
			if oerr != nil {
				slog.Error(oerr.Error())
				return 1
			}
			defer f.Close()
			src = f
		}

		slog.Info(fmt.Sprintf("Playing '%s', %s", name, format.Describe()))
		written, err = engine.Playback(src, limit)
	}

	if err != nil {
		if ui != nil {
			ui.SetTransportStatus(display.StatusFailed)
		}
		slog.Error(err.Error())
		return 1
	}

	logTotal(written, format)

	return 0
}

func runCapture(engine *Engine, ui display.UI, args *model.CommandLineArgs, format model.StreamFormat, flags *shared.Flags, fileNames []string, limit int64) int {
	if ui != nil {
		ui.SetTransportStatus(display.StatusRecording)
	}

	policy := model.RotationPolicy{
		MaxFileSeconds: args.MaxFileSeconds,
		UseStrftime:    args.UseStrftime,
	}

	var written int64
	var err error
	var names []string

	if args.SeparateChannels {
		expanded := expandChannelNames(fileNames, format.Channels)

		sets := make([]*audio.CaptureFileSet, len(expanded))
		for i, name := range expanded {
			sets[i] = audio.NewCaptureFileSet(name, model.RotationPolicy{}, format.BytesPerSecond(), flags)
		}

		slog.Info(fmt.Sprintf("Recording %s, %s", strings.Join(expanded, ", "), format.Describe()))
		written, err = engine.CaptureN(sets, limit)

		for _, set := range sets {
			names = append(names, set.Names()...)
		}
	} else {
		name := "-"
		if len(fileNames) > 0 {
			name = fileNames[0]
		}

		files := audio.NewCaptureFileSet(name, policy, format.BytesPerSecond(), flags)

		if ui != nil {
			ui.SetFileName(name)
		}

		slog.Info(fmt.Sprintf("Recording '%s', %s", name, format.Describe()))
		written, err = engine.Capture(files, limit)
		names = files.Names()
	}

	if err != nil {
		if ui != nil {
			ui.SetTransportStatus(display.StatusFailed)
		}
		slog.Error(err.Error())
		return 1
	}

	logTotal(written, format)

	if len(names) > 0 {
		slog.Info("Capture files: " + strings.Join(names, ", "))
	}

	// An interrupted capture leaves the requested amount unmet, which
	// callers scripting around the binary need to see.
	if flags.Aborting() {
		return 1
	}

	return 0
}

func setupDisplay(config *model.Config, args *model.CommandLineArgs, meterMode model.MeterMode, format model.StreamFormat) display.UI {
	level := slog.Level(config.LogLevel)

	if model.OutputTypeMap[config.OutputType] == model.OutputTUI && meterMode != model.MeterNone {
		channels := 1
		if meterMode == model.MeterPerChannel {
			channels = format.Channels
		}

		tui := display.NewTui(config.Device, channels)
		shared.ConfigureSinkLogger(tui, level)

		return tui
	}

	shared.ConfigureConsoleLogger(level)

	if meterMode == model.MeterNone || args.Quiet {
		return nil
	}

	return display.NewConsole()
}

// startProgressUpdates refreshes the position and size fields a few
// times a second until the reaper fires.
func startProgressUpdates(ui display.UI, engine *Engine, format model.StreamFormat) {
	go func() {
		reaper.Register("progress")

		t := time.NewTicker(250 * time.Millisecond)
		defer t.Stop()

		for range t.C {
			if reaper.Reaped() {
				break
			}

			frames := engine.Frames()
			ui.SetDuration(float64(frames) / float64(format.Rate))
			ui.SetTransferredSize(uint64(frames) * uint64(format.FrameBytes()))
		}

		reaper.Done("progress")
	}()
}

// resolveSizes converts the requested period/buffer times or frame
// counts into the sizes handed to the device. Explicit frame counts
// win over times.
func resolveSizes(args *model.CommandLineArgs, rate int) (chunkFrames, bufferFrames int) {
	bufferTime := defaultBufferTime
	if args.BufferTimeUs > 0 {
		bufferTime = time.Duration(args.BufferTimeUs) * time.Microsecond
	}

	bufferFrames = int(int64(rate) * bufferTime.Microseconds() / 1e6)
	if args.BufferFrames > 0 {
		bufferFrames = args.BufferFrames
	}

	chunkFrames = bufferFrames / 4
	if args.PeriodTimeUs > 0 {
		chunkFrames = int(int64(rate) * int64(args.PeriodTimeUs) / 1e6)
	}
	if args.ChunkFrames > 0 {
		chunkFrames = args.ChunkFrames
	}

	if chunkFrames < 1 {
		chunkFrames = 1
	}
	if bufferFrames < chunkFrames {
		bufferFrames = chunkFrames * 4
	}

	return chunkFrames, bufferFrames
}

// limitBytes computes the transfer bound from the duration and sample
// limits. The duration limit wins when both are given; zero means
// unbounded.
func limitBytes(args *model.CommandLineArgs, format model.StreamFormat) int64 {
	if args.DurationSeconds > 0 {
		return int64(args.DurationSeconds) * int64(format.BytesPerSecond())
	}

	if args.SampleLimit > 0 {
		return int64(args.SampleLimit) * int64(format.FrameBytes())
	}

	return math.MaxInt64
}

// expandChannelNames turns a single base name into one name per
// channel by appending the channel index.
func expandChannelNames(names []string, channels int) []string {
	if len(names) == channels {
		return names
	}

	base := "audio"
	if len(names) > 0 {
		base = names[0]
	}

	expanded := make([]string, channels)
	for i := range expanded {
		expanded[i] = fmt.Sprintf("%s.%d", base, i)
	}

	return expanded
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

func logTotal(written int64, format model.StreamFormat) {
	frames := written / int64(format.FrameBytes())
	slog.Info(fmt.Sprintf("Transferred %d frames (%s)", frames, util.FormatDuration(float64(frames)/float64(format.Rate))))
}
