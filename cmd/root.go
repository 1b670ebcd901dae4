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

// Package cmd defines the command line surface: a play and a record
// subcommand sharing one set of stream and transfer flags.
package cmd

import (
	"os"

	"pcmtap/model"

	"github.com/spf13/cobra"
)

var (
	// arguments shared by both subcommands
	args model.CommandLineArgs

	rootCmd = &cobra.Command{
		Use:   "pcmtap",
		Short: "Play and record raw PCM audio",
		Long: `pcmtap moves raw PCM audio between files and an audio device in
fixed-size chunks, with glitch recovery, live peak metering, channel
remapping and automatic capture file rotation.`,
		SilenceUsage: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVarP(&args.Device, "device", "D", "", "Device name to open (e.g. hw:0,0)")
	pf.StringVarP(&args.Format, "format", "f", "", "Sample format (e.g. S16_LE, S24_3LE, S32_BE)")
	pf.IntVarP(&args.Rate, "rate", "r", 0, "Sample rate in Hz")
	pf.IntVarP(&args.Channels, "channels", "c", 0, "Channel count")

	pf.IntVarP(&args.DurationSeconds, "duration", "d", 0, "Stop after this many seconds")
	pf.IntVarP(&args.SampleLimit, "samples", "s", 0, "Stop after this many samples per channel")

	pf.IntVar(&args.ChunkFrames, "period-size", 0, "Period size in frames")
	pf.IntVar(&args.BufferFrames, "buffer-size", 0, "Ring buffer size in frames")
	pf.IntVar(&args.PeriodTimeUs, "period-time", 0, "Period time in microseconds")
	pf.IntVar(&args.BufferTimeUs, "buffer-time", 0, "Ring buffer time in microseconds")

	pf.BoolVarP(&args.Nonblock, "nonblock", "N", false, "Open the device in nonblocking mode")
	pf.BoolVar(&args.NoWait, "test-nowait", false, "Busy poll instead of waiting for device readiness")
	pf.BoolVar(&args.FatalErrors, "fatal-errors", false, "Treat buffer overruns/underruns as fatal")
	pf.BoolVar(&args.TestPosition, "test-position", false, "Check the device buffer position for plausibility")
	pf.IntVar(&args.TestCoef, "test-coef", 8, "Plausibility window coefficient for --test-position")
	pf.BoolVarP(&args.SeparateChannels, "separate-channels", "I", false, "Use one file per channel")

	pf.StringVarP(&args.ChannelMap, "chmap", "m", "", "Channel map to override the device order (e.g. FR,FL)")
	pf.StringVarP(&args.VuMeter, "vumeter", "V", "", "Level meter mode: none, mono, stereo, channels")
	pf.StringVar(&args.OutputType, "output", "", "Status output: console or tui")

	pf.BoolVarP(&args.Quiet, "quiet", "q", false, "Suppress messages")
	pf.BoolVarP(&args.Verbose, "verbose", "v", false, "Enable debug logging")

	pf.StringVar(&args.PidFile, "process-id-file", "", "Write the process ID to this file")
	pf.StringVar(&args.ConfigFile, "config", "", "Yaml file with default settings")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
