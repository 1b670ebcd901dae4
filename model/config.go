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

package model

// MeterMode selects how the peak meter groups samples.
type MeterMode int

const (
	MeterNone MeterMode = iota
	MeterMono
	MeterPerChannel
)

var MeterModeMap = map[string]MeterMode{
	"none":     MeterNone,
	"mono":     MeterMono,
	"stereo":   MeterPerChannel,
	"channels": MeterPerChannel,
}

// OutputType selects where status output is rendered.
type OutputType int

const (
	OutputConsole OutputType = iota
	OutputTUI
)

var OutputTypeMap = map[string]OutputType{
	"console": OutputConsole,
	"tui":     OutputTUI,
}

// CommandLineArgs carries everything parsed off the command line,
// before merging with the defaults file.
type CommandLineArgs struct {
	Device   string
	Format   string
	Rate     int
	Channels int

	DurationSeconds int
	SampleLimit     int

	ChunkFrames  int
	BufferFrames int
	PeriodTimeUs int
	BufferTimeUs int

	Nonblock         bool
	NoWait           bool
	FatalErrors      bool
	TestPosition     bool
	TestCoef         int
	SeparateChannels bool

	MaxFileSeconds int
	UseStrftime    bool

	ChannelMap string
	VuMeter    string
	OutputType string

	Quiet   bool
	Verbose bool

	PidFile    string
	ConfigFile string
}

// Config holds defaults loadable from a yaml file, overridden by
// command line arguments.
type Config struct {
	Device     string `yaml:"device,omitempty"`
	Format     string `yaml:"format,omitempty"`
	Rate       int    `yaml:"rate,omitempty"`
	Channels   int    `yaml:"channels,omitempty"`
	LogLevel   int    `yaml:"log_level,omitempty"`
	OutputType string `yaml:"output_type,omitempty"`
}

// TransferOptions are the configuration scalars the transfer engine
// needs beyond the stream format itself.
type TransferOptions struct {
	ChunkFrames  int
	BufferFrames int

	// NoWait busy-polls the device instead of waiting for readiness.
	NoWait bool

	// FatalErrors escalates recoverable buffer glitches.
	FatalErrors bool

	Quiet        bool
	TestPosition bool
	TestCoef     int
}

// RotationPolicy controls capture file rotation. MaxFileSeconds of
// zero means size-based rotation never triggers.
type RotationPolicy struct {
	MaxFileSeconds int
	UseStrftime    bool
}

// SignalLevel is one channel's meter reading, in percent of full
// scale. Values above 100 indicate clipping.
type SignalLevel struct {
	Instant int
	Max     int
	Clip    bool
}
