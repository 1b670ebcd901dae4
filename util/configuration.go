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

package util

import (
	"log/slog"
	"os"
	"slices"
	"strings"

	"pcmtap/model"
)

// ReadConfig resolves the effective configuration: built-in defaults,
// overridden by the optional yaml defaults file, overridden by
// whatever was given on the command line.
func ReadConfig(args *model.CommandLineArgs) *model.Config {
	outputTypes := make([]string, len(model.OutputTypeMap))

	i := 0
	for key := range model.OutputTypeMap {
		outputTypes[i] = strings.ToLower(key)
		i++
	}

	if args.OutputType != "" && !slices.Contains(outputTypes, strings.ToLower(args.OutputType)) {
		slog.Error("Invalid output type specified: " + args.OutputType + ". Valid options: " + strings.Join(outputTypes, ", "))
		os.Exit(1)
	}

	config := &model.Config{
		Device:     "default",
		Format:     "U8",
		Rate:       8000,
		Channels:   1,
		LogLevel:   int(slog.LevelInfo),
		OutputType: "console",
	}

	if args.ConfigFile != "" {
		if err := ReadYamlFile(config, args.ConfigFile); err != nil {
			slog.Error("Failed to read config file: " + err.Error())
			os.Exit(1)
		}
	}

	if args.Device != "" {
		config.Device = args.Device
	}

	if args.Format != "" {
		config.Format = args.Format
	}

	if args.Rate > 0 {
		config.Rate = args.Rate
	}

	if args.Channels > 0 {
		config.Channels = args.Channels
	}

	if args.OutputType != "" {
		config.OutputType = strings.ToLower(args.OutputType)
	}

	if args.Verbose {
		config.LogLevel = int(slog.LevelDebug)
	}

	return config
}
