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

package cmd

import (
	"os"

	"pcmtap/app"
	"pcmtap/audio"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [file ...]",
	Short: "Play raw PCM from files or stdin",
	Long: `Plays raw PCM data to the audio device. With no file argument, or
with "-", data is read from stdin. With --separate-channels, either
one file per channel is given, or a single name is expanded to
name.0 .. name.N-1.`,

	Run: func(cmd *cobra.Command, fileNames []string) {
		os.Exit(app.Run(audio.Playback, &args, fileNames))
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
