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

var recordCmd = &cobra.Command{
	Use:   "record [file]",
	Short: "Record raw PCM to a file or stdout",
	Long: `Records raw PCM data from the audio device. With no file argument,
or with "-", data is written to stdout. SIGUSR1 rotates to a new
output file; --max-file-time rotates automatically.`,

	Run: func(cmd *cobra.Command, fileNames []string) {
		os.Exit(app.Run(audio.Capture, &args, fileNames))
	},
}

func init() {
	recordCmd.Flags().IntVar(&args.MaxFileSeconds, "max-file-time", 0, "Start a new output file after this many seconds")
	recordCmd.Flags().BoolVar(&args.UseStrftime, "use-strftime", false, "Expand time escapes in the output file name (%v is the file number)")

	rootCmd.AddCommand(recordCmd)
}
