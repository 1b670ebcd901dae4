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

package shared

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// CatchSignals routes SIGINT/SIGTERM to the abort flag and SIGUSR1 to
// the capture-file rotation flag. The onAbort callback runs once, on
// the first termination signal.
func CatchSignals(flags *Flags, onAbort func()) {
	term := make(chan os.Signal, 1)
	signal.Notify(term, os.Interrupt, syscall.SIGTERM)

	rotate := make(chan os.Signal, 1)
	signal.Notify(rotate, syscall.SIGUSR1)

	go func() {
		sig := <-term
		slog.Info(fmt.Sprintf("Aborted by signal %s...", sig))
		flags.RequestAbort()

		if onAbort != nil {
			onAbort()
		}
	}()

	go func() {
		for range rotate {
			flags.RequestRotate()
		}
	}()
}

// WritePidFile writes the current process id to path. Returns a
// cleanup func that removes the file again.
func WritePidFile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return nil, fmt.Errorf("cannot create process ID file %s: %w", path, err)
	}

	return func() { os.Remove(path) }, nil
}
