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
	"context"
	"log/slog"
	"os"
)

// ConfigureConsoleLogger installs a plain text slog handler writing
// to stderr, leaving stdout free for captured audio data.
func ConfigureConsoleLogger(level slog.Level) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// LevelLogSink receives log lines for display, typically the TUI log
// view.
type LevelLogSink interface {
	WriteLevelLog(level slog.Level, message string)
}

// ConfigureSinkLogger routes slog records into a display sink instead
// of stderr, for use while a full-screen UI owns the terminal.
func ConfigureSinkLogger(sink LevelLogSink, level slog.Level) {
	slog.SetDefault(slog.New(&sinkLogHandler{level: level, sink: sink}))
}

type sinkLogHandler struct {
	level slog.Level
	sink  LevelLogSink
}

func (h *sinkLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.sink.WriteLevelLog(r.Level, r.Message)
	return nil
}

func (h *sinkLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *sinkLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *sinkLogHandler) WithGroup(name string) slog.Handler {
	return h
}
