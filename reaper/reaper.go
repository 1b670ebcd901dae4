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

// Package reaper coordinates shutdown. Long-lived components register
// themselves by name and report done when they stop; one-shot teardown
// callbacks run in reverse order of installation once a reap has been
// requested. Wait blocks until every registered component is done.
package reaper

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

type teardown struct {
	name string
	fn   func()
}

var (
	mu        sync.Mutex
	reaped    atomic.Bool
	teardowns []teardown
	active    = map[string]struct{}{}
	wg        sync.WaitGroup
)

// Reaped reports whether shutdown has been requested.
func Reaped() bool {
	return reaped.Load()
}

// Reap requests shutdown and runs the teardown callbacks, newest
// first. Only the first call does anything.
func Reap() {
	if !reaped.CompareAndSwap(false, true) {
		return
	}

	mu.Lock()
	pending := make([]teardown, len(teardowns))
	copy(pending, teardowns)
	mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		slog.Info("reaper: tearing down '" + pending[i].name + "'")
		pending[i].fn()
	}
}

// Callback installs a named teardown to run during Reap.
func Callback(name string, fn func()) {
	mu.Lock()
	defer mu.Unlock()

	teardowns = append(teardowns, teardown{name: name, fn: fn})
}

// Register marks a component as running; Wait will not return until
// it calls Done.
func Register(name string) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := active[name]; ok {
		slog.Warn("reaper: '" + name + "' is already registered")
		return
	}

	active[name] = struct{}{}
	wg.Add(1)
	slog.Debug("reaper: registered '" + name + "'")
}

// Done marks a registered component as stopped.
func Done(name string) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := active[name]; !ok {
		slog.Warn("reaper: '" + name + "' is not registered")
		return
	}

	delete(active, name)
	wg.Done()
	slog.Debug("reaper: done '" + name + "'")
}

// Wait blocks until every registered component has reported done.
func Wait() {
	wg.Wait()
}
