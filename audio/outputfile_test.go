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

package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcmtap/model"
	"pcmtap/shared"
)

// one second of 8 kHz mono S16_LE
const testByteRate = 16000

func newTestSet(t *testing.T, name string, policy model.RotationPolicy) (*CaptureFileSet, *shared.Flags) {
	t.Helper()

	flags := shared.NewFlags()
	set := NewCaptureFileSet(name, policy, testByteRate, flags)

	return set, flags
}

func TestCaptureFileSetThresholdRotation(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "take.raw")

	set, _ := newTestSet(t, name, model.RotationPolicy{MaxFileSeconds: 1})

	require.NoError(t, set.Open())
	assert.Equal(t, name, set.FileName())

	chunk := make([]byte, 4000)
	for i := 0; i < 4; i++ {
		assert.False(t, set.ShouldRotate())
		require.NoError(t, set.Write(chunk))
	}

	// one second of data written, next chunk boundary rotates
	require.True(t, set.ShouldRotate())
	require.NoError(t, set.Rotate())

	first := filepath.Join(dir, "take-01.raw")
	second := filepath.Join(dir, "take-02.raw")

	assert.NoFileExists(t, name, "original renamed on first rotation")
	assert.FileExists(t, first)
	assert.Equal(t, second, set.FileName())

	// counter reset with the new file
	assert.False(t, set.ShouldRotate())

	for i := 0; i < 4; i++ {
		require.NoError(t, set.Write(chunk))
	}
	require.True(t, set.ShouldRotate())
	require.NoError(t, set.Rotate())

	assert.Equal(t, filepath.Join(dir, "take-03.raw"), set.FileName())
	require.NoError(t, set.Close())

	assert.Equal(t, []string{first, second, filepath.Join(dir, "take-03.raw")}, set.Names())
}

func TestCaptureFileSetRemainingBytes(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "take.raw")

	set, _ := newTestSet(t, name, model.RotationPolicy{MaxFileSeconds: 1})

	require.NoError(t, set.Open())
	defer set.Close()

	assert.Equal(t, int64(testByteRate), set.RemainingBytes())

	require.NoError(t, set.Write(make([]byte, 6000)))
	assert.Equal(t, int64(testByteRate-6000), set.RemainingBytes())

	// the budget resets with each new file
	require.NoError(t, set.Write(make([]byte, 10000)))
	require.True(t, set.ShouldRotate())
	require.NoError(t, set.Rotate())
	assert.Equal(t, int64(testByteRate), set.RemainingBytes())
}

func TestCaptureFileSetUnboundedHasNoBudget(t *testing.T) {
	set, _ := newTestSet(t, filepath.Join(t.TempDir(), "take.raw"), model.RotationPolicy{})

	require.NoError(t, set.Open())
	defer set.Close()

	require.NoError(t, set.Write(make([]byte, 4000)))
	assert.Zero(t, set.RemainingBytes())
}

func TestCaptureFileSetNoExtension(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "take")

	set, _ := newTestSet(t, name, model.RotationPolicy{MaxFileSeconds: 1})

	require.NoError(t, set.Open())
	require.NoError(t, set.Rotate())
	defer set.Close()

	assert.FileExists(t, filepath.Join(dir, "take-01"))
	assert.Equal(t, filepath.Join(dir, "take-02"), set.FileName())
}

func TestCaptureFileSetExternalRotation(t *testing.T) {
	dir := t.TempDir()

	set, flags := newTestSet(t, filepath.Join(dir, "take.raw"), model.RotationPolicy{})

	require.NoError(t, set.Open())
	defer set.Close()

	assert.False(t, set.ShouldRotate(), "no threshold, no request")

	flags.RequestRotate()
	assert.True(t, set.ShouldRotate())
	assert.False(t, set.ShouldRotate(), "request consumed and re-armed")
}

func TestCaptureFileSetStdoutNeverRotates(t *testing.T) {
	set, flags := newTestSet(t, "-", model.RotationPolicy{MaxFileSeconds: 1})

	require.NoError(t, set.Open())
	assert.Equal(t, "stdout", set.FileName())

	flags.RequestRotate()
	assert.False(t, set.ShouldRotate())
}

func TestCaptureFileSetTimeTemplate(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "%Y%m%d-%v.raw")

	set, _ := newTestSet(t, name, model.RotationPolicy{UseStrftime: true})
	set.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	}

	require.NoError(t, set.Open())
	assert.Equal(t, filepath.Join(dir, "20260828-01.raw"), set.FileName())

	require.NoError(t, set.Rotate())
	defer set.Close()
	assert.Equal(t, filepath.Join(dir, "20260828-02.raw"), set.FileName())

	assert.FileExists(t, filepath.Join(dir, "20260828-01.raw"))
}

func TestCaptureFileSetTemplateCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "%v", "take.raw")

	set, _ := newTestSet(t, name, model.RotationPolicy{UseStrftime: true})

	require.NoError(t, set.Open())
	defer set.Close()

	assert.FileExists(t, filepath.Join(dir, "01", "take.raw"))
}

func TestCaptureFileSetReplacesStaleFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "take.raw")

	require.NoError(t, os.WriteFile(name, []byte("stale data"), 0644))

	set, _ := newTestSet(t, name, model.RotationPolicy{})
	require.NoError(t, set.Open())
	require.NoError(t, set.Close())

	st, err := os.Stat(name)
	require.NoError(t, err)
	assert.Zero(t, st.Size())
}

func TestExpandTimeTemplate(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		template string
		want     string
	}{
		{"plain.raw", "plain.raw"},
		{"%Y-%m-%d.raw", "2026-01-02.raw"},
		{"%H%M%S", "030405"},
		{"take-%v.raw", "take-07.raw"},
		{"100%%.raw", "100%.raw"},
		{"%j", "002"},
		{"%q", "%q"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, expandTimeTemplate(tt.template, now, 7))
		})
	}
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name string
		base string
		ext  string
	}{
		{"take.raw", "take", "raw"},
		{"take", "take", ""},
		{"a/b.c/take", "a/b.c/take", ""},
		{"a/b.c/take.raw", "a/b.c/take", "raw"},
		{".hidden", "", "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, ext := splitExtension(tt.name)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.ext, ext)
		})
	}
}
