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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pcmtap/model"
	"pcmtap/shared"
)

// CaptureFileSet manages the ordered sequence of output files a long
// recording is rotated across. The engine writes through it one
// descriptor at a time; rotation closes the current file and opens
// the next without dropping frames.
type CaptureFileSet struct {
	originalName string
	policy       model.RotationPolicy
	flags        *shared.Flags

	// thresholdBytes is the per-file size limit derived from the
	// rotation time and the stream byte rate; zero disables
	// size-based rotation.
	thresholdBytes int64

	file         *os.File
	fileName     string
	fileIndex    int
	bytesWritten int64
	written      []string
	toStdout     bool

	now func() time.Time
}

// NewCaptureFileSet prepares rotation for the given output name. A
// name of "" or "-" targets stdout, which never rotates.
func NewCaptureFileSet(name string, policy model.RotationPolicy, bytesPerSecond int, flags *shared.Flags) *CaptureFileSet {
	s := &CaptureFileSet{
		originalName:   name,
		policy:         policy,
		flags:          flags,
		thresholdBytes: int64(policy.MaxFileSeconds) * int64(bytesPerSecond),
		toStdout:       name == "" || name == "-",
		now:            time.Now,
	}

	return s
}

// FileName returns the name of the currently open file.
func (s *CaptureFileSet) FileName() string {
	if s.toStdout {
		return "stdout"
	}

	return s.fileName
}

// Names returns the sequence of file names written so far, with the
// first entry reflecting its post-rotation name once renamed.
func (s *CaptureFileSet) Names() []string {
	return s.written
}

// Open opens the next file in the sequence. On the transition from
// the first to the second file, the already-written first file is
// renamed to carry the -01 suffix before the new file is created.
func (s *CaptureFileSet) Open() error {
	if s.toStdout {
		s.file = os.Stdout
		s.fileIndex++
		s.bytesWritten = 0
		return nil
	}

	name := s.originalName
	if s.fileIndex > 0 || s.policy.UseStrftime {
		name = s.nextFileName()
	}

	// A stale regular file from a previous run is replaced, anything
	// else (fifo, device node) is written into as-is.
	if st, err := os.Lstat(name); err == nil && st.Mode().IsRegular() {
		os.Remove(name)
	}

	f, err := s.safeOpen(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s.file = f
	s.fileName = name
	s.fileIndex++
	s.bytesWritten = 0
	s.written = append(s.written, name)

	return nil
}

// Write appends one captured region to the current file.
func (s *CaptureFileSet) Write(data []byte) error {
	if _, err := s.file.Write(data); err != nil {
		return fmt.Errorf("%s: %w", s.FileName(), err)
	}

	s.bytesWritten += int64(len(data))

	return nil
}

// ShouldRotate reports whether the capture loop must start a new
// file: either an externally requested rotation (consumed and
// re-armed here) or the per-file byte threshold has been reached.
// Checked once per chunk.
func (s *CaptureFileSet) ShouldRotate() bool {
	if s.toStdout {
		return false
	}

	if s.flags != nil && s.flags.TakeRotate() {
		return true
	}

	return s.thresholdBytes > 0 && s.bytesWritten >= s.thresholdBytes
}

// RemainingBytes returns how many bytes still fit into the current
// file before the size threshold triggers rotation. Zero means the
// file is unbounded. The capture loop trims its pre-rotation read to
// this budget so every rotated file holds exactly the threshold.
func (s *CaptureFileSet) RemainingBytes() int64 {
	if s.toStdout || s.thresholdBytes <= 0 {
		return 0
	}

	remain := s.thresholdBytes - s.bytesWritten
	if remain < 0 {
		return 0
	}

	return remain
}

// Rotate closes the current file and opens the next one.
func (s *CaptureFileSet) Rotate() error {
	if err := s.Close(); err != nil {
		return err
	}

	return s.Open()
}

func (s *CaptureFileSet) Close() error {
	if s.file == nil || s.toStdout {
		return nil
	}

	err := s.file.Close()
	s.file = nil

	return err
}

// nextFileName computes the name for the file about to be opened
// (number fileIndex+1). Without a time template, the second open
// first renames the original file on disk to the -01 name.
func (s *CaptureFileSet) nextFileName() string {
	number := s.fileIndex + 1

	if s.policy.UseStrftime {
		return expandTimeTemplate(s.originalName, s.now(), number)
	}

	base, ext := splitExtension(s.originalName)

	if s.fileIndex == 1 {
		first := numberedName(base, ext, 1)
		os.Remove(first)
		os.Rename(s.originalName, first)

		if len(s.written) > 0 {
			s.written[0] = first
		}
	}

	return numberedName(base, ext, number)
}

func numberedName(base, ext string, number int) string {
	if ext != "" {
		return fmt.Sprintf("%s-%02d.%s", base, number, ext)
	}

	return fmt.Sprintf("%s-%02d", base, number)
}

// splitExtension separates the name at the last '.' that follows the
// last '/'; a dot inside a directory component is not an extension.
func splitExtension(name string) (base, ext string) {
	i := len(name) - 1
	for i >= 0 && name[i] != '.' && name[i] != '/' {
		i--
	}

	if i < 0 || name[i] == '/' {
		return name, ""
	}

	return name[:i], name[i+1:]
}

// safeOpen opens the file for writing, creating missing parent
// directories on demand when a time template produced a fresh path.
func (s *CaptureFileSet) safeOpen(name string) (*os.File, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE, 0644)
	if err == nil {
		return f, nil
	}

	if !os.IsNotExist(err) || !s.policy.UseStrftime {
		return nil, err
	}

	if mkErr := os.MkdirAll(filepath.Dir(name), 0755); mkErr != nil {
		return nil, mkErr
	}

	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE, 0644)
}

// expandTimeTemplate formats a strftime-style template. %v expands to
// the 1-based file number, zero-padded to two digits; the common
// date/time specifiers are translated; unknown specifiers pass
// through unchanged.
func expandTimeTemplate(template string, now time.Time, fileNumber int) string {
	var b strings.Builder

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}

		i++
		switch template[i] {
		case 'v':
			fmt.Fprintf(&b, "%02d", fileNumber)
		case 'Y':
			b.WriteString(now.Format("2006"))
		case 'y':
			b.WriteString(now.Format("06"))
		case 'm':
			b.WriteString(now.Format("01"))
		case 'd':
			b.WriteString(now.Format("02"))
		case 'H':
			b.WriteString(now.Format("15"))
		case 'M':
			b.WriteString(now.Format("04"))
		case 'S':
			b.WriteString(now.Format("05"))
		case 'j':
			fmt.Fprintf(&b, "%03d", now.YearDay())
		case 's':
			fmt.Fprintf(&b, "%d", now.Unix())
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}

	return b.String()
}
