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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsAbort(t *testing.T) {
	f := NewFlags()

	assert.False(t, f.Aborting())

	f.RequestAbort()
	assert.True(t, f.Aborting())
	assert.True(t, f.Aborting(), "abort is sticky")
}

func TestFlagsRotateConsumedOnce(t *testing.T) {
	f := NewFlags()

	assert.False(t, f.TakeRotate())

	f.RequestRotate()
	f.RequestRotate()

	assert.True(t, f.TakeRotate(), "coalesced requests observed once")
	assert.False(t, f.TakeRotate(), "re-armed after observation")
}
