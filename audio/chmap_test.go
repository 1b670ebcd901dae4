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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMap(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		device    []string
		want      ChannelMap
		wantErr   bool
	}{
		{
			name:      "identity returns nil",
			requested: []string{"FL", "FR"},
			device:    []string{"FL", "FR"},
			want:      nil,
		},
		{
			name:      "swap",
			requested: []string{"FR", "FL"},
			device:    []string{"FL", "FR"},
			want:      ChannelMap{1, 0},
		},
		{
			name:      "quad rotate",
			requested: []string{"RL", "RR", "FL", "FR"},
			device:    []string{"FL", "FR", "RL", "RR"},
			want:      ChannelMap{2, 3, 0, 1},
		},
		{
			name:      "count mismatch",
			requested: []string{"FL"},
			device:    []string{"FL", "FR"},
			wantErr:   true,
		},
		{
			name:      "unknown position",
			requested: []string{"FL", "FC"},
			device:    []string{"FL", "FR"},
			wantErr:   true,
		},
		{
			name:      "no channel reuse",
			requested: []string{"FL", "FL"},
			device:    []string{"FL", "FR"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildMap(tt.requested, tt.device)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrChannelMismatch)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLayout(t *testing.T) {
	assert.Equal(t, []string{"MONO"}, DefaultLayout(1))
	assert.Equal(t, []string{"FL", "FR"}, DefaultLayout(2))
	assert.Equal(t, []string{"CH0", "CH1", "CH2"}, DefaultLayout(3))
}

func TestRemapperInterleaved(t *testing.T) {
	m, err := BuildMap([]string{"FR", "FL"}, []string{"FL", "FR"})
	require.NoError(t, err)

	r := NewRemapper(m, 2)

	// two frames of 16 bit stereo: L0 R0 L1 R1
	data := []byte{
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
	}

	got := r.Interleaved(data, 2)

	assert.Equal(t, []byte{
		0x03, 0x04, 0x01, 0x02,
		0x07, 0x08, 0x05, 0x06,
	}, got)

	// input untouched
	assert.Equal(t, byte(0x01), data[0])
}

func TestRemapperInterleavedIdentity(t *testing.T) {
	r := NewRemapper(nil, 2)
	data := []byte{1, 2, 3, 4}

	got := r.Interleaved(data, 1)
	assert.Equal(t, &data[0], &got[0], "identity map must not copy")
}

func TestRemapperNonInterleaved(t *testing.T) {
	m, err := BuildMap([]string{"FR", "FL"}, []string{"FL", "FR"})
	require.NoError(t, err)

	r := NewRemapper(m, 2)

	left := []byte{1, 1}
	right := []byte{2, 2}

	got := r.NonInterleaved([][]byte{left, right})

	require.Len(t, got, 2)
	assert.Equal(t, &right[0], &got[0][0], "reorder is pointer-only")
	assert.Equal(t, &left[0], &got[1][0])
}
