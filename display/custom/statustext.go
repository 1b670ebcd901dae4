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

package custom

import (
	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

// StatusText is a single-line status field: a fixed-width right
// aligned label next to a value that can be updated and recolored at
// runtime.
type StatusText struct {
	grid  *cview.Grid
	value *cview.TextView
}

func NewStatusTextField(labelWidth int, label string, initialValue string) *StatusText {
	st := &StatusText{
		grid:  cview.NewGrid(),
		value: cview.NewTextView(),
	}

	st.grid.SetPadding(0, 0, 0, 0)
	st.grid.SetColumns(labelWidth, -1)
	st.grid.SetRows(1)

	header := cview.NewTextView()
	header.SetTextAlign(cview.AlignRight)
	header.Write([]byte(label + ": "))
	st.grid.AddItem(header, 0, 0, 1, 1, 0, 0, false)

	st.grid.AddItem(st.value, 0, 1, 1, 1, 0, 0, false)
	st.SetCurrentValue(initialValue)

	return st
}

func (st *StatusText) SetCurrentValue(value string) {
	st.value.Clear()
	st.value.Write([]byte(value))
}

func (st *StatusText) SetColor(color tcell.Color) {
	st.value.SetTextColor(color)
}

func (st *StatusText) GetGrid() *cview.Grid {
	return st.grid
}
