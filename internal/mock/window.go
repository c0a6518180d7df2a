/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mock

import (
	"sync"

	"goarrg.com/gmath"
)

/*
Window reports a scripted sequence of extents. Extent returns the head of the sequence and
every WaitEvents call moves to the next entry, the last entry repeats forever.
*/
type Window struct {
	mtx     sync.Mutex
	extents []gmath.Extent2i32
	resized bool

	WaitEventsCalls int
	ExtentCalls     int
}

func NewWindow(extents ...gmath.Extent2i32) *Window {
	if len(extents) == 0 {
		extents = []gmath.Extent2i32{{X: 800, Y: 600}}
	}
	return &Window{extents: extents}
}

func (w *Window) Extent() gmath.Extent2i32 {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.ExtentCalls++
	return w.extents[0]
}

func (w *Window) WaitEvents() {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.WaitEventsCalls++
	if len(w.extents) > 1 {
		w.extents = w.extents[1:]
	}
}

// Resize replaces the extent sequence and raises the resized flag.
func (w *Window) Resize(extents ...gmath.Extent2i32) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.extents = extents
	w.resized = true
}

func (w *Window) ConsumeResized() bool {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	r := w.resized
	w.resized = false
	return r
}
