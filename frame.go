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

package vxp

import (
	"time"

	"goarrg.com/rhi/vxp/internal/util"
)

/*
Frame is a recording session, it is only valid between a successful BeginFrame and the matching
EndFrame. Any use after EndFrame aborts.
*/
type Frame struct {
	noCopy        util.NoCopy
	renderer      *Renderer
	index         int
	imageIndex    int
	commandBuffer CommandBuffer
	deltaTime     time.Duration
}

// Index returns the recording slot the frame is using, in range [0, Config.MaxFramesInFlight).
func (f *Frame) Index() int {
	f.noCopy.Check()
	return f.index
}

// ImageIndex returns the swapchain image the frame renders to, it does not follow Index.
func (f *Frame) ImageIndex() int {
	f.noCopy.Check()
	return f.imageIndex
}

func (f *Frame) CommandBuffer() CommandBuffer {
	f.noCopy.Check()
	return f.commandBuffer
}

// DeltaTime returns the time since the previous frame began, 0 for the first frame.
func (f *Frame) DeltaTime() time.Duration {
	f.noCopy.Check()
	return f.deltaTime
}

/*
QueueDestroy defers destroyers until this frame's slot comes around again and its submission is
known to be complete. Destroyers run most recently queued first.
*/
func (f *Frame) QueueDestroy(destroyers ...Destroyer) {
	f.noCopy.Check()
	f.renderer.commands.slot(f.index).destroyers.Push(destroyers...)
}
