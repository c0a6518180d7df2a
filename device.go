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

	"goarrg.com/gmath"
)

type Destroyer interface {
	Destroy()
}

type destroyFunc struct {
	f func()
}

func (d destroyFunc) Destroy() {
	d.f()
}

// Semaphore is a device side signal, it is never waited on by the host.
type Semaphore interface {
	Destroy()
}

// Fence is a device to host signal.
type Fence interface {
	Wait(timeout time.Duration) Result
	Reset() Result
	Destroy()
}

type Viewport struct {
	X, Y, W, H         float32
	MinDepth, MaxDepth float32
}

type ClearValues struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

/*
CommandBuffer is the opaque recording handle given to draw code. The renderer opens and closes it,
draw code only records into it between BeginRenderPass and EndRenderPass.
*/
type CommandBuffer interface {
	Begin() Result
	End() Result
	SetViewport(viewport Viewport)
	SetScissor(rect gmath.Recti32)
	EndRenderPass()
}

/*
Swapchain is the device side of a Surface: the presentable images plus the render targets and
render pass that go with them.
*/
type Swapchain interface {
	Extent() gmath.Extent2i32
	ImageCount() int
	Formats() FormatPair

	// AcquireNextImage must not block longer than timeout.
	AcquireNextImage(timeout time.Duration, signal Semaphore) (int, Result)
	BeginRenderPass(cb CommandBuffer, imageIndex int, clear ClearValues)
	Submit(cb CommandBuffer, wait Semaphore, signal Semaphore, fence Fence) Result
	Present(imageIndex int, wait Semaphore) Result

	Destroy()
}

type Device interface {
	// CreateSwapchain creates a swapchain for extent, old may be nil and is not destroyed by the call.
	CreateSwapchain(extent gmath.Extent2i32, old Swapchain) (Swapchain, Result)
	CreateSemaphore() (Semaphore, Result)
	CreateFence(signaled bool) (Fence, Result)
	AllocateCommandBuffers(n int) ([]CommandBuffer, Result)
	FreeCommandBuffers(cbs []CommandBuffer)
	WaitIdle() Result
}

type Window interface {
	// Extent returns the current framebuffer size, either dimension may be 0 while minimized.
	Extent() gmath.Extent2i32
	// ConsumeResized returns whether the window was resized since the last call and clears the flag.
	ConsumeResized() bool
	// WaitEvents blocks until the window receives an event.
	WaitEvents()
}
