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

package vkdevice

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp"
)

type semaphore struct {
	device vk.Device
	handle vk.Semaphore
}

func (s *semaphore) Destroy() {
	vk.DestroySemaphore(s.device, s.handle, nil)
}

type fence struct {
	device vk.Device
	handle vk.Fence
}

func (f *fence) Wait(timeout time.Duration) vxp.Result {
	return vxp.Result(vk.WaitForFences(f.device, 1, []vk.Fence{f.handle}, vk.True, uint64(timeout)))
}

func (f *fence) Reset() vxp.Result {
	return vxp.Result(vk.ResetFences(f.device, 1, []vk.Fence{f.handle}))
}

func (f *fence) Destroy() {
	vk.DestroyFence(f.device, f.handle, nil)
}

func semaphoreHandle(s vxp.Semaphore) vk.Semaphore {
	return s.(*semaphore).handle
}

func fenceHandle(f vxp.Fence) vk.Fence {
	return f.(*fence).handle
}

// CommandBuffer is a primary command buffer, draw code records into Handle directly.
type CommandBuffer struct {
	handle vk.CommandBuffer
}

var _ vxp.CommandBuffer = (*CommandBuffer)(nil)

func (cb *CommandBuffer) Handle() vk.CommandBuffer {
	return cb.handle
}

func (cb *CommandBuffer) Begin() vxp.Result {
	if ret := vk.ResetCommandBuffer(cb.handle, 0); ret != vk.Success {
		return vxp.Result(ret)
	}
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	return vxp.Result(vk.BeginCommandBuffer(cb.handle, &beginInfo))
}

func (cb *CommandBuffer) End() vxp.Result {
	return vxp.Result(vk.EndCommandBuffer(cb.handle))
}

func (cb *CommandBuffer) SetViewport(viewport vxp.Viewport) {
	vk.CmdSetViewport(cb.handle, 0, 1, []vk.Viewport{{
		X: viewport.X, Y: viewport.Y,
		Width: viewport.W, Height: viewport.H,
		MinDepth: viewport.MinDepth, MaxDepth: viewport.MaxDepth,
	}})
}

func (cb *CommandBuffer) SetScissor(rect gmath.Recti32) {
	vk.CmdSetScissor(cb.handle, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: rect.X, Y: rect.Y},
		Extent: vk.Extent2D{Width: uint32(rect.W), Height: uint32(rect.H)},
	}})
}

func (cb *CommandBuffer) EndRenderPass() {
	vk.CmdEndRenderPass(cb.handle)
}
