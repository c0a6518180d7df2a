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
	"time"

	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp"
)

type Submission struct {
	CommandBuffer *CommandBuffer
	Fence         *Fence
}

type Swapchain struct {
	device     *Device
	name       string
	extent     gmath.Extent2i32
	imageCount int
	formats    vxp.FormatPair
	destroyed  bool

	Predecessor *Swapchain
	Acquires    []int
	Submissions []Submission
	Presents    []int
	Clears      []vxp.ClearValues

	next     int
	acquired map[int]bool
}

func (s *Swapchain) Name() string {
	return s.name
}

func (s *Swapchain) Destroyed() bool {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	return s.destroyed
}

func (s *Swapchain) Extent() gmath.Extent2i32 {
	return s.extent
}

func (s *Swapchain) ImageCount() int {
	return s.imageCount
}

func (s *Swapchain) Formats() vxp.FormatPair {
	return s.formats
}

func (s *Swapchain) checkAlive(op string) {
	if s.destroyed {
		s.device.misuse("%s on destroyed %s", op, s.name)
	}
}

func (s *Swapchain) AcquireNextImage(timeout time.Duration, signal vxp.Semaphore) (int, vxp.Result) {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.checkAlive("AcquireNextImage")
	if timeout <= 0 {
		s.device.misuse("AcquireNextImage with timeout %v", timeout)
	}
	if signal == nil {
		s.device.misuse("AcquireNextImage without a semaphore")
	}

	ret := pop(&s.device.AcquireResults, vxp.ResultSuccess)
	s.device.event("Acquire %s", ret)
	if ret != vxp.ResultSuccess && ret != vxp.ResultSuboptimal {
		return -1, ret
	}

	i := pop(&s.device.AcquireImages, s.next)
	s.next = (i + 1) % s.imageCount
	if s.acquired[i] {
		s.device.misuse("image %d of %s acquired twice without present", i, s.name)
	}
	s.acquired[i] = true
	s.Acquires = append(s.Acquires, i)
	return i, ret
}

func (s *Swapchain) BeginRenderPass(c vxp.CommandBuffer, imageIndex int, clear vxp.ClearValues) {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.checkAlive("BeginRenderPass")
	cb := c.(*CommandBuffer)
	if !cb.Recording {
		s.device.misuse("BeginRenderPass on %s which is not recording", cb.name)
	}
	if cb.InRenderPass {
		s.device.misuse("BeginRenderPass nested on %s", cb.name)
	}
	if !s.acquired[imageIndex] {
		s.device.misuse("BeginRenderPass on image %d which is not acquired", imageIndex)
	}
	cb.InRenderPass = true
	cb.RenderPasses++
	s.Clears = append(s.Clears, clear)
}

func (s *Swapchain) Submit(c vxp.CommandBuffer, wait vxp.Semaphore, signal vxp.Semaphore, fence vxp.Fence) vxp.Result {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.checkAlive("Submit")
	cb := c.(*CommandBuffer)
	f := fence.(*Fence)
	if cb.Recording {
		s.device.misuse("Submit of %s which is still recording", cb.name)
	}
	if f.Signaled {
		s.device.misuse("Submit with signaled %s", f.name)
	}
	if wait == nil || signal == nil {
		s.device.misuse("Submit without semaphores")
	}

	ret := pop(&s.device.SubmitResults, vxp.ResultSuccess)
	s.device.event("Submit %s", ret)
	if ret != vxp.ResultSuccess {
		return ret
	}
	f.Signaled = true
	s.Submissions = append(s.Submissions, Submission{CommandBuffer: cb, Fence: f})
	return ret
}

func (s *Swapchain) Present(imageIndex int, wait vxp.Semaphore) vxp.Result {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.checkAlive("Present")
	if !s.acquired[imageIndex] {
		s.device.misuse("Present of image %d which is not acquired", imageIndex)
	}
	delete(s.acquired, imageIndex)
	s.Presents = append(s.Presents, imageIndex)

	ret := pop(&s.device.PresentResults, vxp.ResultSuccess)
	s.device.event("Present %d %s", imageIndex, ret)
	return ret
}

func (s *Swapchain) Destroy() {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.checkAlive("Destroy")
	s.destroyed = true
	s.device.event("DestroySwapchain %s", s.name)
	s.device.release(s.name)
}

type CommandBuffer struct {
	device *Device
	name   string

	Recording    bool
	InRenderPass bool
	Begins       int
	Ends         int
	RenderPasses int
	Viewports    []vxp.Viewport
	Scissors     []gmath.Recti32
}

func (cb *CommandBuffer) Name() string {
	return cb.name
}

func (cb *CommandBuffer) Begin() vxp.Result {
	cb.device.mtx.Lock()
	defer cb.device.mtx.Unlock()
	if cb.Recording {
		cb.device.misuse("Begin on %s which is already recording", cb.name)
	}
	cb.Recording = true
	cb.Begins++
	return vxp.ResultSuccess
}

func (cb *CommandBuffer) End() vxp.Result {
	cb.device.mtx.Lock()
	defer cb.device.mtx.Unlock()
	if !cb.Recording {
		cb.device.misuse("End on %s which is not recording", cb.name)
	}
	if cb.InRenderPass {
		cb.device.misuse("End on %s inside a render pass", cb.name)
	}
	cb.Recording = false
	cb.Ends++
	return vxp.ResultSuccess
}

func (cb *CommandBuffer) SetViewport(viewport vxp.Viewport) {
	cb.device.mtx.Lock()
	defer cb.device.mtx.Unlock()
	cb.Viewports = append(cb.Viewports, viewport)
}

func (cb *CommandBuffer) SetScissor(rect gmath.Recti32) {
	cb.device.mtx.Lock()
	defer cb.device.mtx.Unlock()
	cb.Scissors = append(cb.Scissors, rect)
}

func (cb *CommandBuffer) EndRenderPass() {
	cb.device.mtx.Lock()
	defer cb.device.mtx.Unlock()
	if !cb.InRenderPass {
		cb.device.misuse("EndRenderPass on %s outside a render pass", cb.name)
	}
	cb.InRenderPass = false
}
