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

	"goarrg.com/debug"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp/internal/util"
)

type frameSync struct {
	imageAvailable Semaphore
	renderFinished Semaphore
	inFlight       Fence
}

/*
Surface owns a swapchain and everything needed to hand its images out frame after frame.
Sync objects are keyed by frame slot since the acquire signal has to be picked before the image
is known, every image also remembers the fence of the last frame that rendered to it.
*/
type Surface struct {
	noCopy    util.NoCopy
	swapchain Swapchain
	formats   FormatPair
	extent    gmath.Extent2i32

	acquireTimeout time.Duration
	fenceTimeout   time.Duration

	frames         []frameSync
	imagesInFlight []Fence
}

func newSurface(device Device, extent gmath.Extent2i32, predecessor *Surface, config *Config) (*Surface, error) {
	if extent.X <= 0 || extent.Y <= 0 {
		abort("Cannot create surface with extent: %dx%d", extent.X, extent.Y)
	}

	var old Swapchain
	if predecessor != nil {
		predecessor.noCopy.Check()
		old = predecessor.swapchain
	}

	swapchain, ret := device.CreateSwapchain(extent, old)
	if ret != ResultSuccess {
		return nil, debug.ErrorWrapf(resultError("CreateSwapchain", ret), "Failed to create swapchain with extent: %dx%d", extent.X, extent.Y)
	}

	s := &Surface{
		swapchain:      swapchain,
		formats:        swapchain.Formats(),
		extent:         swapchain.Extent(),
		acquireTimeout: timeoutOrInfinite(config.AcquireTimeout),
		fenceTimeout:   timeoutOrInfinite(config.FenceTimeout),
	}
	s.noCopy.Init()

	if swapchain.ImageCount() <= 0 {
		s.destroy()
		return nil, debug.Errorf("Swapchain created with no images")
	}
	if predecessor != nil && !predecessor.CompareFormats(s) {
		s.destroy()
		return nil, ErrorFormatMismatch{Old: predecessor.formats, New: swapchain.Formats()}
	}
	s.imagesInFlight = make([]Fence, swapchain.ImageCount())

	for i := 0; i < int(config.MaxFramesInFlight); i++ {
		var f frameSync
		if f.imageAvailable, ret = device.CreateSemaphore(); ret != ResultSuccess {
			s.destroy()
			return nil, debug.ErrorWrapf(resultError("CreateSemaphore", ret), "Failed to create sync objects for frame %d", i)
		}
		if f.renderFinished, ret = device.CreateSemaphore(); ret != ResultSuccess {
			f.imageAvailable.Destroy()
			s.destroy()
			return nil, debug.ErrorWrapf(resultError("CreateSemaphore", ret), "Failed to create sync objects for frame %d", i)
		}
		if f.inFlight, ret = device.CreateFence(true); ret != ResultSuccess {
			f.imageAvailable.Destroy()
			f.renderFinished.Destroy()
			s.destroy()
			return nil, debug.ErrorWrapf(resultError("CreateFence", ret), "Failed to create sync objects for frame %d", i)
		}
		s.frames = append(s.frames, f)
	}

	return s, nil
}

func (s *Surface) Extent() gmath.Extent2i32 {
	s.noCopy.Check()
	return s.extent
}

func (s *Surface) ImageCount() int {
	s.noCopy.Check()
	return len(s.imagesInFlight)
}

func (s *Surface) Formats() FormatPair {
	s.noCopy.Check()
	return s.formats
}

// CompareFormats reports whether both surfaces render to the same color and depth formats.
func (s *Surface) CompareFormats(other *Surface) bool {
	s.noCopy.Check()
	other.noCopy.Check()
	return s.formats == other.formats
}

func (s *Surface) frame(slot int) *frameSync {
	if !gmath.InRange(slot, 0, len(s.frames)-1) {
		abort("Frame slot %d out of range [0, %d)", slot, len(s.frames))
	}
	return &s.frames[slot]
}

// wait blocks until the last submission made from slot has completed.
func (s *Surface) wait(slot int) error {
	s.noCopy.Check()
	if ret := s.frame(slot).inFlight.Wait(s.fenceTimeout); ret != ResultSuccess {
		return debug.ErrorWrapf(resultError("Fence.Wait", ret), "Failed to wait on frame %d", slot)
	}
	return nil
}

/*
AcquireNextImage asks the swapchain for the next image to render to using slot's sync objects.
StatusOutOfDate returns no error, the surface must be recreated before anything else is submitted.
*/
func (s *Surface) AcquireNextImage(slot int) (int, Status, error) {
	s.noCopy.Check()
	f := s.frame(slot)

	imageIndex, ret := s.swapchain.AcquireNextImage(s.acquireTimeout, f.imageAvailable)
	status := presentStatus(ret)
	switch status {
	case StatusOutOfDate:
		return -1, status, nil
	case StatusFatal:
		return -1, status, debug.ErrorWrapf(resultError("AcquireNextImage", ret), "Failed to acquire surface")
	}

	if !gmath.InRange(imageIndex, 0, len(s.imagesInFlight)-1) {
		abort("Swapchain returned image index %d out of range [0, %d)", imageIndex, len(s.imagesInFlight))
	}
	return imageIndex, status, nil
}

/*
Submit submits cb from slot and presents imageIndex once it finishes. If another slot is still
rendering to imageIndex it is waited on first.
*/
func (s *Surface) Submit(cb CommandBuffer, slot int, imageIndex int) (Status, error) {
	s.noCopy.Check()
	f := s.frame(slot)
	if !gmath.InRange(imageIndex, 0, len(s.imagesInFlight)-1) {
		abort("Image index %d out of range [0, %d)", imageIndex, len(s.imagesInFlight))
	}

	if prev := s.imagesInFlight[imageIndex]; prev != nil && prev != f.inFlight {
		if ret := prev.Wait(s.fenceTimeout); ret != ResultSuccess {
			return StatusFatal, debug.ErrorWrapf(resultError("Fence.Wait", ret), "Failed to wait on image %d", imageIndex)
		}
	}
	s.imagesInFlight[imageIndex] = f.inFlight

	if ret := f.inFlight.Reset(); ret != ResultSuccess {
		return StatusFatal, debug.ErrorWrapf(resultError("Fence.Reset", ret), "Failed to reset frame %d", slot)
	}
	if ret := s.swapchain.Submit(cb, f.imageAvailable, f.renderFinished, f.inFlight); ret != ResultSuccess {
		return StatusFatal, debug.ErrorWrapf(resultError("QueueSubmit", ret), "Failed to submit draw command buffer")
	}

	ret := s.swapchain.Present(imageIndex, f.renderFinished)
	status := presentStatus(ret)
	if status == StatusFatal {
		return status, debug.ErrorWrapf(resultError("QueuePresent", ret), "Failed to present swapchain image")
	}
	return status, nil
}

func (s *Surface) destroy() {
	s.noCopy.Check()
	for _, f := range s.frames {
		f.imageAvailable.Destroy()
		f.renderFinished.Destroy()
		f.inFlight.Destroy()
	}
	s.frames = nil
	s.imagesInFlight = nil
	s.swapchain.Destroy()
	s.swapchain = nil
	s.noCopy.Close()
}
