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
	"bytes"
	"fmt"
	"sync"
	"time"

	"goarrg.com/debug"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp/internal/util"
)

type rendererState uint32

const (
	stateIdle rendererState = iota
	stateRecording
	stateRecreating
)

func (s rendererState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateRecording:
		return "Recording"
	case stateRecreating:
		return "Recreating"
	}
	return fmt.Sprintf("rendererState(%d)", uint32(s))
}

type Stats struct {
	FramesBegun     uint64
	FramesSubmitted uint64
	FramesSkipped   uint64
	Recreations     uint64
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"FramesBegun\": %d,", s.FramesBegun))
	buff.WriteString(fmt.Sprintf("\"FramesSubmitted\": %d,", s.FramesSubmitted))
	buff.WriteString(fmt.Sprintf("\"FramesSkipped\": %d,", s.FramesSkipped))
	buff.WriteString(fmt.Sprintf("\"Recreations\": %d", s.Recreations))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

/*
Renderer drives a Surface frame after frame: BeginFrame, draw, EndFrame. Whenever the surface
goes stale it is recreated in place, callers only ever see a skipped frame.

Renderer is not safe for concurrent use with the exception of DestroyLater.
*/
type Renderer struct {
	noCopy util.NoCopy
	device Device
	window Window
	config Config

	surface  *Surface
	commands *commandPool

	state      rendererState
	renderPass bool
	frame      *Frame
	lastBegin  time.Time
	now        func() time.Time

	pendingMtx sync.Mutex
	pending    []Destroyer

	stats Stats
}

func NewRenderer(device Device, window Window, config Config) (*Renderer, error) {
	config.validate()
	instance.logger.IPrintf("User requested config: %s", prettyString(&config))

	r := &Renderer{
		device: device,
		window: window,
		config: config,
		now:    time.Now,
	}
	r.noCopy.Init()

	commands, err := newCommandPool(device, int(config.MaxFramesInFlight))
	if err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to create renderer")
	}
	r.commands = commands

	if err := r.recreateSurface(nil); err != nil {
		r.commands.destroy()
		return nil, debug.ErrorWrapf(err, "Failed to create renderer")
	}

	instance.logger.IPrintf("Initialization Completed")
	return r, nil
}

/*
BeginFrame waits for the next recording slot, acquires a surface image and opens the slot's
command buffer. A nil Frame with a nil error means the surface was out of date and has been
recreated, the caller should simply try again next iteration.
*/
func (r *Renderer) BeginFrame() (*Frame, error) {
	r.noCopy.Check()
	if r.state != stateIdle {
		abort("BeginFrame called when renderer is: %s", r.state)
	}

	slot := r.commands.index
	if err := r.surface.wait(slot); err != nil {
		return nil, err
	}
	r.commands.current().runDestroyers()

	imageIndex, status, err := r.surface.AcquireNextImage(slot)
	switch status {
	case StatusFatal:
		return nil, err

	case StatusOutOfDate:
		instance.logger.VPrintf("Surface out of date on acquire, skipping frame")
		r.stats.FramesSkipped++
		if err := r.recreateSurface(r.commands.current()); err != nil {
			return nil, err
		}
		return nil, nil

	case StatusSuboptimal:
		instance.logger.VPrintf("Surface suboptimal on acquire")
	}

	cb := r.commands.current().commandBuffer
	if ret := cb.Begin(); ret != ResultSuccess {
		return nil, debug.ErrorWrapf(resultError("CommandBuffer.Begin", ret), "Failed to begin recording frame %d", slot)
	}

	now := r.now()
	var dt time.Duration
	if !r.lastBegin.IsZero() {
		dt = now.Sub(r.lastBegin)
	}
	r.lastBegin = now

	f := &Frame{
		renderer:      r,
		index:         slot,
		imageIndex:    imageIndex,
		commandBuffer: cb,
		deltaTime:     dt,
	}
	f.noCopy.Init()

	r.frame = f
	r.state = stateRecording
	r.stats.FramesBegun++
	return f, nil
}

/*
EndFrame closes the active frame's command buffer, submits it and presents the image. The ring
always advances, even on error. A stale surface or a resized window causes the surface to be
recreated before returning.
*/
func (r *Renderer) EndFrame() error {
	r.noCopy.Check()
	if r.state != stateRecording {
		abort("EndFrame called when renderer is: %s", r.state)
	}
	if r.renderPass {
		abort("EndFrame called when there's an active render pass")
	}

	f := r.frame
	submitted := r.commands.current()
	r.drainPending(submitted)

	defer func() {
		r.commands.advance()
		r.frame = nil
		r.state = stateIdle
		f.noCopy.Close()
	}()

	if ret := f.commandBuffer.End(); ret != ResultSuccess {
		return debug.ErrorWrapf(resultError("CommandBuffer.End", ret), "Failed to end recording frame %d", f.index)
	}

	status, err := r.surface.Submit(f.commandBuffer, f.index, f.imageIndex)
	if status == StatusFatal {
		return err
	}
	r.stats.FramesSubmitted++

	resized := r.window.ConsumeResized()
	if !status.Stale() && !resized {
		return nil
	}
	if status == StatusSuboptimal {
		instance.logger.WPrintf("Surface suboptimal on present")
	}
	instance.logger.VPrintf("Recreating surface after present, status: %s resized: %t", status, resized)

	r.state = stateRecreating
	return r.recreateSurface(submitted)
}

/*
recreateSurface blocks while the window has no area, waits for the device to go idle and replaces
the surface with one sized to the window. The old surface is retired onto retireTo and destroyed
the next time that slot is reused.
*/
func (r *Renderer) recreateSurface(retireTo *commandSlot) error {
	if r.state == stateRecording {
		abort("Cannot recreate surface while recording")
	}
	r.state = stateRecreating
	defer func() {
		r.state = stateIdle
	}()

	start := time.Now()
	extent := r.window.Extent()
	for extent.X <= 0 || extent.Y <= 0 {
		instance.logger.VPrintf("Window extent is %dx%d, waiting for events", extent.X, extent.Y)
		r.window.WaitEvents()
		extent = r.window.Extent()
	}

	if ret := r.device.WaitIdle(); ret != ResultSuccess {
		return debug.ErrorWrapf(resultError("DeviceWaitIdle", ret), "Failed to recreate surface")
	}

	old := r.surface
	surface, err := newSurface(r.device, extent, old, &r.config)
	if err != nil {
		return debug.ErrorWrapf(err, "Failed to recreate surface")
	}
	r.surface = surface

	if old != nil {
		retireTo.destroyers.Push(destroyFunc{old.destroy})
		r.stats.Recreations++
	}

	instance.logger.IPrintf("Surface created: %dx%d with %d images, formats: %s, took: %v",
		surface.extent.X, surface.extent.Y, surface.ImageCount(), surface.formats, time.Since(start))
	return nil
}

func (r *Renderer) checkFrame(f *Frame, op string) {
	if r.state != stateRecording {
		abort("%s called when renderer is: %s", op, r.state)
	}
	if f == nil || f != r.frame {
		abort("%s called with a frame that is not the active frame", op)
	}
	f.noCopy.Check()
}

// FrameIndex returns the recording slot of the active frame, it aborts if no frame is active.
func (r *Renderer) FrameIndex() int {
	r.noCopy.Check()
	if r.state != stateRecording {
		abort("Cannot get frame index when frame not in progress")
	}
	return r.frame.index
}

func (r *Renderer) AspectRatio() float32 {
	r.noCopy.Check()
	extent := r.surface.Extent()
	return float32(extent.X) / float32(extent.Y)
}

func (r *Renderer) Extent() gmath.Extent2i32 {
	r.noCopy.Check()
	return r.surface.Extent()
}

func (r *Renderer) ImageCount() int {
	r.noCopy.Check()
	return r.surface.ImageCount()
}

func (r *Renderer) Formats() FormatPair {
	r.noCopy.Check()
	return r.surface.Formats()
}

// Stats stays readable after Destroy so the totals can be reported at shutdown.
func (r *Renderer) Stats() Stats {
	return r.stats
}

/*
DestroyLater queues d to be destroyed once every frame that may be using it has completed.
It is safe to call from any goroutine.
*/
func (r *Renderer) DestroyLater(d Destroyer) {
	r.pendingMtx.Lock()
	defer r.pendingMtx.Unlock()
	r.pending = append(r.pending, d)
}

func (r *Renderer) drainPending(slot *commandSlot) {
	r.pendingMtx.Lock()
	defer r.pendingMtx.Unlock()
	slot.destroyers.Push(r.pending...)
	clear(r.pending)
	r.pending = r.pending[:0]
}

/*
Destroy waits for the device to go idle and releases everything the renderer owns, including any
destroyers that are still queued. The device error, if any, is returned after releasing.
*/
func (r *Renderer) Destroy() error {
	r.noCopy.Check()
	if r.state != stateIdle {
		abort("Destroy called when renderer is: %s", r.state)
	}

	ret := r.device.WaitIdle()

	r.drainPending(r.commands.current())
	r.commands.destroy()
	r.surface.destroy()
	r.surface = nil
	r.noCopy.Close()

	instance.logger.IPrintf("Renderer destroyed: %s", prettyString(&r.stats))

	if ret != ResultSuccess {
		return debug.ErrorWrapf(resultError("DeviceWaitIdle", ret), "Failed to wait for device before destroying renderer")
	}
	return nil
}
