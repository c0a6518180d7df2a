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

/*
Package mock provides a scripted, in-memory implementation of the vxp device and window
interfaces. Every object it creates is tracked so tests can check for leaks and misuse.
*/
package mock

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"goarrg.com/gmath"
	"golang.org/x/exp/maps"

	"goarrg.com/rhi/vxp"
)

type Device struct {
	mtx sync.Mutex

	// ImageCount is the number of images every new swapchain gets.
	ImageCount int
	// Formats lists the format pair of each swapchain in creation order, the last entry repeats.
	Formats []vxp.FormatPair

	// Scripted results, consumed front to back, ResultSuccess once exhausted.
	AcquireResults         []vxp.Result
	SubmitResults          []vxp.Result
	PresentResults         []vxp.Result
	WaitIdleResults        []vxp.Result
	CreateSwapchainResults []vxp.Result
	FenceWaitResults       []vxp.Result

	// AcquireImages overrides the image index returned by successful acquires, consumed front to back.
	AcquireImages []int

	Swapchains     []*Swapchain
	CommandBuffers []*CommandBuffer
	Events         []string
	Misuse         []string

	nextID int
	live   map[string]struct{}
}

func NewDevice() *Device {
	return &Device{
		ImageCount: 3,
		Formats: []vxp.FormatPair{
			{Color: vxp.FORMAT_B8G8R8A8_SRGB, Depth: vxp.DEPTH_STENCIL_FORMAT_D32_SFLOAT},
		},
		live: map[string]struct{}{},
	}
}

func pop[T any](s *[]T, fallback T) T {
	if len(*s) == 0 {
		return fallback
	}
	v := (*s)[0]
	*s = (*s)[1:]
	return v
}

func (d *Device) event(format string, args ...any) {
	d.Events = append(d.Events, fmt.Sprintf(format, args...))
}

func (d *Device) misuse(format string, args ...any) {
	d.Misuse = append(d.Misuse, fmt.Sprintf(format, args...))
}

func (d *Device) track(kind string) string {
	if d.live == nil {
		d.live = map[string]struct{}{}
	}
	d.nextID++
	name := fmt.Sprintf("%s#%d", kind, d.nextID)
	d.live[name] = struct{}{}
	return name
}

func (d *Device) release(name string) {
	if _, ok := d.live[name]; !ok {
		d.misuse("double destroy of %s", name)
		return
	}
	delete(d.live, name)
}

// Live returns the names of every object that has been created and not yet destroyed, sorted.
func (d *Device) Live() []string {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	names := maps.Keys(d.live)
	slices.Sort(names)
	return names
}

// Count returns how many events start with prefix.
func (d *Device) Count(prefix string) int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	n := 0
	for _, e := range d.Events {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (d *Device) CreateSwapchain(extent gmath.Extent2i32, old vxp.Swapchain) (vxp.Swapchain, vxp.Result) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.event("CreateSwapchain %dx%d", extent.X, extent.Y)
	if ret := pop(&d.CreateSwapchainResults, vxp.ResultSuccess); ret != vxp.ResultSuccess {
		return nil, ret
	}
	if extent.X <= 0 || extent.Y <= 0 {
		d.misuse("CreateSwapchain with extent %dx%d", extent.X, extent.Y)
	}

	var predecessor *Swapchain
	if old != nil {
		predecessor = old.(*Swapchain)
		if predecessor.destroyed {
			d.misuse("CreateSwapchain with destroyed predecessor %s", predecessor.name)
		}
	}

	formats := d.Formats[min(len(d.Swapchains), len(d.Formats)-1)]
	s := &Swapchain{
		device:      d,
		name:        d.track("swapchain"),
		extent:      extent,
		imageCount:  d.ImageCount,
		formats:     formats,
		Predecessor: predecessor,
		acquired:    map[int]bool{},
	}
	d.Swapchains = append(d.Swapchains, s)
	return s, vxp.ResultSuccess
}

func (d *Device) CreateSemaphore() (vxp.Semaphore, vxp.Result) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return &Semaphore{device: d, name: d.track("semaphore")}, vxp.ResultSuccess
}

func (d *Device) CreateFence(signaled bool) (vxp.Fence, vxp.Result) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return &Fence{device: d, name: d.track("fence"), Signaled: signaled}, vxp.ResultSuccess
}

func (d *Device) AllocateCommandBuffers(n int) ([]vxp.CommandBuffer, vxp.Result) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	ret := make([]vxp.CommandBuffer, n)
	for i := range ret {
		cb := &CommandBuffer{device: d, name: d.track("commandbuffer")}
		d.CommandBuffers = append(d.CommandBuffers, cb)
		ret[i] = cb
	}
	return ret, vxp.ResultSuccess
}

func (d *Device) FreeCommandBuffers(cbs []vxp.CommandBuffer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	for _, c := range cbs {
		cb := c.(*CommandBuffer)
		if cb.Recording {
			d.misuse("FreeCommandBuffers while %s is recording", cb.name)
		}
		d.release(cb.name)
	}
}

func (d *Device) WaitIdle() vxp.Result {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.event("WaitIdle")
	return pop(&d.WaitIdleResults, vxp.ResultSuccess)
}

type Semaphore struct {
	device *Device
	name   string
}

func (s *Semaphore) Destroy() {
	s.device.mtx.Lock()
	defer s.device.mtx.Unlock()
	s.device.release(s.name)
}

/*
Fence signals as soon as the submission it was handed to is made, so waiting on an unsignaled
fence can never succeed and reports ResultTimeout.
*/
type Fence struct {
	device   *Device
	name     string
	Signaled bool
	Waits    int
}

func (f *Fence) Wait(timeout time.Duration) vxp.Result {
	f.device.mtx.Lock()
	defer f.device.mtx.Unlock()
	f.Waits++
	if ret := pop(&f.device.FenceWaitResults, vxp.ResultSuccess); ret != vxp.ResultSuccess {
		return ret
	}
	if !f.Signaled {
		f.device.misuse("wait on unsignaled %s", f.name)
		return vxp.ResultTimeout
	}
	return vxp.ResultSuccess
}

func (f *Fence) Reset() vxp.Result {
	f.device.mtx.Lock()
	defer f.device.mtx.Unlock()
	f.Signaled = false
	return vxp.ResultSuccess
}

func (f *Fence) Destroy() {
	f.device.mtx.Lock()
	defer f.device.mtx.Unlock()
	f.device.release(f.name)
}
