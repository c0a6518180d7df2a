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
	"goarrg.com/debug"

	"goarrg.com/rhi/vxp/internal/container"
	"goarrg.com/rhi/vxp/internal/util"
)

type commandSlot struct {
	commandBuffer CommandBuffer
	destroyers    container.Stack[Destroyer]
}

// runDestroyers must only be called once the slot's last submission is known to be complete.
func (s *commandSlot) runDestroyers() {
	if s.destroyers.Empty() {
		return
	}
	n := s.destroyers.Len()
	s.destroyers.Drain(func(d Destroyer) {
		d.Destroy()
	})
	instance.logger.VPrintf("Ran %d deferred destroyers", n)
}

// commandPool is the fixed ring of recording slots, one per frame in flight.
type commandPool struct {
	noCopy util.NoCopy
	device Device
	slots  []commandSlot
	index  int
}

func newCommandPool(device Device, n int) (*commandPool, error) {
	if n <= 0 {
		abort("Cannot create command pool with %d slots", n)
	}
	cbs, ret := device.AllocateCommandBuffers(n)
	if ret != ResultSuccess {
		return nil, debug.ErrorWrapf(resultError("AllocateCommandBuffers", ret), "Failed to allocate %d command buffers", n)
	}
	if len(cbs) != n {
		device.FreeCommandBuffers(cbs)
		return nil, debug.Errorf("Device allocated %d command buffers, wanted %d", len(cbs), n)
	}

	p := &commandPool{device: device, slots: make([]commandSlot, n)}
	p.noCopy.Init()
	for i, cb := range cbs {
		p.slots[i].commandBuffer = cb
	}
	return p, nil
}

func (p *commandPool) current() *commandSlot {
	p.noCopy.Check()
	return &p.slots[p.index]
}

func (p *commandPool) slot(i int) *commandSlot {
	p.noCopy.Check()
	return &p.slots[i]
}

func (p *commandPool) advance() {
	p.noCopy.Check()
	p.index = util.Next(p.index, len(p.slots))
}

// destroy runs every slot's destroyers and frees the command buffers, the device must be idle.
func (p *commandPool) destroy() {
	p.noCopy.Check()
	cbs := make([]CommandBuffer, 0, len(p.slots))
	for i := range p.slots {
		p.slots[i].runDestroyers()
		cbs = append(cbs, p.slots[i].commandBuffer)
	}
	p.device.FreeCommandBuffers(cbs)
	p.slots = nil
	p.noCopy.Close()
}
