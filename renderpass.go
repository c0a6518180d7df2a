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

import "goarrg.com/gmath"

/*
BeginRenderPass begins the surface's render pass on f's command buffer, clearing to the configured
values, and sets the viewport and scissor to cover the whole surface.
*/
func (r *Renderer) BeginRenderPass(f *Frame) {
	r.noCopy.Check()
	r.checkFrame(f, "BeginRenderPass")
	if r.renderPass {
		abort("BeginRenderPass called when there's an active render pass")
	}

	extent := r.surface.Extent()
	r.surface.swapchain.BeginRenderPass(f.commandBuffer, f.imageIndex, r.config.clearValues())
	f.commandBuffer.SetViewport(Viewport{
		X: 0, Y: 0,
		W: float32(extent.X), H: float32(extent.Y),
		MinDepth: 0, MaxDepth: 1,
	})
	f.commandBuffer.SetScissor(gmath.Recti32{X: 0, Y: 0, W: extent.X, H: extent.Y})
	r.renderPass = true
}

func (r *Renderer) EndRenderPass(f *Frame) {
	r.noCopy.Check()
	r.checkFrame(f, "EndRenderPass")
	if !r.renderPass {
		abort("EndRenderPass called when there's no active render pass")
	}
	f.commandBuffer.EndRenderPass()
	r.renderPass = false
}
