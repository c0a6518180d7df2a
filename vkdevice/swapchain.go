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
	"math"
	"time"

	vk "github.com/vulkan-go/vulkan"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp"
	"goarrg.com/rhi/vxp/internal/util"
)

type swapchainSupport struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func (d *Device) querySwapchainSupport(physicalDevice vk.PhysicalDevice) swapchainSupport {
	var support swapchainSupport

	vk.GetPhysicalDeviceSurfaceCapabilities(physicalDevice, d.surface, &support.capabilities)
	support.capabilities.Deref()
	support.capabilities.CurrentExtent.Deref()
	support.capabilities.MinImageExtent.Deref()
	support.capabilities.MaxImageExtent.Deref()

	var count uint32
	vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, d.surface, &count, nil)
	if count > 0 {
		formats := make([]vk.SurfaceFormat, count)
		vk.GetPhysicalDeviceSurfaceFormats(physicalDevice, d.surface, &count, formats)
		for _, f := range formats {
			f.Deref()
			support.formats = append(support.formats, f)
		}
	}

	count = 0
	vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, d.surface, &count, nil)
	if count > 0 {
		support.presentModes = make([]vk.PresentMode, count)
		vk.GetPhysicalDeviceSurfacePresentModes(physicalDevice, d.surface, &count, support.presentModes)
	}
	return support
}

func (d *Device) chooseSurfaceFormat(available []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, want := range d.config.ColorFormats {
		for _, f := range available {
			if f.Format == vk.Format(want) && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
				return f
			}
		}
	}
	return available[0]
}

func (d *Device) choosePresentMode(available []vk.PresentMode) vk.PresentMode {
	if !d.config.VSync {
		for _, m := range available {
			if m == vk.PresentModeMailbox {
				return m
			}
		}
	}
	return vk.PresentModeFifo
}

func chooseExtent(capabilities vk.SurfaceCapabilities, requested gmath.Extent2i32) vk.Extent2D {
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		return capabilities.CurrentExtent
	}
	return vk.Extent2D{
		Width:  max(capabilities.MinImageExtent.Width, min(capabilities.MaxImageExtent.Width, uint32(requested.X))),
		Height: max(capabilities.MinImageExtent.Height, min(capabilities.MaxImageExtent.Height, uint32(requested.Y))),
	}
}

type depthTarget struct {
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
}

/*
Swapchain is a VkSwapchainKHR plus everything that has to be rebuilt with it: the image views,
the depth target, the render pass and one framebuffer per image.
*/
type Swapchain struct {
	noCopy  util.NoCopy
	device  *Device
	handle  vk.Swapchain
	extent  vk.Extent2D
	formats vxp.FormatPair

	views        []vk.ImageView
	depth        depthTarget
	renderPass   vk.RenderPass
	framebuffers []vk.Framebuffer
}

var _ vxp.Swapchain = (*Swapchain)(nil)

/*
CreateSwapchain creates a swapchain sized to extent unless the surface dictates its own size.
old is handed to the driver so it can recycle resources, it stays valid and is destroyed by the caller.
*/
func (d *Device) CreateSwapchain(extent gmath.Extent2i32, old vxp.Swapchain) (vxp.Swapchain, vxp.Result) {
	d.noCopy.Check()
	start := time.Now()

	support := d.querySwapchainSupport(d.physicalDevice)
	if len(support.formats) == 0 {
		return nil, vxp.ResultErrorSurfaceLost
	}
	surfaceFormat := d.chooseSurfaceFormat(support.formats)
	presentMode := d.choosePresentMode(support.presentModes)

	imageCount := support.capabilities.MinImageCount + 1
	if support.capabilities.MaxImageCount > 0 && imageCount > support.capabilities.MaxImageCount {
		imageCount = support.capabilities.MaxImageCount
	}

	s := &Swapchain{
		device: d,
		extent: chooseExtent(support.capabilities, extent),
		formats: vxp.FormatPair{
			Color: vxp.Format(surfaceFormat.Format),
			Depth: vxp.DepthStencilFormat(d.depthFormat),
		},
	}
	s.noCopy.Init()

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surface,
		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      s.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     support.capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if old != nil {
		createInfo.OldSwapchain = old.(*Swapchain).handle
	}
	if d.graphicsFamily != d.presentFamily {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{d.graphicsFamily, d.presentFamily}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var handle vk.Swapchain
	if ret := vk.CreateSwapchain(d.device, &createInfo, nil, &handle); ret != vk.Success {
		return nil, vxp.Result(ret)
	}
	s.handle = handle

	steps := []func() vk.Result{
		s.createImageViews,
		s.createDepthTarget,
		s.createRenderPass,
		s.createFramebuffers,
	}
	for _, step := range steps {
		if ret := step(); ret != vk.Success {
			s.Destroy()
			return nil, vxp.Result(ret)
		}
	}

	instance.logger.VPrintf("Swapchain created: %dx%d with %d images, formats: %s, took: %v",
		s.extent.Width, s.extent.Height, len(s.views), s.formats, time.Since(start))
	return s, vxp.ResultSuccess
}

func (s *Swapchain) createImageViews() vk.Result {
	var count uint32
	if ret := vk.GetSwapchainImages(s.device.device, s.handle, &count, nil); ret != vk.Success {
		return ret
	}
	images := make([]vk.Image, count)
	if ret := vk.GetSwapchainImages(s.device.device, s.handle, &count, images); ret != vk.Success {
		return ret
	}

	for _, image := range images {
		createInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   vk.Format(s.formats.Color),
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		var view vk.ImageView
		if ret := vk.CreateImageView(s.device.device, &createInfo, nil, &view); ret != vk.Success {
			return ret
		}
		s.views = append(s.views, view)
	}
	return vk.Success
}

func (s *Swapchain) createDepthTarget() vk.Result {
	format := vk.Format(s.formats.Depth)
	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: s.extent.Width, Height: s.extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var image vk.Image
	if ret := vk.CreateImage(s.device.device, &imageInfo, nil, &image); ret != vk.Success {
		return ret
	}
	s.depth.image = image

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(s.device.device, image, &memReqs)
	memReqs.Deref()

	memTypeIndex, ok := s.device.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if !ok {
		return vk.ErrorOutOfDeviceMemory
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}
	var memory vk.DeviceMemory
	if ret := vk.AllocateMemory(s.device.device, &allocInfo, nil, &memory); ret != vk.Success {
		return ret
	}
	s.depth.memory = memory
	if ret := vk.BindImageMemory(s.device.device, image, memory, 0); ret != vk.Success {
		return ret
	}

	aspect := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	if s.formats.Depth == vxp.DEPTH_STENCIL_FORMAT_D24_UNORM_S8_UINT || s.formats.Depth == vxp.DEPTH_STENCIL_FORMAT_D32_SFLOAT_S8_UINT {
		aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	}
	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	var view vk.ImageView
	if ret := vk.CreateImageView(s.device.device, &viewInfo, nil, &view); ret != vk.Success {
		return ret
	}
	s.depth.view = view
	return vk.Success
}

func (s *Swapchain) createRenderPass() vk.Result {
	colorAttachment := vk.AttachmentDescription{
		Format:         vk.Format(s.formats.Color),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	depthAttachment := vk.AttachmentDescription{
		Format:         vk.Format(s.formats.Depth),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpDontCare,
		StencilLoadOp:  vk.AttachmentLoadOpClear,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	colorRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	depthRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vk.AttachmentReference{colorRef},
		PDepthStencilAttachment: &depthRef,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass: vk.SubpassExternal,
		DstSubpass: 0,
		SrcStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
			vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
			vk.PipelineStageEarlyFragmentTestsBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit |
			vk.AccessDepthStencilAttachmentWriteBit),
	}
	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 2,
		PAttachments:    []vk.AttachmentDescription{colorAttachment, depthAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var renderPass vk.RenderPass
	if ret := vk.CreateRenderPass(s.device.device, &renderPassInfo, nil, &renderPass); ret != vk.Success {
		return ret
	}
	s.renderPass = renderPass
	return vk.Success
}

func (s *Swapchain) createFramebuffers() vk.Result {
	for _, view := range s.views {
		attachments := []vk.ImageView{view, s.depth.view}
		info := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      s.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}
		var framebuffer vk.Framebuffer
		if ret := vk.CreateFramebuffer(s.device.device, &info, nil, &framebuffer); ret != vk.Success {
			return ret
		}
		s.framebuffers = append(s.framebuffers, framebuffer)
	}
	return vk.Success
}

func (s *Swapchain) Extent() gmath.Extent2i32 {
	s.noCopy.Check()
	return gmath.Extent2i32{X: int32(s.extent.Width), Y: int32(s.extent.Height)}
}

func (s *Swapchain) ImageCount() int {
	s.noCopy.Check()
	return len(s.views)
}

func (s *Swapchain) Formats() vxp.FormatPair {
	s.noCopy.Check()
	return s.formats
}

// RenderPass is the render pass pipelines drawing to this swapchain must be compatible with.
func (s *Swapchain) RenderPass() vk.RenderPass {
	s.noCopy.Check()
	return s.renderPass
}

func (s *Swapchain) AcquireNextImage(timeout time.Duration, signal vxp.Semaphore) (int, vxp.Result) {
	s.noCopy.Check()
	var imageIndex uint32
	ret := vk.AcquireNextImage(s.device.device, s.handle, uint64(timeout), semaphoreHandle(signal), vk.NullFence, &imageIndex)
	return int(imageIndex), vxp.Result(ret)
}

func (s *Swapchain) BeginRenderPass(cb vxp.CommandBuffer, imageIndex int, clear vxp.ClearValues) {
	s.noCopy.Check()
	if !gmath.InRange(imageIndex, 0, len(s.framebuffers)-1) {
		abort("Image index %d out of range [0, %d)", imageIndex, len(s.framebuffers))
	}
	clearValues := []vk.ClearValue{
		vk.NewClearValue(clear.Color[:]),
		vk.NewClearDepthStencil(clear.Depth, clear.Stencil),
	}
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  s.renderPass,
		Framebuffer: s.framebuffers[imageIndex],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: s.extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cb.(*CommandBuffer).handle, &beginInfo, vk.SubpassContentsInline)
}

func (s *Swapchain) Submit(cb vxp.CommandBuffer, wait vxp.Semaphore, signal vxp.Semaphore, f vxp.Fence) vxp.Result {
	s.noCopy.Check()
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{semaphoreHandle(wait)},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.(*CommandBuffer).handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{semaphoreHandle(signal)},
	}
	return vxp.Result(vk.QueueSubmit(s.device.graphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fenceHandle(f)))
}

func (s *Swapchain) Present(imageIndex int, wait vxp.Semaphore) vxp.Result {
	s.noCopy.Check()
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{semaphoreHandle(wait)},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.handle},
		PImageIndices:      []uint32{uint32(imageIndex)},
	}
	return vxp.Result(vk.QueuePresent(s.device.presentQueue, &presentInfo))
}

// Destroy releases everything in reverse creation order, partially created swapchains included.
func (s *Swapchain) Destroy() {
	s.noCopy.Check()
	dev := s.device.device
	for _, fb := range s.framebuffers {
		vk.DestroyFramebuffer(dev, fb, nil)
	}
	if s.renderPass != vk.RenderPass(vk.NullHandle) {
		vk.DestroyRenderPass(dev, s.renderPass, nil)
	}
	if s.depth.view != vk.ImageView(vk.NullHandle) {
		vk.DestroyImageView(dev, s.depth.view, nil)
	}
	if s.depth.image != vk.Image(vk.NullHandle) {
		vk.DestroyImage(dev, s.depth.image, nil)
	}
	if s.depth.memory != vk.DeviceMemory(vk.NullHandle) {
		vk.FreeMemory(dev, s.depth.memory, nil)
	}
	for _, v := range s.views {
		vk.DestroyImageView(dev, v, nil)
	}
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(dev, s.handle, nil)
	}
	s.framebuffers = nil
	s.views = nil
	s.noCopy.Close()
}
