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
	"encoding/json"
	"slices"
	"strings"

	vk "github.com/vulkan-go/vulkan"
	"goarrg.com/debug"

	"goarrg.com/rhi/vxp"
	"goarrg.com/rhi/vxp/internal/util"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

type Device struct {
	noCopy util.NoCopy
	config Config

	instance       vk.Instance
	surface        vk.Surface
	physicalDevice vk.PhysicalDevice
	device         vk.Device

	graphicsFamily uint32
	presentFamily  uint32
	graphicsQueue  vk.Queue
	presentQueue   vk.Queue
	commandPool    vk.CommandPool

	depthFormat      vk.Format
	memoryProperties vk.PhysicalDeviceMemoryProperties
}

var _ vxp.Device = (*Device)(nil)

/*
New creates a Vulkan instance, a presentation surface through provider and a logical device
on the best physical device able to present to it.
*/
func New(provider SurfaceProvider, config Config) (*Device, error) {
	config.validate()
	if b, err := json.MarshalIndent(&config, "", "    "); err == nil {
		instance.logger.IPrintf("User requested config: %s", b)
	}

	vk.SetGetInstanceProcAddr(provider.InstanceProcAddr())
	if err := vk.Init(); err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to init vulkan")
	}

	d := &Device{config: config}
	d.noCopy.Init()

	if err := d.createInstance(provider.RequiredInstanceExtensions()); err != nil {
		return nil, err
	}

	surface, err := provider.CreateSurface(d.instance)
	if err != nil {
		d.destroy()
		return nil, debug.ErrorWrapf(err, "Failed to create surface")
	}
	d.surface = surface

	steps := []func() error{
		d.pickPhysicalDevice,
		d.createLogicalDevice,
		d.createCommandPool,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			d.destroy()
			return nil, err
		}
	}

	instance.logger.IPrintf("Initialization Completed")
	return d, nil
}

func availableLayers() []string {
	var count uint32
	vk.EnumerateInstanceLayerProperties(&count, nil)
	layers := make([]vk.LayerProperties, count)
	vk.EnumerateInstanceLayerProperties(&count, layers)

	var names []string
	for _, l := range layers {
		l.Deref()
		names = append(names, vk.ToString(l.LayerName[:]))
	}
	return names
}

func (d *Device) createInstance(extensions []string) error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   cString(d.config.AppName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        cString("vxp"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 0, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: cStrings(extensions),
	}
	if d.config.Validation {
		if !slices.Contains(availableLayers(), validationLayer) {
			return debug.Errorf("Validation requested but %s is not available", validationLayer)
		}
		createInfo.EnabledLayerCount = 1
		createInfo.PpEnabledLayerNames = []string{cString(validationLayer)}
	}

	var vkInstance vk.Instance
	if ret := vk.CreateInstance(&createInfo, nil, &vkInstance); ret != vk.Success {
		return debug.ErrorWrapf(vk.Error(ret), "Failed to create instance")
	}
	d.instance = vkInstance
	vk.InitInstance(vkInstance)
	instance.logger.VPrintf("Instance created with extensions: %v", extensions)
	return nil
}

type queueFamilies struct {
	graphics, present       uint32
	hasGraphics, hasPresent bool
}

func (q queueFamilies) complete() bool {
	return q.hasGraphics && q.hasPresent
}

func (d *Device) findQueueFamilies(physicalDevice vk.PhysicalDevice) queueFamilies {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &count, families)

	var ret queueFamilies
	for i, family := range families {
		family.Deref()
		if !ret.hasGraphics && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			ret.graphics, ret.hasGraphics = uint32(i), true
		}
		var present vk.Bool32
		if vk.GetPhysicalDeviceSurfaceSupport(physicalDevice, uint32(i), d.surface, &present) == vk.Success &&
			present.B() && !ret.hasPresent {
			ret.present, ret.hasPresent = uint32(i), true
		}
		if ret.complete() {
			break
		}
	}
	return ret
}

func hasSwapchainExtension(physicalDevice vk.PhysicalDevice) bool {
	var count uint32
	if vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &count, nil) != vk.Success {
		return false
	}
	extensions := make([]vk.ExtensionProperties, count)
	vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &count, extensions)
	for _, e := range extensions {
		e.Deref()
		if vk.ToString(e.ExtensionName[:]) == strings.TrimSuffix(vk.KhrSwapchainExtensionName, "\x00") {
			return true
		}
	}
	return false
}

func (d *Device) score(physicalDevice vk.PhysicalDevice) uint32 {
	if !d.findQueueFamilies(physicalDevice).complete() || !hasSwapchainExtension(physicalDevice) {
		return 0
	}
	support := d.querySwapchainSupport(physicalDevice)
	if len(support.formats) == 0 || len(support.presentModes) == 0 {
		return 0
	}

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physicalDevice, &properties)
	properties.Deref()

	score := uint32(1)
	if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		score += 1000
	}
	instance.logger.VPrintf("Available device: %s (score: %d)", vk.ToString(properties.DeviceName[:]), score)
	return score
}

func (d *Device) pickPhysicalDevice() error {
	var count uint32
	if ret := vk.EnumeratePhysicalDevices(d.instance, &count, nil); ret != vk.Success {
		return debug.ErrorWrapf(vk.Error(ret), "Failed to enumerate physical devices")
	}
	if count == 0 {
		return debug.Errorf("Failed to find GPUs with Vulkan support")
	}
	devices := make([]vk.PhysicalDevice, count)
	vk.EnumeratePhysicalDevices(d.instance, &count, devices)

	var best uint32
	for _, physicalDevice := range devices {
		if s := d.score(physicalDevice); s > best {
			best = s
			d.physicalDevice = physicalDevice
		}
	}
	if best == 0 {
		return debug.Errorf("Failed to find a suitable physical device")
	}

	families := d.findQueueFamilies(d.physicalDevice)
	d.graphicsFamily, d.presentFamily = families.graphics, families.present

	vk.GetPhysicalDeviceMemoryProperties(d.physicalDevice, &d.memoryProperties)
	d.memoryProperties.Deref()

	depth, ok := d.chooseDepthFormat()
	if !ok {
		return debug.Errorf("Failed to find a supported depth format in: %v", d.config.DepthFormats)
	}
	d.depthFormat = depth
	return nil
}

func (d *Device) chooseDepthFormat() (vk.Format, bool) {
	for _, f := range d.config.DepthFormats {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(d.physicalDevice, vk.Format(f), &properties)
		properties.Deref()
		if properties.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0 {
			return vk.Format(f), true
		}
	}
	return vk.FormatUndefined, false
}

func (d *Device) createLogicalDevice() error {
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, family := range []uint32{d.graphicsFamily, d.presentFamily} {
		if len(queueInfos) > 0 && queueInfos[0].QueueFamilyIndex == family {
			continue
		}
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   1,
		PpEnabledExtensionNames: []string{cString(vk.KhrSwapchainExtensionName)},
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}
	if d.config.Validation {
		createInfo.EnabledLayerCount = 1
		createInfo.PpEnabledLayerNames = []string{cString(validationLayer)}
	}

	var device vk.Device
	if ret := vk.CreateDevice(d.physicalDevice, &createInfo, nil, &device); ret != vk.Success {
		return debug.ErrorWrapf(vk.Error(ret), "Failed to create logical device")
	}
	d.device = device

	var q vk.Queue
	vk.GetDeviceQueue(d.device, d.graphicsFamily, 0, &q)
	d.graphicsQueue = q
	vk.GetDeviceQueue(d.device, d.presentFamily, 0, &q)
	d.presentQueue = q
	return nil
}

func (d *Device) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: d.graphicsFamily,
	}
	var pool vk.CommandPool
	if ret := vk.CreateCommandPool(d.device, &poolInfo, nil, &pool); ret != vk.Success {
		return debug.ErrorWrapf(vk.Error(ret), "Failed to create command pool")
	}
	d.commandPool = pool
	return nil
}

func (d *Device) findMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < d.memoryProperties.MemoryTypeCount; i++ {
		d.memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (d.memoryProperties.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, true
		}
	}
	return 0, false
}

func (d *Device) CreateSemaphore() (vxp.Semaphore, vxp.Result) {
	d.noCopy.Check()
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var s vk.Semaphore
	if ret := vk.CreateSemaphore(d.device, &info, nil, &s); ret != vk.Success {
		return nil, vxp.Result(ret)
	}
	return &semaphore{device: d.device, handle: s}, vxp.ResultSuccess
}

func (d *Device) CreateFence(signaled bool) (vxp.Fence, vxp.Result) {
	d.noCopy.Check()
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var f vk.Fence
	if ret := vk.CreateFence(d.device, &info, nil, &f); ret != vk.Success {
		return nil, vxp.Result(ret)
	}
	return &fence{device: d.device, handle: f}, vxp.ResultSuccess
}

func (d *Device) AllocateCommandBuffers(n int) ([]vxp.CommandBuffer, vxp.Result) {
	d.noCopy.Check()
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(n),
	}
	handles := make([]vk.CommandBuffer, n)
	if ret := vk.AllocateCommandBuffers(d.device, &allocInfo, handles); ret != vk.Success {
		return nil, vxp.Result(ret)
	}
	cbs := make([]vxp.CommandBuffer, n)
	for i, h := range handles {
		cbs[i] = &CommandBuffer{handle: h}
	}
	return cbs, vxp.ResultSuccess
}

func (d *Device) FreeCommandBuffers(cbs []vxp.CommandBuffer) {
	d.noCopy.Check()
	if len(cbs) == 0 {
		return
	}
	handles := make([]vk.CommandBuffer, len(cbs))
	for i, cb := range cbs {
		handles[i] = cb.(*CommandBuffer).handle
	}
	vk.FreeCommandBuffers(d.device, d.commandPool, uint32(len(handles)), handles)
}

func (d *Device) WaitIdle() vxp.Result {
	d.noCopy.Check()
	return vxp.Result(vk.DeviceWaitIdle(d.device))
}

// Destroy releases the device, every object created from it must already be destroyed.
func (d *Device) Destroy() {
	d.noCopy.Check()
	vk.DeviceWaitIdle(d.device)
	d.destroy()
}

func (d *Device) destroy() {
	if d.commandPool != vk.CommandPool(vk.NullHandle) {
		vk.DestroyCommandPool(d.device, d.commandPool, nil)
	}
	if d.device != vk.Device(vk.NullHandle) {
		vk.DestroyDevice(d.device, nil)
	}
	if d.surface != vk.NullSurface {
		vk.DestroySurface(d.instance, d.surface, nil)
	}
	if d.instance != vk.Instance(vk.NullHandle) {
		vk.DestroyInstance(d.instance, nil)
	}
	d.noCopy.Close()
	instance.logger.IPrintf("Device destroyed")
}
