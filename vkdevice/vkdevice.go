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
Package vkdevice implements the vxp device interfaces on top of Vulkan. A Device owns the
instance, the presentation surface, the logical device and its queues, Swapchains own every
per image resource including the depth target, the render pass and the framebuffers.
*/
package vkdevice

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
	"goarrg.com"
	"goarrg.com/debug"
)

type platform struct{}

func (platform) Abort()                           { panic("Fatal Error") }
func (platform) AbortPopup(f string, args ...any) { panic("Fatal Error") }

var instance = struct {
	platform goarrg.PlatformInterface
	logger   *debug.Logger
}{
	platform: platform{},
	logger:   debug.NewLogger("vxp", "vkdevice"),
}

// Init installs the platform used to report misuse, vxp.Init does not forward to it.
func Init(platform goarrg.PlatformInterface) {
	instance.platform = platform
}

func SetLogLevel(l uint32) {
	instance.logger.SetLevel(l)
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	instance.platform.Abort()
}

// SurfaceProvider is the window system side of a Device.
type SurfaceProvider interface {
	InstanceProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

func cString(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s
	}
	return s + "\x00"
}

func cStrings(s []string) []string {
	ret := make([]string, len(s))
	for i := range s {
		ret[i] = cString(s[i])
	}
	return ret
}
