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
Package window provides a GLFW window usable both as a vxp.Window and as the surface provider of
a vkdevice.Device. GLFW requires every call in this package to be made from the main thread.
*/
package window

import (
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
	"goarrg.com/debug"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp"
	"goarrg.com/rhi/vxp/scene"
	"goarrg.com/rhi/vxp/vkdevice"
)

var instance = struct {
	logger *debug.Logger
}{
	logger: debug.NewLogger("vxp", "window"),
}

func Init() error {
	if err := glfw.Init(); err != nil {
		return debug.ErrorWrapf(err, "Failed to init glfw")
	}
	return nil
}

func Terminate() {
	glfw.Terminate()
}

type KeyBindings map[scene.Action]glfw.Key

// DefaultKeyBindings walks with WASD, rises and sinks with E and Q and looks with the arrow keys.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		scene.ActionMoveLeft:     glfw.KeyA,
		scene.ActionMoveRight:    glfw.KeyD,
		scene.ActionMoveForward:  glfw.KeyW,
		scene.ActionMoveBackward: glfw.KeyS,
		scene.ActionMoveUp:       glfw.KeyE,
		scene.ActionMoveDown:     glfw.KeyQ,
		scene.ActionLookLeft:     glfw.KeyLeft,
		scene.ActionLookRight:    glfw.KeyRight,
		scene.ActionLookUp:       glfw.KeyUp,
		scene.ActionLookDown:     glfw.KeyDown,
	}
}

type Window struct {
	handle   *glfw.Window
	resized  atomic.Bool
	Bindings KeyBindings
}

var (
	_ vxp.Window               = (*Window)(nil)
	_ vkdevice.SurfaceProvider = (*Window)(nil)
	_ scene.Input              = (*Window)(nil)
)

func New(width, height int, title string) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	handle, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, debug.ErrorWrapf(err, "Failed to create window")
	}

	w := &Window{handle: handle, Bindings: DefaultKeyBindings()}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		instance.logger.VPrintf("Framebuffer resized: %dx%d", width, height)
		w.resized.Store(true)
	})
	return w, nil
}

// Extent returns the framebuffer size in pixels, it is 0x0 while the window is minimized.
func (w *Window) Extent() gmath.Extent2i32 {
	width, height := w.handle.GetFramebufferSize()
	return gmath.Extent2i32{X: int32(width), Y: int32(height)}
}

func (w *Window) ConsumeResized() bool {
	return w.resized.Swap(false)
}

func (w *Window) WaitEvents() {
	glfw.WaitEvents()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// Active reports whether the key bound to a is held, unbound actions are never active.
func (w *Window) Active(a scene.Action) bool {
	key, ok := w.Bindings[a]
	return ok && w.handle.GetKey(key) == glfw.Press
}

func (w *Window) Destroy() {
	w.handle.Destroy()
}

func (w *Window) InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, debug.ErrorWrapf(err, "Failed to create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}
