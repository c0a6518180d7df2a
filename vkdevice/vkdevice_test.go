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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
	"goarrg.com/gmath"

	"goarrg.com/rhi/vxp"
)

func TestCString(t *testing.T) {
	require.Equal(t, "a\x00", cString("a"))
	require.Equal(t, "a\x00", cString("a\x00"))
	require.Equal(t, "\x00", cString(""))
	require.Equal(t, []string{"x\x00", "y\x00"}, cStrings([]string{"x", "y\x00"}))
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	require.NotPanics(t, c.validate)

	b, err := json.Marshal(&c)
	require.NoError(t, err)
	require.True(t, json.Valid(b), "%s", b)

	var decoded struct {
		AppName      string
		VSync        bool
		DepthFormats []string
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "vxp", decoded.AppName)
	require.True(t, decoded.VSync)
	require.Equal(t, "DEPTH_STENCIL_FORMAT_D32_SFLOAT", decoded.DepthFormats[0])

	c.AppName = ""
	require.Panics(t, c.validate)
	c = DefaultConfig()
	c.DepthFormats = nil
	require.Panics(t, c.validate)
}

func TestChooseExtent(t *testing.T) {
	fixed := vk.SurfaceCapabilities{CurrentExtent: vk.Extent2D{Width: 640, Height: 480}}
	require.Equal(t, vk.Extent2D{Width: 640, Height: 480}, chooseExtent(fixed, gmath.Extent2i32{X: 800, Y: 600}))

	free := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 1000, Height: 1000},
	}
	require.Equal(t, vk.Extent2D{Width: 800, Height: 600}, chooseExtent(free, gmath.Extent2i32{X: 800, Y: 600}))
	require.Equal(t, vk.Extent2D{Width: 1000, Height: 100}, chooseExtent(free, gmath.Extent2i32{X: 4000, Y: 1}))
}

func TestChooseSurfaceFormat(t *testing.T) {
	d := &Device{config: DefaultConfig()}
	srgb := func(f vxp.Format) vk.SurfaceFormat {
		return vk.SurfaceFormat{Format: vk.Format(f), ColorSpace: vk.ColorSpaceSrgbNonlinear}
	}

	available := []vk.SurfaceFormat{srgb(vxp.FORMAT_R8G8B8A8_UNORM), srgb(vxp.FORMAT_R8G8B8A8_SRGB), srgb(vxp.FORMAT_B8G8R8A8_SRGB)}
	require.Equal(t, srgb(vxp.FORMAT_B8G8R8A8_SRGB), d.chooseSurfaceFormat(available))

	available = []vk.SurfaceFormat{srgb(vxp.FORMAT_R8G8B8A8_UNORM), srgb(vxp.FORMAT_B8G8R8A8_UNORM)}
	require.Equal(t, srgb(vxp.FORMAT_R8G8B8A8_UNORM), d.chooseSurfaceFormat(available))
}

func TestChoosePresentMode(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox, vk.PresentModeFifo}

	d := &Device{config: DefaultConfig()}
	require.Equal(t, vk.PresentModeFifo, d.choosePresentMode(available))

	d.config.VSync = false
	require.Equal(t, vk.PresentModeMailbox, d.choosePresentMode(available))
	require.Equal(t, vk.PresentModeFifo, d.choosePresentMode([]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}))
}
