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

import "fmt"

// Format is a color format, the values match VkFormat.
type Format uint32

// DepthStencilFormat is a depth and/or stencil format, the values match VkFormat.
type DepthStencilFormat uint32

const (
	FORMAT_UNDEFINED      Format = 0
	FORMAT_R8G8B8A8_UNORM Format = 37
	FORMAT_R8G8B8A8_SRGB  Format = 43
	FORMAT_B8G8R8A8_UNORM Format = 44
	FORMAT_B8G8R8A8_SRGB  Format = 50
)

const (
	DEPTH_STENCIL_FORMAT_UNDEFINED          DepthStencilFormat = 0
	DEPTH_STENCIL_FORMAT_D16_UNORM          DepthStencilFormat = 124
	DEPTH_STENCIL_FORMAT_D32_SFLOAT         DepthStencilFormat = 126
	DEPTH_STENCIL_FORMAT_D24_UNORM_S8_UINT  DepthStencilFormat = 129
	DEPTH_STENCIL_FORMAT_D32_SFLOAT_S8_UINT DepthStencilFormat = 130
)

func (f Format) String() string {
	switch f {
	case FORMAT_UNDEFINED:
		return "FORMAT_UNDEFINED"
	case FORMAT_R8G8B8A8_UNORM:
		return "FORMAT_R8G8B8A8_UNORM"
	case FORMAT_R8G8B8A8_SRGB:
		return "FORMAT_R8G8B8A8_SRGB"
	case FORMAT_B8G8R8A8_UNORM:
		return "FORMAT_B8G8R8A8_UNORM"
	case FORMAT_B8G8R8A8_SRGB:
		return "FORMAT_B8G8R8A8_SRGB"
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

func (f DepthStencilFormat) String() string {
	switch f {
	case DEPTH_STENCIL_FORMAT_UNDEFINED:
		return "DEPTH_STENCIL_FORMAT_UNDEFINED"
	case DEPTH_STENCIL_FORMAT_D16_UNORM:
		return "DEPTH_STENCIL_FORMAT_D16_UNORM"
	case DEPTH_STENCIL_FORMAT_D32_SFLOAT:
		return "DEPTH_STENCIL_FORMAT_D32_SFLOAT"
	case DEPTH_STENCIL_FORMAT_D24_UNORM_S8_UINT:
		return "DEPTH_STENCIL_FORMAT_D24_UNORM_S8_UINT"
	case DEPTH_STENCIL_FORMAT_D32_SFLOAT_S8_UINT:
		return "DEPTH_STENCIL_FORMAT_D32_SFLOAT_S8_UINT"
	}
	return fmt.Sprintf("DepthStencilFormat(%d)", uint32(f))
}

// FormatPair is the render target formats of a surface, fixed at creation.
type FormatPair struct {
	Color Format
	Depth DepthStencilFormat
}

func (p FormatPair) String() string {
	return fmt.Sprintf("{%s, %s}", p.Color, p.Depth)
}

type ErrorFormatMismatch struct {
	Old FormatPair
	New FormatPair
}

func (ErrorFormatMismatch) Is(target error) bool {
	_, ok := target.(ErrorFormatMismatch)
	return ok
}

func (e ErrorFormatMismatch) Error() string {
	return fmt.Sprintf("Swapchain image (or depth) format has changed: %s -> %s", e.Old, e.New)
}
