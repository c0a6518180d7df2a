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
	"bytes"
	"fmt"

	"goarrg.com/rhi/vxp"
)

type Config struct {
	AppName string
	// Validation enables VK_LAYER_KHRONOS_validation, creation fails if the layer is missing.
	Validation bool
	// VSync selects FIFO presentation, otherwise MAILBOX is used when available.
	VSync bool
	// ColorFormats is the surface format preference, the first supported one wins.
	ColorFormats []vxp.Format
	// DepthFormats is the depth format preference, the first with optimal tiling support wins.
	DepthFormats []vxp.DepthStencilFormat
}

func DefaultConfig() Config {
	return Config{
		AppName: "vxp",
		VSync:   true,
		ColorFormats: []vxp.Format{
			vxp.FORMAT_B8G8R8A8_SRGB,
			vxp.FORMAT_R8G8B8A8_SRGB,
		},
		DepthFormats: []vxp.DepthStencilFormat{
			vxp.DEPTH_STENCIL_FORMAT_D32_SFLOAT,
			vxp.DEPTH_STENCIL_FORMAT_D32_SFLOAT_S8_UINT,
			vxp.DEPTH_STENCIL_FORMAT_D24_UNORM_S8_UINT,
		},
	}
}

func (c *Config) validate() {
	if c.AppName == "" {
		abort("Config.AppName must not be empty")
	}
	if len(c.DepthFormats) == 0 {
		abort("Config.DepthFormats must not be empty")
	}
}

func (c *Config) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"AppName\": %q,", c.AppName))
	buff.WriteString(fmt.Sprintf("\"Validation\": %t,", c.Validation))
	buff.WriteString(fmt.Sprintf("\"VSync\": %t,", c.VSync))

	buff.WriteString("\"ColorFormats\": [")
	for i, f := range c.ColorFormats {
		if i > 0 {
			buff.WriteString(",")
		}
		buff.WriteString(fmt.Sprintf("%q", f))
	}
	buff.WriteString("],")

	buff.WriteString("\"DepthFormats\": [")
	for i, f := range c.DepthFormats {
		if i > 0 {
			buff.WriteString(",")
		}
		buff.WriteString(fmt.Sprintf("%q", f))
	}
	buff.WriteString("]")

	buff.WriteString("}")
	return buff.Bytes(), nil
}
