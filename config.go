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
	"bytes"
	"fmt"
	"time"

	"goarrg.com/gmath"
)

const MaxFramesInFlight = 8

type Config struct {
	MaxFramesInFlight int32

	// AcquireTimeout bounds how long acquiring an image may block, 0 means no limit.
	AcquireTimeout time.Duration
	// FenceTimeout bounds how long the host waits on a previous frame, 0 means no limit.
	FenceTimeout time.Duration

	ClearColor   [4]float32
	ClearDepth   float32
	ClearStencil uint32
}

func DefaultConfig() Config {
	return Config{
		MaxFramesInFlight: 2,
		ClearColor:        [4]float32{0.01, 0.01, 0.01, 1},
		ClearDepth:        1,
		ClearStencil:      0,
	}
}

func (c *Config) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"MaxFramesInFlight\": %d,", c.MaxFramesInFlight))
	buff.WriteString(fmt.Sprintf("\"AcquireTimeout\": %q,", durationString(c.AcquireTimeout)))
	buff.WriteString(fmt.Sprintf("\"FenceTimeout\": %q,", durationString(c.FenceTimeout)))
	buff.WriteString(fmt.Sprintf("\"ClearColor\": %s,", jsonString(c.ClearColor)))
	buff.WriteString(fmt.Sprintf("\"ClearDepth\": %s,", jsonString(c.ClearDepth)))
	buff.WriteString(fmt.Sprintf("\"ClearStencil\": %d", c.ClearStencil))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func durationString(d time.Duration) string {
	if d <= 0 {
		return "infinite"
	}
	return d.String()
}

func (c *Config) validate() {
	if !gmath.InRange(c.MaxFramesInFlight, 1, MaxFramesInFlight) {
		abort("Config.MaxFramesInFlight must be in range [1, %d], got: %d", MaxFramesInFlight, c.MaxFramesInFlight)
	}
	if c.AcquireTimeout < 0 {
		abort("Config.AcquireTimeout must be >= 0")
	}
	if c.FenceTimeout < 0 {
		abort("Config.FenceTimeout must be >= 0")
	}
	if !gmath.InRange(c.ClearDepth, 0, 1) {
		abort("Config.ClearDepth must be in range [0, 1], got: %f", c.ClearDepth)
	}
}

func (c *Config) clearValues() ClearValues {
	return ClearValues{
		Color:   c.ClearColor,
		Depth:   c.ClearDepth,
		Stencil: c.ClearStencil,
	}
}
