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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NotPanics(t, c.validate)
	require.Equal(t, int32(2), c.MaxFramesInFlight)
	require.Equal(t, ClearValues{Color: [4]float32{0.01, 0.01, 0.01, 1}, Depth: 1, Stencil: 0}, c.clearValues())
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero frames", func(c *Config) { c.MaxFramesInFlight = 0 }},
		{"too many frames", func(c *Config) { c.MaxFramesInFlight = MaxFramesInFlight + 1 }},
		{"negative acquire timeout", func(c *Config) { c.AcquireTimeout = -time.Second }},
		{"negative fence timeout", func(c *Config) { c.FenceTimeout = -time.Second }},
		{"depth above 1", func(c *Config) { c.ClearDepth = 1.5 }},
		{"depth below 0", func(c *Config) { c.ClearDepth = -0.5 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(&c)
			require.Panics(t, c.validate)
		})
	}
}

func TestConfigMarshalJSON(t *testing.T) {
	c := DefaultConfig()
	c.FenceTimeout = time.Second

	data, err := c.MarshalJSON()
	require.NoError(t, err)
	require.True(t, json.Valid(data))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, float64(2), decoded["MaxFramesInFlight"])
	require.Equal(t, "infinite", decoded["AcquireTimeout"])
	require.Equal(t, "1s", decoded["FenceTimeout"])
	require.Equal(t, float64(1), decoded["ClearDepth"])

	require.Contains(t, prettyString(&c), "\"ClearStencil\": 0")
}

func TestTimeoutOrInfinite(t *testing.T) {
	require.Equal(t, infinite, timeoutOrInfinite(0))
	require.Equal(t, infinite, timeoutOrInfinite(-1))
	require.Equal(t, time.Millisecond, timeoutOrInfinite(time.Millisecond))
}
