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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresentStatus(t *testing.T) {
	testCases := []struct {
		result Result
		status Status
		stale  bool
	}{
		{ResultSuccess, StatusReady, false},
		{ResultSuboptimal, StatusSuboptimal, true},
		{ResultErrorOutOfDate, StatusOutOfDate, true},
		{ResultTimeout, StatusFatal, false},
		{ResultNotReady, StatusFatal, false},
		{ResultErrorDeviceLost, StatusFatal, false},
		{ResultErrorSurfaceLost, StatusFatal, false},
		{Result(12345), StatusFatal, false},
	}
	for _, tc := range testCases {
		t.Run(tc.result.String(), func(t *testing.T) {
			s := presentStatus(tc.result)
			require.Equal(t, tc.status, s)
			require.Equal(t, tc.stale, s.Stale())
		})
	}
}

func TestResultError(t *testing.T) {
	require.NoError(t, resultError("QueuePresent", ResultSuccess))

	err := resultError("QueuePresent", ResultErrorDeviceLost)
	require.EqualError(t, err, "QueuePresent: VK_ERROR_DEVICE_LOST")
	require.True(t, errors.Is(err, &ResultError{Result: ResultErrorDeviceLost}))
	require.False(t, errors.Is(err, &ResultError{Result: ResultErrorSurfaceLost}))

	var re *ResultError
	require.True(t, errors.As(err, &re))
	require.Equal(t, "QueuePresent", re.Op)
}

func TestErrorFormatMismatch(t *testing.T) {
	err := error(ErrorFormatMismatch{
		Old: FormatPair{Color: FORMAT_B8G8R8A8_SRGB, Depth: DEPTH_STENCIL_FORMAT_D32_SFLOAT},
		New: FormatPair{Color: FORMAT_B8G8R8A8_UNORM, Depth: DEPTH_STENCIL_FORMAT_D32_SFLOAT},
	})
	require.True(t, errors.Is(err, ErrorFormatMismatch{}))
	require.Contains(t, err.Error(), "{FORMAT_B8G8R8A8_SRGB, DEPTH_STENCIL_FORMAT_D32_SFLOAT} -> {FORMAT_B8G8R8A8_UNORM, DEPTH_STENCIL_FORMAT_D32_SFLOAT}")
	require.Equal(t, "Format(7)", Format(7).String())
}
