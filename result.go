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

// Result is a device return code, the values match VkResult.
type Result int32

const (
	ResultSuccess                   Result = 0
	ResultNotReady                  Result = 1
	ResultTimeout                   Result = 2
	ResultIncomplete                Result = 5
	ResultErrorOutOfHostMemory      Result = -1
	ResultErrorOutOfDeviceMemory    Result = -2
	ResultErrorInitializationFailed Result = -3
	ResultErrorDeviceLost           Result = -4
	ResultErrorSurfaceLost          Result = -1000000000
	ResultSuboptimal                Result = 1000001003
	ResultErrorOutOfDate            Result = -1000001004
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "VK_SUCCESS"
	case ResultNotReady:
		return "VK_NOT_READY"
	case ResultTimeout:
		return "VK_TIMEOUT"
	case ResultIncomplete:
		return "VK_INCOMPLETE"
	case ResultErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ResultErrorOutOfDeviceMemory:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case ResultErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ResultErrorDeviceLost:
		return "VK_ERROR_DEVICE_LOST"
	case ResultErrorSurfaceLost:
		return "VK_ERROR_SURFACE_LOST_KHR"
	case ResultSuboptimal:
		return "VK_SUBOPTIMAL_KHR"
	case ResultErrorOutOfDate:
		return "VK_ERROR_OUT_OF_DATE_KHR"
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// Status is the presentation outcome the renderer branches on.
type Status uint32

const (
	StatusReady Status = iota
	StatusSuboptimal
	StatusOutOfDate
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSuboptimal:
		return "Suboptimal"
	case StatusOutOfDate:
		return "OutOfDate"
	case StatusFatal:
		return "Fatal"
	}
	return fmt.Sprintf("Status(%d)", uint32(s))
}

// Stale reports whether the surface has to be recreated.
func (s Status) Stale() bool {
	return s == StatusSuboptimal || s == StatusOutOfDate
}

func presentStatus(r Result) Status {
	switch r {
	case ResultSuccess:
		return StatusReady
	case ResultSuboptimal:
		return StatusSuboptimal
	case ResultErrorOutOfDate:
		return StatusOutOfDate
	default:
		return StatusFatal
	}
}

// ResultError reports a device call that failed with an unrecoverable Result.
type ResultError struct {
	Op     string
	Result Result
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Result)
}

func resultError(op string, r Result) error {
	if r == ResultSuccess {
		return nil
	}
	return &ResultError{Op: op, Result: r}
}

// Is matches any *ResultError carrying the same Result, the Op is ignored.
func (e *ResultError) Is(target error) bool {
	t, ok := target.(*ResultError)
	return ok && t.Result == e.Result
}
