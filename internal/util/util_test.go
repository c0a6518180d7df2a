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

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	require.Equal(t, 1, Next(0, 2))
	require.Equal(t, 0, Next(1, 2))
	require.Equal(t, uint8(0), Next(uint8(0), uint8(1)))
	require.Panics(t, func() { Next(0, 0) })
}

func TestNoCopy(t *testing.T) {
	var n NoCopy
	require.Panics(t, n.Check)

	n.Init()
	require.NotPanics(t, n.Check)
	require.Panics(t, n.Init)

	n.Close()
	require.Panics(t, n.Close)
}
