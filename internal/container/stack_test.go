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

package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	var s Stack[int]
	require.True(t, s.Empty())

	s.Push(1, 2)
	s.Push(3)
	require.Equal(t, 3, s.Len())
	require.Equal(t, []int{1, 2, 3}, s.Data())
	require.Equal(t, 3, s.Pop())

	var order []int
	s.Drain(func(i int) {
		order = append(order, i)
	})
	require.Equal(t, []int{2, 1}, order)
	require.True(t, s.Empty())
}

func TestStackDrainPushes(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	var order []int
	s.Drain(func(i int) {
		order = append(order, i)
		if i == 1 {
			s.Push(2)
		}
	})
	require.Equal(t, []int{1, 2}, order)
}
