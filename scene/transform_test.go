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

package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const threshold = 1e-5

func requireElementsInDelta(t *testing.T, want, got []float32, delta float64) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], got[i], delta, "element %d: want %v got %v", i, want, got)
	}
}

func requireVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	requireElementsInDelta(t, want[:], got[:], delta)
}

func requireMat3InDelta(t *testing.T, want, got mgl32.Mat3, delta float64) {
	t.Helper()
	requireElementsInDelta(t, want[:], got[:], delta)
}

func requireMat4InDelta(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	requireElementsInDelta(t, want[:], got[:], delta)
}

// closedForm spells out translation * Ry * Rx * Rz * scale entry by entry.
func closedForm(t Transform) mgl32.Mat4 {
	c3 := float32(math.Cos(float64(t.Rotation.Z())))
	s3 := float32(math.Sin(float64(t.Rotation.Z())))
	c2 := float32(math.Cos(float64(t.Rotation.X())))
	s2 := float32(math.Sin(float64(t.Rotation.X())))
	c1 := float32(math.Cos(float64(t.Rotation.Y())))
	s1 := float32(math.Sin(float64(t.Rotation.Y())))
	var m mgl32.Mat4
	m.SetCol(0, mgl32.Vec4{c1*c3 + s1*s2*s3, c2 * s3, c1*s2*s3 - c3*s1, 0}.Mul(t.Scale.X()))
	m.SetCol(1, mgl32.Vec4{c3*s1*s2 - c1*s3, c2 * c3, c1*c3*s2 + s1*s3, 0}.Mul(t.Scale.Y()))
	m.SetCol(2, mgl32.Vec4{c2 * s1, -s2, c1 * c2, 0}.Mul(t.Scale.Z()))
	m.SetCol(3, t.Translation.Vec4(1))
	return m
}

func TestTransformMat4(t *testing.T) {
	testCases := []struct {
		name      string
		transform Transform
	}{
		{"identity", Transform{Scale: mgl32.Vec3{1, 1, 1}}},
		{"translate", Transform{Translation: mgl32.Vec3{1, -2, 3}, Scale: mgl32.Vec3{1, 1, 1}}},
		{"scale", Transform{Scale: mgl32.Vec3{2, 0.5, 3}}},
		{"yaw", Transform{Scale: mgl32.Vec3{1, 1, 1}, Rotation: mgl32.Vec3{0, 0.7, 0}}},
		{"all", Transform{
			Translation: mgl32.Vec3{-0.5, 0.5, 2.5},
			Scale:       mgl32.Vec3{0.5, 2, 1.5},
			Rotation:    mgl32.Vec3{0.3, -1.1, 2.2},
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want := closedForm(tc.transform)
			got := tc.transform.Mat4()
			requireMat4InDelta(t, want, got, threshold)
		})
	}
}

func TestTransformNormalMatrix(t *testing.T) {
	tr := Transform{
		Translation: mgl32.Vec3{4, 5, 6},
		Scale:       mgl32.Vec3{0.5, 2, 1.5},
		Rotation:    mgl32.Vec3{0.3, -1.1, 2.2},
	}
	want := tr.Mat4().Mat3().Inv().Transpose()
	got := tr.NormalMatrix()
	requireMat3InDelta(t, want, got, threshold)

	require.Panics(t, func() {
		tr := Transform{Scale: mgl32.Vec3{1, 0, 1}}
		tr.NormalMatrix()
	})
}
