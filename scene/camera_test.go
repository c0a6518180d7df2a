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

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestCameraPerspectiveDepth(t *testing.T) {
	var c Camera
	c.SetPerspectiveProjection(math.Pi/3, 16.0/9.0, 0.1, 100)

	near := project(c.Projection(), mgl32.Vec3{0, 0, 0.1})
	far := project(c.Projection(), mgl32.Vec3{0, 0, 100})
	require.InDelta(t, 0, near.Z(), threshold)
	require.InDelta(t, 1, far.Z(), 1e-4)

	// a point on the top edge of the frustum lands on y = -1 since +y points down
	tanHalf := float32(math.Tan(math.Pi / 6))
	edge := project(c.Projection(), mgl32.Vec3{0, -tanHalf * 10, 10})
	require.InDelta(t, -1, edge.Y(), threshold)

	require.Panics(t, func() { c.SetPerspectiveProjection(math.Pi/3, 0, 0.1, 100) })
}

func TestCameraOrthographic(t *testing.T) {
	var c Camera
	c.SetOrthographicProjection(-2, 2, -1, 1, 0, 10)

	requireVec3InDelta(t, mgl32.Vec3{-1, -1, 0}, project(c.Projection(), mgl32.Vec3{-2, -1, 0}), threshold)
	requireVec3InDelta(t, mgl32.Vec3{1, 1, 1}, project(c.Projection(), mgl32.Vec3{2, 1, 10}), threshold)
	requireVec3InDelta(t, mgl32.Vec3{0, 0, 0.5}, project(c.Projection(), mgl32.Vec3{0, 0, 5}), threshold)
}

func TestCameraViewDirection(t *testing.T) {
	var c Camera
	position := mgl32.Vec3{1, 2, 3}
	c.SetViewDirection(position, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{})

	requireVec3InDelta(t, mgl32.Vec3{}, project(c.View(), position), threshold)
	requireVec3InDelta(t, mgl32.Vec3{0, 0, 1}, project(c.View(), position.Add(mgl32.Vec3{0, 0, 1})), threshold)
	requireMat4InDelta(t, mgl32.Ident4(), c.InverseView().Mul4(c.View()), threshold)
	requireVec3InDelta(t, position, c.Position(), threshold)

	require.Panics(t, func() { c.SetViewDirection(position, mgl32.Vec3{}, mgl32.Vec3{}) })
}

func TestCameraViewTarget(t *testing.T) {
	var a, b Camera
	position := mgl32.Vec3{-1, -2, -3}
	target := mgl32.Vec3{4, 0, 1}
	a.SetViewTarget(position, target, mgl32.Vec3{0, -1, 0})
	b.SetViewDirection(position, target.Sub(position), mgl32.Vec3{0, -1, 0})

	requireMat4InDelta(t, a.View(), b.View(), threshold)
	requireVec3InDelta(t, mgl32.Vec3{0, 0, target.Sub(position).Len()}, project(a.View(), target), 1e-4)

	require.Panics(t, func() { a.SetViewTarget(position, position, mgl32.Vec3{}) })
}

func TestCameraViewYXZ(t *testing.T) {
	var c Camera
	position := mgl32.Vec3{1, 2, 3}
	c.SetViewYXZ(position, mgl32.Vec3{})
	requireMat4InDelta(t, mgl32.Translate3D(-1, -2, -3), c.View(), threshold)

	// the view of a rotated camera undoes the same rotation applied as an object transform
	rotation := mgl32.Vec3{0.4, -0.9, 0.2}
	c.SetViewYXZ(position, rotation)
	tr := Transform{Translation: position, Scale: mgl32.Vec3{1, 1, 1}, Rotation: rotation}
	requireMat4InDelta(t, tr.Mat4(), c.InverseView(), threshold)
	requireMat4InDelta(t, mgl32.Ident4(), c.View().Mul4(tr.Mat4()), threshold)
}

func TestCameraProjectionView(t *testing.T) {
	var c Camera
	c.SetPerspectiveProjection(math.Pi/2, 1, 1, 10)
	c.SetViewYXZ(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{})
	requireMat4InDelta(t, c.Projection().Mul4(c.View()), c.ProjectionView(), threshold)

	// the world origin sits 5 units in front of the camera
	p := project(c.ProjectionView(), mgl32.Vec3{})
	require.InDelta(t, (10.0/9.0)*(1-1.0/5.0), p.Z(), threshold)
}
