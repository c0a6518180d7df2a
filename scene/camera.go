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

	"github.com/go-gl/mathgl/mgl32"
)

/*
Camera produces Vulkan style matrices: +Y points down in clip space and depth maps to [0, 1].
The zero value is unusable, set a projection and a view first.
*/
type Camera struct {
	projection  mgl32.Mat4
	view        mgl32.Mat4
	inverseView mgl32.Mat4
}

func (c *Camera) SetOrthographicProjection(left, right, top, bottom, near, far float32) {
	m := mgl32.Ident4()
	m.Set(0, 0, 2/(right-left))
	m.Set(1, 1, 2/(bottom-top))
	m.Set(2, 2, 1/(far-near))
	m.Set(0, 3, -(right+left)/(right-left))
	m.Set(1, 3, -(bottom+top)/(bottom-top))
	m.Set(2, 3, -near/(far-near))
	c.projection = m
}

// SetPerspectiveProjection takes fovy in radians, aspect is width / height and must not be 0.
func (c *Camera) SetPerspectiveProjection(fovy, aspect, near, far float32) {
	if mgl32.Abs(aspect) <= mgl32.Epsilon {
		abort("SetPerspectiveProjection with aspect: %f", aspect)
	}
	tanHalf := float32(math.Tan(float64(fovy / 2)))
	var m mgl32.Mat4
	m.Set(0, 0, 1/(aspect*tanHalf))
	m.Set(1, 1, 1/tanHalf)
	m.Set(2, 2, far/(far-near))
	m.Set(3, 2, 1)
	m.Set(2, 3, -(far*near)/(far-near))
	c.projection = m
}

func (c *Camera) setBasis(position, u, v, w mgl32.Vec3) {
	view := mgl32.Ident4()
	view.SetRow(0, u.Vec4(-u.Dot(position)))
	view.SetRow(1, v.Vec4(-v.Dot(position)))
	view.SetRow(2, w.Vec4(-w.Dot(position)))
	c.view = view

	inverse := mgl32.Ident4()
	inverse.SetCol(0, u.Vec4(0))
	inverse.SetCol(1, v.Vec4(0))
	inverse.SetCol(2, w.Vec4(0))
	inverse.SetCol(3, position.Vec4(1))
	c.inverseView = inverse
}

// SetViewDirection looks from position along direction, up defaults to -Y when zero.
func (c *Camera) SetViewDirection(position, direction, up mgl32.Vec3) {
	if direction.Len() == 0 {
		abort("SetViewDirection with zero direction")
	}
	if up.Len() == 0 {
		up = mgl32.Vec3{0, -1, 0}
	}
	w := direction.Normalize()
	u := w.Cross(up).Normalize()
	v := w.Cross(u)
	c.setBasis(position, u, v, w)
}

func (c *Camera) SetViewTarget(position, target, up mgl32.Vec3) {
	if target.ApproxEqual(position) {
		abort("SetViewTarget with target equal to position: %v", position)
	}
	c.SetViewDirection(position, target.Sub(position), up)
}

// SetViewYXZ orients the camera with the same Tait-Bryan convention as Transform.
func (c *Camera) SetViewYXZ(position, rotation mgl32.Vec3) {
	c3 := float32(math.Cos(float64(rotation.Z())))
	s3 := float32(math.Sin(float64(rotation.Z())))
	c2 := float32(math.Cos(float64(rotation.X())))
	s2 := float32(math.Sin(float64(rotation.X())))
	c1 := float32(math.Cos(float64(rotation.Y())))
	s1 := float32(math.Sin(float64(rotation.Y())))
	u := mgl32.Vec3{c1*c3 + s1*s2*s3, c2 * s3, c1*s2*s3 - c3*s1}
	v := mgl32.Vec3{c3*s1*s2 - c1*s3, c2 * c3, c1*c3*s2 + s1*s3}
	w := mgl32.Vec3{c2 * s1, -s2, c1 * c2}
	c.setBasis(position, u, v, w)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) View() mgl32.Mat4 {
	return c.view
}

func (c *Camera) InverseView() mgl32.Mat4 {
	return c.inverseView
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.inverseView.Col(3).Vec3()
}

func (c *Camera) ProjectionView() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}
