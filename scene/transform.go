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

import "github.com/go-gl/mathgl/mgl32"

/*
Transform places an object in world space. Rotation is in radians using Tait-Bryan angles applied
in Y, X, Z order (yaw, pitch, roll).
*/
type Transform struct {
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
	Rotation    mgl32.Vec3
}

func (t *Transform) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(t.Rotation.Y()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
}

// Mat4 returns translation * Ry * Rx * Rz * scale.
func (t *Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.rotation()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// NormalMatrix returns the matrix normals are transformed with, scale must not have a 0 component.
func (t *Transform) NormalMatrix() mgl32.Mat3 {
	if t.Scale.X() == 0 || t.Scale.Y() == 0 || t.Scale.Z() == 0 {
		abort("NormalMatrix with degenerate scale: %v", t.Scale)
	}
	return t.rotation().
		Mul4(mgl32.Scale3D(1/t.Scale.X(), 1/t.Scale.Y(), 1/t.Scale.Z())).
		Mat3()
}
