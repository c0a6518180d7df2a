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
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type Action uint32

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionMoveForward
	ActionMoveBackward
	ActionMoveUp
	ActionMoveDown
	ActionLookLeft
	ActionLookRight
	ActionLookUp
	ActionLookDown
)

// Input reports which actions are currently held.
type Input interface {
	Active(a Action) bool
}

// MovementController moves a transform like a first person camera, walking in the XZ plane.
type MovementController struct {
	MoveSpeed float32
	LookSpeed float32
}

func DefaultMovementController() MovementController {
	return MovementController{MoveSpeed: 3, LookSpeed: 1.5}
}

func axis(input Input, positive, negative Action) float32 {
	var v float32
	if input.Active(positive) {
		v++
	}
	if input.Active(negative) {
		v--
	}
	return v
}

func (c *MovementController) MoveInPlaneXZ(input Input, dt time.Duration, t *Transform) {
	seconds := float32(dt.Seconds())

	rotate := mgl32.Vec3{
		axis(input, ActionLookUp, ActionLookDown),
		axis(input, ActionLookRight, ActionLookLeft),
		0,
	}
	if rotate.Dot(rotate) > mgl32.Epsilon {
		t.Rotation = t.Rotation.Add(rotate.Normalize().Mul(c.LookSpeed * seconds))
	}

	// pitch is clamped short of straight up or down so the view basis never degenerates
	t.Rotation[0] = mgl32.Clamp(t.Rotation[0], -1.5, 1.5)
	t.Rotation[1] = float32(math.Mod(float64(t.Rotation[1]), 2*math.Pi))

	yaw := float64(t.Rotation.Y())
	forward := mgl32.Vec3{float32(math.Sin(yaw)), 0, float32(math.Cos(yaw))}
	right := mgl32.Vec3{forward.Z(), 0, -forward.X()}
	up := mgl32.Vec3{0, -1, 0}

	move := forward.Mul(axis(input, ActionMoveForward, ActionMoveBackward)).
		Add(right.Mul(axis(input, ActionMoveRight, ActionMoveLeft))).
		Add(up.Mul(axis(input, ActionMoveUp, ActionMoveDown)))
	if move.Dot(move) > mgl32.Epsilon {
		t.Translation = t.Translation.Add(move.Normalize().Mul(c.MoveSpeed * seconds))
	}
}
