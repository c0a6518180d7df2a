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

/*
Package scene holds the per frame payload draw code works with: objects with stable identities,
their transforms, the camera and the FrameInfo bundle handed out every frame.
*/
package scene

import (
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"goarrg.com"
	"goarrg.com/debug"

	"goarrg.com/rhi/vxp"
)

type platform struct{}

func (platform) Abort()                           { panic("Fatal Error") }
func (platform) AbortPopup(f string, args ...any) { panic("Fatal Error") }

var instance = struct {
	platform goarrg.PlatformInterface
	logger   *debug.Logger
}{
	platform: platform{},
	logger:   debug.NewLogger("vxp", "scene"),
}

// Init installs the platform used to report misuse such as a duplicate object. The default platform panics.
func Init(platform goarrg.PlatformInterface) {
	instance.platform = platform
}

func SetLogLevel(l uint32) {
	instance.logger.SetLevel(l)
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	instance.platform.Abort()
}

type ID uint32

// IDAllocator hands out increasing object IDs starting at 0, it is safe for concurrent use.
type IDAllocator struct {
	next atomic.Uint32
}

func (a *IDAllocator) Next() ID {
	return ID(a.next.Add(1) - 1)
}

// Reset makes the allocator start over at 0, objects created before keep their IDs.
func (a *IDAllocator) Reset() {
	a.next.Store(0)
}

type Object struct {
	id        ID
	Transform Transform
	Color     mgl32.Vec3
	// Model is whatever the draw code needs to render the object, nil for objects that are not drawn.
	Model any
}

func NewObject(ids *IDAllocator) *Object {
	return &Object{
		id:        ids.Next(),
		Transform: Transform{Scale: mgl32.Vec3{1, 1, 1}},
	}
}

func (o *Object) ID() ID {
	return o.id
}

type Map map[ID]*Object

func (m Map) Add(o *Object) {
	if _, ok := m[o.id]; ok {
		abort("Object %d already in map", o.id)
	}
	m[o.id] = o
}

// FrameInfo is everything draw code gets for one frame.
type FrameInfo struct {
	FrameIndex    int
	FrameTime     time.Duration
	CommandBuffer vxp.CommandBuffer
	Camera        *Camera
	Objects       Map
}

func NewFrameInfo(f *vxp.Frame, camera *Camera, objects Map) FrameInfo {
	return FrameInfo{
		FrameIndex:    f.Index(),
		FrameTime:     f.DeltaTime(),
		CommandBuffer: f.CommandBuffer(),
		Camera:        camera,
		Objects:       objects,
	}
}
