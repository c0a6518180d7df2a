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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"goarrg.com/debug"

	"goarrg.com/rhi/vxp"
	"goarrg.com/rhi/vxp/scene"
	"goarrg.com/rhi/vxp/vkdevice"
	"goarrg.com/rhi/vxp/window"
)

var flags flag.FlagSet

func init() {
	// glfw and the vulkan surface must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	debug.SetLevel(debug.LogLevelWarn)

	flags.Usage = help
	flags.Init("", flag.ExitOnError)

	v := flags.Bool("v", false, "Verbose - Print high level tasks")
	vv := flags.Bool("vv", false, "Very Verbose - Print everything")

	width := flags.Int("width", 800, "Initial window width.")
	height := flags.Int("height", 600, "Initial window height.")
	frames := flags.Uint64("frames", 0, "Exit after this many submitted frames, 0 runs until the window is closed.")
	framesInFlight := flags.Int("frames-in-flight", int(vxp.DefaultConfig().MaxFramesInFlight),
		fmt.Sprintf("Number of frames the CPU may record ahead of the GPU, 1 to %d.", vxp.MaxFramesInFlight))
	validation := flags.Bool("debug", false, "Enable the Vulkan validation layer.")
	vsync := flags.Bool("vsync", true, "Present with FIFO, otherwise MAILBOX when available.")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		panic(err)
	}

	if *v {
		debug.SetLevel(debug.LogLevelInfo)
	} else if *vv {
		debug.SetLevel(debug.LogLevelVerbose)
	}

	if *framesInFlight < 1 || *framesInFlight > vxp.MaxFramesInFlight {
		debug.EPrintf("-frames-in-flight must be in [1, %d], got: %d", vxp.MaxFramesInFlight, *framesInFlight)
		help()
		os.Exit(2)
	}

	deviceConfig := vkdevice.DefaultConfig()
	deviceConfig.AppName = "vxpdemo"
	deviceConfig.Validation = *validation
	deviceConfig.VSync = *vsync

	config := vxp.DefaultConfig()
	config.MaxFramesInFlight = int32(*framesInFlight)

	if err := run(*width, *height, *frames, deviceConfig, config); err != nil {
		debug.EPrintf("%v", err)
		os.Exit(1)
	}
}

func run(width, height int, frames uint64, deviceConfig vkdevice.Config, config vxp.Config) error {
	if err := window.Init(); err != nil {
		return err
	}
	defer window.Terminate()

	w, err := window.New(width, height, "vxpdemo")
	if err != nil {
		return err
	}
	defer w.Destroy()

	device, err := vkdevice.New(w, deviceConfig)
	if err != nil {
		return err
	}
	defer device.Destroy()

	renderer, err := vxp.NewRenderer(device, w, config)
	if err != nil {
		return err
	}

	var ids scene.IDAllocator
	objects := newScene(&ids)
	viewer := scene.Transform{Translation: mgl32.Vec3{0, -1, -2.5}, Scale: mgl32.Vec3{1, 1, 1}}
	controller := scene.DefaultMovementController()
	camera := &scene.Camera{}

	loopErr := func() error {
		last := time.Now()
		for !w.ShouldClose() {
			w.PollEvents()

			now := time.Now()
			controller.MoveInPlaneXZ(w, now.Sub(last), &viewer)
			last = now

			camera.SetViewYXZ(viewer.Translation, viewer.Rotation)
			camera.SetPerspectiveProjection(mgl32.DegToRad(50), renderer.AspectRatio(), 0.1, 100)

			f, err := renderer.BeginFrame()
			if err != nil {
				return err
			}
			if f == nil {
				continue
			}

			draw(renderer, f, scene.NewFrameInfo(f, camera, objects))

			if err := renderer.EndFrame(); err != nil {
				return err
			}
			if frames > 0 && renderer.Stats().FramesSubmitted >= frames {
				return nil
			}
		}
		return nil
	}()

	stats := renderer.Stats()
	// Destroy waits for the GPU before tearing anything down
	if err := renderer.Destroy(); err != nil && loopErr == nil {
		loopErr = err
	}
	if b, err := json.Marshal(&stats); err == nil {
		debug.IPrintf("Stats: %s", b)
	}
	return loopErr
}

func newScene(ids *scene.IDAllocator) scene.Map {
	objects := scene.Map{}
	for i := 0; i < 5; i++ {
		o := scene.NewObject(ids)
		angle := float32(i) * 2 * math.Pi / 5
		o.Transform.Translation = mgl32.Vec3{float32(math.Cos(float64(angle))) * 2, 0, float32(math.Sin(float64(angle))) * 2}
		o.Transform.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
		o.Transform.Rotation = mgl32.Vec3{0, angle, 0}
		o.Color = mgl32.Vec3{0.2 * float32(i+1), 0.5, 1 - 0.2*float32(i)}
		objects.Add(o)
	}
	return objects
}

// draw clears the frame and records the per object push data a pipeline would consume.
func draw(renderer *vxp.Renderer, f *vxp.Frame, info scene.FrameInfo) {
	renderer.BeginRenderPass(f)
	projectionView := info.Camera.ProjectionView()
	for id, o := range info.Objects {
		// spin slowly at a constant rate regardless of frame time
		o.Transform.Rotation[1] += float32(info.FrameTime.Seconds()) * 0.5
		mvp := projectionView.Mul4(o.Transform.Mat4())
		debug.VPrintf("Frame %d object %d: mvp[0][0]=%f", info.FrameIndex, id, mvp.At(0, 0))
	}
	renderer.EndRenderPass(f)
}

func help() {
	fmt.Fprintf(os.Stderr, "vxpdemo opens a window and drives vxp.Renderer through a spinning scene.\n"+
		"\nResize or minimize the window to exercise swapchain recreation. Move with WASD, E and Q and look with the arrow keys.\n"+
		"\n")
	args := ""
	flags.VisitAll(func(f *flag.Flag) {
		n, u := flag.UnquoteUsage(f)
		if f.DefValue != "" {
			u += "\n\nDefaults to \"" + f.DefValue + "\"."
		}
		args += "\t-" + f.Name + " " + n + "\n\t\t" + strings.ReplaceAll(strings.TrimSpace(u), "\n", "\n\t\t") + "\n"
	})
	fmt.Fprintf(os.Stderr, "Usage:\n\t%s [arguments]\n\nArguments:\n%s", filepath.Base(os.Args[0]), args)
}
