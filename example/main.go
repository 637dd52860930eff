// Example runs the GUI bridge in a GLFW window with an OpenGL renderer.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// The main goroutine is the game thread: it polls GLFW, issues widget calls
// and captures each GUI frame. The GL context lives on a separate render
// thread, which replays the captured frames and swaps buffers.
//
// Flags:
//
//	-verbose   log per-frame detail
//	-show      start with the GUI visible (F1 toggles)
//	-font      TTF/OTF file for the GUI font
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/backend/opengl"
	"github.com/go-theft-auto/imbridge/imui"
	"github.com/go-theft-auto/imbridge/inspect"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	windowTitle  = "imbridge example"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

// Weather is an enum edited through a combo box.
type Weather int

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherFog
)

// EnumSymbols lists the weather states.
func (Weather) EnumSymbols() []inspect.EnumSymbol {
	return []inspect.EnumSymbol{
		{Name: "Clear", Value: int64(WeatherClear)},
		{Name: "Rain", Value: int64(WeatherRain)},
		{Name: "Fog", Value: int64(WeatherFog)},
	}
}

type Engine struct {
	Power  float32 `inspect:"Handling"`
	Gears  int32   `inspect:"Handling"`
	Turbo  bool    `inspect:"Handling"`
	Serial string  `inspect:"Info,defaultsonly"`
}

type Vehicle struct {
	Name    string     `inspect:"Info"`
	Color   [4]float32 `inspect:"Look"`
	Scale   [3]float32 `inspect:"Look"`
	Speed   float32    `inspect:"Handling"`
	Weather Weather    `inspect:"World"`
	Engine  *Engine
	OnCrash func() `inspect:"-"`
}

// DisplayName titles the editor window with the vehicle name.
func (v *Vehicle) DisplayName() string { return "Vehicle: " + v.Name }

func main() {
	verboseFlag := flag.Bool("verbose", false, "log per-frame detail")
	showFlag := flag.Bool("show", true, "start with the GUI visible")
	fontFlag := flag.String("font", "", "TTF/OTF font file for the GUI")
	flag.Parse()

	imbridge.SetVerbose(*verboseFlag)

	if err := run(*showFlag, *fontFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(show bool, fontFile string) error {
	logger := imbridge.Logger()

	// Initialize GLFW.
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	// The context is made current on the render thread, never here.
	dev := opengl.NewDevice(logger)
	initErr := make(chan error, 1)
	rt := imbridge.NewRenderThread(0, func() {
		window.MakeContextCurrent()
		glfw.SwapInterval(1) // vsync
		if err := gl.Init(); err != nil {
			initErr <- fmt.Errorf("gl init: %w", err)
			return
		}
		initErr <- dev.Init()
	}, logger)
	if err := <-initErr; err != nil {
		rt.Close()
		return err
	}

	vp := opengl.NewViewport(window, imbridge.FeatureLevelSM5)

	uiOpts := []imui.Option{imui.WithLogger(logger), imui.WithClipboard(vp)}
	if fontFile != "" {
		uiOpts = append(uiOpts, imui.WithFontFile(fontFile))
	}
	bridge := imbridge.New(imui.NewContext(uiOpts...), rt, dev,
		imbridge.WithLogger(logger),
		imbridge.WithShowUI(show),
	)
	if err := bridge.Initialize(vp); err != nil {
		rt.Close()
		return fmt.Errorf("gui init: %w", err)
	}

	// Application state.
	vehicle := &Vehicle{
		Name:   "Infernus",
		Color:  [4]float32{0.9, 0.8, 0.1, 1},
		Scale:  [3]float32{1, 1, 1},
		Speed:  120,
		Engine: &Engine{Power: 450, Gears: 6, Serial: "V12-0042"},
	}
	showDemo, clickCount := true, 0

	vp.OnKey(func(ev imbridge.KeyEvent) {
		if ev.Key == imbridge.KeyF1 && ev.Action == imbridge.KeyPressed {
			logger.Info("GUI toggled", "show", bridge.ToggleShowUI())
		}
	})

	// Main loop.
	for !window.ShouldClose() {
		glfw.PollEvents()
		vp.BeginFrame()

		if showDemo {
			bridge.ShowDemoWindow()
		}
		if bridge.Begin("Example", nil) {
			bridge.Text("Hello from imbridge!")
			if bridge.Button(fmt.Sprintf("Click me (%d)", clickCount)) {
				clickCount++
			}
			bridge.Checkbox("Demo window", &showDemo)
			bridge.SliderFloat("Speed", &vehicle.Speed, 0, 300)
		}
		bridge.End()
		bridge.EditObject(vehicle, true)

		fbw, fbh := window.GetFramebufferSize()
		rt.Enqueue(func() {
			gl.Viewport(0, 0, int32(fbw), int32(fbh))
			gl.ClearColor(0.12, 0.12, 0.14, 1.0)
			gl.Clear(gl.COLOR_BUFFER_BIT)
		})

		// Capture and dispatch the GUI frame, then present.
		vp.Rendered()
		rt.Enqueue(window.SwapBuffers)
	}

	vp.Close()
	rt.Enqueue(dev.Delete)
	rt.Close()

	stats := bridge.Stats()
	logger.Info("exiting",
		slog.Uint64("captured", stats.FramesCaptured),
		slog.Uint64("dispatched", stats.FramesDispatched),
		slog.Uint64("hidden", stats.FramesHidden))
	return nil
}
