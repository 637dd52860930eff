// Command gen drives the GUI bridge through every widget with sample data,
// replays each frame into an offscreen framebuffer and saves JPEG
// screenshots to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/backend/opengl"
	"github.com/go-theft-auto/imbridge/imui"
	"github.com/go-theft-auto/imbridge/inspect"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single widget screenshot to capture.
type screenshot struct {
	name   string                          // filename without extension
	width  int                             // framebuffer width
	height int                             // framebuffer height
	draw   func(ui *imbridge.GuiSubsystem) // widget drawing function
	frames int                             // extra frames to render (0 = default 2)
}

// offscreenViewport pins the display size to the screenshot and hides the
// real cursor, so hover highlights never leak into a capture.
type offscreenViewport struct {
	*opengl.Viewport
	size imbridge.Vec2
}

// Size returns the capture size.
func (v offscreenViewport) Size() imbridge.Vec2 { return v.size }

// FramebufferScale is always 1 offscreen.
func (v offscreenViewport) FramebufferScale() imbridge.Vec2 { return imbridge.Vec2{X: 1, Y: 1} }

// MousePos keeps the cursor off every widget.
func (v offscreenViewport) MousePos() imbridge.Vec2 { return imbridge.Vec2{X: -1, Y: -1} }

// MouseDown is always false.
func (v offscreenViewport) MouseDown(int) bool { return false }

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(800, 600, "screenshot-gen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	// The context is current on this thread, so replay work is drained here.
	dev := opengl.NewDevice(imbridge.Logger())
	if err := dev.Init(); err != nil {
		return fmt.Errorf("gui device: %w", err)
	}
	defer dev.Delete()

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	vp := opengl.NewViewport(window, imbridge.FeatureLevelSM5)
	shots := buildScreenshots()

	for _, s := range shots {
		if err := capture(vp, dev, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, s.width, s.height)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

// newFramebuffer creates an RGBA8 color-only framebuffer object.
func newFramebuffer(w, h int) (fbo, tex uint32, err error) {
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return 0, 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fbo, tex, nil
}

func capture(base *opengl.Viewport, dev *opengl.Device, s screenshot, outDir string) error {
	fbo, tex, err := newFramebuffer(s.width, s.height)
	if err != nil {
		return err
	}
	defer gl.DeleteTextures(1, &tex)
	defer gl.DeleteFramebuffers(1, &fbo)

	base.SetRenderTarget(opengl.Framebuffer(fbo))
	defer base.SetRenderTarget(opengl.DefaultFramebuffer)
	vp := offscreenViewport{Viewport: base, size: imbridge.Vec2{X: float32(s.width), Y: float32(s.height)}}

	// Fresh bridge per screenshot to avoid state leaking between captures.
	queue := imbridge.NewQueue()
	ui := imbridge.New(imui.NewContext(), queue, dev)
	if err := ui.Initialize(vp); err != nil {
		return err
	}
	defer func() {
		ui.Shutdown(vp)
		queue.Drain()
	}()

	frames := 2
	if s.frames > 0 {
		frames = s.frames
	}

	for i := 0; i < frames; i++ {
		if i > 0 {
			vp.BeginFrame()
		}
		queue.Enqueue(func() {
			gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
			gl.Viewport(0, 0, int32(s.width), int32(s.height))
			gl.ClearColor(0.12, 0.12, 0.14, 1.0)
			gl.Clear(gl.COLOR_BUFFER_BIT)
		})
		s.draw(ui)
		vp.Rendered()
		queue.Drain()
	}

	// Read pixels
	pixels := make([]byte, s.width*s.height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	// Flip vertically (OpenGL origin is bottom-left)
	rowLen := s.width * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < s.height/2; y++ {
		top := y * rowLen
		bot := (s.height - 1 - y) * rowLen
		copy(tmp, pixels[top:top+rowLen])
		copy(pixels[top:top+rowLen], pixels[bot:bot+rowLen])
		copy(pixels[bot:bot+rowLen], tmp)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, pixels)

	path := filepath.Join(outDir, s.name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

// Quality is an enum for the property editor screenshot.
type Quality int

// EnumSymbols lists the quality presets.
func (Quality) EnumSymbols() []inspect.EnumSymbol {
	return []inspect.EnumSymbol{{Name: "Low", Value: 0}, {Name: "High", Value: 1}, {Name: "Ultra", Value: 2}}
}

type Audio struct {
	Master float32 `inspect:"Volume"`
	Music  float32 `inspect:"Volume"`
	Muted  bool    `inspect:"Volume"`
}

type Settings struct {
	Player   string     `inspect:"Profile"`
	Quality  Quality    `inspect:"Graphics"`
	Gamma    float32    `inspect:"Graphics"`
	Tint     [4]float32 `inspect:"Graphics"`
	Seed     int32      `inspect:"World,defaultsonly"`
	Audio    *Audio
	OnChange func() `inspect:"-"`
}

// DisplayName titles the editor window.
func (s *Settings) DisplayName() string { return "Settings" }

func sampleSettings() *Settings {
	return &Settings{
		Player:  "Tommy",
		Quality: 1,
		Gamma:   2.2,
		Tint:    [4]float32{1, 1, 1, 1},
		Seed:    1986,
		Audio:   &Audio{Master: 0.8, Music: 0.5},
	}
}

// window wraps draw in a named window, calling End even when Begin
// reports the window collapsed.
func window(ui *imbridge.GuiSubsystem, name string, draw func()) {
	if ui.Begin(name, nil) {
		draw()
	}
	ui.End()
}

// buildScreenshots returns the list of all widget screenshots to generate.
func buildScreenshots() []screenshot {
	// Shared state for widgets that need pointers.
	var (
		checked     = true
		unchecked   = false
		inputText   = "Hello, world!"
		numFloat    = float32(3.14)
		vec         = [3]float32{1, 2.5, -4}
		sliderFloat = float32(0.65)
		sliderInt   = int32(7)
		sliderVec   = [3]int32{1, 5, 9}
		color       = [4]float32{0.95, 0.75, 0.1, 1}
		comboIdx    = 1
		settings    = sampleSettings()
	)
	comboItems := []string{"Low", "Medium", "High", "Ultra"}

	return []screenshot{
		{
			name: "text", width: 400, height: 160,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Text", func() {
					ui.Text("Plain text")
					ui.Separator()
					ui.Indent()
					ui.Text("Indented text")
					ui.Unindent()
				})
			},
		},
		{
			name: "button", width: 400, height: 140,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Buttons", func() {
					ui.Button("Standard Button")
					switch ui.ButtonBranched("Branched Button") {
					case imbridge.Clicked:
						ui.Text("clicked")
					case imbridge.NotClicked:
					}
				})
			},
		},
		{
			name: "checkbox", width: 300, height: 120,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Checkboxes", func() {
					ui.Checkbox("Enabled feature", &checked)
					ui.Checkbox("Disabled feature", &unchecked)
				})
			},
		},
		{
			name: "input_text", width: 400, height: 100,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Input", func() {
					ui.InputString("Name", &inputText, nil)
				})
			},
		},
		{
			name: "input_float", width: 450, height: 120,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Numbers", func() {
					ui.InputFloat("Float", &numFloat)
					ui.InputVector("Vector", &vec)
				})
			},
		},
		{
			name: "slider", width: 450, height: 160,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Sliders", func() {
					ui.SliderFloat("Volume", &sliderFloat, 0, 1)
					ui.SliderInt("Level", &sliderInt, 0, 10)
					ui.SliderIntVector("Grid", &sliderVec, 0, 10)
				})
			},
		},
		{
			name: "color_edit", width: 450, height: 100,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Color", func() {
					ui.ColorEdit("Tint", &color)
				})
			},
		},
		{
			name: "combobox", width: 400, height: 220, frames: 3,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Combo", func() {
					if ui.BeginCombo("Quality", comboItems[comboIdx]) {
						for i, item := range comboItems {
							if ui.Selectable(item, i == comboIdx) {
								comboIdx = i
							}
						}
						ui.EndCombo()
					}
				})
			},
		},
		{
			name: "collapsing_header", width: 400, height: 180,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Headers", func() {
					if ui.CollapsingHeader("Open section", true) {
						ui.Text("Section content")
					}
					ui.CollapsingHeader("Closed section", false)
				})
			},
		},
		{
			name: "table", width: 500, height: 200, frames: 3,
			draw: func(ui *imbridge.GuiSubsystem) {
				window(ui, "Table", func() {
					rows := [][2]string{{"Name", "Infernus"}, {"Speed", "240"}, {"Color", "Yellow"}}
					if ui.BeginTable("props", 2) {
						for _, r := range rows {
							ui.TableNextRow()
							ui.TableSetColumnIndex(0)
							ui.Text(r[0])
							ui.TableSetColumnIndex(1)
							ui.Text(r[1])
						}
						ui.EndTable()
					}
				})
			},
		},
		{
			name: "property_editor", width: 500, height: 420, frames: 3,
			draw: func(ui *imbridge.GuiSubsystem) {
				ui.EditObject(settings, true)
			},
		},
		{
			name: "demo_window", width: 640, height: 560, frames: 3,
			draw: func(ui *imbridge.GuiSubsystem) {
				ui.ShowDemoWindow()
			},
		},
	}
}
