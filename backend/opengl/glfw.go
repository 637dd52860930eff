package opengl

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/imbridge"
)

// Viewport adapts a GLFW window to imbridge.Viewport. GLFW callbacks run on
// the main thread, which is also the game thread.
//
// The host loop drives it:
//
//	for !win.ShouldClose() {
//	    glfw.PollEvents()
//	    vp.BeginFrame()
//	    // game code and widgets
//	    vp.Rendered()
//	}
type Viewport struct {
	window *glfw.Window
	level  imbridge.FeatureLevel
	target Framebuffer

	mu             sync.Mutex
	wheelX, wheelY float32
	closed         bool

	beginFrame imbridge.CallbackSet[func()]
	rendered   imbridge.CallbackSet[func()]
	keys       imbridge.CallbackSet[func(imbridge.KeyEvent)]
	closeFns   imbridge.CallbackSet[func()]
}

var _ imbridge.Viewport = (*Viewport)(nil)

// NewViewport installs input callbacks on window. level selects the shader
// family the Device compiles for this window.
func NewViewport(window *glfw.Window, level imbridge.FeatureLevel) *Viewport {
	v := &Viewport{window: window, level: level, target: DefaultFramebuffer}

	window.SetKeyCallback(v.keyCallback)
	window.SetCharCallback(v.charCallback)
	window.SetScrollCallback(v.scrollCallback)
	window.SetCloseCallback(func(*glfw.Window) { v.Close() })
	return v
}

// SetRenderTarget redirects replay into an offscreen framebuffer.
func (v *Viewport) SetRenderTarget(fb Framebuffer) { v.target = fb }

// BeginFrame raises the begin-frame notification.
func (v *Viewport) BeginFrame() {
	v.beginFrame.Each(func(fn func()) { fn() })
}

// Rendered raises the rendered notification. Call it after the game's own
// draw work has been submitted so the GUI lands on top.
func (v *Viewport) Rendered() {
	v.rendered.Each(func(fn func()) { fn() })
}

// Close raises the close notification once. Later calls do nothing.
func (v *Viewport) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()
	v.closeFns.Each(func(fn func()) { fn() })
}

// Valid reports whether the window is open and not minimized.
func (v *Viewport) Valid() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.window != nil && !v.closed
}

// Size returns the window size in screen coordinates.
func (v *Viewport) Size() imbridge.Vec2 {
	w, h := v.window.GetSize()
	return imbridge.Vec2{X: float32(w), Y: float32(h)}
}

// FramebufferScale is the ratio of framebuffer pixels to window units.
func (v *Viewport) FramebufferScale() imbridge.Vec2 {
	w, h := v.window.GetSize()
	fw, fh := v.window.GetFramebufferSize()
	if w == 0 || h == 0 {
		return imbridge.Vec2{X: 1, Y: 1}
	}
	return imbridge.Vec2{X: float32(fw) / float32(w), Y: float32(fh) / float32(h)}
}

// MousePos returns the cursor position.
func (v *Viewport) MousePos() imbridge.Vec2 {
	x, y := v.window.GetCursorPos()
	return imbridge.Vec2{X: float32(x), Y: float32(y)}
}

// MouseDown reports whether mouse button 0, 1 or 2 is held.
func (v *Viewport) MouseDown(button int) bool {
	b, ok := guiMouseButtonToGLFW(button)
	return ok && v.window.GetMouseButton(b) == glfw.Press
}

// Modifiers returns the held modifier keys.
func (v *Viewport) Modifiers() imbridge.Modifiers {
	down := func(l, r glfw.Key) bool {
		return v.window.GetKey(l) == glfw.Press || v.window.GetKey(r) == glfw.Press
	}
	return imbridge.Modifiers{
		Ctrl:  down(glfw.KeyLeftControl, glfw.KeyRightControl),
		Shift: down(glfw.KeyLeftShift, glfw.KeyRightShift),
		Alt:   down(glfw.KeyLeftAlt, glfw.KeyRightAlt),
		Super: down(glfw.KeyLeftSuper, glfw.KeyRightSuper),
	}
}

// WheelDelta returns the scroll accumulated since the last call.
func (v *Viewport) WheelDelta() (float32, float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	x, y := v.wheelX, v.wheelY
	v.wheelX, v.wheelY = 0, 0
	return x, y
}

// FeatureLevel returns the level given to NewViewport.
func (v *Viewport) FeatureLevel() imbridge.FeatureLevel { return v.level }

// RenderTarget returns the framebuffer set by SetRenderTarget.
func (v *Viewport) RenderTarget() imbridge.RenderTarget { return v.target }

// OnBeginFrame subscribes fn to BeginFrame.
func (v *Viewport) OnBeginFrame(fn func()) imbridge.Subscription { return v.beginFrame.Add(fn) }

// OnRendered subscribes fn to Rendered.
func (v *Viewport) OnRendered(fn func()) imbridge.Subscription { return v.rendered.Add(fn) }

// OnKey subscribes fn to key and character events.
func (v *Viewport) OnKey(fn func(imbridge.KeyEvent)) imbridge.Subscription {
	return v.keys.Add(fn)
}

// OnClose subscribes fn to Close.
func (v *Viewport) OnClose(fn func()) imbridge.Subscription { return v.closeFns.Add(fn) }

// GetText and SetText expose the system clipboard to text fields.
func (v *Viewport) GetText() string { return glfw.GetClipboardString() }

// SetText writes the system clipboard.
func (v *Viewport) SetText(s string) { glfw.SetClipboardString(s) }

func (v *Viewport) emit(ev imbridge.KeyEvent) {
	v.keys.Each(func(fn func(imbridge.KeyEvent)) { fn(ev) })
}

func (v *Viewport) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKeyToKey(key)
	if k == imbridge.KeyNone {
		return
	}
	ev := imbridge.KeyEvent{Key: k}
	switch action {
	case glfw.Press:
		ev.Action = imbridge.KeyPressed
	case glfw.Repeat:
		ev.Action = imbridge.KeyRepeat
	case glfw.Release:
		ev.Action = imbridge.KeyReleased
	}
	v.emit(ev)
}

// charCallback raises a character-only event; GLFW reports translated text
// separately from key transitions.
func (v *Viewport) charCallback(w *glfw.Window, char rune) {
	v.emit(imbridge.KeyEvent{Action: imbridge.KeyPressed, Char: char})
}

func (v *Viewport) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	v.mu.Lock()
	v.wheelX += float32(xoff)
	v.wheelY += float32(yoff)
	v.mu.Unlock()
}

var glfwKeys = map[glfw.Key]imbridge.Key{
	glfw.KeyTab:       imbridge.KeyTab,
	glfw.KeyLeft:      imbridge.KeyLeft,
	glfw.KeyRight:     imbridge.KeyRight,
	glfw.KeyUp:        imbridge.KeyUp,
	glfw.KeyDown:      imbridge.KeyDown,
	glfw.KeyPageUp:    imbridge.KeyPageUp,
	glfw.KeyPageDown:  imbridge.KeyPageDown,
	glfw.KeyHome:      imbridge.KeyHome,
	glfw.KeyEnd:       imbridge.KeyEnd,
	glfw.KeyInsert:    imbridge.KeyInsert,
	glfw.KeyDelete:    imbridge.KeyDelete,
	glfw.KeyBackspace: imbridge.KeyBackspace,
	glfw.KeySpace:     imbridge.KeySpace,
	glfw.KeyEnter:     imbridge.KeyEnter,
	glfw.KeyEscape:    imbridge.KeyEscape,
	glfw.KeyKPEnter:   imbridge.KeyKeypadEnter,
	glfw.KeyA:         imbridge.KeyA,
	glfw.KeyC:         imbridge.KeyC,
	glfw.KeyV:         imbridge.KeyV,
	glfw.KeyX:         imbridge.KeyX,
	glfw.KeyY:         imbridge.KeyY,
	glfw.KeyZ:         imbridge.KeyZ,
	glfw.KeyF1:        imbridge.KeyF1,
	glfw.KeyF2:        imbridge.KeyF2,
	glfw.KeyF3:        imbridge.KeyF3,
	glfw.KeyF4:        imbridge.KeyF4,
	glfw.KeyF5:        imbridge.KeyF5,
	glfw.KeyF6:        imbridge.KeyF6,
	glfw.KeyF7:        imbridge.KeyF7,
	glfw.KeyF8:        imbridge.KeyF8,
	glfw.KeyF9:        imbridge.KeyF9,
	glfw.KeyF10:       imbridge.KeyF10,
	glfw.KeyF11:       imbridge.KeyF11,
	glfw.KeyF12:       imbridge.KeyF12,
}

// glfwKeyToKey maps GLFW keys to bridge keys.
func glfwKeyToKey(key glfw.Key) imbridge.Key {
	if k, ok := glfwKeys[key]; ok {
		return k
	}
	return imbridge.KeyNone
}

func guiMouseButtonToGLFW(button int) (glfw.MouseButton, bool) {
	switch button {
	case 0:
		return glfw.MouseButtonLeft, true
	case 1:
		return glfw.MouseButtonRight, true
	case 2:
		return glfw.MouseButtonMiddle, true
	}
	return 0, false
}
