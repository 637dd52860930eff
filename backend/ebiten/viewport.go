package ebiten

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/go-theft-auto/imbridge"
)

// Key repeat timing in ticks, matching ebiten's own text input examples.
const (
	repeatDelay    = 30
	repeatInterval = 3
)

// Viewport adapts the ebiten window to imbridge.Viewport. Input is polled
// once per Update tick and delivered on the next Draw.
type Viewport struct {
	level imbridge.FeatureLevel

	mu             sync.Mutex
	width, height  int
	wheelX, wheelY float32
	pending        []imbridge.KeyEvent
	closed         bool

	keyBuf  []ebiten.Key
	charBuf []rune

	beginFrame imbridge.CallbackSet[func()]
	rendered   imbridge.CallbackSet[func()]
	keys       imbridge.CallbackSet[func(imbridge.KeyEvent)]
	closeFns   imbridge.CallbackSet[func()]
}

var _ imbridge.Viewport = (*Viewport)(nil)

// NewViewport creates a viewport reporting level.
func NewViewport(level imbridge.FeatureLevel) *Viewport {
	return &Viewport{level: level}
}

// poll collects this tick's key transitions, characters and wheel movement.
func (v *Viewport) poll() {
	var events []imbridge.KeyEvent

	v.keyBuf = inpututil.AppendJustPressedKeys(v.keyBuf[:0])
	for _, k := range v.keyBuf {
		if key := ebitenKeyToKey(k); key != imbridge.KeyNone {
			events = append(events, imbridge.KeyEvent{Key: key, Action: imbridge.KeyPressed})
		}
	}
	v.keyBuf = inpututil.AppendPressedKeys(v.keyBuf[:0])
	for _, k := range v.keyBuf {
		d := inpututil.KeyPressDuration(k)
		if d <= repeatDelay || (d-repeatDelay)%repeatInterval != 0 {
			continue
		}
		if key := ebitenKeyToKey(k); key != imbridge.KeyNone {
			events = append(events, imbridge.KeyEvent{Key: key, Action: imbridge.KeyRepeat})
		}
	}
	v.keyBuf = inpututil.AppendJustReleasedKeys(v.keyBuf[:0])
	for _, k := range v.keyBuf {
		if key := ebitenKeyToKey(k); key != imbridge.KeyNone {
			events = append(events, imbridge.KeyEvent{Key: key, Action: imbridge.KeyReleased})
		}
	}
	v.charBuf = ebiten.AppendInputChars(v.charBuf[:0])
	for _, r := range v.charBuf {
		events = append(events, imbridge.KeyEvent{Action: imbridge.KeyPressed, Char: r})
	}

	wx, wy := ebiten.Wheel()

	v.mu.Lock()
	v.pending = append(v.pending, events...)
	v.wheelX += float32(wx)
	v.wheelY += float32(wy)
	v.mu.Unlock()
}

// flush delivers the key events collected since the last Draw.
func (v *Viewport) flush() {
	v.mu.Lock()
	events := v.pending
	v.pending = nil
	v.mu.Unlock()

	for _, ev := range events {
		v.keys.Each(func(fn func(imbridge.KeyEvent)) { fn(ev) })
	}
}

func (v *Viewport) setSize(w, h int) {
	v.mu.Lock()
	v.width, v.height = w, h
	v.mu.Unlock()
}

// BeginFrame raises the begin-frame notification.
func (v *Viewport) BeginFrame() { v.beginFrame.Each(func(fn func()) { fn() }) }

// Rendered raises the rendered notification.
func (v *Viewport) Rendered() { v.rendered.Each(func(fn func()) { fn() }) }

// Close raises the close notification once.
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

// Valid reports whether the viewport is open and has a size.
func (v *Viewport) Valid() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed && v.width > 0 && v.height > 0
}

// Size returns the screen size from the last Layout.
func (v *Viewport) Size() imbridge.Vec2 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return imbridge.Vec2{X: float32(v.width), Y: float32(v.height)}
}

// FramebufferScale is 1: Layout hands ebiten the outside size unchanged.
func (v *Viewport) FramebufferScale() imbridge.Vec2 { return imbridge.Vec2{X: 1, Y: 1} }

// MousePos returns the cursor position.
func (v *Viewport) MousePos() imbridge.Vec2 {
	x, y := ebiten.CursorPosition()
	return imbridge.Vec2{X: float32(x), Y: float32(y)}
}

// MouseDown reports whether mouse button 0, 1 or 2 is held.
func (v *Viewport) MouseDown(button int) bool {
	switch button {
	case 0:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	case 1:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	case 2:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	}
	return false
}

// Modifiers returns the held modifier keys.
func (v *Viewport) Modifiers() imbridge.Modifiers {
	return imbridge.Modifiers{
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Super: ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

// WheelDelta returns the wheel movement since the last call.
func (v *Viewport) WheelDelta() (float32, float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	x, y := v.wheelX, v.wheelY
	v.wheelX, v.wheelY = 0, 0
	return x, y
}

// FeatureLevel returns the level given to NewViewport.
func (v *Viewport) FeatureLevel() imbridge.FeatureLevel { return v.level }

// RenderTarget returns Screen.
func (v *Viewport) RenderTarget() imbridge.RenderTarget { return Screen }

// OnBeginFrame subscribes fn to the start of each frame.
func (v *Viewport) OnBeginFrame(fn func()) imbridge.Subscription { return v.beginFrame.Add(fn) }

// OnRendered subscribes fn to the end of each frame.
func (v *Viewport) OnRendered(fn func()) imbridge.Subscription { return v.rendered.Add(fn) }

// OnKey subscribes fn to key and character events.
func (v *Viewport) OnKey(fn func(imbridge.KeyEvent)) imbridge.Subscription {
	return v.keys.Add(fn)
}

// OnClose subscribes fn to the window closing.
func (v *Viewport) OnClose(fn func()) imbridge.Subscription { return v.closeFns.Add(fn) }

var ebitenKeys = map[ebiten.Key]imbridge.Key{
	ebiten.KeyTab:         imbridge.KeyTab,
	ebiten.KeyArrowLeft:   imbridge.KeyLeft,
	ebiten.KeyArrowRight:  imbridge.KeyRight,
	ebiten.KeyArrowUp:     imbridge.KeyUp,
	ebiten.KeyArrowDown:   imbridge.KeyDown,
	ebiten.KeyPageUp:      imbridge.KeyPageUp,
	ebiten.KeyPageDown:    imbridge.KeyPageDown,
	ebiten.KeyHome:        imbridge.KeyHome,
	ebiten.KeyEnd:         imbridge.KeyEnd,
	ebiten.KeyInsert:      imbridge.KeyInsert,
	ebiten.KeyDelete:      imbridge.KeyDelete,
	ebiten.KeyBackspace:   imbridge.KeyBackspace,
	ebiten.KeySpace:       imbridge.KeySpace,
	ebiten.KeyEnter:       imbridge.KeyEnter,
	ebiten.KeyEscape:      imbridge.KeyEscape,
	ebiten.KeyNumpadEnter: imbridge.KeyKeypadEnter,
	ebiten.KeyA:           imbridge.KeyA,
	ebiten.KeyC:           imbridge.KeyC,
	ebiten.KeyV:           imbridge.KeyV,
	ebiten.KeyX:           imbridge.KeyX,
	ebiten.KeyY:           imbridge.KeyY,
	ebiten.KeyZ:           imbridge.KeyZ,
	ebiten.KeyF1:          imbridge.KeyF1,
	ebiten.KeyF2:          imbridge.KeyF2,
	ebiten.KeyF3:          imbridge.KeyF3,
	ebiten.KeyF4:          imbridge.KeyF4,
	ebiten.KeyF5:          imbridge.KeyF5,
	ebiten.KeyF6:          imbridge.KeyF6,
	ebiten.KeyF7:          imbridge.KeyF7,
	ebiten.KeyF8:          imbridge.KeyF8,
	ebiten.KeyF9:          imbridge.KeyF9,
	ebiten.KeyF10:         imbridge.KeyF10,
	ebiten.KeyF11:         imbridge.KeyF11,
	ebiten.KeyF12:         imbridge.KeyF12,
}

func ebitenKeyToKey(k ebiten.Key) imbridge.Key {
	if key, ok := ebitenKeys[k]; ok {
		return key
	}
	return imbridge.KeyNone
}
