package imui

import "github.com/go-theft-auto/imbridge"

// Vec2 is shared with the bridge so draw data needs no conversion.
type Vec2 = imbridge.Vec2

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

const (
	MouseButtonLeft = iota
	MouseButtonRight
	MouseButtonMiddle
	mouseButtonCount
)

// keyRepeatDelay and keyRepeatRate are in seconds.
const (
	keyRepeatDelay = 0.4
	keyRepeatRate  = 0.05
)

// InputState is the per-frame input block. The host writes it through the
// imbridge.IO methods; widgets read it through the query methods.
type InputState struct {
	DisplaySize      Vec2
	FramebufferScale Vec2
	DeltaTime        float32
	MousePos         Vec2
	Modifiers        imbridge.Modifiers
	WheelX, WheelY   float32

	// Host writes land in the raw fields; beginFrame latches them so a
	// frame's widgets all observe the same input.
	rawMouseDown  [mouseButtonCount]bool
	mouseDown     [mouseButtonCount]bool
	prevMouseDown [mouseButtonCount]bool

	keyMap      imbridge.KeyMap
	rawKeyDown  [imbridge.KeyCount]bool
	keyDown     [imbridge.KeyCount]bool
	prevKeyDown [imbridge.KeyCount]bool
	keyHeld     [imbridge.KeyCount]float32

	rawWheelX, rawWheelY float32
	rawChars             []rune
	chars                []rune
}

var _ imbridge.IO = (*InputState)(nil)

// NewInputState creates an input block with the default key map.
func NewInputState() *InputState {
	return &InputState{
		FramebufferScale: Vec2{X: 1, Y: 1},
		DeltaTime:        1.0 / 60.0,
		keyMap:           imbridge.DefaultKeyMap(),
	}
}

// SetDisplaySize sets the display size.
func (s *InputState) SetDisplaySize(size Vec2) { s.DisplaySize = size }

// SetFramebufferScale sets the framebuffer to display ratio.
func (s *InputState) SetFramebufferScale(scale Vec2) { s.FramebufferScale = scale }

// SetMousePos sets the mouse position.
func (s *InputState) SetMousePos(pos Vec2) { s.MousePos = pos }

// SetModifiers sets the held modifiers.
func (s *InputState) SetModifiers(m imbridge.Modifiers) { s.Modifiers = m }

// SetKeyMap maps GUI key slots to bridge keys.
func (s *InputState) SetKeyMap(m imbridge.KeyMap) { s.keyMap = m }

// SetDeltaTime sets the frame time. Non-positive values are ignored.
func (s *InputState) SetDeltaTime(dt float32) {
	if dt > 0 {
		s.DeltaTime = dt
	}
}

// SetMouseButton sets the state of mouse button 0, 1 or 2.
func (s *InputState) SetMouseButton(button int, down bool) {
	if button >= 0 && button < mouseButtonCount {
		s.rawMouseDown[button] = down
	}
}

// AddMouseWheel accumulates wheel movement for the next frame.
func (s *InputState) AddMouseWheel(x, y float32) {
	s.rawWheelX += x
	s.rawWheelY += y
}

// SetKey sets the down state of k.
func (s *InputState) SetKey(k imbridge.Key, down bool) {
	if k > imbridge.KeyNone && k < imbridge.KeyCount {
		s.rawKeyDown[k] = down
	}
}

// AddInputChar queues a typed character for the focused text field.
func (s *InputState) AddInputChar(r rune) {
	s.rawChars = append(s.rawChars, r)
}

// beginFrame latches host input for the frame about to run.
func (s *InputState) beginFrame() {
	s.prevMouseDown = s.mouseDown
	s.mouseDown = s.rawMouseDown
	s.prevKeyDown = s.keyDown
	s.keyDown = s.rawKeyDown
	for k, down := range s.keyDown {
		switch {
		case !down:
			s.keyHeld[k] = 0
		case s.prevKeyDown[k]:
			s.keyHeld[k] += s.DeltaTime
		}
	}
	s.WheelX, s.WheelY = s.rawWheelX, s.rawWheelY
	s.rawWheelX, s.rawWheelY = 0, 0
	s.chars = append(s.chars[:0], s.rawChars...)
	s.rawChars = s.rawChars[:0]
}

// reset drops all held input, used when the context is destroyed.
func (s *InputState) reset() {
	*s = InputState{
		FramebufferScale: Vec2{X: 1, Y: 1},
		DeltaTime:        1.0 / 60.0,
		keyMap:           s.keyMap,
	}
}

// MouseDown reports whether button is held.
func (s *InputState) MouseDown(button int) bool {
	return button >= 0 && button < mouseButtonCount && s.mouseDown[button]
}

// MouseClicked reports whether button went down this frame.
func (s *InputState) MouseClicked(button int) bool {
	return s.MouseDown(button) && !s.prevMouseDown[button]
}

// MouseReleased reports whether button went up this frame.
func (s *InputState) MouseReleased(button int) bool {
	return button >= 0 && button < mouseButtonCount && !s.mouseDown[button] && s.prevMouseDown[button]
}

func (s *InputState) mapped(k imbridge.GuiKey) imbridge.Key {
	if k < 0 || k >= imbridge.GuiKeyCount {
		return imbridge.KeyNone
	}
	return s.keyMap[k]
}

// KeyDown reports whether the key mapped to k is held.
func (s *InputState) KeyDown(k imbridge.GuiKey) bool {
	key := s.mapped(k)
	return key != imbridge.KeyNone && s.keyDown[key]
}

// KeyPressed reports whether the key mapped to k went down this frame.
func (s *InputState) KeyPressed(k imbridge.GuiKey) bool {
	key := s.mapped(k)
	return key != imbridge.KeyNone && s.keyDown[key] && !s.prevKeyDown[key]
}

// KeyRepeated is KeyPressed plus auto-repeat while the key is held.
func (s *InputState) KeyRepeated(k imbridge.GuiKey) bool {
	if s.KeyPressed(k) {
		return true
	}
	key := s.mapped(k)
	if key == imbridge.KeyNone || !s.keyDown[key] {
		return false
	}
	held := s.keyHeld[key]
	prev := held - s.DeltaTime
	switch {
	case held < keyRepeatDelay:
		return false
	case prev < keyRepeatDelay:
		return true
	}
	// Fire when the hold time crossed a repeat boundary this frame.
	return int((held-keyRepeatDelay)/keyRepeatRate) > int((prev-keyRepeatDelay)/keyRepeatRate)
}

// InputChars returns the characters typed this frame.
func (s *InputState) InputChars() []rune { return s.chars }
