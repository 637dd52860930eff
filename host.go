package imbridge

import (
	"sync"

	"github.com/google/uuid"
)

// FeatureLevel identifies the shader family the render thread must use.
type FeatureLevel int

const (
	FeatureLevelES2 FeatureLevel = iota
	FeatureLevelES31
	FeatureLevelSM5
	FeatureLevelSM6
)

// String returns the level name.
func (l FeatureLevel) String() string {
	switch l {
	case FeatureLevelES2:
		return "ES2"
	case FeatureLevelES31:
		return "ES3_1"
	case FeatureLevelSM5:
		return "SM5"
	case FeatureLevelSM6:
		return "SM6"
	}
	return "unknown"
}

// RenderTarget is an opaque handle to the surface a frame is replayed into.
// The bridge only carries it from the viewport to the Device.
type RenderTarget any

// Modifiers is the combined modifier state. Hosts fold left and right keys
// together before reporting.
type Modifiers struct {
	Ctrl, Shift, Alt, Super bool
}

// KeyAction is the kind of a key event.
type KeyAction int

const (
	KeyPressed KeyAction = iota
	KeyRepeat
	KeyReleased
)

// KeyEvent is raised by a Viewport for every keyboard transition.
// Char is the translated character, or 0 when the key has none.
type KeyEvent struct {
	Key    Key
	Action KeyAction
	Char   rune
}

// Viewport is the host window the GUI draws into. It supplies input state
// and frame notifications and is read on the game thread only.
type Viewport interface {
	Valid() bool
	Size() Vec2
	FramebufferScale() Vec2
	MousePos() Vec2
	MouseDown(button int) bool
	Modifiers() Modifiers
	// WheelDelta returns the wheel movement accumulated since the last call.
	WheelDelta() (x, y float32)
	FeatureLevel() FeatureLevel
	RenderTarget() RenderTarget

	OnBeginFrame(fn func()) Subscription
	OnRendered(fn func()) Subscription
	OnKey(fn func(KeyEvent)) Subscription
	OnClose(fn func()) Subscription
}

// Subscription is an owned registration handle. Release detaches the
// callback; calling it more than once has no further effect.
type Subscription interface {
	ID() uuid.UUID
	Release()
}

type subscription struct {
	id      uuid.UUID
	once    sync.Once
	release func()
}

// NewSubscription wraps a release function in a Subscription.
func NewSubscription(release func()) Subscription {
	return &subscription{id: uuid.New(), release: release}
}

// ID identifies the subscription in logs.
func (s *subscription) ID() uuid.UUID { return s.id }

// Release unsubscribes. Later calls do nothing.
func (s *subscription) Release() {
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// CallbackSet is a registration list used by Viewport implementations.
// Callbacks run in registration order.
type CallbackSet[T any] struct {
	mu      sync.Mutex
	entries []callbackEntry[T]
}

type callbackEntry[T any] struct {
	id uuid.UUID
	fn T
}

// Add registers fn and returns the handle that removes it.
func (c *CallbackSet[T]) Add(fn T) Subscription {
	s := &subscription{id: uuid.New()}
	s.release = func() { c.remove(s.id) }

	c.mu.Lock()
	c.entries = append(c.entries, callbackEntry[T]{id: s.id, fn: fn})
	c.mu.Unlock()
	return s
}

func (c *CallbackSet[T]) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.entries {
		if e.id == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of live registrations.
func (c *CallbackSet[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Each calls visit for every registered callback. The list is copied first,
// so callbacks may release their own subscription.
func (c *CallbackSet[T]) Each(visit func(T)) {
	c.mu.Lock()
	fns := make([]T, len(c.entries))
	for i, e := range c.entries {
		fns[i] = e.fn
	}
	c.mu.Unlock()

	for _, fn := range fns {
		visit(fn)
	}
}
