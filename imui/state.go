package imui

// StateStore persists widget state between frames.
// Unlike hidden library state, it is explicit and inspectable.
type StateStore interface {
	Get(id ID) (any, bool)
	Set(id ID, value any)
	Delete(id ID)
	// Sweep drops entries not touched since frame.
	Sweep(frame uint64)
	Len() int
}

type stateEntry struct {
	value     any
	lastFrame uint64
}

// MapStateStore is the default in-memory StateStore. It stamps entries with
// the frame they were last used in so Sweep can evict widgets that stopped
// being drawn.
type MapStateStore struct {
	entries map[ID]*stateEntry
	frame   *uint64
}

// NewMapStateStore creates a store that reads the current frame number
// from frame.
func NewMapStateStore(frame *uint64) *MapStateStore {
	return &MapStateStore{entries: make(map[ID]*stateEntry), frame: frame}
}

// Get returns the value stored for id and marks it used this frame.
func (m *MapStateStore) Get(id ID) (any, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	e.lastFrame = *m.frame
	return e.value, true
}

// Set stores value for id.
func (m *MapStateStore) Set(id ID, value any) {
	m.entries[id] = &stateEntry{value: value, lastFrame: *m.frame}
}

// Delete removes the value for id.
func (m *MapStateStore) Delete(id ID) {
	delete(m.entries, id)
}

// Sweep drops entries last used before frame.
func (m *MapStateStore) Sweep(frame uint64) {
	for id, e := range m.entries {
		if e.lastFrame < frame {
			delete(m.entries, id)
		}
	}
}

// Len returns the number of stored entries.
func (m *MapStateStore) Len() int { return len(m.entries) }

// GetState retrieves typed state from the context.
// Returns defaultVal if the state doesn't exist or has the wrong type.
func GetState[T any](ctx *Context, id ID, defaultVal T) T {
	if v, ok := ctx.state.Get(id); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	return defaultVal
}

// SetState stores typed state in the context.
func SetState[T any](ctx *Context, id ID, value T) {
	ctx.state.Set(id, value)
}

// DeleteState removes state from the context.
func DeleteState(ctx *Context, id ID) {
	ctx.state.Delete(id)
}

// statePtr returns mutable state for id, creating it from defaultVal.
func statePtr[T any](ctx *Context, id ID, defaultVal T) *T {
	if p := GetState[*T](ctx, id, nil); p != nil {
		return p
	}
	p := new(T)
	*p = defaultVal
	SetState(ctx, id, p)
	return p
}

// Widget state types.

type windowState struct {
	Pos         Vec2
	Size        Vec2 // last frame's content-fitted size
	Collapsed   bool
	Dragging    bool
	DragOffset  Vec2
	Initialized bool
}

type headerState struct {
	Open        bool
	Initialized bool
}

type dragState struct {
	Active     bool
	StartX     float32
	StartValue float64
}

type textEditState struct {
	Buffer  string
	Cursor  int // byte offset
	Editing bool
}

type comboState struct {
	Open bool
}
