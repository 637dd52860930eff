package imbridge_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-theft-auto/imbridge"
)

// nopWidgets satisfies imbridge.Widgets and counts calls.
type nopWidgets struct {
	widgetCalls int
	click       bool
}

func (w *nopWidgets) hit() bool { w.widgetCalls++; return w.click }

func (w *nopWidgets) ShowDemoWindow(*bool)                                 { w.hit() }
func (w *nopWidgets) ShowMetricsWindow(*bool)                              { w.hit() }
func (w *nopWidgets) Begin(string, *bool) bool                             { return w.hit() }
func (w *nopWidgets) End()                                                 { w.hit() }
func (w *nopWidgets) Separator()                                           { w.hit() }
func (w *nopWidgets) Indent()                                              { w.hit() }
func (w *nopWidgets) Unindent()                                            { w.hit() }
func (w *nopWidgets) PushID(string)                                        { w.hit() }
func (w *nopWidgets) PushIDInt(int)                                        { w.hit() }
func (w *nopWidgets) PopID()                                               { w.hit() }
func (w *nopWidgets) Text(string)                                          { w.hit() }
func (w *nopWidgets) Button(string) bool                                   { return w.hit() }
func (w *nopWidgets) Checkbox(string, *bool) bool                          { return w.hit() }
func (w *nopWidgets) InputText(string, *string, imbridge.InputTextCallback) bool { return w.hit() }
func (w *nopWidgets) SliderFloat(string, *float32, float32, float32) bool  { return w.hit() }
func (w *nopWidgets) SliderFloat3(string, *[3]float32, float32, float32) bool {
	return w.hit()
}
func (w *nopWidgets) SliderInt(string, *int32, int32, int32) bool     { return w.hit() }
func (w *nopWidgets) SliderInt3(string, *[3]int32, int32, int32) bool { return w.hit() }
func (w *nopWidgets) InputFloat(string, *float32) bool                { return w.hit() }
func (w *nopWidgets) InputFloat3(string, *[3]float32) bool            { return w.hit() }
func (w *nopWidgets) ColorEdit4(string, *[4]float32) bool             { return w.hit() }
func (w *nopWidgets) DragFloat(string, *float32) bool                 { return w.hit() }
func (w *nopWidgets) DragInt(string, *int32) bool                     { return w.hit() }
func (w *nopWidgets) CollapsingHeader(string, bool) bool              { return w.hit() }
func (w *nopWidgets) BeginCombo(string, string) bool                  { return w.hit() }
func (w *nopWidgets) Selectable(string, bool) bool                    { return w.hit() }
func (w *nopWidgets) EndCombo()                                       { w.hit() }
func (w *nopWidgets) BeginTable(string, int) bool                     { return w.hit() }
func (w *nopWidgets) TableNextRow()                                   { w.hit() }
func (w *nopWidgets) TableSetColumnIndex(int) bool                    { return w.hit() }
func (w *nopWidgets) EndTable()                                       { w.hit() }

// mockIO records what the bridge writes into the library.
type mockIO struct {
	displaySize imbridge.Vec2
	scale       imbridge.Vec2
	deltaTimes  []float32
	mousePos    imbridge.Vec2
	buttons     [3]bool
	mods        imbridge.Modifiers
	wheelX      float32
	wheelY      float32
	keyMap      imbridge.KeyMap
	keyMapSets  int
	keys        map[imbridge.Key]bool
	chars       []rune
}

func (io *mockIO) SetDisplaySize(s imbridge.Vec2)          { io.displaySize = s }
func (io *mockIO) SetFramebufferScale(s imbridge.Vec2)     { io.scale = s }
func (io *mockIO) SetDeltaTime(dt float32)                 { io.deltaTimes = append(io.deltaTimes, dt) }
func (io *mockIO) SetMousePos(p imbridge.Vec2)             { io.mousePos = p }
func (io *mockIO) SetMouseButton(b int, down bool)         { io.buttons[b] = down }
func (io *mockIO) SetModifiers(m imbridge.Modifiers)       { io.mods = m }
func (io *mockIO) AddMouseWheel(x, y float32)              { io.wheelX += x; io.wheelY += y }
func (io *mockIO) SetKeyMap(m imbridge.KeyMap)             { io.keyMap = m; io.keyMapSets++ }
func (io *mockIO) SetKey(k imbridge.Key, down bool)        { io.keys[k] = down }
func (io *mockIO) AddInputChar(r rune)                     { io.chars = append(io.chars, r) }

// mockLibrary is a scripted GUI library. Render returns drawData.
type mockLibrary struct {
	nopWidgets
	io        *mockIO
	live      bool
	createErr error
	creates   int
	destroys  int
	newFrames int
	renders   int
	fontTex   imbridge.TextureID
	drawData  *imbridge.DrawData
	atlasW    int
	atlasH    int
	events    []string
}

func newMockLibrary() *mockLibrary {
	return &mockLibrary{
		io:     &mockIO{keys: map[imbridge.Key]bool{}},
		atlasW: 4,
		atlasH: 2,
	}
}

func (l *mockLibrary) CreateContext() error {
	if l.createErr != nil {
		return l.createErr
	}
	l.creates++
	l.live = true
	return nil
}

func (l *mockLibrary) DestroyContext() { l.destroys++; l.live = false }
func (l *mockLibrary) HasContext() bool { return l.live }
func (l *mockLibrary) IO() imbridge.IO  { return l.io }

func (l *mockLibrary) FontAtlasRGBA32() ([]byte, int, int) {
	return make([]byte, l.atlasW*l.atlasH*4), l.atlasW, l.atlasH
}

func (l *mockLibrary) SetFontTexture(id imbridge.TextureID) { l.fontTex = id }

func (l *mockLibrary) NewFrame() {
	l.newFrames++
	l.events = append(l.events, "NewFrame")
}

func (l *mockLibrary) Render() *imbridge.DrawData {
	l.renders++
	l.events = append(l.events, "Render")
	return l.drawData
}

// mockViewport is a host window whose notifications tests fire by hand.
type mockViewport struct {
	valid   bool
	size    imbridge.Vec2
	scale   imbridge.Vec2
	mouse   imbridge.Vec2
	buttons [3]bool
	mods    imbridge.Modifiers
	wheelX  float32
	wheelY  float32
	level   imbridge.FeatureLevel
	target  string

	beginFrame imbridge.CallbackSet[func()]
	rendered   imbridge.CallbackSet[func()]
	key        imbridge.CallbackSet[func(imbridge.KeyEvent)]
	closed     imbridge.CallbackSet[func()]
}

func newMockViewport() *mockViewport {
	return &mockViewport{
		valid:  true,
		size:   imbridge.Vec2{X: 800, Y: 600},
		scale:  imbridge.Vec2{X: 1, Y: 1},
		level:  imbridge.FeatureLevelSM5,
		target: "backbuffer",
	}
}

func (v *mockViewport) Valid() bool                        { return v.valid }
func (v *mockViewport) Size() imbridge.Vec2                { return v.size }
func (v *mockViewport) FramebufferScale() imbridge.Vec2    { return v.scale }
func (v *mockViewport) MousePos() imbridge.Vec2            { return v.mouse }
func (v *mockViewport) MouseDown(b int) bool               { return v.buttons[b] }
func (v *mockViewport) Modifiers() imbridge.Modifiers      { return v.mods }
func (v *mockViewport) FeatureLevel() imbridge.FeatureLevel { return v.level }
func (v *mockViewport) RenderTarget() imbridge.RenderTarget { return v.target }

func (v *mockViewport) WheelDelta() (float32, float32) {
	x, y := v.wheelX, v.wheelY
	v.wheelX, v.wheelY = 0, 0
	return x, y
}

func (v *mockViewport) OnBeginFrame(fn func()) imbridge.Subscription { return v.beginFrame.Add(fn) }
func (v *mockViewport) OnRendered(fn func()) imbridge.Subscription   { return v.rendered.Add(fn) }
func (v *mockViewport) OnKey(fn func(imbridge.KeyEvent)) imbridge.Subscription {
	return v.key.Add(fn)
}
func (v *mockViewport) OnClose(fn func()) imbridge.Subscription { return v.closed.Add(fn) }

func (v *mockViewport) subscriptions() int {
	return v.beginFrame.Len() + v.rendered.Len() + v.key.Len() + v.closed.Len()
}

// tick runs one host frame: begin-frame callbacks, then rendered callbacks.
func (v *mockViewport) tick() {
	v.beginFrame.Each(func(fn func()) { fn() })
	v.rendered.Each(func(fn func()) { fn() })
}

func (v *mockViewport) sendKey(ev imbridge.KeyEvent) {
	v.key.Each(func(fn func(imbridge.KeyEvent)) { fn(ev) })
}

func (v *mockViewport) close() {
	v.closed.Each(func(fn func()) { fn() })
}

// recordingDevice logs every Device call as a string and keeps the last
// arguments of interest.
type recordingDevice struct {
	mu       sync.Mutex
	calls    []string
	nextTex  imbridge.TextureID
	state    imbridge.PipelineState
	target   imbridge.RenderTarget
	scissors []imbridge.ScissorRect
	draws    []imbridge.DrawCall
	bound    []imbridge.TextureID
	vtx      []imbridge.Vertex
	idx      []uint16
	sampler  imbridge.SamplerDesc
	failTex  error
}

func (d *recordingDevice) record(format string, args ...any) {
	d.mu.Lock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	d.mu.Unlock()
}

func (d *recordingDevice) CreateTexture(pixels []byte, w, h int, s imbridge.SamplerDesc) (imbridge.TextureID, error) {
	d.record("CreateTexture %dx%d", w, h)
	if d.failTex != nil {
		return 0, d.failTex
	}
	d.nextTex++
	d.sampler = s
	return 100 + d.nextTex, nil
}

func (d *recordingDevice) DestroyTexture(id imbridge.TextureID) { d.record("DestroyTexture %d", id) }

func (d *recordingDevice) ResizeBuffers(vtxBytes, idxBytes int) error {
	d.record("ResizeBuffers %d %d", vtxBytes, idxBytes)
	return nil
}

func (d *recordingDevice) UploadBuffers(vtx []imbridge.Vertex, idx []uint16) error {
	d.record("UploadBuffers %d %d", len(vtx), len(idx))
	d.vtx = append([]imbridge.Vertex(nil), vtx...)
	d.idx = append([]uint16(nil), idx...)
	return nil
}

func (d *recordingDevice) DestroyBuffers() { d.record("DestroyBuffers") }

func (d *recordingDevice) BeginPass(target imbridge.RenderTarget, state imbridge.PipelineState) error {
	d.record("BeginPass")
	d.target = target
	d.state = state
	return nil
}

func (d *recordingDevice) SetScissor(r imbridge.ScissorRect) {
	d.record("SetScissor")
	d.scissors = append(d.scissors, r)
}

func (d *recordingDevice) BindTexture(id imbridge.TextureID) {
	d.record("BindTexture %d", id)
	d.bound = append(d.bound, id)
}

func (d *recordingDevice) DrawIndexed(call imbridge.DrawCall) {
	d.record("DrawIndexed")
	d.draws = append(d.draws, call)
}

func (d *recordingDevice) EndPass() error {
	d.record("EndPass")
	return nil
}

func (d *recordingDevice) count(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// captureHandler is a slog.Handler that keeps every record.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *captureHandler) WithGroup(string) slog.Handler             { return h }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// quad returns a one-list frame with a single 4-vertex, 6-index command.
func quad(clip [4]float32) *imbridge.DrawData {
	list := &imbridge.DrawList{
		VtxBuffer: []imbridge.Vertex{
			{Pos: [2]float32{0, 0}, Color: imbridge.ColorWhite},
			{Pos: [2]float32{10, 0}, Color: imbridge.ColorWhite},
			{Pos: [2]float32{10, 10}, Color: imbridge.ColorWhite},
			{Pos: [2]float32{0, 10}, Color: imbridge.ColorWhite},
		},
		IdxBuffer: []uint16{0, 1, 2, 0, 2, 3},
		CmdBuffer: []imbridge.DrawCmd{{ClipRect: clip, ElemCount: 6}},
	}
	return &imbridge.DrawData{
		Lists:            []*imbridge.DrawList{list},
		TotalVtxCount:    4,
		TotalIdxCount:    6,
		DisplaySize:      imbridge.Vec2{X: 800, Y: 600},
		FramebufferScale: imbridge.Vec2{X: 1, Y: 1},
	}
}
