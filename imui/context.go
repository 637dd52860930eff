// Package imui is a pure-Go immediate-mode GUI library that plugs into the
// imbridge frame bridge.
//
// A Context owns two draw lists: the main list every window draws into and a
// foreground list for popups. Render finalizes both and returns DrawData
// that aliases their buffers, so the bridge must copy it before the next
// NewFrame.
//
// Basic usage through the bridge:
//
//	lib := imui.NewContext()
//	gui := imbridge.New(lib, thread, device)
//	gui.Initialize(viewport)
//
//	// each frame, on the game thread
//	if gui.Begin("Tools", nil) {
//	    if gui.Button("Reset") {
//	        reset()
//	    }
//	}
//	gui.End()
package imui

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-theft-auto/imbridge"
)

const (
	// stateTTL is how many frames widget state survives without being drawn.
	stateTTL = 600

	frameHistory = 120
)

// Metrics describes the last rendered frame.
type Metrics struct {
	Frame        uint64
	Windows      int
	Vertices     int
	Indices      int
	Commands     int
	StateEntries int
}

// Context is the library state. It implements imbridge.Library. All methods
// must be called from a single goroutine.
type Context struct {
	style       Style
	logger      *slog.Logger
	customState StateStore
	fontPath    string
	fontData    []byte
	fontSize    float64
	clipboard   Clipboard

	live    bool
	inFrame bool
	frame   uint64

	io      *InputState
	state   StateStore
	font    *Font
	fontTex imbridge.TextureID

	main     *DrawList
	fg       *DrawList
	drawData imbridge.DrawData

	idStack  []ID
	windows  []*window
	root     window
	tables   []*table
	popup    *popup
	activeID ID // widget holding the mouse
	focusID  ID // text field receiving keys

	// Popups from the previous frame block hover for widgets beneath them.
	popupBlock Rect
	popupNext  Rect

	windowCount int
	metrics     Metrics
	frameTimes  [frameHistory]float32
	frameTimesN int
	demo        demoState
}

var _ imbridge.Library = (*Context)(nil)

// NewContext creates a library instance. No GUI context is live until
// CreateContext.
func NewContext(opts ...Option) *Context {
	c := &Context{
		style:    DefaultStyle(),
		logger:   imbridge.Logger(),
		fontSize: 14,
		io:       NewInputState(),
		main:     NewDrawList(),
		fg:       NewDrawList(),
		demo:     newDemoState(),
	}
	c.clipboard = &localClipboard{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateContext builds the font atlas and makes the context live.
func (c *Context) CreateContext() error {
	if c.font == nil {
		f, err := c.loadFont()
		if err != nil {
			return err
		}
		c.font = f
	}
	c.state = c.customState
	if c.state == nil {
		c.state = NewMapStateStore(&c.frame)
	}
	c.frame = 0
	c.live = true
	c.inFrame = false
	return nil
}

func (c *Context) loadFont() (*Font, error) {
	data := c.fontData
	if c.fontPath != "" {
		b, err := os.ReadFile(c.fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	if data == nil {
		return NewDefaultFont(), nil
	}
	return NewFontFromTTF(data, c.fontSize)
}

// DestroyContext drops all widget state and input. The font atlas is kept
// for a later CreateContext.
func (c *Context) DestroyContext() {
	c.live = false
	c.inFrame = false
	c.state = nil
	c.io.reset()
	c.main.Clear()
	c.fg.Clear()
	c.idStack = c.idStack[:0]
	c.windows = c.windows[:0]
	c.tables = c.tables[:0]
	c.popup = nil
	c.activeID, c.focusID = 0, 0
	c.popupBlock, c.popupNext = Rect{}, Rect{}
}

// HasContext reports whether CreateContext has run without a matching DestroyContext.
func (c *Context) HasContext() bool { return c.live }

// IO returns the input state the bridge writes into.
func (c *Context) IO() imbridge.IO { return c.io }

// Input exposes the input block for widget queries.
func (c *Context) Input() *InputState { return c.io }

// Style returns the active style.
func (c *Context) Style() *Style { return &c.style }

// Font returns the atlas, or nil before CreateContext.
func (c *Context) Font() *Font { return c.font }

// Metrics returns statistics for the last rendered frame.
func (c *Context) Metrics() Metrics { return c.metrics }

// FontAtlasRGBA32 returns the font atlas pixels.
func (c *Context) FontAtlasRGBA32() ([]byte, int, int) {
	if c.font == nil {
		return nil, 0, 0
	}
	return c.font.RGBA32()
}

// SetFontTexture sets the texture id font glyphs are drawn with.
func (c *Context) SetFontTexture(id imbridge.TextureID) { c.fontTex = id }

// NewFrame starts a frame. Calling it again before Render discards the
// frame in progress.
func (c *Context) NewFrame() {
	if !c.live {
		return
	}
	if c.inFrame {
		c.logger.Debug("NewFrame called twice, discarding open frame", "frame", c.frame)
	}
	c.frame++
	c.io.beginFrame()
	c.recordFrameTime(c.io.DeltaTime)
	if c.frame > stateTTL {
		c.state.Sweep(c.frame - stateTTL)
	}

	c.main.Clear()
	c.fg.Clear()
	c.main.SetTexture(c.fontTex)
	c.fg.SetTexture(c.fontTex)

	c.idStack = c.idStack[:0]
	c.windows = c.windows[:0]
	c.tables = c.tables[:0]
	c.popup = nil
	c.windowCount = 0
	if !c.io.MouseDown(MouseButtonLeft) {
		c.activeID = 0
	}
	c.popupBlock, c.popupNext = c.popupNext, Rect{}

	pad := c.style.WindowPadding
	origin := Vec2{X: pad, Y: pad}
	c.root = window{
		name:       "##root",
		dl:         c.main,
		origin:     origin,
		width:      max(c.io.DisplaySize.X-pad*2, 0),
		cursor:     origin,
		lineStart:  origin.X,
		contentMax: origin,
	}
	c.inFrame = true
}

// Render ends the frame and returns its geometry. The result aliases the
// context's buffers and is overwritten by the next frame.
func (c *Context) Render() *imbridge.DrawData {
	if !c.live {
		return nil
	}
	if !c.inFrame {
		// Nothing was drawn since the last Render.
		c.drawData.Lists = c.drawData.Lists[:0]
		c.drawData.TotalVtxCount, c.drawData.TotalIdxCount = 0, 0
		return &c.drawData
	}
	for len(c.windows) > 0 {
		c.logger.Warn("window left open at end of frame", "window", c.windows[len(c.windows)-1].name)
		c.End()
	}
	if c.popup != nil {
		c.EndCombo()
	}

	c.main.Finalize()
	c.fg.Finalize()

	dd := &c.drawData
	dd.Lists = dd.Lists[:0]
	dd.TotalVtxCount, dd.TotalIdxCount = 0, 0
	commands := 0
	for _, dl := range []*DrawList{c.main, c.fg} {
		if len(dl.CmdBuffer) == 0 {
			continue
		}
		dd.Lists = append(dd.Lists, &dl.DrawList)
		dd.TotalVtxCount += len(dl.VtxBuffer)
		dd.TotalIdxCount += len(dl.IdxBuffer)
		commands += len(dl.CmdBuffer)
	}
	dd.DisplayPos = Vec2{}
	dd.DisplaySize = c.io.DisplaySize
	dd.FramebufferScale = c.io.FramebufferScale

	c.metrics = Metrics{
		Frame:        c.frame,
		Windows:      c.windowCount,
		Vertices:     dd.TotalVtxCount,
		Indices:      dd.TotalIdxCount,
		Commands:     commands,
		StateEntries: c.state.Len(),
	}
	c.inFrame = false
	return dd
}

// recordFrameTime appends dt to the frame time ring shown by the metrics
// window.
func (c *Context) recordFrameTime(dt float32) {
	c.frameTimes[c.frameTimesN%frameHistory] = dt * 1000
	c.frameTimesN++
}

// FrameTimes returns recent frame times in milliseconds, oldest first.
func (c *Context) FrameTimes() []float32 {
	n := min(c.frameTimesN, frameHistory)
	out := make([]float32, 0, n)
	for i := c.frameTimesN - n; i < c.frameTimesN; i++ {
		out = append(out, c.frameTimes[i%frameHistory])
	}
	return out
}

// AddCallback inserts a user draw callback into the current window's list.
func (c *Context) AddCallback(fn imbridge.DrawCallback) {
	if w := c.win(); w != nil && !w.skip {
		w.dl.AddCallback(fn)
		w.dl.SetTexture(c.fontTex)
	}
}

// win returns the window widgets currently draw into, or nil outside a
// frame.
func (c *Context) win() *window {
	if !c.inFrame {
		return nil
	}
	if n := len(c.windows); n > 0 {
		return c.windows[n-1]
	}
	return &c.root
}

func (c *Context) lineHeight() float32 {
	return c.font.LineHeight * c.style.FontScale
}

func (c *Context) frameHeight() float32 {
	return c.lineHeight() + c.style.FramePadding*2
}

// MeasureText returns the rendered size of text.
func (c *Context) MeasureText(text string) Vec2 {
	return c.font.Measure(text, c.style.FontScale)
}

func (c *Context) addText(dl *DrawList, x, y float32, text string, color uint32) {
	if text == "" {
		return
	}
	var buf [64]GlyphQuad
	dl.AddGlyphs(c.font.Quads(buf[:0], text, x, y, c.style.FontScale), color)
}

func (c *Context) addRect(dl *DrawList, r Rect, color uint32) {
	dl.AddRect(r.X, r.Y, r.W, r.H, color, c.font.White)
}

func (c *Context) addOutline(dl *DrawList, r Rect, color uint32) {
	dl.AddRectOutline(r.X, r.Y, r.W, r.H, color, c.style.BorderSize, c.font.White)
}

// isHovered reports whether the mouse is over r, inside the current clip
// rectangle and not covered by last frame's popup.
func (c *Context) isHovered(id ID, r Rect) bool {
	w := c.win()
	if w == nil {
		return false
	}
	if c.activeID != 0 && c.activeID != id {
		return false
	}
	m := c.io.MousePos
	clip := w.dl.ClipRect()
	if m.X < clip[0] || m.Y < clip[1] || m.X >= clip[2] || m.Y >= clip[3] {
		return false
	}
	if c.popup == nil && c.popupBlock.Contains(m) {
		return false
	}
	return r.Contains(m)
}

// buttonBehavior handles press and hold for a clickable rectangle. A press
// is reported on the frame the left button goes down over r.
func (c *Context) buttonBehavior(id ID, r Rect) (hovered, held, pressed bool) {
	hovered = c.isHovered(id, r)
	if hovered && c.io.MouseClicked(MouseButtonLeft) {
		c.activeID = id
		pressed = true
		if c.focusID != 0 && c.focusID != id {
			c.focusID = 0
		}
		if imbridge.Verbose() {
			c.logger.Debug("click detected", "id", id, "rect", r, "mouse", c.io.MousePos)
		}
	}
	held = c.activeID == id && c.io.MouseDown(MouseButtonLeft)
	return hovered, held, pressed
}
