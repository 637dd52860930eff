package imui

const (
	defaultWindowWidth = 280
	minWindowWidth     = 120
	windowCascade      = 24
)

// window is the per-frame layout state of a Begin/End pair. The root
// window collects widgets drawn outside any Begin.
type window struct {
	name string
	id   ID
	st   *windowState
	dl   *DrawList

	origin     Vec2 // top-left of the content region
	width      float32
	cursor     Vec2
	lineStart  float32
	indent     float32
	contentMax Vec2

	skip    bool
	clipped bool
}

// Begin opens a window. It returns false when the window is collapsed or
// *open is false; End must be called either way.
func (c *Context) Begin(name string, open *bool) bool {
	if !c.inFrame {
		return false
	}
	id := c.GetID(name)
	w := &window{name: displayLabel(name), id: id, dl: c.main}
	c.windows = append(c.windows, w)
	c.windowCount++
	if open != nil && !*open {
		w.skip = true
		return false
	}

	st := statePtr(c, id, windowState{})
	if !st.Initialized {
		off := float32(20 + windowCascade*(c.windowCount-1))
		st.Pos = Vec2{X: off, Y: off}
		st.Size = Vec2{X: defaultWindowWidth}
		st.Initialized = true
	}
	w.st = st

	s := &c.style
	titleH := c.frameHeight()
	minW := c.MeasureText(w.name).X + titleH*2 + s.FramePadding*2
	st.Size.X = max(st.Size.X, minW, minWindowWidth)

	title := Rect{X: st.Pos.X, Y: st.Pos.Y, W: st.Size.X, H: titleH}
	arrow := Rect{X: title.X, Y: title.Y, W: titleH, H: titleH}
	grip := Rect{X: title.X + titleH, Y: title.Y, W: title.W - titleH, H: titleH}
	var closeBox Rect
	if open != nil {
		closeBox = Rect{X: title.X + title.W - titleH, Y: title.Y, W: titleH, H: titleH}
		grip.W -= titleH
	}

	if _, _, pressed := c.buttonBehavior(idFrom(id, "#collapse"), arrow); pressed {
		st.Collapsed = !st.Collapsed
	}
	closeHovered := false
	if open != nil {
		var pressed bool
		closeHovered, _, pressed = c.buttonBehavior(idFrom(id, "#close"), closeBox)
		if pressed {
			*open = false
		}
	}
	if _, _, pressed := c.buttonBehavior(id, grip); pressed {
		st.Dragging = true
		st.DragOffset = c.io.MousePos.Sub(st.Pos)
	}
	if st.Dragging {
		if c.io.MouseDown(MouseButtonLeft) {
			p := c.io.MousePos.Sub(st.DragOffset)
			st.Pos = Vec2{X: max(p.X, minWindowWidth-st.Size.X), Y: max(p.Y, 0)}
		} else {
			st.Dragging = false
		}
	}

	dl := w.dl
	if !st.Collapsed && st.Size.Y > titleH {
		bg := Rect{X: st.Pos.X, Y: st.Pos.Y, W: st.Size.X, H: st.Size.Y}
		c.addRect(dl, bg, s.WindowBgColor)
		c.addOutline(dl, bg, s.WindowBorderColor)
	}
	titleColor := s.TitleBgColor
	if st.Dragging {
		titleColor = s.TitleActiveColor
	}
	title = Rect{X: st.Pos.X, Y: st.Pos.Y, W: st.Size.X, H: titleH}
	c.addRect(dl, title, titleColor)
	c.drawArrow(dl, st.Pos.X+titleH/2, st.Pos.Y+titleH/2, !st.Collapsed, s.TextColor)
	c.addText(dl, st.Pos.X+titleH, st.Pos.Y+s.FramePadding, w.name, s.TextColor)
	if open != nil {
		cb := Rect{X: st.Pos.X + st.Size.X - titleH, Y: st.Pos.Y, W: titleH, H: titleH}
		if closeHovered {
			c.addRect(dl, cb, s.ButtonHoveredColor)
		}
		in := titleH * 0.3
		dl.AddLine(cb.X+in, cb.Y+in, cb.X+cb.W-in, cb.Y+cb.H-in, s.TextColor, 1.5, c.font.White)
		dl.AddLine(cb.X+cb.W-in, cb.Y+in, cb.X+in, cb.Y+cb.H-in, s.TextColor, 1.5, c.font.White)
	}

	if st.Collapsed {
		w.skip = true
		return false
	}

	pad := s.WindowPadding
	w.origin = Vec2{X: st.Pos.X + pad, Y: st.Pos.Y + titleH + pad}
	w.width = st.Size.X - pad*2
	w.cursor = w.origin
	w.lineStart = w.origin.X
	w.contentMax = w.origin
	dl.PushClipRect(st.Pos.X, st.Pos.Y+titleH, st.Pos.X+st.Size.X, 1e9)
	w.clipped = true
	return true
}

// End closes the window opened by the matching Begin and fits its size to
// the content drawn this frame.
func (c *Context) End() {
	n := len(c.windows)
	if n == 0 {
		c.logger.Warn("End called without Begin")
		return
	}
	w := c.windows[n-1]
	c.windows = c.windows[:n-1]
	if w.clipped {
		w.dl.PopClipRect()
	}
	if w.st == nil || w.skip {
		return
	}
	pad := c.style.WindowPadding
	w.st.Size = Vec2{
		X: max(w.contentMax.X-w.st.Pos.X+pad, minWindowWidth),
		Y: w.contentMax.Y - w.st.Pos.Y + pad,
	}
}

func (c *Context) drawArrow(dl *DrawList, cx, cy float32, down bool, color uint32) {
	r := c.lineHeight() * 0.3
	if down {
		dl.AddTriangle(cx-r, cy-r*0.5, cx+r, cy-r*0.5, cx, cy+r*0.7, color, c.font.White)
		return
	}
	dl.AddTriangle(cx-r*0.5, cy-r, cx+r*0.7, cy, cx-r*0.5, cy+r, color, c.font.White)
}

// itemPos returns where the next widget goes.
func (w *window) itemPos() Vec2 { return w.cursor }

// availWidth is the width left on the current line.
func (c *Context) availWidth(w *window) float32 {
	if t := c.currentTable(); t != nil {
		return t.colX(t.col) + t.colW - c.style.ItemSpacing - w.cursor.X
	}
	return w.origin.X + w.width - w.cursor.X
}

// itemWidth is the frame width of sliders, drags and inputs.
func (c *Context) itemWidth(w *window) float32 {
	avail := c.availWidth(w)
	if c.currentTable() != nil {
		return max(avail, c.frameHeight())
	}
	if avail < c.frameHeight()*2 {
		return c.style.ItemWidth
	}
	return min(c.style.ItemWidth, avail)
}

// advance moves the cursor to the next line after an item of size.
func (c *Context) advance(w *window, size Vec2) {
	right, bottom := w.cursor.X+size.X, w.cursor.Y+size.Y
	w.contentMax.X = max(w.contentMax.X, right)
	w.contentMax.Y = max(w.contentMax.Y, bottom)
	if t := c.currentTable(); t != nil {
		t.rowH = max(t.rowH, bottom-t.rowY)
	}
	w.cursor.Y = bottom + c.style.ItemSpacing
	w.cursor.X = w.lineStart + w.indent
}

// Separator draws a horizontal line across the window.
func (c *Context) Separator() {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	pos := w.itemPos()
	width := c.availWidth(w)
	y := pos.Y + c.style.ItemSpacing/2
	c.addRect(w.dl, Rect{X: pos.X, Y: y, W: width, H: 1}, c.style.SeparatorColor)
	c.advance(w, Vec2{X: width, Y: c.style.ItemSpacing})
}

// Indent moves following widgets right by IndentSpacing.
func (c *Context) Indent() {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	w.indent += c.style.IndentSpacing
	w.cursor.X = w.lineStart + w.indent
}

// Unindent undoes one Indent.
func (c *Context) Unindent() {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	w.indent = max(w.indent-c.style.IndentSpacing, 0)
	w.cursor.X = w.lineStart + w.indent
}
