package imui

// Text draws a line of text.
func (c *Context) Text(text string) {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	pos := w.itemPos()
	size := c.MeasureText(text)
	c.addText(w.dl, pos.X, pos.Y, text, c.style.TextColor)
	c.advance(w, size)
}

// TextColored draws a line of text in color.
func (c *Context) TextColored(text string, color uint32) {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	pos := w.itemPos()
	size := c.MeasureText(text)
	c.addText(w.dl, pos.X, pos.Y, text, color)
	c.advance(w, size)
}

// Button draws a button and reports whether it was clicked this frame.
//
// Usage:
//
//	if ctx.Button("Save") {
//	    save()
//	}
func (c *Context) Button(label string) bool {
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	pos := w.itemPos()
	id := c.GetID(label)
	text := displayLabel(label)
	ts := c.MeasureText(text)
	pad := c.style.FramePadding * 2
	r := Rect{X: pos.X, Y: pos.Y, W: ts.X + pad*2, H: c.frameHeight()}

	hovered, held, pressed := c.buttonBehavior(id, r)
	bg := c.style.ButtonColor
	switch {
	case held:
		bg = c.style.ButtonActiveColor
	case hovered:
		bg = c.style.ButtonHoveredColor
	}
	c.addRect(w.dl, r, bg)
	c.addText(w.dl, r.X+(r.W-ts.X)/2, r.Y+c.style.FramePadding, text, c.style.TextColor)

	c.advance(w, Vec2{X: r.W, Y: r.H})
	return pressed
}

// Checkbox draws a toggle and flips *v when clicked. It reports whether
// *v changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	pos := w.itemPos()
	id := c.GetID(label)
	text := displayLabel(label)
	box := c.frameHeight()
	total := box
	if text != "" {
		total += c.style.ItemSpacing + c.MeasureText(text).X
	}
	r := Rect{X: pos.X, Y: pos.Y, W: total, H: box}

	hovered, _, pressed := c.buttonBehavior(id, r)
	if pressed {
		*v = !*v
	}

	bg := c.style.FrameBgColor
	if hovered {
		bg = c.style.FrameHoveredColor
	}
	boxRect := Rect{X: pos.X, Y: pos.Y, W: box, H: box}
	c.addRect(w.dl, boxRect, bg)
	c.addOutline(w.dl, boxRect, c.style.FrameBorderColor)
	if *v {
		in := box * 0.25
		c.addRect(w.dl, Rect{X: pos.X + in, Y: pos.Y + in, W: box - in*2, H: box - in*2}, c.style.CheckMarkColor)
	}
	if text != "" {
		c.addText(w.dl, pos.X+box+c.style.ItemSpacing, pos.Y+c.style.FramePadding, text, c.style.TextColor)
	}

	c.advance(w, Vec2{X: total, Y: box})
	return pressed
}

// Selectable draws a full-width row that highlights when selected. Inside
// an open combo it lays out in the popup and closes the combo on click.
func (c *Context) Selectable(label string, selected bool) bool {
	if p := c.popup; p != nil {
		return c.popupSelectable(p, label, selected)
	}
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	pos := w.itemPos()
	id := c.GetID(label)
	r := Rect{X: pos.X, Y: pos.Y, W: c.availWidth(w), H: c.lineHeight() + c.style.FramePadding}
	hovered, _, pressed := c.buttonBehavior(id, r)
	c.drawSelectable(w.dl, r, displayLabel(label), selected, hovered)
	c.advance(w, Vec2{X: r.W, Y: r.H})
	return pressed
}

func (c *Context) drawSelectable(dl *DrawList, r Rect, text string, selected, hovered bool) {
	switch {
	case selected:
		c.addRect(dl, r, c.style.SelectedBgColor)
	case hovered:
		c.addRect(dl, r, c.style.HoveredBgColor)
	}
	c.addText(dl, r.X+c.style.FramePadding, r.Y+c.style.FramePadding/2, text, c.style.TextColor)
}

// CollapsingHeader draws a full-width header that toggles open on click.
// defaultOpen sets the state the first time the header is drawn.
func (c *Context) CollapsingHeader(label string, defaultOpen bool) bool {
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	pos := w.itemPos()
	id := c.GetID(label)
	st := statePtr(c, id, headerState{})
	if !st.Initialized {
		st.Open = defaultOpen
		st.Initialized = true
	}

	h := c.frameHeight()
	r := Rect{X: pos.X, Y: pos.Y, W: max(c.availWidth(w), h), H: h}
	hovered, _, pressed := c.buttonBehavior(id, r)
	if pressed {
		st.Open = !st.Open
	}

	bg := c.style.HeaderColor
	if hovered {
		bg = c.style.HeaderHoveredColor
	}
	c.addRect(w.dl, r, bg)
	c.drawArrow(w.dl, r.X+h/2, r.Y+h/2, st.Open, c.style.TextColor)
	c.addText(w.dl, r.X+h, r.Y+c.style.FramePadding, displayLabel(label), c.style.TextColor)

	c.advance(w, Vec2{X: r.W, Y: r.H})
	return st.Open
}
