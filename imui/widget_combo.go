package imui

import "github.com/go-theft-auto/imbridge"

// popup is the open combo's dropdown. It draws into the foreground list so
// it covers every window.
type popup struct {
	id     ID
	st     *comboState
	rect   Rect // dropdown area, height grows as items are added
	cursor Vec2
	dl     *DrawList
}

type comboDropdown struct {
	Height float32
}

// BeginCombo draws a combo box showing preview and reports whether its
// dropdown is open. Call Selectable for each item and EndCombo only when
// it returns true.
func (c *Context) BeginCombo(label, preview string) bool {
	w := c.win()
	if w == nil || w.skip || c.popup != nil {
		return false
	}
	open := false
	c.components(label, 1, func(_ int, r Rect) bool {
		id := c.CurrentID()
		st := statePtr(c, id, comboState{})
		hovered, _, pressed := c.buttonBehavior(id, r)
		switch {
		case pressed:
			st.Open = !st.Open
		case st.Open && c.io.MouseClicked(MouseButtonLeft) && !c.popupBlock.Contains(c.io.MousePos):
			st.Open = false
		case st.Open && c.io.KeyPressed(imbridge.GuiKeyEscape):
			st.Open = false
		}

		c.addRect(w.dl, r, c.frameColor(hovered, st.Open))
		arrowW := r.H
		w.dl.PushClipRect(r.X, r.Y, r.X+r.W-arrowW, r.Y+r.H)
		c.addText(w.dl, r.X+c.style.FramePadding, r.Y+c.style.FramePadding,
			c.truncateText(preview, r.W-arrowW-c.style.FramePadding*2), c.style.TextColor)
		w.dl.PopClipRect()
		c.addRect(w.dl, Rect{X: r.X + r.W - arrowW, Y: r.Y, W: arrowW, H: r.H}, c.style.ButtonColor)
		c.drawArrow(w.dl, r.X+r.W-arrowW/2, r.Y+r.H/2, true, c.style.ComboArrowColor)

		if st.Open {
			open = true
			drop := statePtr(c, idFrom(id, "#dropdown"), comboDropdown{})
			p := &popup{
				id:     id,
				st:     st,
				rect:   Rect{X: r.X, Y: r.Y + r.H, W: r.W, H: drop.Height},
				cursor: Vec2{X: r.X, Y: r.Y + r.H + c.style.FramePadding/2},
				dl:     c.fg,
			}
			// Background uses last frame's height; EndCombo records this one.
			c.addRect(p.dl, p.rect, c.style.PopupBgColor)
			c.addOutline(p.dl, p.rect, c.style.FrameBorderColor)
			c.popup = p
		}
		return false
	})
	if open {
		// Items are scoped under the combo so labels may repeat elsewhere.
		c.idStack = append(c.idStack, c.popup.id)
	}
	return open
}

func (c *Context) popupSelectable(p *popup, label string, selected bool) bool {
	id := c.GetID(label)
	r := Rect{X: p.cursor.X, Y: p.cursor.Y, W: p.rect.W, H: c.lineHeight() + c.style.FramePadding}
	hovered := c.activeID == 0 && r.Contains(c.io.MousePos)
	pressed := hovered && c.io.MouseClicked(MouseButtonLeft)
	if pressed {
		c.activeID = id
		p.st.Open = false
	}
	c.drawSelectable(p.dl, r, displayLabel(label), selected, hovered)
	p.cursor.Y += r.H
	return pressed
}

// EndCombo closes the dropdown opened by BeginCombo.
func (c *Context) EndCombo() {
	p := c.popup
	if p == nil {
		return
	}
	c.PopID()
	c.popup = nil
	h := p.cursor.Y - p.rect.Y + c.style.FramePadding/2
	statePtr(c, idFrom(p.id, "#dropdown"), comboDropdown{}).Height = h
	p.rect.H = h
	c.popupNext = p.rect
}
