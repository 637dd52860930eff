package imui

import (
	"strconv"
	"unicode/utf8"

	"github.com/go-theft-auto/imbridge"
)

// textEdit runs a single-line editor inside r. While the field has focus it
// edits the state buffer; commit is true on the frame editing ends with
// Enter or a click elsewhere. Escape reverts.
func (c *Context) textEdit(r Rect, initial string, filter imbridge.InputTextCallback) (st *textEditState, edited, commit bool) {
	w := c.win()
	id := c.CurrentID()
	st = statePtr(c, id, textEditState{})
	hovered, _, pressed := c.buttonBehavior(id, r)
	focused := c.focusID == id

	switch {
	case st.Editing && !focused:
		// Another widget took focus.
		st.Editing = false
		commit = true
	case pressed && !focused:
		c.focusID = id
		focused = true
		st.Editing = true
		st.Buffer = initial
		st.Cursor = len(initial)
	case focused && c.io.MouseClicked(MouseButtonLeft) && !hovered:
		c.focusID = 0
		focused = false
		st.Editing = false
		commit = true
	}

	if focused {
		edited = c.editKeys(st, filter)
		switch {
		case c.io.KeyPressed(imbridge.GuiKeyEnter) || c.io.KeyPressed(imbridge.GuiKeyKeypadEnter):
			c.focusID = 0
			st.Editing = false
			commit = true
		case c.io.KeyPressed(imbridge.GuiKeyEscape):
			c.focusID = 0
			st.Editing = false
			st.Buffer = initial
			edited = false
		}
	}

	text := initial
	if focused || commit {
		text = st.Buffer
	}
	c.addRect(w.dl, r, c.frameColor(hovered, focused))
	c.addOutline(w.dl, r, c.style.FrameBorderColor)
	w.dl.PushClipRect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	tx, ty := r.X+c.style.FramePadding, r.Y+c.style.FramePadding
	c.addText(w.dl, tx, ty, text, c.style.TextColor)
	if c.focusID == id {
		cx := tx + c.MeasureText(text[:min(st.Cursor, len(text))]).X
		c.addRect(w.dl, Rect{X: cx, Y: ty, W: 1, H: c.lineHeight()}, c.style.TextCursorColor)
	}
	w.dl.PopClipRect()
	return st, edited, commit
}

// editKeys applies this frame's typed characters and editing keys to st.
func (c *Context) editKeys(st *textEditState, filter imbridge.InputTextCallback) bool {
	io := c.io
	edited := false
	ctrl := io.Modifiers.Ctrl || io.Modifiers.Super

	for _, ch := range io.InputChars() {
		if ch < 0x20 || ch == 0x7f || ctrl {
			continue
		}
		if filter != nil {
			ev := imbridge.InputTextEvent{Char: ch, Buffer: st.Buffer}
			if filter(&ev) {
				continue
			}
			ch = ev.Char
		}
		s := string(ch)
		st.Buffer = st.Buffer[:st.Cursor] + s + st.Buffer[st.Cursor:]
		st.Cursor += len(s)
		edited = true
	}

	switch {
	case io.KeyRepeated(imbridge.GuiKeyBackspace) && st.Cursor > 0:
		_, n := utf8.DecodeLastRuneInString(st.Buffer[:st.Cursor])
		st.Buffer = st.Buffer[:st.Cursor-n] + st.Buffer[st.Cursor:]
		st.Cursor -= n
		edited = true
	case io.KeyRepeated(imbridge.GuiKeyDelete) && st.Cursor < len(st.Buffer):
		_, n := utf8.DecodeRuneInString(st.Buffer[st.Cursor:])
		st.Buffer = st.Buffer[:st.Cursor] + st.Buffer[st.Cursor+n:]
		edited = true
	case io.KeyRepeated(imbridge.GuiKeyLeftArrow) && st.Cursor > 0:
		_, n := utf8.DecodeLastRuneInString(st.Buffer[:st.Cursor])
		st.Cursor -= n
	case io.KeyRepeated(imbridge.GuiKeyRightArrow) && st.Cursor < len(st.Buffer):
		_, n := utf8.DecodeRuneInString(st.Buffer[st.Cursor:])
		st.Cursor += n
	case io.KeyPressed(imbridge.GuiKeyHome):
		st.Cursor = 0
	case io.KeyPressed(imbridge.GuiKeyEnd):
		st.Cursor = len(st.Buffer)
	}

	if ctrl {
		switch {
		case io.KeyPressed(imbridge.GuiKeyC):
			c.clipboard.SetText(st.Buffer)
		case io.KeyPressed(imbridge.GuiKeyX):
			c.clipboard.SetText(st.Buffer)
			st.Buffer, st.Cursor = "", 0
			edited = true
		case io.KeyPressed(imbridge.GuiKeyV):
			paste := c.clipboard.GetText()
			st.Buffer = st.Buffer[:st.Cursor] + paste + st.Buffer[st.Cursor:]
			st.Cursor += len(paste)
			edited = paste != ""
		case io.KeyPressed(imbridge.GuiKeyA):
			st.Cursor = len(st.Buffer)
		}
	}
	return edited
}

// InputText edits *buf in place. cb may filter or rewrite typed
// characters. It reports whether *buf changed this frame.
func (c *Context) InputText(label string, buf *string, cb imbridge.InputTextCallback) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		st, edited, _ := c.textEdit(r, *buf, cb)
		if !edited || st.Buffer == *buf {
			return false
		}
		*buf = st.Buffer
		return true
	})
}

// numericFilter accepts characters that can appear in a float literal.
func numericFilter(ev *imbridge.InputTextEvent) bool {
	switch r := ev.Char; {
	case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
		return false
	}
	return true
}

func (c *Context) inputScalar(r Rect, v *float32) bool {
	shown := strconv.FormatFloat(float64(*v), 'f', 3, 32)
	st, _, commit := c.textEdit(r, shown, numericFilter)
	if !commit {
		return false
	}
	f, err := strconv.ParseFloat(st.Buffer, 32)
	if err != nil || float32(f) == *v {
		return false
	}
	*v = float32(f)
	return true
}

// InputFloat edits *v as text. The value is written when editing ends.
func (c *Context) InputFloat(label string, v *float32) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		return c.inputScalar(r, v)
	})
}

// InputFloat3 edits three floats as text on one line.
func (c *Context) InputFloat3(label string, v *[3]float32) bool {
	return c.components(label, 3, func(i int, r Rect) bool {
		return c.inputScalar(r, &v[i])
	})
}
