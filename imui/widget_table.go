package imui

// table lays out rows of equal-width columns. Items placed in a column
// wrap to the column's left edge; a row is as tall as its tallest column.
type table struct {
	id        ID
	x0        float32
	width     float32
	colW      float32
	columns   int
	row       int
	col       int
	rowY      float32
	rowH      float32
	lineStart float32
}

func (t *table) colX(col int) float32 {
	return t.x0 + float32(max(col, 0))*t.colW
}

func (c *Context) currentTable() *table {
	if n := len(c.tables); n > 0 {
		return c.tables[n-1]
	}
	return nil
}

// BeginTable starts a table with the given number of columns spanning the
// available width. Call EndTable only when it returns true.
func (c *Context) BeginTable(id string, columns int) bool {
	w := c.win()
	if w == nil || w.skip || columns < 1 {
		return false
	}
	pos := w.itemPos()
	width := c.availWidth(w)
	t := &table{
		id:        c.GetID(id),
		x0:        pos.X,
		width:     width,
		colW:      width / float32(columns),
		columns:   columns,
		row:       -1,
		col:       -1,
		rowY:      pos.Y,
		lineStart: w.lineStart,
	}
	c.tables = append(c.tables, t)
	c.idStack = append(c.idStack, t.id)
	return true
}

// TableNextRow starts a new row. Column 0 becomes current.
func (c *Context) TableNextRow() {
	t, w := c.currentTable(), c.win()
	if t == nil || w == nil {
		return
	}
	if t.row >= 0 {
		c.endRow(t, w)
	}
	t.row++
	t.rowH = 0
	if t.row%2 == 1 {
		// Alternate row tint uses last frame's row height.
		h := GetState(c, idFrom(t.id, "#rowh"), c.frameHeight())
		c.addRect(w.dl, Rect{X: t.x0, Y: t.rowY, W: t.width, H: h}, c.style.TableRowBgAltColor)
	}
	c.setColumn(t, w, 0)
}

func (c *Context) endRow(t *table, w *window) {
	SetState(c, idFrom(t.id, "#rowh"), t.rowH)
	t.rowY += t.rowH + c.style.ItemSpacing
	c.addRect(w.dl, Rect{X: t.x0, Y: t.rowY - c.style.ItemSpacing/2, W: t.width, H: 1}, c.style.TableBorderColor)
}

// TableSetColumnIndex moves to column col of the current row.
func (c *Context) TableSetColumnIndex(col int) bool {
	t, w := c.currentTable(), c.win()
	if t == nil || w == nil || col < 0 || col >= t.columns {
		return false
	}
	if t.row < 0 {
		c.TableNextRow()
	}
	c.setColumn(t, w, col)
	return true
}

func (c *Context) setColumn(t *table, w *window, col int) {
	if t.col >= 0 {
		c.PopID()
	}
	t.col = col
	x := t.colX(col)
	if col > 0 {
		x += c.style.ItemSpacing
	}
	w.lineStart = x - w.indent
	w.cursor = Vec2{X: x, Y: t.rowY}
	c.PushIDInt(col)
}

// EndTable closes the table and moves the cursor below it.
func (c *Context) EndTable() {
	n := len(c.tables)
	if n == 0 {
		return
	}
	t := c.tables[n-1]
	w := c.win()
	if t.col >= 0 {
		c.PopID()
	}
	if t.row >= 0 {
		SetState(c, idFrom(t.id, "#rowh"), t.rowH)
	}
	c.tables = c.tables[:n-1]
	c.PopID()
	if w == nil {
		return
	}
	w.lineStart = t.lineStart
	bottom := t.rowY + t.rowH
	w.contentMax.X = max(w.contentMax.X, t.x0+t.width)
	w.contentMax.Y = max(w.contentMax.Y, bottom)
	w.cursor = Vec2{X: w.lineStart + w.indent, Y: bottom + c.style.ItemSpacing}
}
