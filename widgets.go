package imbridge

// Widget wrappers. Each one checks for a live context first and returns the
// zero value without touching the library when there is none, so game code
// may call them before Initialize or after Shutdown.

// Branch is the result of a Branched widget call, for callers that prefer
// switching on an outcome over testing a bool.
type Branch int

const (
	NotClicked Branch = iota
	Clicked
)

// String returns "Clicked" or "NotClicked".
func (b Branch) String() string {
	if b == Clicked {
		return "Clicked"
	}
	return "NotClicked"
}

func branchOf(v bool) Branch {
	if v {
		return Clicked
	}
	return NotClicked
}

// ShowDemoWindow draws the library's widget demo.
func (g *GuiSubsystem) ShowDemoWindow() {
	if g.Active() {
		g.lib.ShowDemoWindow(nil)
	}
}

// ShowMetricsWindow draws statistics about the previous frame.
func (g *GuiSubsystem) ShowMetricsWindow() {
	if g.Active() {
		g.lib.ShowMetricsWindow(nil)
	}
}

// Begin opens a window. open may be nil; when it is not, the window gets a
// close button that clears *open.
func (g *GuiSubsystem) Begin(name string, open *bool) bool {
	if !g.Active() {
		return false
	}
	return g.lib.Begin(name, open)
}

// End closes the window opened by Begin. It must be called even when Begin
// returned false.
func (g *GuiSubsystem) End() {
	if g.Active() {
		g.lib.End()
	}
}

// Separator draws a horizontal line.
func (g *GuiSubsystem) Separator() {
	if g.Active() {
		g.lib.Separator()
	}
}

// Indent moves following widgets right.
func (g *GuiSubsystem) Indent() {
	if g.Active() {
		g.lib.Indent()
	}
}

// Unindent undoes Indent.
func (g *GuiSubsystem) Unindent() {
	if g.Active() {
		g.lib.Unindent()
	}
}

// PushID scopes following widget IDs by id.
func (g *GuiSubsystem) PushID(id string) {
	if g.Active() {
		g.lib.PushID(id)
	}
}

// PushIDInt scopes following widget IDs by an integer.
func (g *GuiSubsystem) PushIDInt(id int) {
	if g.Active() {
		g.lib.PushIDInt(id)
	}
}

// PopID ends the scope opened by PushID or PushIDInt.
func (g *GuiSubsystem) PopID() {
	if g.Active() {
		g.lib.PopID()
	}
}

// Text draws a line of text.
func (g *GuiSubsystem) Text(text string) {
	if g.Active() {
		g.lib.Text(text)
	}
}

// Button reports whether the button was clicked this frame.
func (g *GuiSubsystem) Button(label string) bool {
	return g.Active() && g.lib.Button(label)
}

// ButtonBranched is Button returning a Branch.
func (g *GuiSubsystem) ButtonBranched(label string) Branch {
	return branchOf(g.Button(label))
}

// Checkbox toggles *v and reports whether it changed.
func (g *GuiSubsystem) Checkbox(label string, v *bool) bool {
	return g.Active() && g.lib.Checkbox(label, v)
}

// CheckboxBranched is Checkbox returning a Branch.
func (g *GuiSubsystem) CheckboxBranched(label string, v *bool) Branch {
	return branchOf(g.Checkbox(label, v))
}

// InputString edits *buf. cb, when non-nil, sees every typed character and
// may rewrite or discard it.
func (g *GuiSubsystem) InputString(label string, buf *string, cb InputTextCallback) bool {
	return g.Active() && g.lib.InputText(label, buf, cb)
}

// InputStringBranched is InputString returning a Branch.
func (g *GuiSubsystem) InputStringBranched(label string, buf *string, cb InputTextCallback) Branch {
	return branchOf(g.InputString(label, buf, cb))
}

// SliderFloat edits *v within [min, max].
func (g *GuiSubsystem) SliderFloat(label string, v *float32, min, max float32) bool {
	return g.Active() && g.lib.SliderFloat(label, v, min, max)
}

// SliderFloatBranched is SliderFloat returning a Branch.
func (g *GuiSubsystem) SliderFloatBranched(label string, v *float32, min, max float32) Branch {
	return branchOf(g.SliderFloat(label, v, min, max))
}

// SliderVector edits three floats within [min, max].
func (g *GuiSubsystem) SliderVector(label string, v *[3]float32, min, max float32) bool {
	return g.Active() && g.lib.SliderFloat3(label, v, min, max)
}

// SliderInt edits *v within [min, max].
func (g *GuiSubsystem) SliderInt(label string, v *int32, min, max int32) bool {
	return g.Active() && g.lib.SliderInt(label, v, min, max)
}

// SliderIntBranched is SliderInt returning a Branch.
func (g *GuiSubsystem) SliderIntBranched(label string, v *int32, min, max int32) Branch {
	return branchOf(g.SliderInt(label, v, min, max))
}

// SliderIntVector edits three ints within [min, max].
func (g *GuiSubsystem) SliderIntVector(label string, v *[3]int32, min, max int32) bool {
	return g.Active() && g.lib.SliderInt3(label, v, min, max)
}

// InputFloat edits *v as text, committing on Enter.
func (g *GuiSubsystem) InputFloat(label string, v *float32) bool {
	return g.Active() && g.lib.InputFloat(label, v)
}

// InputFloatBranched is InputFloat returning a Branch.
func (g *GuiSubsystem) InputFloatBranched(label string, v *float32) Branch {
	return branchOf(g.InputFloat(label, v))
}

// InputVector edits three floats as text.
func (g *GuiSubsystem) InputVector(label string, v *[3]float32) bool {
	return g.Active() && g.lib.InputFloat3(label, v)
}

// ColorEdit edits a linear RGBA color.
func (g *GuiSubsystem) ColorEdit(label string, col *[4]float32) bool {
	return g.Active() && g.lib.ColorEdit4(label, col)
}

// ColorEditBranched is ColorEdit returning a Branch.
func (g *GuiSubsystem) ColorEditBranched(label string, col *[4]float32) Branch {
	return branchOf(g.ColorEdit(label, col))
}

// DragFloat edits *v by dragging horizontally.
func (g *GuiSubsystem) DragFloat(label string, v *float32) bool {
	return g.Active() && g.lib.DragFloat(label, v)
}

// DragInt edits *v by dragging horizontally.
func (g *GuiSubsystem) DragInt(label string, v *int32) bool {
	return g.Active() && g.lib.DragInt(label, v)
}

// CollapsingHeader draws a header and reports whether it is open.
func (g *GuiSubsystem) CollapsingHeader(label string, defaultOpen bool) bool {
	return g.Active() && g.lib.CollapsingHeader(label, defaultOpen)
}

// CollapsingHeaderBranched is CollapsingHeader returning a Branch.
func (g *GuiSubsystem) CollapsingHeaderBranched(label string, defaultOpen bool) Branch {
	return branchOf(g.CollapsingHeader(label, defaultOpen))
}

// BeginCombo reports whether the dropdown is open. Call EndCombo only when it is.
func (g *GuiSubsystem) BeginCombo(label, preview string) bool {
	return g.Active() && g.lib.BeginCombo(label, preview)
}

// Selectable draws a combo item and reports whether it was clicked.
func (g *GuiSubsystem) Selectable(label string, selected bool) bool {
	return g.Active() && g.lib.Selectable(label, selected)
}

// EndCombo closes the dropdown opened by BeginCombo.
func (g *GuiSubsystem) EndCombo() {
	if g.Active() {
		g.lib.EndCombo()
	}
}

// BeginTable starts a table. Call EndTable only when it returns true.
func (g *GuiSubsystem) BeginTable(id string, columns int) bool {
	return g.Active() && g.lib.BeginTable(id, columns)
}

// TableNextRow starts a new table row.
func (g *GuiSubsystem) TableNextRow() {
	if g.Active() {
		g.lib.TableNextRow()
	}
}

// TableSetColumnIndex moves to column in the current row.
func (g *GuiSubsystem) TableSetColumnIndex(column int) bool {
	return g.Active() && g.lib.TableSetColumnIndex(column)
}

// EndTable closes the table opened by BeginTable.
func (g *GuiSubsystem) EndTable() {
	if g.Active() {
		g.lib.EndTable()
	}
}
