package dearimgui

import (
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/go-theft-auto/imbridge"
)

// ShowDemoWindow draws the Dear ImGui demo window.
func (l *Library) ShowDemoWindow(open *bool) { imgui.ShowDemoWindow(open) }

// ShowMetricsWindow draws the Dear ImGui metrics window.
func (l *Library) ShowMetricsWindow(open *bool) { imgui.ShowMetricsWindow(open) }

// Begin opens a window.
func (l *Library) Begin(name string, open *bool) bool { return imgui.BeginV(name, open, 0) }

// End closes the current window.
func (l *Library) End() { imgui.End() }

// Separator draws a horizontal line.
func (l *Library) Separator() { imgui.Separator() }

// Indent moves following widgets right.
func (l *Library) Indent() { imgui.Indent() }

// Unindent undoes Indent.
func (l *Library) Unindent() { imgui.Unindent() }

// PushID pushes a string onto the ID stack.
func (l *Library) PushID(id string) { imgui.PushID(id) }

// PushIDInt pushes an integer onto the ID stack.
func (l *Library) PushIDInt(id int) { imgui.PushIDInt(id) }

// PopID pops the ID stack.
func (l *Library) PopID() { imgui.PopID() }

// Text draws unformatted text.
func (l *Library) Text(text string) { imgui.Text(text) }

// Button reports whether the button was clicked.
func (l *Library) Button(label string) bool { return imgui.Button(label) }

// Checkbox toggles *v on click.
func (l *Library) Checkbox(label string, v *bool) bool { return imgui.Checkbox(label, v) }

// InputText routes imgui's character filter through cb.
func (l *Library) InputText(label string, buf *string, cb imbridge.InputTextCallback) bool {
	if cb == nil {
		return imgui.InputText(label, buf)
	}
	return imgui.InputTextV(label, buf, imgui.InputTextFlagsCallbackCharFilter, func(data imgui.InputTextCallbackData) int32 {
		if data.EventFlag() != imgui.InputTextFlagsCallbackCharFilter {
			return 0
		}
		ev := imbridge.InputTextEvent{Char: data.EventChar(), Buffer: *buf}
		if cb(&ev) {
			return 1
		}
		data.SetEventChar(ev.Char)
		return 0
	})
}

// SliderFloat edits *v within [min, max].
func (l *Library) SliderFloat(label string, v *float32, min, max float32) bool {
	return imgui.SliderFloat(label, v, min, max)
}

// SliderFloat3 edits three floats within [min, max].
func (l *Library) SliderFloat3(label string, v *[3]float32, min, max float32) bool {
	return imgui.SliderFloat3(label, v, min, max)
}

// SliderInt edits *v within [min, max].
func (l *Library) SliderInt(label string, v *int32, min, max int32) bool {
	return imgui.SliderInt(label, v, min, max)
}

// SliderInt3 edits three ints within [min, max].
func (l *Library) SliderInt3(label string, v *[3]int32, min, max int32) bool {
	return imgui.SliderInt3(label, v, min, max)
}

// InputFloat edits *v as text.
func (l *Library) InputFloat(label string, v *float32) bool { return imgui.InputFloat(label, v) }

// InputFloat3 lays out one field per component on a single line.
func (l *Library) InputFloat3(label string, v *[3]float32) bool {
	changed := false
	imgui.PushID(label)
	for i := range v {
		if i > 0 {
			imgui.SameLine()
		}
		imgui.PushItemWidth(imgui.CalcItemWidth() / 3)
		imgui.PushIDInt(i)
		if imgui.InputFloat("##v", &v[i]) {
			changed = true
		}
		imgui.PopID()
		imgui.PopItemWidth()
	}
	imgui.PopID()
	imgui.SameLine()
	imgui.Text(label)
	return changed
}

// ColorEdit4 edits an RGBA color.
func (l *Library) ColorEdit4(label string, col *[4]float32) bool { return imgui.ColorEdit4(label, col) }

// DragFloat edits *v by dragging.
func (l *Library) DragFloat(label string, v *float32) bool { return imgui.DragFloat(label, v) }

// DragInt edits *v by dragging.
func (l *Library) DragInt(label string, v *int32) bool { return imgui.DragInt(label, v) }

// CollapsingHeader reports whether the header is open.
func (l *Library) CollapsingHeader(label string, defaultOpen bool) bool {
	var flags imgui.TreeNodeFlags
	if defaultOpen {
		flags = imgui.TreeNodeFlagsDefaultOpen
	}
	return imgui.CollapsingHeaderV(label, flags)
}

// BeginCombo reports whether the combo dropdown is open.
func (l *Library) BeginCombo(label, preview string) bool { return imgui.BeginCombo(label, preview) }

// Selectable reports whether the item was clicked.
func (l *Library) Selectable(label string, selected bool) bool {
	return imgui.SelectableV(label, selected, 0, imgui.Vec2{})
}

// EndCombo closes a combo opened by BeginCombo.
func (l *Library) EndCombo() { imgui.EndCombo() }

// BeginTable starts a table with columns columns.
func (l *Library) BeginTable(id string, columns int) bool { return imgui.BeginTable(id, columns) }

// TableNextRow starts a new row.
func (l *Library) TableNextRow() { imgui.TableNextRow() }

// TableSetColumnIndex moves to column in the current row.
func (l *Library) TableSetColumnIndex(column int) bool { return imgui.TableSetColumnIndex(column) }

// EndTable closes the table.
func (l *Library) EndTable() { imgui.EndTable() }
