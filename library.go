package imbridge

// Library is the immediate-mode GUI library driven by the bridge.
// All methods are called on the game thread.
type Library interface {
	CreateContext() error
	DestroyContext()
	HasContext() bool

	IO() IO

	// FontAtlasRGBA32 rasterises the font atlas. The slice holds
	// width*height*4 bytes of tightly packed RGBA8 pixels.
	FontAtlasRGBA32() (pixels []byte, width, height int)
	SetFontTexture(id TextureID)

	NewFrame()
	// Render ends the frame. The returned DrawData is only valid until the
	// next NewFrame.
	Render() *DrawData

	Widgets
}

// IO is the library's per-frame input block.
type IO interface {
	SetDisplaySize(size Vec2)
	SetFramebufferScale(scale Vec2)
	SetDeltaTime(dt float32)
	SetMousePos(pos Vec2)
	SetMouseButton(button int, down bool)
	SetModifiers(m Modifiers)
	AddMouseWheel(x, y float32)
	SetKeyMap(m KeyMap)
	SetKey(k Key, down bool)
	AddInputChar(r rune)
}

// InputTextEvent is passed to an InputTextCallback for every character
// typed into a text field. The callback may rewrite Char.
type InputTextEvent struct {
	Char   rune
	Buffer string
}

// InputTextCallback filters typed characters. Returning true discards the
// character.
type InputTextCallback func(ev *InputTextEvent) (discard bool)

// Widgets is the widget set the bridge exposes to game code and the
// property editor.
type Widgets interface {
	ShowDemoWindow(open *bool)
	ShowMetricsWindow(open *bool)

	Begin(name string, open *bool) bool
	End()
	Separator()
	Indent()
	Unindent()
	PushID(id string)
	PushIDInt(id int)
	PopID()

	Text(text string)
	Button(label string) bool
	Checkbox(label string, v *bool) bool
	InputText(label string, buf *string, cb InputTextCallback) bool
	SliderFloat(label string, v *float32, min, max float32) bool
	SliderFloat3(label string, v *[3]float32, min, max float32) bool
	SliderInt(label string, v *int32, min, max int32) bool
	SliderInt3(label string, v *[3]int32, min, max int32) bool
	InputFloat(label string, v *float32) bool
	InputFloat3(label string, v *[3]float32) bool
	ColorEdit4(label string, col *[4]float32) bool
	DragFloat(label string, v *float32) bool
	DragInt(label string, v *int32) bool

	CollapsingHeader(label string, defaultOpen bool) bool
	BeginCombo(label, preview string) bool
	Selectable(label string, selected bool) bool
	EndCombo()

	BeginTable(id string, columns int) bool
	TableNextRow()
	TableSetColumnIndex(column int) bool
	EndTable()
}
