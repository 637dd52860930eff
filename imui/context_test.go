package imui_test

import (
	"testing"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/imui"
)

func newLiveContext(t *testing.T) *imui.Context {
	t.Helper()
	ctx := imui.NewContext()
	if err := ctx.CreateContext(); err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	ctx.IO().SetDisplaySize(imbridge.Vec2{X: 800, Y: 600})
	return ctx
}

// frame runs one NewFrame/draw/Render cycle.
func frame(ctx *imui.Context, draw func()) *imbridge.DrawData {
	ctx.NewFrame()
	draw()
	return ctx.Render()
}

// itemCenter is the center of the first widget drawn outside any window.
func itemCenter(ctx *imui.Context) imbridge.Vec2 {
	s := ctx.Style()
	h := ctx.Font().LineHeight + s.FramePadding*2
	return imbridge.Vec2{X: s.WindowPadding + h/2, Y: s.WindowPadding + h/2}
}

func checkDrawData(t *testing.T, dd *imbridge.DrawData) {
	t.Helper()
	vtx, idx := 0, 0
	for li, dl := range dd.Lists {
		vtx += len(dl.VtxBuffer)
		idx += len(dl.IdxBuffer)
		for ci, cmd := range dl.CmdBuffer {
			if cmd.UserCallback != nil {
				continue
			}
			if cmd.ElemCount%3 != 0 {
				t.Errorf("list %d cmd %d: ElemCount %d not a multiple of 3", li, ci, cmd.ElemCount)
			}
			end := cmd.IdxOffset + cmd.ElemCount
			if int(end) > len(dl.IdxBuffer) {
				t.Fatalf("list %d cmd %d: indices past end of buffer", li, ci)
			}
			for _, i := range dl.IdxBuffer[cmd.IdxOffset:end] {
				if int(cmd.VtxOffset)+int(i) >= len(dl.VtxBuffer) {
					t.Fatalf("list %d cmd %d: vertex %d out of range", li, ci, int(cmd.VtxOffset)+int(i))
				}
			}
		}
	}
	if vtx != dd.TotalVtxCount || idx != dd.TotalIdxCount {
		t.Errorf("totals = %d/%d, lists hold %d/%d", dd.TotalVtxCount, dd.TotalIdxCount, vtx, idx)
	}
}

func TestContextLifecycle(t *testing.T) {
	ctx := imui.NewContext()
	if ctx.HasContext() {
		t.Fatal("context should not be live before CreateContext")
	}
	if dd := ctx.Render(); dd != nil {
		t.Fatal("Render without a context should return nil")
	}

	ctx = newLiveContext(t)
	if !ctx.HasContext() {
		t.Fatal("context should be live")
	}
	pixels, w, h := ctx.FontAtlasRGBA32()
	if w == 0 || h == 0 || len(pixels) != w*h*4 {
		t.Fatalf("atlas %dx%d with %d bytes", w, h, len(pixels))
	}

	ctx.DestroyContext()
	if ctx.HasContext() {
		t.Fatal("context should not be live after DestroyContext")
	}
	ctx.NewFrame()
	if ctx.Button("ignored") {
		t.Error("widgets must not report clicks without a context")
	}
}

func TestRenderWithoutNewFrameIsEmpty(t *testing.T) {
	ctx := newLiveContext(t)
	dd := ctx.Render()
	if dd == nil || dd.TotalVtxCount != 0 || len(dd.Lists) != 0 {
		t.Fatalf("expected empty draw data, got %+v", dd)
	}
}

func TestDemoWindowDrawData(t *testing.T) {
	ctx := newLiveContext(t)
	ctx.SetFontTexture(7)
	open := true
	var dd *imbridge.DrawData
	for i := 0; i < 3; i++ {
		dd = frame(ctx, func() {
			ctx.ShowDemoWindow(&open)
			ctx.ShowMetricsWindow(nil)
		})
	}
	if dd.TotalVtxCount == 0 || len(dd.Lists) == 0 {
		t.Fatal("demo window produced no geometry")
	}
	if dd.DisplaySize != (imbridge.Vec2{X: 800, Y: 600}) {
		t.Errorf("display size = %v", dd.DisplaySize)
	}
	for _, cmd := range dd.Lists[0].CmdBuffer {
		if cmd.TextureID != 7 {
			t.Errorf("command uses texture %d, want the font texture 7", cmd.TextureID)
		}
	}
	checkDrawData(t, dd)
	if m := ctx.Metrics(); m.Windows != 2 || m.Vertices != dd.TotalVtxCount {
		t.Errorf("metrics = %+v", m)
	}
}

func TestButtonClick(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()

	clicked := false
	frame(ctx, func() { clicked = ctx.Button("Press") })
	if clicked {
		t.Fatal("button clicked without input")
	}

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, func() { clicked = ctx.Button("Press") })
	if !clicked {
		t.Fatal("expected click on the frame the button went down")
	}

	// Still held: not a new click.
	frame(ctx, func() { clicked = ctx.Button("Press") })
	if clicked {
		t.Error("holding the button must not click again")
	}
}

func TestCheckboxToggles(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()
	v := false

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	changed := false
	frame(ctx, func() { changed = ctx.Checkbox("Enabled", &v) })
	if !changed || !v {
		t.Fatalf("checkbox: changed=%v v=%v, want true true", changed, v)
	}

	io.SetMouseButton(imui.MouseButtonLeft, false)
	frame(ctx, func() { changed = ctx.Checkbox("Enabled", &v) })
	if changed || !v {
		t.Errorf("release: changed=%v v=%v, want false true", changed, v)
	}
}

func TestCollapsingHeaderState(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()

	open := false
	frame(ctx, func() { open = ctx.CollapsingHeader("Section", true) })
	if !open {
		t.Fatal("defaultOpen header should start open")
	}

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, func() { open = ctx.CollapsingHeader("Section", true) })
	if open {
		t.Fatal("click should close the header")
	}

	io.SetMouseButton(imui.MouseButtonLeft, false)
	frame(ctx, func() { open = ctx.CollapsingHeader("Section", true) })
	if open {
		t.Error("header state should persist across frames")
	}
}

func TestInputTextFilter(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()
	buf := ""
	lower := func(ev *imbridge.InputTextEvent) bool {
		if ev.Char == 'x' {
			return true
		}
		if ev.Char >= 'A' && ev.Char <= 'Z' {
			ev.Char += 'a' - 'A'
		}
		return false
	}
	draw := func() bool { return ctx.InputText("##name", &buf, lower) }

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, func() { draw() })

	io.SetMouseButton(imui.MouseButtonLeft, false)
	io.AddInputChar('H')
	io.AddInputChar('x')
	io.AddInputChar('i')
	changed := false
	frame(ctx, func() { changed = draw() })
	if !changed || buf != "hi" {
		t.Fatalf("buf = %q changed = %v, want \"hi\" true", buf, changed)
	}

	io.SetKey(imbridge.KeyBackspace, true)
	frame(ctx, func() { changed = draw() })
	if !changed || buf != "h" {
		t.Errorf("after backspace buf = %q, want \"h\"", buf)
	}
}

func TestInputFloatCommitsOnEnter(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()
	v := float32(1)
	draw := func() bool { return ctx.InputFloat("##v", &v) }

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, func() { draw() })
	io.SetMouseButton(imui.MouseButtonLeft, false)

	// Clear the field, then type a new value.
	io.SetModifiers(imbridge.Modifiers{Ctrl: true})
	io.SetKey(imbridge.KeyX, true)
	frame(ctx, func() { draw() })
	io.SetKey(imbridge.KeyX, false)
	io.SetModifiers(imbridge.Modifiers{})
	for _, r := range "2.5" {
		io.AddInputChar(r)
	}
	frame(ctx, func() { draw() })
	if v != 1 {
		t.Fatalf("value written before commit: %v", v)
	}

	io.SetKey(imbridge.KeyEnter, true)
	changed := false
	frame(ctx, func() { changed = draw() })
	if !changed || v != 2.5 {
		t.Errorf("after Enter v = %v changed = %v, want 2.5 true", v, changed)
	}
}

func TestComboSelect(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()
	items := []string{"Walk", "Drive", "Fly"}
	selected := 0
	open := false
	draw := func() {
		open = ctx.BeginCombo("##mode", items[selected])
		if !open {
			return
		}
		for i, it := range items {
			if ctx.Selectable(it, i == selected) {
				selected = i
			}
		}
		ctx.EndCombo()
	}

	frame(ctx, draw)
	if open {
		t.Fatal("combo should start closed")
	}

	io.SetMousePos(itemCenter(ctx))
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, draw)
	if !open {
		t.Fatal("click should open the combo")
	}
	io.SetMouseButton(imui.MouseButtonLeft, false)
	frame(ctx, draw)

	// Second row of the dropdown.
	s := ctx.Style()
	lh := ctx.Font().LineHeight
	top := s.WindowPadding + lh + s.FramePadding*2 + s.FramePadding/2
	row := lh + s.FramePadding
	io.SetMousePos(imbridge.Vec2{X: s.WindowPadding + 10, Y: top + row*1.5})
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, draw)
	if selected != 1 {
		t.Fatalf("selected = %d, want 1", selected)
	}

	io.SetMouseButton(imui.MouseButtonLeft, false)
	frame(ctx, draw)
	if open {
		t.Error("selecting an item should close the combo")
	}
}

func TestTableRestoresIDScope(t *testing.T) {
	ctx := newLiveContext(t)
	frame(ctx, func() {
		before := ctx.CurrentID()
		if !ctx.BeginTable("split", 2) {
			t.Fatal("BeginTable returned false")
		}
		for i := 0; i < 3; i++ {
			ctx.TableNextRow()
			ctx.TableSetColumnIndex(0)
			ctx.Text("name")
			ctx.TableSetColumnIndex(1)
			v := float32(i)
			ctx.DragFloat("##v", &v)
		}
		if ctx.TableSetColumnIndex(2) {
			t.Error("column 2 of a 2-column table should be rejected")
		}
		ctx.EndTable()
		if after := ctx.CurrentID(); after != before {
			t.Errorf("ID scope leaked: before %d after %d", before, after)
		}
	})
}

func TestIDScopes(t *testing.T) {
	ctx := newLiveContext(t)
	ctx.NewFrame()
	a := ctx.GetID("value")
	ctx.PushID("obj")
	b := ctx.GetID("value")
	ctx.PushIDInt(3)
	c := ctx.GetID("value")
	ctx.PopID()
	ctx.PopID()
	ctx.Render()

	if a == b || b == c || a == c {
		t.Errorf("IDs should differ per scope: %d %d %d", a, b, c)
	}
	ctx.NewFrame()
	if again := ctx.GetID("value"); again != a {
		t.Errorf("ID not stable across frames: %d != %d", again, a)
	}
	if hidden := ctx.GetID("Label##1"); hidden == ctx.GetID("Label##2") {
		t.Error("text after ## must be part of the ID")
	}
	ctx.Render()
}

func TestWindowCollapse(t *testing.T) {
	ctx := newLiveContext(t)
	io := ctx.IO()
	visible := false
	draw := func() {
		visible = ctx.Begin("Tools", nil)
		if visible {
			ctx.Text("body")
		}
		ctx.End()
	}

	frame(ctx, draw)
	if !visible {
		t.Fatal("new window should be expanded")
	}

	// The collapse arrow is the square at the left of the title bar. New
	// windows start at (20, 20).
	h := ctx.Font().LineHeight + ctx.Style().FramePadding*2
	io.SetMousePos(imbridge.Vec2{X: 20 + h/2, Y: 20 + h/2})
	io.SetMouseButton(imui.MouseButtonLeft, true)
	frame(ctx, draw)
	if visible {
		t.Error("clicking the arrow should collapse the window")
	}
}

func TestClosedWindowSkipsContent(t *testing.T) {
	ctx := newLiveContext(t)
	open := false
	dd := frame(ctx, func() {
		if ctx.Begin("Hidden", &open) {
			t.Error("Begin should return false when *open is false")
		}
		ctx.End()
	})
	if dd.TotalVtxCount != 0 {
		t.Errorf("closed window drew %d vertices", dd.TotalVtxCount)
	}
}

func TestPlotLinesTooltipOnHover(t *testing.T) {
	ctx := newLiveContext(t)
	values := []float32{1, 3, 2, 5}
	plot := func() { ctx.PlotLines("##plot", values, 40) }

	dd := frame(ctx, plot)
	if len(dd.Lists) != 1 {
		t.Fatalf("lists without hover = %d, want 1", len(dd.Lists))
	}

	s := ctx.Style()
	ctx.IO().SetMousePos(imbridge.Vec2{X: s.WindowPadding + 4, Y: s.WindowPadding + 20})
	dd = frame(ctx, plot)
	if len(dd.Lists) != 2 {
		t.Fatalf("lists with hover = %d, want the tooltip list too", len(dd.Lists))
	}
	checkDrawData(t, dd)
}
