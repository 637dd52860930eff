package imui_test

import (
	"testing"

	"github.com/go-theft-auto/imbridge"
	"github.com/go-theft-auto/imbridge/imui"
)

var white = imbridge.Vec2{X: 0.5, Y: 0.5}

func TestDrawListSplitsOnTexture(t *testing.T) {
	dl := imui.NewDrawList()
	dl.SetTexture(1)
	dl.AddRect(0, 0, 10, 10, imbridge.ColorWhite, white)
	dl.SetTexture(2)
	dl.AddRect(20, 0, 10, 10, imbridge.ColorWhite, white)
	dl.Finalize()

	if len(dl.CmdBuffer) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(dl.CmdBuffer))
	}
	first, second := dl.CmdBuffer[0], dl.CmdBuffer[1]
	if first.TextureID != 1 || second.TextureID != 2 {
		t.Errorf("texture ids = %d, %d", first.TextureID, second.TextureID)
	}
	if first.ElemCount != 6 || second.ElemCount != 6 {
		t.Errorf("elem counts = %d, %d, want 6, 6", first.ElemCount, second.ElemCount)
	}
	if second.VtxOffset != 4 || second.IdxOffset != 6 {
		t.Errorf("second command offsets = vtx %d idx %d, want 4, 6", second.VtxOffset, second.IdxOffset)
	}
	// Indices are relative to the command's VtxOffset.
	for _, idx := range dl.IdxBuffer[second.IdxOffset:] {
		if idx > 3 {
			t.Errorf("index %d not rebased on VtxOffset", idx)
		}
	}
}

func TestDrawListClipRect(t *testing.T) {
	dl := imui.NewDrawList()
	dl.PushClipRect(10, 10, 100, 100)
	dl.PushClipRect(50, 0, 200, 80)
	dl.AddRect(60, 20, 5, 5, imbridge.ColorWhite, white)
	dl.PopClipRect()
	dl.PopClipRect()
	dl.Finalize()

	if len(dl.CmdBuffer) != 1 {
		t.Fatalf("expected 1 command, got %d", len(dl.CmdBuffer))
	}
	want := [4]float32{50, 10, 100, 80}
	if got := dl.CmdBuffer[0].ClipRect; got != want {
		t.Errorf("clip = %v, want intersection %v", got, want)
	}
}

func TestDrawListCallback(t *testing.T) {
	dl := imui.NewDrawList()
	called := false
	dl.AddRect(0, 0, 10, 10, imbridge.ColorWhite, white)
	dl.AddCallback(func(*imbridge.DrawList, *imbridge.DrawCmd) { called = true })
	dl.AddRect(0, 20, 10, 10, imbridge.ColorWhite, white)
	dl.Finalize()

	if len(dl.CmdBuffer) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(dl.CmdBuffer))
	}
	cb := dl.CmdBuffer[1]
	if cb.UserCallback == nil || cb.ElemCount != 0 {
		t.Fatalf("middle command should be a callback with no elements: %+v", cb)
	}
	cb.UserCallback(&dl.DrawList, &cb)
	if !called {
		t.Error("callback not invoked")
	}
	if last := dl.CmdBuffer[2]; last.IdxOffset != 6 || last.ElemCount != 6 {
		t.Errorf("command after callback = idx %d count %d", last.IdxOffset, last.ElemCount)
	}
}

func TestDrawListVertexOverflowSplits(t *testing.T) {
	dl := imui.NewDrawList()
	rects := 70000/4 + 10
	for i := 0; i < rects; i++ {
		dl.AddRect(float32(i), 0, 1, 1, imbridge.ColorWhite, white)
	}
	dl.Finalize()

	if len(dl.CmdBuffer) < 2 {
		t.Fatalf("expected the list to split, got %d command(s)", len(dl.CmdBuffer))
	}
	total := uint32(0)
	for _, cmd := range dl.CmdBuffer {
		total += cmd.ElemCount
		for _, idx := range dl.IdxBuffer[cmd.IdxOffset : cmd.IdxOffset+cmd.ElemCount] {
			if int(cmd.VtxOffset)+int(idx) >= len(dl.VtxBuffer) {
				t.Fatalf("index %d + offset %d out of range", idx, cmd.VtxOffset)
			}
		}
	}
	if int(total) != len(dl.IdxBuffer) {
		t.Errorf("commands cover %d indices, buffer has %d", total, len(dl.IdxBuffer))
	}
}

func TestDrawListSkipsTransparent(t *testing.T) {
	dl := imui.NewDrawList()
	dl.AddRect(0, 0, 10, 10, imbridge.ColorTransparent, white)
	dl.AddRect(0, 0, 0, 10, imbridge.ColorWhite, white)
	dl.Finalize()
	if len(dl.VtxBuffer) != 0 || len(dl.CmdBuffer) != 0 {
		t.Errorf("expected empty list, got %d vertices %d commands", len(dl.VtxBuffer), len(dl.CmdBuffer))
	}
}
