package ebiten

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/imbridge"
)

func TestPremultiply(t *testing.T) {
	got := premultiply([]byte{255, 128, 0, 128, 10, 20, 30, 255, 200, 200, 200, 0})
	want := []byte{128, 64, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("premultiply = %v, want %v", got, want)
		}
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -1e-3 && d < 1e-3
}

func TestToScreen(t *testing.T) {
	proj := imbridge.OrthoProjection(imbridge.Vec2{}, imbridge.Vec2{X: 800, Y: 600})
	vtx := []imbridge.Vertex{
		{Pos: [2]float32{0, 0}, UV: [2]float32{0, 0}, Color: imbridge.RGBA(255, 0, 0, 255)},
		{Pos: [2]float32{400, 300}, UV: [2]float32{0.5, 1}, Color: imbridge.RGBA(0, 0, 0, 51)},
	}
	// A framebuffer twice the display size doubles the pixel coordinates.
	out := toScreen(nil, vtx, proj, imbridge.Vec2{X: 1600, Y: 1200}, 64, 32)
	if len(out) != 2 {
		t.Fatalf("converted %d vertices", len(out))
	}
	if !near(out[0].DstX, 0) || !near(out[0].DstY, 0) || out[0].ColorR != 1 || out[0].ColorA != 1 {
		t.Errorf("first vertex = %+v", out[0])
	}
	if !near(out[1].DstX, 800) || !near(out[1].DstY, 600) {
		t.Errorf("second vertex at %v,%v, want 800,600", out[1].DstX, out[1].DstY)
	}
	if out[1].SrcX != 32 || out[1].SrcY != 32 || out[1].ColorA != 0.2 {
		t.Errorf("second vertex source %v,%v alpha %v", out[1].SrcX, out[1].SrcY, out[1].ColorA)
	}
}

func TestToBlendPremultipliesSource(t *testing.T) {
	b := toBlend(imbridge.AlphaBlend)
	if b.BlendFactorSourceRGB != ebiten.BlendFactorOne {
		t.Errorf("source color factor = %v, want One", b.BlendFactorSourceRGB)
	}
	if b.BlendFactorDestinationRGB != ebiten.BlendFactorOneMinusSourceAlpha {
		t.Errorf("destination color factor = %v", b.BlendFactorDestinationRGB)
	}
	if b.BlendFactorSourceAlpha != ebiten.BlendFactorSourceAlpha {
		t.Errorf("source alpha factor = %v", b.BlendFactorSourceAlpha)
	}
}

func TestEbitenKeyMapping(t *testing.T) {
	tests := []struct {
		in   ebiten.Key
		want imbridge.Key
	}{
		{ebiten.KeyArrowLeft, imbridge.KeyLeft},
		{ebiten.KeyNumpadEnter, imbridge.KeyKeypadEnter},
		{ebiten.KeyF12, imbridge.KeyF12},
		{ebiten.KeyQ, imbridge.KeyNone},
	}
	for _, tt := range tests {
		if got := ebitenKeyToKey(tt.in); got != tt.want {
			t.Errorf("ebitenKeyToKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestViewportWheelAndClose(t *testing.T) {
	vp := NewViewport(imbridge.FeatureLevelSM5)
	if vp.Valid() {
		t.Fatal("viewport valid before Layout")
	}
	vp.setSize(640, 480)
	if !vp.Valid() || vp.Size() != (imbridge.Vec2{X: 640, Y: 480}) {
		t.Fatalf("size = %v valid = %v", vp.Size(), vp.Valid())
	}

	vp.wheelY = 2
	if _, y := vp.WheelDelta(); y != 2 {
		t.Errorf("wheel = %v", y)
	}
	if _, y := vp.WheelDelta(); y != 0 {
		t.Error("wheel not reset after read")
	}

	closes := 0
	vp.OnClose(func() { closes++ })
	vp.Close()
	vp.Close()
	if closes != 1 || vp.Valid() {
		t.Errorf("closes = %d, valid = %v", closes, vp.Valid())
	}
}
