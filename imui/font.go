package imui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/go-theft-auto/imbridge"
)

// Glyph is one rasterised rune in the atlas.
type Glyph struct {
	Advance  float32
	BearingX float32
	BearingY float32 // baseline to glyph top
	W, H     float32
	U0, V0   float32
	U1, V1   float32
}

// GlyphQuad is a positioned glyph ready for a DrawList.
type GlyphQuad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// Font is a rasterised glyph atlas. Pixels are white with alpha coverage,
// plus a small opaque block used for solid fills.
type Font struct {
	Ascent     float32
	LineHeight float32
	Glyphs     map[rune]Glyph
	White      imbridge.Vec2 // UV of the opaque block

	pixels        []byte
	width, height int
}

const (
	atlasWidth   = 256
	atlasPadding = 1
	whiteSize    = 3
	fallbackRune = '?'
)

// NewDefaultFont rasterises the built-in 7x13 bitmap face.
func NewDefaultFont() *Font {
	return newFont(basicfont.Face7x13)
}

// NewFontFromTTF rasterises a TrueType or OpenType font at sizePx.
func NewFontFromTTF(data []byte, sizePx float64) (*Font, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: sizePx, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()
	return newFont(face), nil
}

type glyphMeasure struct {
	r      rune
	w, h   int
	adv    float32
	bx, by float32
	at     image.Point
}

func newFont(face font.Face) *Font {
	m := face.Metrics()
	f := &Font{
		Ascent:     float32(m.Ascent.Ceil()),
		LineHeight: float32(m.Height.Ceil()),
		Glyphs:     make(map[rune]Glyph, 96),
	}
	if f.LineHeight <= 0 {
		f.LineHeight = float32((m.Ascent + m.Descent).Ceil())
	}

	// Shelf pack: white block first, then ASCII 32..126 left to right.
	x, y, rowH := whiteSize+atlasPadding*2, atlasPadding, whiteSize
	measured := make([]glyphMeasure, 0, 95)
	for r := rune(32); r <= 126; r++ {
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		g := glyphMeasure{
			r:   r,
			w:   (b.Max.X - b.Min.X).Ceil(),
			h:   (b.Max.Y - b.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(b.Min.X.Floor()),
			by:  float32(-b.Min.Y.Floor()),
		}
		if g.w > 0 && g.h > 0 {
			if x+g.w+atlasPadding > atlasWidth {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			g.at = image.Pt(x, y)
			x += g.w + atlasPadding
			rowH = max(rowH, g.h)
		}
		measured = append(measured, g)
	}
	height := nextPow2(y + rowH + atlasPadding)

	dst := image.NewRGBA(image.Rect(0, 0, atlasWidth, height))
	white := image.Rect(atlasPadding, atlasPadding, atlasPadding+whiteSize, atlasPadding+whiteSize)
	draw.Draw(dst, white, image.NewUniform(color.White), image.Point{}, draw.Src)
	f.White = imbridge.Vec2{
		X: (float32(atlasPadding) + whiteSize/2.0) / atlasWidth,
		Y: (float32(atlasPadding) + whiteSize/2.0) / float32(height),
	}

	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	for _, g := range measured {
		glyph := Glyph{Advance: g.adv, BearingX: g.bx, BearingY: g.by, W: float32(g.w), H: float32(g.h)}
		if g.w > 0 && g.h > 0 {
			drawer.Dot = fixed.P(g.at.X-int(g.bx), g.at.Y+int(g.by))
			drawer.DrawString(string(g.r))
			glyph.U0 = float32(g.at.X) / atlasWidth
			glyph.V0 = float32(g.at.Y) / float32(height)
			glyph.U1 = float32(g.at.X+g.w) / atlasWidth
			glyph.V1 = float32(g.at.Y+g.h) / float32(height)
		}
		f.Glyphs[g.r] = glyph
	}

	f.pixels, f.width, f.height = dst.Pix, atlasWidth, height
	return f
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// RGBA32 returns the atlas as tightly packed RGBA8 pixels.
func (f *Font) RGBA32() ([]byte, int, int) {
	return f.pixels, f.width, f.height
}

func (f *Font) glyph(r rune) Glyph {
	if g, ok := f.Glyphs[r]; ok {
		return g
	}
	return f.Glyphs[fallbackRune]
}

// Measure returns the size of text at scale.
func (f *Font) Measure(text string, scale float32) imbridge.Vec2 {
	var w float32
	for _, r := range text {
		w += f.glyph(r).Advance
	}
	return imbridge.Vec2{X: w * scale, Y: f.LineHeight * scale}
}

// Quads lays out text with its top-left corner at x, y and appends the
// glyph quads to dst.
func (f *Font) Quads(dst []GlyphQuad, text string, x, y, scale float32) []GlyphQuad {
	baseline := y + f.Ascent*scale
	for _, r := range text {
		g := f.glyph(r)
		if g.W > 0 && g.H > 0 {
			x0 := x + g.BearingX*scale
			y0 := baseline - g.BearingY*scale
			dst = append(dst, GlyphQuad{
				X0: x0, Y0: y0, X1: x0 + g.W*scale, Y1: y0 + g.H*scale,
				U0: g.U0, V0: g.V0, U1: g.U1, V1: g.V1,
			})
		}
		x += g.Advance * scale
	}
	return dst
}
