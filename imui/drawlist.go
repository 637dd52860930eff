package imui

import (
	"math"

	"github.com/go-theft-auto/imbridge"
)

// maxCmdVertices keeps per-command indices inside uint16 range. A command
// that would grow past it is split, and the new command's VtxOffset rebases
// its indices.
const maxCmdVertices = math.MaxUint16 - 4

// noClip is the clip rectangle used outside of any PushClipRect.
var noClip = [4]float32{-1e9, -1e9, 1e9, 1e9}

// DrawList accumulates geometry for one layer of a frame. It batches
// primitives by texture and clip rectangle; indices are relative to the
// owning command's VtxOffset.
type DrawList struct {
	imbridge.DrawList

	clipStack   [][4]float32
	currentClip [4]float32
	textureID   imbridge.TextureID
	vtxBase     uint32 // VtxOffset of the open command
	idxBase     uint32 // IdxOffset of the open command
}

// NewDrawList creates an empty list with preallocated buffers.
func NewDrawList() *DrawList {
	dl := &DrawList{
		DrawList: imbridge.DrawList{
			VtxBuffer: make([]imbridge.Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]imbridge.DrawCmd, 0, 16),
		},
		clipStack: make([][4]float32, 0, 8),
	}
	dl.Clear()
	return dl
}

// Clear resets the list for a new frame, keeping its capacity.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.clipStack = dl.clipStack[:0]
	dl.currentClip = noClip
	dl.textureID = 0
	dl.vtxBase = 0
	dl.idxBase = 0
}

// PushClipRect restricts subsequent primitives to the given rectangle,
// intersected with the current one.
func (dl *DrawList) PushClipRect(x1, y1, x2, y2 float32) {
	dl.clipStack = append(dl.clipStack, dl.currentClip)
	c := dl.currentClip
	dl.currentClip = [4]float32{max(x1, c[0]), max(y1, c[1]), min(x2, c[2]), min(y2, c[3])}
	dl.splitDraw()
}

// PopClipRect restores the previous clip rectangle.
func (dl *DrawList) PopClipRect() {
	n := len(dl.clipStack)
	if n == 0 {
		return
	}
	dl.currentClip = dl.clipStack[n-1]
	dl.clipStack = dl.clipStack[:n-1]
	dl.splitDraw()
}

// ClipRect returns the active clip rectangle.
func (dl *DrawList) ClipRect() [4]float32 { return dl.currentClip }

// SetTexture sets the texture for subsequent primitives.
func (dl *DrawList) SetTexture(id imbridge.TextureID) {
	if dl.textureID == id {
		return
	}
	dl.textureID = id
	dl.splitDraw()
}

// AddCallback inserts a user callback command. Replay runs it in place of
// a draw.
func (dl *DrawList) AddCallback(fn imbridge.DrawCallback) {
	if fn == nil {
		return
	}
	dl.closeCommand()
	dl.CmdBuffer = append(dl.CmdBuffer, imbridge.DrawCmd{
		ClipRect:     dl.currentClip,
		TextureID:    dl.textureID,
		VtxOffset:    uint32(len(dl.VtxBuffer)),
		IdxOffset:    uint32(len(dl.IdxBuffer)),
		UserCallback: fn,
	})
	dl.splitDraw()
}

func (dl *DrawList) closeCommand() {
	if n := len(dl.CmdBuffer); n > 0 && dl.CmdBuffer[n-1].UserCallback == nil {
		dl.CmdBuffer[n-1].ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxBase
	}
}

// splitDraw finalizes the open command and starts a new one.
func (dl *DrawList) splitDraw() {
	dl.vtxBase = uint32(len(dl.VtxBuffer))
	// An open command with no indices yet is retargeted instead of split.
	if n := len(dl.CmdBuffer); n > 0 {
		last := &dl.CmdBuffer[n-1]
		if last.UserCallback == nil && uint32(len(dl.IdxBuffer)) == dl.idxBase {
			last.ClipRect = dl.currentClip
			last.TextureID = dl.textureID
			last.VtxOffset = dl.vtxBase
			return
		}
	}
	dl.closeCommand()
	dl.idxBase = uint32(len(dl.IdxBuffer))
	dl.CmdBuffer = append(dl.CmdBuffer, imbridge.DrawCmd{
		ClipRect:  dl.currentClip,
		TextureID: dl.textureID,
		VtxOffset: dl.vtxBase,
		IdxOffset: dl.idxBase,
	})
}

// addVertices appends verts and returns the index of the first one relative
// to the open command.
func (dl *DrawList) addVertices(verts ...imbridge.Vertex) uint16 {
	if len(dl.CmdBuffer) == 0 || dl.CmdBuffer[len(dl.CmdBuffer)-1].UserCallback != nil {
		dl.splitDraw()
	}
	if uint32(len(dl.VtxBuffer))-dl.vtxBase+uint32(len(verts)) > maxCmdVertices {
		dl.splitDraw()
	}
	start := uint16(uint32(len(dl.VtxBuffer)) - dl.vtxBase)
	dl.VtxBuffer = append(dl.VtxBuffer, verts...)
	return start
}

func (dl *DrawList) addQuad(x0, y0, x1, y1, u0, v0, u1, v1 float32, color uint32) {
	idx := dl.addVertices(
		imbridge.Vertex{Pos: [2]float32{x0, y0}, UV: [2]float32{u0, v0}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x1, y0}, UV: [2]float32{u1, v0}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u1, v1}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x0, y1}, UV: [2]float32{u0, v1}, Color: color},
	)
	dl.IdxBuffer = append(dl.IdxBuffer, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddRect draws a filled rectangle. Solid fills sample the atlas white
// texel, so they batch with text.
func (dl *DrawList) AddRect(x, y, w, h float32, color uint32, white imbridge.Vec2) {
	if color&0xFF000000 == 0 || w <= 0 || h <= 0 {
		return
	}
	dl.addQuad(x, y, x+w, y+h, white.X, white.Y, white.X, white.Y, color)
}

// AddRectOutline draws a rectangle outline.
func (dl *DrawList) AddRectOutline(x, y, w, h float32, color uint32, thickness float32, white imbridge.Vec2) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.AddRect(x, y, w, thickness, color, white)
	dl.AddRect(x, y+h-thickness, w, thickness, color, white)
	dl.AddRect(x, y+thickness, thickness, h-2*thickness, color, white)
	dl.AddRect(x+w-thickness, y+thickness, thickness, h-2*thickness, color, white)
}

// AddLine draws a line as a quad of the given thickness.
func (dl *DrawList) AddLine(x1, y1, x2, y2 float32, color uint32, thickness float32, white imbridge.Vec2) {
	if color&0xFF000000 == 0 {
		return
	}
	dx, dy := x2-x1, y2-y1
	inv := float32(1)
	if dx != 0 || dy != 0 {
		inv = 1 / float32(math.Sqrt(float64(dx*dx+dy*dy)))
	}
	nx := -dy * inv * thickness * 0.5
	ny := dx * inv * thickness * 0.5

	u, v := white.X, white.Y
	idx := dl.addVertices(
		imbridge.Vertex{Pos: [2]float32{x1 + nx, y1 + ny}, UV: [2]float32{u, v}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x2 + nx, y2 + ny}, UV: [2]float32{u, v}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x2 - nx, y2 - ny}, UV: [2]float32{u, v}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x1 - nx, y1 - ny}, UV: [2]float32{u, v}, Color: color},
	)
	dl.IdxBuffer = append(dl.IdxBuffer, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddTriangle draws a filled triangle.
func (dl *DrawList) AddTriangle(x1, y1, x2, y2, x3, y3 float32, color uint32, white imbridge.Vec2) {
	if color&0xFF000000 == 0 {
		return
	}
	u, v := white.X, white.Y
	idx := dl.addVertices(
		imbridge.Vertex{Pos: [2]float32{x1, y1}, UV: [2]float32{u, v}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x2, y2}, UV: [2]float32{u, v}, Color: color},
		imbridge.Vertex{Pos: [2]float32{x3, y3}, UV: [2]float32{u, v}, Color: color},
	)
	dl.IdxBuffer = append(dl.IdxBuffer, idx, idx+1, idx+2)
}

// AddGlyphs draws glyph quads produced by a Font.
func (dl *DrawList) AddGlyphs(quads []GlyphQuad, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}
	for _, q := range quads {
		dl.addQuad(q.X0, q.Y0, q.X1, q.Y1, q.U0, q.V0, q.U1, q.V1, color)
	}
}

// Finalize closes the open command and drops empty ones. Call it once all
// primitives for the frame are added.
func (dl *DrawList) Finalize() {
	dl.closeCommand()
	kept := dl.CmdBuffer[:0]
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount > 0 || cmd.UserCallback != nil {
			kept = append(kept, cmd)
		}
	}
	dl.CmdBuffer = kept
}
