// Package imbridge connects an immediate-mode GUI library to a real-time
// renderer. The game thread captures each GUI frame into an immutable
// DrawSnapshot, hands it to the render thread, and the render thread replays
// it as scissored, indexed draws against whatever graphics device the host
// engine provides.
package imbridge

import "unsafe"

// Vec2 represents a 2D vector for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Vertex is one GUI vertex. The layout is shared by every backend:
// two float positions, two float texture coordinates and an RGBA color
// packed as 0xAABBGGRR.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color uint32
}

// Buffer strides in bytes.
const (
	VertexStride = int(unsafe.Sizeof(Vertex{}))
	IndexStride  = 2
)

// TextureID is an opaque texture handle owned by a Device.
// Zero means "the font texture".
type TextureID uintptr

// DrawCallback is a user escape hatch embedded in the command stream.
// Replay invokes it instead of issuing a draw.
type DrawCallback func(list *DrawList, cmd *DrawCmd)

// DrawCmd is a single draw command within a DrawList.
type DrawCmd struct {
	ClipRect     [4]float32 // x1, y1, x2, y2 in GUI coordinates
	ElemCount    uint32     // number of indices, always a multiple of 3
	VtxOffset    uint32     // added to the list's base vertex
	IdxOffset    uint32     // added to the list's first index
	TextureID    TextureID
	UserCallback DrawCallback
}

// DrawList is one layer of GUI geometry.
type DrawList struct {
	VtxBuffer []Vertex
	IdxBuffer []uint16
	CmdBuffer []DrawCmd
}

// DrawData is what a GUI library returns from Render. Its slices alias
// library memory that is overwritten on the next frame, so it must never
// leave the game thread. Use NewSnapshot for that.
type DrawData struct {
	Lists            []*DrawList
	TotalVtxCount    int
	TotalIdxCount    int
	DisplayPos       Vec2
	DisplaySize      Vec2
	FramebufferScale Vec2
}

// Color constants (RGBA packed as 0xAABBGGRR).
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}
