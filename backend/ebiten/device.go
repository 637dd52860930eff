// Package ebiten runs the imbridge frame bridge inside an ebiten game.
//
// Ebiten calls Update and Draw from the same goroutine, so the game thread is
// also the render thread: Game captures the GUI frame into an imbridge.Queue
// and drains it onto the screen at the end of Draw.
package ebiten

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/imbridge"
)

// Screen is the RenderTarget for "whatever screen image Draw is filling".
// Device resolves it through SetScreen.
var Screen imbridge.RenderTarget = screenTarget{}

type screenTarget struct{}

type texture struct {
	img     *ebiten.Image
	w, h    float32
	filter  ebiten.Filter
	address ebiten.Address
}

// Device implements imbridge.Device by converting GUI draws to
// DrawTriangles calls. Buffers live on the CPU.
type Device struct {
	logger *slog.Logger

	textures map[imbridge.TextureID]*texture
	nextID   imbridge.TextureID

	vtx []imbridge.Vertex
	idx []uint16

	screen *ebiten.Image
	target *ebiten.Image
	state  imbridge.PipelineState
	blend  ebiten.Blend
	clip   image.Rectangle
	bound  *texture

	scratchV []ebiten.Vertex
	scratchI []uint16
}

var _ imbridge.Device = (*Device)(nil)

// NewDevice creates a device. Textures are created lazily by CreateTexture.
func NewDevice(logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{
		logger:   logger,
		textures: make(map[imbridge.TextureID]*texture),
	}
}

// SetScreen sets the image the Screen target resolves to. Game calls it
// around each drain.
func (d *Device) SetScreen(screen *ebiten.Image) { d.screen = screen }

// premultiply converts straight RGBA to the premultiplied form ebiten images
// store.
func premultiply(pixels []byte) []byte {
	out := make([]byte, len(pixels))
	for i := 0; i+3 < len(pixels); i += 4 {
		a := uint16(pixels[i+3])
		out[i] = byte(uint16(pixels[i]) * a / 255)
		out[i+1] = byte(uint16(pixels[i+1]) * a / 255)
		out[i+2] = byte(uint16(pixels[i+2]) * a / 255)
		out[i+3] = byte(a)
	}
	return out
}

// CreateTexture uploads RGBA8 pixels, premultiplied, into a new image.
func (d *Device) CreateTexture(pixels []byte, width, height int, sampler imbridge.SamplerDesc) (imbridge.TextureID, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return 0, fmt.Errorf("texture %dx%d with %d bytes", width, height, len(pixels))
	}
	img := ebiten.NewImage(width, height)
	img.WritePixels(premultiply(pixels[:width*height*4]))

	t := &texture{
		img:     img,
		w:       float32(width),
		h:       float32(height),
		filter:  ebiten.FilterLinear,
		address: ebiten.AddressRepeat,
	}
	if sampler.Filter == imbridge.FilterPoint {
		t.filter = ebiten.FilterNearest
	}
	if sampler.Address == imbridge.AddressClamp {
		t.address = ebiten.AddressClampToZero
	}

	d.nextID++
	d.textures[d.nextID] = t
	return d.nextID, nil
}

// DestroyTexture deallocates the texture's image.
func (d *Device) DestroyTexture(id imbridge.TextureID) {
	if t, ok := d.textures[id]; ok {
		t.img.Deallocate()
		delete(d.textures, id)
	}
}

// ResizeBuffers sizes the CPU-side vertex and index buffers.
func (d *Device) ResizeBuffers(vtxBytes, idxBytes int) error {
	d.vtx = make([]imbridge.Vertex, 0, vtxBytes/imbridge.VertexStride)
	d.idx = make([]uint16, 0, idxBytes/imbridge.IndexStride)
	return nil
}

// UploadBuffers copies the frame's geometry into the device buffers.
func (d *Device) UploadBuffers(vtx []imbridge.Vertex, idx []uint16) error {
	d.vtx = append(d.vtx[:0], vtx...)
	d.idx = append(d.idx[:0], idx...)
	return nil
}

// DestroyBuffers drops the CPU-side buffers.
func (d *Device) DestroyBuffers() {
	d.vtx, d.idx = nil, nil
}

func blendFactor(f imbridge.BlendFactor) ebiten.BlendFactor {
	switch f {
	case imbridge.BlendOne:
		return ebiten.BlendFactorOne
	case imbridge.BlendSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case imbridge.BlendInvSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	}
	return ebiten.BlendFactorZero
}

// toBlend maps a BlendState onto ebiten's premultiplied pipeline. Source
// colors already carry their alpha, so a SrcAlpha color factor becomes One.
func toBlend(b imbridge.BlendState) ebiten.Blend {
	src := blendFactor(b.ColorSrc)
	if b.ColorSrc == imbridge.BlendSrcAlpha {
		src = ebiten.BlendFactorOne
	}
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      blendFactor(b.AlphaSrc),
		BlendFactorDestinationRGB:   blendFactor(b.ColorDst),
		BlendFactorDestinationAlpha: blendFactor(b.AlphaDst),
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

// BeginPass starts drawing into target, an *ebiten.Image or Screen.
func (d *Device) BeginPass(target imbridge.RenderTarget, state imbridge.PipelineState) error {
	switch t := target.(type) {
	case *ebiten.Image:
		d.target = t
	case screenTarget:
		d.target = d.screen
	default:
		return fmt.Errorf("render target %T is not an ebiten image", target)
	}
	if d.target == nil {
		return fmt.Errorf("no screen image to draw into")
	}
	d.state = state
	d.blend = toBlend(state.Blend)
	d.clip = d.target.Bounds()
	d.bound = nil
	return nil
}

// SetScissor limits following draws to r, clipped to the target bounds.
func (d *Device) SetScissor(r imbridge.ScissorRect) {
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H))
	d.clip = rect.Intersect(d.target.Bounds())
}

// BindTexture selects the source image for following draws.
func (d *Device) BindTexture(id imbridge.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		d.logger.Warn("bind of unknown texture", "id", id)
	}
	d.bound = t
}

// toScreen projects GUI vertices to framebuffer pixels and scales UVs to
// source texels.
func toScreen(dst []ebiten.Vertex, vtx []imbridge.Vertex, proj mgl32.Mat4, fb imbridge.Vec2, texW, texH float32) []ebiten.Vertex {
	dst = dst[:0]
	for _, v := range vtx {
		clip := proj.Mul4x1(mgl32.Vec4{v.Pos[0], v.Pos[1], 0, 1})
		r, g, b, a := imbridge.UnpackRGBA(v.Color)
		dst = append(dst, ebiten.Vertex{
			DstX:   (clip[0] + 1) / 2 * fb.X,
			DstY:   (1 - clip[1]) / 2 * fb.Y,
			SrcX:   v.UV[0] * texW,
			SrcY:   v.UV[1] * texH,
			ColorR: float32(r) / 255,
			ColorG: float32(g) / 255,
			ColorB: float32(b) / 255,
			ColorA: float32(a) / 255,
		})
	}
	return dst
}

// DrawIndexed draws the call's triangles with DrawTriangles.
func (d *Device) DrawIndexed(call imbridge.DrawCall) {
	if d.bound == nil || d.clip.Empty() || call.ElemCount == 0 {
		return
	}
	end := call.StartIndex + call.ElemCount
	if int(end) > len(d.idx) {
		d.logger.Error("draw past the index buffer", "end", end, "indices", len(d.idx))
		return
	}
	idx := d.idx[call.StartIndex:end]

	// Rebase the referenced vertex range to zero for DrawTriangles.
	lo, hi := idx[0], idx[0]
	for _, i := range idx {
		lo, hi = min(lo, i), max(hi, i)
	}
	first := int(call.BaseVertex) + int(lo)
	last := int(call.BaseVertex) + int(hi)
	if first < 0 || last >= len(d.vtx) {
		d.logger.Error("draw past the vertex buffer", "first", first, "last", last, "vertices", len(d.vtx))
		return
	}

	d.scratchV = toScreen(d.scratchV, d.vtx[first:last+1], d.state.Projection, d.state.FramebufferSize, d.bound.w, d.bound.h)
	d.scratchI = d.scratchI[:0]
	for _, i := range idx {
		d.scratchI = append(d.scratchI, i-lo)
	}

	dst := d.target.SubImage(d.clip).(*ebiten.Image)
	dst.DrawTriangles(d.scratchV, d.scratchI, d.bound.img, &ebiten.DrawTrianglesOptions{
		Filter:  d.bound.filter,
		Address: d.bound.address,
		Blend:   d.blend,
	})
}

// EndPass ends the pass started by BeginPass.
func (d *Device) EndPass() error {
	d.target = nil
	d.bound = nil
	return nil
}

// Release deallocates every texture.
func (d *Device) Release() {
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	d.DestroyBuffers()
}
