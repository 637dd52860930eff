package imbridge

import "github.com/go-gl/mathgl/mgl32"

// Device is the slice of the host renderer the replay layer draws through.
// Every method is called on the render thread.
type Device interface {
	CreateTexture(pixels []byte, width, height int, sampler SamplerDesc) (TextureID, error)
	DestroyTexture(id TextureID)

	// ResizeBuffers (re)allocates the vertex and index buffers with exactly
	// the given sizes in bytes.
	ResizeBuffers(vtxBytes, idxBytes int) error
	UploadBuffers(vtx []Vertex, idx []uint16) error
	DestroyBuffers()

	BeginPass(target RenderTarget, state PipelineState) error
	SetScissor(r ScissorRect)
	BindTexture(id TextureID)
	DrawIndexed(call DrawCall)
	EndPass() error
}

// TextureFilter selects sampler filtering.
type TextureFilter int

const (
	FilterPoint TextureFilter = iota
	FilterBilinear
	FilterTrilinear
)

// AddressMode selects sampler addressing.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
)

// SamplerDesc describes how a texture is sampled.
type SamplerDesc struct {
	Filter    TextureFilter
	Address   AddressMode
	MipBias   float32
	MipLevels int
}

// FontSampler is the sampler used for the font atlas: trilinear, wrapping,
// a single mip level.
var FontSampler = SamplerDesc{
	Filter:    FilterTrilinear,
	Address:   AddressWrap,
	MipBias:   1,
	MipLevels: 1,
}

// BlendFactor is a blend equation operand.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendInvSrcAlpha
)

// BlendState is an additive blend equation for color and alpha.
type BlendState struct {
	ColorSrc, ColorDst BlendFactor
	AlphaSrc, AlphaDst BlendFactor
}

// AlphaBlend is straight alpha blending, applied to both color and alpha.
var AlphaBlend = BlendState{
	ColorSrc: BlendSrcAlpha, ColorDst: BlendInvSrcAlpha,
	AlphaSrc: BlendSrcAlpha, AlphaDst: BlendInvSrcAlpha,
}

// PipelineState is the fixed state a GUI pass runs with.
type PipelineState struct {
	FeatureLevel    FeatureLevel
	Projection      mgl32.Mat4
	FramebufferSize Vec2
	Blend           BlendState
	DepthTest       bool
	CullBackFaces   bool
}

// ScissorRect is a clip rectangle in framebuffer pixels with a top-left
// origin.
type ScissorRect struct {
	X, Y, W, H int32
}

// DrawCall is one indexed triangle-list draw.
type DrawCall struct {
	Primitives uint32 // ElemCount / 3
	ElemCount  uint32
	BaseVertex int32
	StartIndex uint32
}
