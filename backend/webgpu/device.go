// Package webgpu implements imbridge.Device on WebGPU through
// github.com/cogentcore/webgpu.
package webgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/imbridge"
)

// Target is the RenderTarget a pass draws into. The view is loaded, not
// cleared, so the GUI lands on top of what the game drew.
type Target struct {
	View   *wgpu.TextureView
	Format wgpu.TextureFormat
}

const shaderSource = `
struct Uniforms {
	proj: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var tex: texture_2d<f32>;
@group(0) @binding(2) var samp: sampler;

struct VertexInput {
	@location(0) pos: vec2<f32>,
	@location(1) uv: vec2<f32>,
	@location(2) color: vec4<f32>,
};

struct VertexOutput {
	@builtin(position) pos: vec4<f32>,
	@location(0) uv: vec2<f32>,
	@location(1) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
	var out: VertexOutput;
	out.pos = uniforms.proj * vec4<f32>(in.pos, 0.0, 1.0);
	out.uv = in.uv;
	out.color = in.color;
	return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	return in.color * textureSample(tex, samp, in.uv);
}
`

const uniformSize = 64

type texture struct {
	tex       *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

type pipelineKey struct {
	format wgpu.TextureFormat
	blend  imbridge.BlendState
	cull   bool
}

// Device implements imbridge.Device. It records one command encoder per
// pass and submits it on EndPass.
type Device struct {
	logger *slog.Logger
	device *wgpu.Device
	queue  *wgpu.Queue

	shader          *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipelines       map[pipelineKey]*wgpu.RenderPipeline
	uniforms        *wgpu.Buffer

	textures map[imbridge.TextureID]*texture
	nextID   imbridge.TextureID

	vbo, ibo         *wgpu.Buffer
	vboSize, iboSize uint64
	vtxScratch       []byte
	idxScratch       []byte

	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	fbW     uint32
	fbH     uint32
}

var _ imbridge.Device = (*Device)(nil)

// NewDevice builds the shader, the bind group layout and the uniform buffer
// on device.
func NewDevice(device *wgpu.Device, queue *wgpu.Queue, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Device{
		logger:    logger,
		device:    device,
		queue:     queue,
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
		textures:  make(map[imbridge.TextureID]*texture),
	}

	var err error
	d.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "imbridge shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	d.bindGroupLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "imbridge bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	d.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "imbridge pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.bindGroupLayout},
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	d.uniforms, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "imbridge uniforms",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	return d, nil
}

func (d *Device) pipelineFor(key pipelineKey) (*wgpu.RenderPipeline, error) {
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}

	cull := wgpu.CullModeNone
	if key.cull {
		cull = wgpu.CullModeBack
	}
	blend := blendState(key.blend)

	p, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "imbridge pipeline",
		Layout: d.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     d.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    key.format,
				Blend:     &blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	d.pipelines[key] = p
	return p, nil
}

var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(imbridge.VertexStride),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		{Format: wgpu.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2},
	},
}

func blendFactor(f imbridge.BlendFactor) wgpu.BlendFactor {
	switch f {
	case imbridge.BlendOne:
		return wgpu.BlendFactorOne
	case imbridge.BlendSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case imbridge.BlendInvSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	}
	return wgpu.BlendFactorZero
}

func blendState(b imbridge.BlendState) wgpu.BlendState {
	return wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: blendFactor(b.ColorSrc),
			DstFactor: blendFactor(b.ColorDst),
		},
		Alpha: wgpu.BlendComponent{
			Operation: wgpu.BlendOperationAdd,
			SrcFactor: blendFactor(b.AlphaSrc),
			DstFactor: blendFactor(b.AlphaDst),
		},
	}
}

// samplerDescriptor maps a SamplerDesc. WebGPU has no LOD bias, so MipBias
// is dropped.
func samplerDescriptor(s imbridge.SamplerDesc) *wgpu.SamplerDescriptor {
	address := wgpu.AddressModeRepeat
	if s.Address == imbridge.AddressClamp {
		address = wgpu.AddressModeClampToEdge
	}
	filter, mip := wgpu.FilterModeLinear, wgpu.MipmapFilterModeNearest
	switch s.Filter {
	case imbridge.FilterPoint:
		filter = wgpu.FilterModeNearest
	case imbridge.FilterTrilinear:
		mip = wgpu.MipmapFilterModeLinear
	}
	levels := max(s.MipLevels, 1)
	return &wgpu.SamplerDescriptor{
		Label:         "imbridge sampler",
		AddressModeU:  address,
		AddressModeV:  address,
		AddressModeW:  address,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  mip,
		LodMinClamp:   0,
		LodMaxClamp:   float32(levels - 1),
		MaxAnisotropy: 1,
	}
}

// CreateTexture uploads RGBA8 pixels and builds the texture's bind group.
func (d *Device) CreateTexture(pixels []byte, width, height int, sampler imbridge.SamplerDesc) (imbridge.TextureID, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return 0, fmt.Errorf("texture %dx%d with %d bytes", width, height, len(pixels))
	}
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "imbridge texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, err
	}
	t := &texture{tex: tex}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels[:width*height*4],
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width) * 4,
			RowsPerImage: uint32(height),
		},
		&size,
	)

	if t.view, err = tex.CreateView(nil); err != nil {
		t.release()
		return 0, err
	}
	if t.sampler, err = d.device.CreateSampler(samplerDescriptor(sampler)); err != nil {
		t.release()
		return 0, err
	}
	t.bindGroup, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "imbridge texture bind group",
		Layout: d.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: d.uniforms, Offset: 0, Size: uniformSize},
			{Binding: 1, TextureView: t.view},
			{Binding: 2, Sampler: t.sampler},
		},
	})
	if err != nil {
		t.release()
		return 0, err
	}

	d.nextID++
	d.textures[d.nextID] = t
	return d.nextID, nil
}

func (t *texture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.sampler != nil {
		t.sampler.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.tex != nil {
		t.tex.Release()
	}
}

// DestroyTexture releases a texture and its bind group.
func (d *Device) DestroyTexture(id imbridge.TextureID) {
	if t, ok := d.textures[id]; ok {
		t.release()
		delete(d.textures, id)
	}
}

// align4 rounds n up to the copy alignment WriteBuffer requires.
func align4(n int) uint64 {
	return uint64((n + 3) &^ 3)
}

// ResizeBuffers recreates the vertex and index buffers, rounded up to 4 bytes.
func (d *Device) ResizeBuffers(vtxBytes, idxBytes int) error {
	d.DestroyBuffers()

	var err error
	if vtxBytes > 0 {
		d.vboSize = align4(vtxBytes)
		d.vbo, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "imbridge vertex buffer",
			Size:  d.vboSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			d.DestroyBuffers()
			return fmt.Errorf("vertex buffer: %w", err)
		}
	}
	if idxBytes > 0 {
		d.iboSize = align4(idxBytes)
		d.ibo, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "imbridge index buffer",
			Size:  d.iboSize,
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			d.DestroyBuffers()
			return fmt.Errorf("index buffer: %w", err)
		}
	}
	return nil
}

// encodeVertices writes vtx into dst in the layout vertexLayout describes,
// padded to a multiple of four bytes.
func encodeVertices(dst []byte, vtx []imbridge.Vertex) []byte {
	n := int(align4(len(vtx) * imbridge.VertexStride))
	dst = growZeroed(dst, n)
	for i, v := range vtx {
		b := dst[i*imbridge.VertexStride:]
		binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v.Pos[0]))
		binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v.Pos[1]))
		binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(v.UV[0]))
		binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(v.UV[1]))
		binary.LittleEndian.PutUint32(b[16:20], v.Color)
	}
	return dst
}

func encodeIndices(dst []byte, idx []uint16) []byte {
	n := int(align4(len(idx) * imbridge.IndexStride))
	dst = growZeroed(dst, n)
	for i, v := range idx {
		binary.LittleEndian.PutUint16(dst[i*2:], v)
	}
	return dst
}

func growZeroed(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	b = b[:n]
	clear(b)
	return b
}

// UploadBuffers writes the frame's geometry through the queue.
func (d *Device) UploadBuffers(vtx []imbridge.Vertex, idx []uint16) error {
	d.vtxScratch = encodeVertices(d.vtxScratch, vtx)
	d.idxScratch = encodeIndices(d.idxScratch, idx)
	if uint64(len(d.vtxScratch)) > d.vboSize || uint64(len(d.idxScratch)) > d.iboSize {
		return fmt.Errorf("upload of %d/%d bytes exceeds buffers of %d/%d", len(d.vtxScratch), len(d.idxScratch), d.vboSize, d.iboSize)
	}
	if len(d.vtxScratch) > 0 {
		d.queue.WriteBuffer(d.vbo, 0, d.vtxScratch)
	}
	if len(d.idxScratch) > 0 {
		d.queue.WriteBuffer(d.ibo, 0, d.idxScratch)
	}
	return nil
}

// DestroyBuffers releases the vertex and index buffers.
func (d *Device) DestroyBuffers() {
	if d.vbo != nil {
		d.vbo.Release()
		d.vbo = nil
	}
	if d.ibo != nil {
		d.ibo.Release()
		d.ibo = nil
	}
	d.vboSize, d.iboSize = 0, 0
}

func encodeMatrix(m mgl32.Mat4) []byte {
	b := make([]byte, uniformSize)
	for i, f := range m {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

// BeginPass opens a render pass on a *Target, loading its current contents.
func (d *Device) BeginPass(target imbridge.RenderTarget, state imbridge.PipelineState) error {
	t, ok := target.(*Target)
	if !ok || t == nil || t.View == nil {
		return fmt.Errorf("render target %T is not a *webgpu.Target", target)
	}
	if d.vbo == nil || d.ibo == nil {
		return errors.New("begin pass without buffers")
	}

	p, err := d.pipelineFor(pipelineKey{format: t.Format, blend: state.Blend, cull: state.CullBackFaces})
	if err != nil {
		return err
	}
	d.queue.WriteBuffer(d.uniforms, 0, encodeMatrix(state.Projection))

	d.encoder, err = d.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	d.pass = d.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    t.View,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})

	d.fbW = uint32(max(state.FramebufferSize.X, 0))
	d.fbH = uint32(max(state.FramebufferSize.Y, 0))
	d.pass.SetViewport(0, 0, float32(d.fbW), float32(d.fbH), 0, 1)
	d.pass.SetPipeline(p)
	d.pass.SetVertexBuffer(0, d.vbo, 0, wgpu.WholeSize)
	d.pass.SetIndexBuffer(d.ibo, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	return nil
}

// SetScissor clamps r to the attachment; WebGPU rejects rects that leave it.
func (d *Device) SetScissor(r imbridge.ScissorRect) {
	x := min(uint32(max(r.X, 0)), d.fbW)
	y := min(uint32(max(r.Y, 0)), d.fbH)
	w := min(uint32(max(r.W, 0)), d.fbW-x)
	h := min(uint32(max(r.H, 0)), d.fbH-y)
	d.pass.SetScissorRect(x, y, w, h)
}

// BindTexture sets the bind group of id for following draws.
func (d *Device) BindTexture(id imbridge.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		d.logger.Warn("bind of unknown texture", "id", id)
		return
	}
	d.pass.SetBindGroup(0, t.bindGroup, nil)
}

// DrawIndexed records one indexed draw.
func (d *Device) DrawIndexed(call imbridge.DrawCall) {
	d.pass.DrawIndexed(call.ElemCount, 1, call.StartIndex, call.BaseVertex, 0)
}

// EndPass ends the pass and submits its command buffer.
func (d *Device) EndPass() error {
	if d.pass == nil {
		return errors.New("end pass without begin")
	}
	d.pass.End()
	d.pass.Release()
	d.pass = nil

	cmd, err := d.encoder.Finish(nil)
	d.encoder.Release()
	d.encoder = nil
	if err != nil {
		return err
	}
	d.queue.Submit(cmd)
	cmd.Release()
	return nil
}

// Release frees every object the device created. The wgpu device and queue
// belong to the caller.
func (d *Device) Release() {
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	d.DestroyBuffers()
	for k, p := range d.pipelines {
		p.Release()
		delete(d.pipelines, k)
	}
	if d.uniforms != nil {
		d.uniforms.Release()
		d.uniforms = nil
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
		d.pipelineLayout = nil
	}
	if d.bindGroupLayout != nil {
		d.bindGroupLayout.Release()
		d.bindGroupLayout = nil
	}
	if d.shader != nil {
		d.shader.Release()
		d.shader = nil
	}
}
