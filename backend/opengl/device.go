// Package opengl provides an OpenGL 4.1 Device and a GLFW Viewport for the
// imbridge frame bridge.
package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/imbridge"
)

// Framebuffer is a RenderTarget naming a GL framebuffer object. Zero is the
// window's default framebuffer.
type Framebuffer uint32

// DefaultFramebuffer targets the window.
const DefaultFramebuffer Framebuffer = 0

// Device implements imbridge.Device on OpenGL. Every method, Init included,
// must run on the thread that owns the GL context.
type Device struct {
	logger *slog.Logger

	programs map[imbridge.FeatureLevel]*program
	vao      uint32
	vbo, ebo uint32
	fbHeight int32

	saved glState
	ready bool
	gles  bool // context is OpenGL ES
}

type program struct {
	id      uint32
	projLoc int32
	texLoc  int32
}

// glState is the host state a pass overwrites.
type glState struct {
	program        int32
	texture        int32
	vao            int32
	arrayBuffer    int32
	viewport       [4]int32
	scissorBox     [4]int32
	blendSrcRGB    int32
	blendDstRGB    int32
	blendSrcAlpha  int32
	blendDstAlpha  int32
	blendEnabled   bool
	depthEnabled   bool
	cullEnabled    bool
	scissorEnabled bool
}

var _ imbridge.Device = (*Device)(nil)

// NewDevice creates a device. No GL calls are made until Init.
func NewDevice(logger *slog.Logger) *Device {
	if logger == nil {
		logger = imbridge.Logger()
	}
	return &Device{
		logger:   logger,
		programs: make(map[imbridge.FeatureLevel]*program),
	}
}

// Init creates the vertex array and buffers. Call it once the GL context is
// current on the render thread.
func (d *Device) Init() error {
	if d.ready {
		return nil
	}
	d.gles = strings.HasPrefix(gl.GoStr(gl.GetString(gl.VERSION)), "OpenGL ES")
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.GenBuffers(1, &d.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)

	stride := int32(imbridge.VertexStride)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, unsafe.Offsetof(imbridge.Vertex{}.Pos))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(imbridge.Vertex{}.UV))
	gl.EnableVertexAttribArray(1)
	// Color is packed 0xAABBGGRR, which reads as RGBA bytes.
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(imbridge.Vertex{}.Color))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	d.ready = true
	return nil
}

// shaderHeader returns the GLSL version line for a feature level. ES
// shaders only compile on an ES context; desktop contexts use the 410
// header for every level.
func shaderHeader(level imbridge.FeatureLevel, gles bool) string {
	switch level {
	case imbridge.FeatureLevelES2, imbridge.FeatureLevelES31:
		if gles {
			return "#version 300 es\nprecision mediump float;\n"
		}
	}
	return "#version 410 core\n"
}

const vertexShaderBody = `
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;

out vec2 UV;
out vec4 Color;

uniform mat4 projection;

void main() {
    UV = aUV;
    Color = aColor;
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
}
`

const fragmentShaderBody = `
in vec2 UV;
in vec4 Color;

out vec4 FragColor;

uniform sampler2D guiTexture;

void main() {
    FragColor = Color * texture(guiTexture, UV);
}
`

// programFor compiles the shader pair for level on first use.
func (d *Device) programFor(level imbridge.FeatureLevel) (*program, error) {
	if p, ok := d.programs[level]; ok {
		return p, nil
	}
	header := shaderHeader(level, d.gles)
	id, err := createShaderProgram(header+vertexShaderBody+"\x00", header+fragmentShaderBody+"\x00")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s shader: %w", level, err)
	}
	p := &program{
		id:      id,
		projLoc: gl.GetUniformLocation(id, gl.Str("projection\x00")),
		texLoc:  gl.GetUniformLocation(id, gl.Str("guiTexture\x00")),
	}
	d.programs[level] = p
	d.logger.Debug("GUI shader compiled", "featureLevel", level)
	return p, nil
}

// CreateTexture uploads RGBA8 pixels into a new 2D texture configured by sampler.
func (d *Device) CreateTexture(pixels []byte, width, height int, sampler imbridge.SamplerDesc) (imbridge.TextureID, error) {
	if len(pixels) < width*height*4 {
		return 0, fmt.Errorf("texture %dx%d: %d bytes of pixel data", width, height, len(pixels))
	}
	var lastTex int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &lastTex)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	applySampler(sampler)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, uint32(lastTex))

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("glTexImage2D failed: 0x%x", code)
	}
	return imbridge.TextureID(tex), nil
}

func applySampler(s imbridge.SamplerDesc) {
	minFilter, magFilter := int32(gl.NEAREST), int32(gl.NEAREST)
	switch s.Filter {
	case imbridge.FilterBilinear:
		minFilter, magFilter = gl.LINEAR, gl.LINEAR
	case imbridge.FilterTrilinear:
		minFilter, magFilter = gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	wrap := int32(gl.REPEAT)
	if s.Address == imbridge.AddressClamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	maxLevel := int32(max(s.MipLevels-1, 0))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, maxLevel)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_LOD_BIAS, s.MipBias)
}

// DestroyTexture deletes a texture created by CreateTexture.
func (d *Device) DestroyTexture(id imbridge.TextureID) {
	tex := uint32(id)
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
}

// ResizeBuffers reallocates both buffers with exactly the requested sizes.
func (d *Device) ResizeBuffers(vtxBytes, idxBytes int) error {
	if err := d.Init(); err != nil {
		return err
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, vtxBytes, nil, gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, idxBytes, nil, gl.STREAM_DRAW)
	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glBufferData(%d, %d) failed: 0x%x", vtxBytes, idxBytes, code)
	}
	return nil
}

// UploadBuffers writes the frame's vertices and indices.
func (d *Device) UploadBuffers(vtx []imbridge.Vertex, idx []uint16) error {
	if len(vtx) == 0 || len(idx) == 0 {
		return nil
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vtx)*imbridge.VertexStride, gl.Ptr(vtx))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(idx)*imbridge.IndexStride, gl.Ptr(idx))
	gl.BindVertexArray(0)
	return nil
}

// DestroyBuffers deletes the vertex array and buffers.
func (d *Device) DestroyBuffers() {
	// Buffers are kept at size zero so a later frame can grow them again.
	if !d.ready {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	gl.BindVertexArray(0)
}

func (d *Device) save() {
	s := &d.saved
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vao)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &s.arrayBuffer)
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	gl.GetIntegerv(gl.BLEND_SRC_RGB, &s.blendSrcRGB)
	gl.GetIntegerv(gl.BLEND_DST_RGB, &s.blendDstRGB)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrcAlpha)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDstAlpha)
	s.blendEnabled = gl.IsEnabled(gl.BLEND)
	s.depthEnabled = gl.IsEnabled(gl.DEPTH_TEST)
	s.cullEnabled = gl.IsEnabled(gl.CULL_FACE)
	s.scissorEnabled = gl.IsEnabled(gl.SCISSOR_TEST)
}

func (d *Device) restore() {
	s := &d.saved
	gl.UseProgram(uint32(s.program))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.BindVertexArray(uint32(s.vao))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.arrayBuffer))
	gl.BlendFuncSeparate(uint32(s.blendSrcRGB), uint32(s.blendDstRGB), uint32(s.blendSrcAlpha), uint32(s.blendDstAlpha))
	setEnabled(gl.BLEND, s.blendEnabled)
	setEnabled(gl.DEPTH_TEST, s.depthEnabled)
	setEnabled(gl.CULL_FACE, s.cullEnabled)
	setEnabled(gl.SCISSOR_TEST, s.scissorEnabled)
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	gl.Scissor(s.scissorBox[0], s.scissorBox[1], s.scissorBox[2], s.scissorBox[3])
}

func setEnabled(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func blendFactor(f imbridge.BlendFactor) uint32 {
	switch f {
	case imbridge.BlendOne:
		return gl.ONE
	case imbridge.BlendSrcAlpha:
		return gl.SRC_ALPHA
	case imbridge.BlendInvSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ZERO
}

// BeginPass saves the host's GL state and sets up the GUI pipeline.
// target must be a Framebuffer or nil.
func (d *Device) BeginPass(target imbridge.RenderTarget, state imbridge.PipelineState) error {
	fbo := DefaultFramebuffer
	switch t := target.(type) {
	case nil:
	case Framebuffer:
		fbo = t
	default:
		return fmt.Errorf("unsupported render target %T", target)
	}
	p, err := d.programFor(state.FeatureLevel)
	if err != nil {
		return err
	}

	d.save()
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fbo))
	d.fbHeight = int32(state.FramebufferSize.Y)
	gl.Viewport(0, 0, int32(state.FramebufferSize.X), d.fbHeight)

	b := state.Blend
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFuncSeparate(blendFactor(b.ColorSrc), blendFactor(b.ColorDst), blendFactor(b.AlphaSrc), blendFactor(b.AlphaDst))
	setEnabled(gl.DEPTH_TEST, state.DepthTest)
	setEnabled(gl.CULL_FACE, state.CullBackFaces)
	gl.Enable(gl.SCISSOR_TEST)

	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.projLoc, 1, false, &state.Projection[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.texLoc, 0)
	gl.BindVertexArray(d.vao)
	return nil
}

// SetScissor flips the rectangle to GL's bottom-left origin.
func (d *Device) SetScissor(r imbridge.ScissorRect) {
	gl.Scissor(r.X, d.fbHeight-(r.Y+r.H), r.W, r.H)
}

// BindTexture binds id to texture unit 0.
func (d *Device) BindTexture(id imbridge.TextureID) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

// DrawIndexed issues one base-vertex indexed draw.
func (d *Device) DrawIndexed(call imbridge.DrawCall) {
	gl.DrawElementsBaseVertexWithOffset(
		gl.TRIANGLES,
		int32(call.ElemCount),
		gl.UNSIGNED_SHORT,
		uintptr(call.StartIndex)*imbridge.IndexStride,
		call.BaseVertex,
	)
}

// EndPass restores the GL state saved by BeginPass.
func (d *Device) EndPass() error {
	d.restore()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error during GUI pass: 0x%x", code)
	}
	return nil
}

// Delete releases the device's GL objects.
func (d *Device) Delete() {
	for level, p := range d.programs {
		gl.DeleteProgram(p.id)
		delete(d.programs, level)
	}
	if d.ebo != 0 {
		gl.DeleteBuffers(1, &d.ebo)
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	d.ready = false
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return 0, fmt.Errorf("vertex shader compilation failed: %w", err)
	}
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, fmt.Errorf("fragment shader compilation failed: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}
	return program, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", string(log))
	}
	return shader, nil
}
