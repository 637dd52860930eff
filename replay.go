package imbridge

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// ReplayStats counts what the last Replay did.
type ReplayStats struct {
	Draws     int
	Skipped   int
	Callbacks int
}

// Replayer turns DrawSnapshots into device draws. It owns the GPU-side
// resources (geometry buffers and font texture) and must only be used from
// the render thread.
type Replayer struct {
	dev    Device
	logger *slog.Logger

	fontTex  TextureID
	hasFont  bool
	vtxBytes int
	idxBytes int

	// staging buffers reused between frames
	vtx []Vertex
	idx []uint16

	stats ReplayStats
}

// ReplayOption configures a Replayer.
type ReplayOption func(*Replayer)

// WithReplayLogger sets the replayer's logger.
func WithReplayLogger(l *slog.Logger) ReplayOption {
	return func(r *Replayer) { r.logger = l }
}

// NewReplayer creates a replayer drawing through dev.
func NewReplayer(dev Device, opts ...ReplayOption) *Replayer {
	r := &Replayer{dev: dev, logger: defaultLogger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FontTexture returns the current font texture, if one was uploaded.
func (r *Replayer) FontTexture() (TextureID, bool) {
	return r.fontTex, r.hasFont
}

// Stats returns counters for the most recent Replay.
func (r *Replayer) Stats() ReplayStats {
	return r.stats
}

// UploadFontTexture creates the RGBA8 font texture from the atlas pixels,
// replacing any previous one.
func (r *Replayer) UploadFontTexture(pixels []byte, width, height int) (TextureID, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return 0, fmt.Errorf("font atlas %dx%d with %d bytes: invalid size", width, height, len(pixels))
	}
	id, err := r.dev.CreateTexture(pixels, width, height, FontSampler)
	if err != nil {
		return 0, fmt.Errorf("failed to create font texture: %w", err)
	}
	if r.hasFont {
		r.dev.DestroyTexture(r.fontTex)
	}
	r.fontTex = id
	r.hasFont = true
	r.logger.Debug("font texture uploaded", "width", width, "height", height, "id", id)
	return id, nil
}

// Replay draws one snapshot into target.
func (r *Replayer) Replay(s DrawSnapshot, level FeatureLevel, target RenderTarget) error {
	r.stats = ReplayStats{}
	if s.Empty() {
		return nil
	}

	if err := r.upload(&s); err != nil {
		return err
	}

	fb := s.FramebufferSize()
	state := PipelineState{
		FeatureLevel:    level,
		Projection:      OrthoProjection(s.DisplayPos, s.DisplaySize),
		FramebufferSize: fb,
		Blend:           AlphaBlend,
	}
	if err := r.dev.BeginPass(target, state); err != nil {
		return fmt.Errorf("failed to begin GUI pass: %w", err)
	}

	var globalVtx, globalIdx int
	for li := range s.Lists {
		list := &s.Lists[li]
		for ci := range list.CmdBuffer {
			cmd := &list.CmdBuffer[ci]
			if cmd.UserCallback != nil {
				cmd.UserCallback(list, cmd)
				r.stats.Callbacks++
				continue
			}

			sc, ok := ClipToScissor(cmd.ClipRect, s.DisplayPos, s.FramebufferScale, fb)
			if !ok || cmd.ElemCount == 0 {
				r.stats.Skipped++
				continue
			}
			r.dev.SetScissor(sc)

			tex := cmd.TextureID
			if tex == 0 {
				tex = r.fontTex
			}
			r.dev.BindTexture(tex)

			r.dev.DrawIndexed(DrawCall{
				Primitives: cmd.ElemCount / 3,
				ElemCount:  cmd.ElemCount,
				BaseVertex: int32(cmd.VtxOffset) + int32(globalVtx),
				StartIndex: cmd.IdxOffset + uint32(globalIdx),
			})
			r.stats.Draws++
		}
		globalVtx += len(list.VtxBuffer)
		globalIdx += len(list.IdxBuffer)
	}

	if err := r.dev.EndPass(); err != nil {
		return fmt.Errorf("failed to end GUI pass: %w", err)
	}
	if verbose() {
		r.logger.Debug("replayed GUI frame",
			"lists", len(s.Lists), "draws", r.stats.Draws,
			"skipped", r.stats.Skipped, "callbacks", r.stats.Callbacks)
	}
	return nil
}

// upload concatenates every list's geometry and sends it to the device,
// resizing the buffers when the frame's size differs from the last one.
func (r *Replayer) upload(s *DrawSnapshot) error {
	vtxBytes := s.TotalVtxCount * VertexStride
	idxBytes := s.TotalIdxCount * IndexStride
	if vtxBytes != r.vtxBytes || idxBytes != r.idxBytes {
		if err := r.dev.ResizeBuffers(vtxBytes, idxBytes); err != nil {
			return fmt.Errorf("failed to resize GUI buffers: %w", err)
		}
		r.vtxBytes, r.idxBytes = vtxBytes, idxBytes
	}

	r.vtx = r.vtx[:0]
	r.idx = r.idx[:0]
	for i := range s.Lists {
		r.vtx = append(r.vtx, s.Lists[i].VtxBuffer...)
		r.idx = append(r.idx, s.Lists[i].IdxBuffer...)
	}
	if err := r.dev.UploadBuffers(r.vtx, r.idx); err != nil {
		return fmt.Errorf("failed to upload GUI geometry: %w", err)
	}
	return nil
}

// Release destroys the replayer's GPU resources. Safe to call repeatedly.
func (r *Replayer) Release() {
	if !r.hasFont && r.vtxBytes == 0 && r.idxBytes == 0 {
		return
	}
	if r.hasFont {
		r.dev.DestroyTexture(r.fontTex)
		r.fontTex, r.hasFont = 0, false
	}
	if r.vtxBytes != 0 || r.idxBytes != 0 {
		r.dev.DestroyBuffers()
		r.vtxBytes, r.idxBytes = 0, 0
	}
	r.vtx, r.idx = nil, nil
	r.logger.Debug("replayer released")
}

// OrthoProjection maps the display rectangle to clip space with depth
// fixed at 0.5. y grows downwards on screen.
func OrthoProjection(pos, size Vec2) mgl32.Mat4 {
	l := pos.X
	r := pos.X + size.X
	t := pos.Y
	b := pos.Y + size.Y
	return mgl32.Mat4{
		2 / (r - l), 0, 0, 0,
		0, 2 / (t - b), 0, 0,
		0, 0, 0.5, 0,
		(r + l) / (l - r), (t + b) / (b - t), 0.5, 1,
	}
}

// ClipToScissor converts a command clip rectangle into framebuffer pixels.
// It reports false when the rectangle lies completely outside the
// framebuffer or collapses to nothing. A negative minimum corner is clamped
// to zero.
func ClipToScissor(clip [4]float32, displayPos, scale, fbSize Vec2) (ScissorRect, bool) {
	x1 := (clip[0] - displayPos.X) * scale.X
	y1 := (clip[1] - displayPos.Y) * scale.Y
	x2 := (clip[2] - displayPos.X) * scale.X
	y2 := (clip[3] - displayPos.Y) * scale.Y

	if !(x1 < fbSize.X && y1 < fbSize.Y && x2 >= 0 && y2 >= 0) {
		return ScissorRect{}, false
	}
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 <= x1 || y2 <= y1 {
		return ScissorRect{}, false
	}
	return ScissorRect{
		X: int32(x1),
		Y: int32(y1),
		W: int32(x2 - x1),
		H: int32(y2 - y1),
	}, true
}
