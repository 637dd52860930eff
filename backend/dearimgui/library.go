// Package dearimgui drives Dear ImGui, through imgui-go, as an
// imbridge.Library.
package dearimgui

import (
	"unsafe"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/go-theft-auto/imbridge"
)

// Modifier state is fed through key slots past the last bridge key, so
// imgui can derive KeyCtrl and friends from its KeysDown table.
const (
	modCtrl = int(imbridge.KeyCount) + iota
	modShift
	modAlt
	modSuper
)

// Library implements imbridge.Library on a Dear ImGui context.
type Library struct {
	ctx *imgui.Context

	displaySize imbridge.Vec2
	fbScale     imbridge.Vec2

	dd    imbridge.DrawData
	lists []imbridge.DrawList
	ptrs  []*imbridge.DrawList
}

var _ imbridge.Library = (*Library)(nil)

// New returns a library with no imgui context yet.
func New() *Library {
	return &Library{fbScale: imbridge.Vec2{X: 1, Y: 1}}
}

// CreateContext creates the imgui context and disables the ini file.
func (l *Library) CreateContext() error {
	if l.ctx != nil {
		return imbridge.ErrAlreadyInitialized
	}
	l.ctx = imgui.CreateContext(nil)
	// Window layout is game state, not something to persist next to the
	// executable.
	imgui.CurrentIO().SetIniFilename("")
	return nil
}

// DestroyContext destroys the imgui context, if any.
func (l *Library) DestroyContext() {
	if l.ctx == nil {
		return
	}
	l.ctx.Destroy()
	l.ctx = nil
}

// HasContext reports whether an imgui context is live.
func (l *Library) HasContext() bool { return l.ctx != nil }

// IO returns the input adapter for the current context.
func (l *Library) IO() imbridge.IO { return io{lib: l, io: imgui.CurrentIO()} }

// FontAtlasRGBA32 returns imgui's font atlas as RGBA8 pixels. The slice aliases imgui memory.
func (l *Library) FontAtlasRGBA32() ([]byte, int, int) {
	img := imgui.CurrentIO().Fonts().TextureDataRGBA32()
	if img == nil || img.Pixels == nil {
		return nil, 0, 0
	}
	n := img.Width * img.Height * 4
	return unsafe.Slice((*byte)(img.Pixels), n), img.Width, img.Height
}

// SetFontTexture records the texture id imgui emits for font glyphs.
func (l *Library) SetFontTexture(id imbridge.TextureID) {
	imgui.CurrentIO().Fonts().SetTextureID(imgui.TextureID(id))
}

// NewFrame starts an imgui frame.
func (l *Library) NewFrame() { imgui.NewFrame() }

// Render ends the frame and converts imgui's draw data. Vertex and index
// bytes are reinterpreted through imgui's reported buffer layout.
func (l *Library) Render() *imbridge.DrawData {
	imgui.Render()
	data := imgui.RenderedDrawData()
	if !data.Valid() {
		return nil
	}
	return l.convert(data.CommandLists())
}

func (l *Library) convert(src []imgui.DrawList) *imbridge.DrawData {
	vtxSize, posOff, uvOff, colOff := imgui.VertexBufferLayout()
	idxSize := imgui.IndexBufferLayout()

	l.lists = l.lists[:0]
	l.dd = imbridge.DrawData{
		DisplaySize:      l.displaySize,
		FramebufferScale: l.fbScale,
	}

	for _, list := range src {
		var dst imbridge.DrawList

		vp, vbytes := list.VertexBuffer()
		count := vbytes / vtxSize
		dst.VtxBuffer = make([]imbridge.Vertex, count)
		for i := range dst.VtxBuffer {
			base := unsafe.Add(vp, i*vtxSize)
			v := &dst.VtxBuffer[i]
			v.Pos = *(*[2]float32)(unsafe.Add(base, posOff))
			v.UV = *(*[2]float32)(unsafe.Add(base, uvOff))
			v.Color = *(*uint32)(unsafe.Add(base, colOff))
		}

		ip, ibytes := list.IndexBuffer()
		dst.IdxBuffer = make([]uint16, ibytes/idxSize)
		for i := range dst.IdxBuffer {
			dst.IdxBuffer[i] = *(*uint16)(unsafe.Add(ip, i*idxSize))
		}

		// Commands index the list's buffers back to back; imgui-go does not
		// report per-command offsets.
		var idxOffset uint32
		for _, cmd := range list.Commands() {
			dc := imbridge.DrawCmd{
				ElemCount: uint32(cmd.ElementCount()),
				IdxOffset: idxOffset,
				TextureID: imbridge.TextureID(cmd.TextureID()),
			}
			r := cmd.ClipRect()
			dc.ClipRect = [4]float32{r.X, r.Y, r.Z, r.W}
			if cmd.HasUserCallback() {
				// The imgui list is only valid until the next NewFrame.
				cmd, list := cmd, list
				dc.UserCallback = func(*imbridge.DrawList, *imbridge.DrawCmd) {
					cmd.CallUserCallback(list)
				}
			}
			dst.CmdBuffer = append(dst.CmdBuffer, dc)
			idxOffset += dc.ElemCount
		}

		l.dd.TotalVtxCount += len(dst.VtxBuffer)
		l.dd.TotalIdxCount += len(dst.IdxBuffer)
		l.lists = append(l.lists, dst)
	}

	l.ptrs = l.ptrs[:0]
	for i := range l.lists {
		l.ptrs = append(l.ptrs, &l.lists[i])
	}
	l.dd.Lists = l.ptrs
	return &l.dd
}

// io adapts imgui's IO block.
type io struct {
	lib *Library
	io  imgui.IO
}

// SetDisplaySize sets the logical display size.
func (o io) SetDisplaySize(size imbridge.Vec2) {
	o.lib.displaySize = size
	o.io.SetDisplaySize(imgui.Vec2{X: size.X, Y: size.Y})
}

// SetFramebufferScale is carried on the converted draw data; imgui-go
// has no setter for it.
func (o io) SetFramebufferScale(scale imbridge.Vec2) {
	if scale.X <= 0 || scale.Y <= 0 {
		scale = imbridge.Vec2{X: 1, Y: 1}
	}
	o.lib.fbScale = scale
}

// SetDeltaTime sets the seconds elapsed since the last frame.
func (o io) SetDeltaTime(dt float32) { o.io.SetDeltaTime(dt) }

// SetMousePos sets the mouse position in display coordinates.
func (o io) SetMousePos(pos imbridge.Vec2) {
	o.io.SetMousePosition(imgui.Vec2{X: pos.X, Y: pos.Y})
}

// SetMouseButton sets the state of mouse button 0, 1 or 2.
func (o io) SetMouseButton(button int, down bool) { o.io.SetMouseButtonDown(button, down) }

// SetModifiers sets Ctrl, Shift, Alt and Super through their pseudo key slots.
func (o io) SetModifiers(m imbridge.Modifiers) {
	o.setKey(modCtrl, m.Ctrl)
	o.setKey(modShift, m.Shift)
	o.setKey(modAlt, m.Alt)
	o.setKey(modSuper, m.Super)
	o.io.KeyCtrl(modCtrl, modCtrl)
	o.io.KeyShift(modShift, modShift)
	o.io.KeyAlt(modAlt, modAlt)
	o.io.KeySuper(modSuper, modSuper)
}

// AddMouseWheel adds wheel movement for the next frame.
func (o io) AddMouseWheel(x, y float32) { o.io.AddMouseWheelDelta(x, y) }

// SetKeyMap installs the bridge key map. GuiKey slots follow imgui's own
// key enumeration, so a slot index is an imgui key index.
func (o io) SetKeyMap(m imbridge.KeyMap) {
	for slot, key := range m {
		o.io.KeyMap(slot, int(key))
	}
}

// SetKey sets the down state of k.
func (o io) SetKey(k imbridge.Key, down bool) { o.setKey(int(k), down) }

func (o io) setKey(k int, down bool) {
	if down {
		o.io.KeyPress(k)
	} else {
		o.io.KeyRelease(k)
	}
}

// AddInputChar queues a typed character.
func (o io) AddInputChar(r rune) { o.io.AddInputCharacters(string(r)) }
