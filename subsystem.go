package imbridge

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-theft-auto/imbridge/inspect"
)

// FontTextureID is the texture id the GUI library is told to use for its
// font atlas. Replay resolves it to the uploaded font texture.
const FontTextureID TextureID = 0

// Mouse buttons forwarded to the library every frame.
const mouseButtonCount = 3

// Stats counts frame bridge activity since New.
type Stats struct {
	FramesCaptured   uint64 // Render called on the library
	FramesEmpty      uint64 // no geometry, nothing dispatched
	FramesHidden     uint64 // captured while the show-UI toggle was off
	FramesDispatched uint64 // snapshot handed to the executor
	FramesRejected   uint64 // precondition failure, frame skipped
}

// GuiSubsystem owns one GUI library context and bridges it to a renderer.
// Initialize, CaptureFrame, Shutdown and the widget wrappers must be called
// from the game thread; replay work runs on the executor.
type GuiSubsystem struct {
	lib      Library
	exec     Executor
	replayer *Replayer
	copier   *SnapshotCopier
	editor   *inspect.Editor
	logger   *slog.Logger
	now      func() time.Time
	keyMap   KeyMap
	showUI   atomic.Bool

	copyWorkers     int
	copyThreshold   int
	maxInspectDepth int

	owner     Viewport
	subs      []Subscription
	lastFrame time.Time
	stats     Stats
}

// New creates a subsystem. lib is driven on the game thread, dev is only
// touched from work items run by exec.
func New(lib Library, exec Executor, dev Device, opts ...Option) *GuiSubsystem {
	g := &GuiSubsystem{
		lib:    lib,
		exec:   exec,
		logger: defaultLogger,
		now:    time.Now,
		keyMap: DefaultKeyMap(),
	}
	g.showUI.Store(true)
	for _, opt := range opts {
		opt(g)
	}

	g.replayer = NewReplayer(dev, WithReplayLogger(g.logger))
	var editorOpts []inspect.Option
	editorOpts = append(editorOpts, inspect.WithLogger(g.logger))
	if g.maxInspectDepth > 0 {
		editorOpts = append(editorOpts, inspect.WithMaxDepth(g.maxInspectDepth))
	}
	g.editor = inspect.NewEditor(g, editorOpts...)
	return g
}

// Replayer returns the render-side half of the bridge.
func (g *GuiSubsystem) Replayer() *Replayer { return g.replayer }

// Stats returns frame counters.
func (g *GuiSubsystem) Stats() Stats { return g.stats }

// ShowUI reports whether captured frames are dispatched for replay.
func (g *GuiSubsystem) ShowUI() bool { return g.showUI.Load() }

// SetShowUI enables or disables replay of captured frames. Capture and
// widget calls keep running either way.
func (g *GuiSubsystem) SetShowUI(show bool) { g.showUI.Store(show) }

// ToggleShowUI flips the show-UI toggle and returns the new state.
func (g *GuiSubsystem) ToggleShowUI() bool {
	for {
		old := g.showUI.Load()
		if g.showUI.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Active reports whether a GUI context is live.
func (g *GuiSubsystem) Active() bool {
	return g.lib.HasContext()
}

// Initialize creates the GUI context for vp, uploads the font atlas and
// subscribes to the viewport's frame, key and close notifications.
func (g *GuiSubsystem) Initialize(vp Viewport) error {
	if vp == nil || !vp.Valid() {
		err := fmt.Errorf("initialize: %w", ErrInvalidViewport)
		g.logger.Error("cannot initialize GUI", "err", err)
		return err
	}
	if g.lib.HasContext() {
		g.logger.Warn("initializing GUI twice, replacing the live context", "err", ErrAlreadyInitialized)
		g.teardown()
	}

	if err := g.lib.CreateContext(); err != nil {
		err = fmt.Errorf("failed to create GUI context: %w", err)
		g.logger.Error("cannot initialize GUI", "err", err)
		return err
	}
	g.owner = vp
	g.lastFrame = time.Time{}
	g.copier = NewSnapshotCopier(g.copyWorkers, g.copyThreshold)

	io := g.lib.IO()
	io.SetKeyMap(g.keyMap)

	pixels, w, h := g.lib.FontAtlasRGBA32()
	g.lib.SetFontTexture(FontTextureID)
	if n := w * h * 4; n > 0 && len(pixels) >= n {
		font := append([]byte(nil), pixels[:n]...)
		r, logger := g.replayer, g.logger
		g.exec.Enqueue(func() {
			if _, err := r.UploadFontTexture(font, w, h); err != nil {
				logger.Error("font upload failed", "err", err)
			}
		})
	} else {
		g.logger.Error("font atlas unavailable", "width", w, "height", h, "bytes", len(pixels))
	}

	// Widgets called before the first frame tick need an open frame.
	g.lib.NewFrame()

	g.subs = append(g.subs,
		vp.OnBeginFrame(func() { g.beginFrame(vp) }),
		vp.OnRendered(func() {
			if err := g.CaptureFrame(vp); err != nil {
				g.logger.Debug("frame not captured", "err", err)
			}
		}),
		vp.OnKey(g.handleKey),
		vp.OnClose(func() { g.Shutdown(vp) }),
	)

	g.logger.Info("GUI initialized",
		"atlas", fmt.Sprintf("%dx%d", w, h),
		"featureLevel", vp.FeatureLevel(),
		"subscriptions", len(g.subs))
	return nil
}

func (g *GuiSubsystem) beginFrame(vp Viewport) {
	if !g.lib.HasContext() {
		return
	}
	// Wheel input must land before NewFrame consumes it.
	if x, y := vp.WheelDelta(); x != 0 || y != 0 {
		g.lib.IO().AddMouseWheel(x, y)
	}
	g.lib.NewFrame()
}

func (g *GuiSubsystem) handleKey(ev KeyEvent) {
	if !g.lib.HasContext() {
		return
	}
	io := g.lib.IO()
	down := ev.Action == KeyPressed || ev.Action == KeyRepeat
	if ev.Char != 0 && down {
		io.AddInputChar(ev.Char)
	}
	// Releases must reach the library too, so no down check here.
	if ev.Key != KeyNone {
		io.SetKey(ev.Key, down)
	}
}

// CaptureFrame feeds the viewport's input state to the library, ends the
// GUI frame and, when the show-UI toggle is on, hands a snapshot of the
// frame to the executor for replay. It never waits for the render thread.
func (g *GuiSubsystem) CaptureFrame(vp Viewport) error {
	if !g.lib.HasContext() {
		g.stats.FramesRejected++
		err := fmt.Errorf("capture frame: %w", ErrNoContext)
		g.logger.Error("cannot capture GUI frame", "err", err)
		return err
	}
	if vp == nil || !vp.Valid() {
		g.stats.FramesRejected++
		err := fmt.Errorf("capture frame: %w", ErrInvalidViewport)
		g.logger.Error("cannot capture GUI frame", "err", err)
		return err
	}

	io := g.lib.IO()
	io.SetDisplaySize(vp.Size())
	io.SetFramebufferScale(vp.FramebufferScale())
	io.SetDeltaTime(g.deltaTime())
	io.SetMousePos(vp.MousePos())
	for b := 0; b < mouseButtonCount; b++ {
		io.SetMouseButton(b, vp.MouseDown(b))
	}
	io.SetModifiers(vp.Modifiers())

	dd := g.lib.Render()
	g.stats.FramesCaptured++
	if dd == nil || dd.TotalVtxCount == 0 {
		g.stats.FramesEmpty++
		return nil
	}
	if !g.showUI.Load() {
		g.stats.FramesHidden++
		return nil
	}

	snap := g.copier.Copy(dd)
	level, target := vp.FeatureLevel(), vp.RenderTarget()
	r, logger := g.replayer, g.logger
	g.exec.Enqueue(func() {
		if err := r.Replay(snap, level, target); err != nil {
			logger.Error("GUI replay failed", "err", err)
		}
	})
	g.stats.FramesDispatched++

	if verbose() {
		g.logger.Debug("GUI frame dispatched",
			"lists", len(snap.Lists), "vtx", snap.TotalVtxCount, "idx", snap.TotalIdxCount)
	}
	return nil
}

// deltaTime returns seconds since the previous capture. The library
// rejects a zero delta, so the first frame assumes 60 Hz.
func (g *GuiSubsystem) deltaTime() float32 {
	now := g.now()
	last := g.lastFrame
	g.lastFrame = now
	if last.IsZero() {
		return 1.0 / 60.0
	}
	dt := float32(now.Sub(last).Seconds())
	if dt <= 0 {
		dt = 1e-5
	}
	return dt
}

// Shutdown destroys the GUI context, releases every subscription and
// schedules the GPU resources for release. Calling it without a live
// context is a no-op.
func (g *GuiSubsystem) Shutdown(vp Viewport) {
	if !g.lib.HasContext() && len(g.subs) == 0 {
		g.logger.Debug("GUI shutdown without a live context")
		return
	}
	if vp == nil {
		vp = g.owner
	}
	g.teardown()
	g.logger.Info("GUI shut down", "viewportValid", vp != nil && vp.Valid())
}

func (g *GuiSubsystem) teardown() {
	subs := g.subs
	g.subs = nil
	for _, s := range subs {
		s.Release()
	}
	if g.lib.HasContext() {
		g.lib.DestroyContext()
	}
	g.owner = nil
	if g.copier != nil {
		g.copier.Close()
		g.copier = nil
	}
	g.exec.Enqueue(g.replayer.Release)
}

// EditObject draws a property editor for obj. See inspect.Editor.
func (g *GuiSubsystem) EditObject(obj any, openInNewWindow bool) {
	if !g.Active() {
		return
	}
	g.editor.EditObject(obj, openInNewWindow)
}
