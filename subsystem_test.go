package imbridge_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-theft-auto/imbridge"
)

type bridgeFixture struct {
	lib  *mockLibrary
	vp   *mockViewport
	dev  *recordingDevice
	q    *imbridge.Queue
	logs *captureHandler
	gui  *imbridge.GuiSubsystem
}

func newBridge(t *testing.T, opts ...imbridge.Option) *bridgeFixture {
	t.Helper()
	f := &bridgeFixture{
		lib:  newMockLibrary(),
		vp:   newMockViewport(),
		dev:  &recordingDevice{},
		q:    imbridge.NewQueue(),
		logs: &captureHandler{},
	}
	opts = append([]imbridge.Option{imbridge.WithLogger(slog.New(f.logs))}, opts...)
	f.gui = imbridge.New(f.lib, f.q, f.dev, opts...)
	return f
}

func (f *bridgeFixture) init(t *testing.T) {
	t.Helper()
	if err := f.gui.Initialize(f.vp); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	f.q.Drain()
}

func TestInitialize(t *testing.T) {
	f := newBridge(t)
	if err := f.gui.Initialize(f.vp); err != nil {
		t.Fatal(err)
	}

	if !f.gui.Active() || f.lib.creates != 1 {
		t.Fatal("context not created")
	}
	if f.lib.newFrames != 1 {
		t.Errorf("NewFrame called %d times during Initialize, want 1", f.lib.newFrames)
	}
	if f.lib.io.keyMapSets != 1 || f.lib.io.keyMap != imbridge.DefaultKeyMap() {
		t.Error("default key map not installed")
	}
	if f.lib.fontTex != imbridge.FontTextureID {
		t.Errorf("library font texture = %d", f.lib.fontTex)
	}
	if f.vp.subscriptions() != 4 {
		t.Errorf("%d subscriptions, want 4", f.vp.subscriptions())
	}

	// Font upload runs on the executor, not inline.
	if len(f.dev.calls) != 0 {
		t.Fatalf("device touched on the game thread: %v", f.dev.calls)
	}
	f.q.Drain()
	if f.dev.count("CreateTexture 4x2") != 1 {
		t.Errorf("font not uploaded: %v", f.dev.calls)
	}
	if _, ok := f.gui.Replayer().FontTexture(); !ok {
		t.Error("replayer has no font texture")
	}
}

func TestInitializeInvalidViewport(t *testing.T) {
	f := newBridge(t)
	f.vp.valid = false
	if err := f.gui.Initialize(f.vp); !errors.Is(err, imbridge.ErrInvalidViewport) {
		t.Fatalf("err = %v, want ErrInvalidViewport", err)
	}
	if err := f.gui.Initialize(nil); !errors.Is(err, imbridge.ErrInvalidViewport) {
		t.Fatalf("nil viewport: err = %v", err)
	}
	if f.lib.creates != 0 || f.vp.subscriptions() != 0 || f.q.Len() != 0 {
		t.Error("failed Initialize changed state")
	}
	if f.logs.count(slog.LevelError) != 2 {
		t.Errorf("expected 2 error logs, got %d", f.logs.count(slog.LevelError))
	}
}

func TestInitializeTwiceWarns(t *testing.T) {
	f := newBridge(t)
	f.init(t)
	f.init(t)

	if f.logs.count(slog.LevelWarn) != 1 {
		t.Errorf("expected 1 warning, got %d", f.logs.count(slog.LevelWarn))
	}
	if f.vp.subscriptions() != 4 {
		t.Errorf("%d subscriptions after re-init, want 4", f.vp.subscriptions())
	}
	if !f.gui.Active() {
		t.Error("context not live after re-init")
	}
}

func TestInitializeCreateContextFails(t *testing.T) {
	f := newBridge(t)
	boom := errors.New("no memory")
	f.lib.createErr = boom
	if err := f.gui.Initialize(f.vp); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if f.vp.subscriptions() != 0 {
		t.Error("subscribed despite failure")
	}
}

func TestCaptureFrameDispatchesSnapshot(t *testing.T) {
	clock := time.Unix(100, 0)
	f := newBridge(t, imbridge.WithClock(func() time.Time { return clock }))
	f.init(t)
	f.lib.drawData = quad([4]float32{0, 0, 800, 600})

	f.vp.mouse = imbridge.Vec2{X: 3, Y: 4}
	f.vp.buttons[1] = true
	f.vp.mods = imbridge.Modifiers{Ctrl: true, Super: true}
	f.vp.scale = imbridge.Vec2{X: 2, Y: 2}
	if err := f.gui.CaptureFrame(f.vp); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(20 * time.Millisecond)
	if err := f.gui.CaptureFrame(f.vp); err != nil {
		t.Fatal(err)
	}

	io := f.lib.io
	if io.displaySize != f.vp.size || io.scale != f.vp.scale || io.mousePos != f.vp.mouse {
		t.Errorf("io = %+v", io)
	}
	if !io.buttons[1] || io.buttons[0] || !io.mods.Ctrl || !io.mods.Super {
		t.Errorf("buttons %v modifiers %+v", io.buttons, io.mods)
	}
	if len(io.deltaTimes) != 2 || io.deltaTimes[0] != 1.0/60.0 {
		t.Fatalf("delta times = %v", io.deltaTimes)
	}
	if dt := io.deltaTimes[1]; dt < 0.0199 || dt > 0.0201 {
		t.Errorf("second delta = %v, want 0.02", dt)
	}

	// Capture never waits on the render side.
	if f.dev.count("DrawIndexed") != 0 || f.q.Len() != 2 {
		t.Fatalf("replay ran inline or was not queued: queue %d", f.q.Len())
	}

	// The library may reuse its buffers before replay runs.
	f.lib.drawData.Lists[0].CmdBuffer[0].ElemCount = 0
	f.q.Drain()
	if n := f.dev.count("DrawIndexed"); n != 2 {
		t.Errorf("%d draws, want 2", n)
	}
	if f.dev.target != "backbuffer" || f.dev.state.FeatureLevel != imbridge.FeatureLevelSM5 {
		t.Errorf("pass target %v level %v", f.dev.target, f.dev.state.FeatureLevel)
	}
	if s := f.gui.Stats(); s.FramesCaptured != 2 || s.FramesDispatched != 2 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCaptureFrameEmptyShortCircuits(t *testing.T) {
	f := newBridge(t)
	f.init(t)

	if err := f.gui.CaptureFrame(f.vp); err != nil {
		t.Fatal(err)
	}
	f.lib.drawData = &imbridge.DrawData{}
	if err := f.gui.CaptureFrame(f.vp); err != nil {
		t.Fatal(err)
	}
	if f.q.Len() != 0 {
		t.Errorf("%d work items queued for empty frames", f.q.Len())
	}
	if s := f.gui.Stats(); s.FramesEmpty != 2 || s.FramesDispatched != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCaptureFramePreconditions(t *testing.T) {
	f := newBridge(t)
	if err := f.gui.CaptureFrame(f.vp); !errors.Is(err, imbridge.ErrNoContext) {
		t.Errorf("err = %v, want ErrNoContext", err)
	}
	f.init(t)
	f.vp.valid = false
	if err := f.gui.CaptureFrame(f.vp); !errors.Is(err, imbridge.ErrInvalidViewport) {
		t.Errorf("err = %v, want ErrInvalidViewport", err)
	}
	if f.lib.renders != 0 {
		t.Error("Render called despite failed precondition")
	}
	if s := f.gui.Stats(); s.FramesRejected != 2 {
		t.Errorf("stats = %+v", s)
	}
}

func TestShowUIOffSkipsReplay(t *testing.T) {
	f := newBridge(t, imbridge.WithShowUI(false))
	f.init(t)
	f.lib.drawData = quad([4]float32{0, 0, 800, 600})

	f.vp.tick()
	f.vp.tick()
	f.q.Drain()

	if f.lib.renders != 2 {
		t.Errorf("Render called %d times, want 2", f.lib.renders)
	}
	if f.dev.count("BeginPass") != 0 {
		t.Error("replay ran with the UI hidden")
	}
	if s := f.gui.Stats(); s.FramesHidden != 2 {
		t.Errorf("stats = %+v", s)
	}

	if !f.gui.ToggleShowUI() {
		t.Fatal("toggle should turn the UI on")
	}
	f.vp.tick()
	f.q.Drain()
	if f.dev.count("BeginPass") != 1 {
		t.Error("replay did not run after enabling the UI")
	}
}

func TestFrameCallbacks(t *testing.T) {
	f := newBridge(t)
	f.init(t)
	f.lib.events = nil

	f.vp.wheelY = 2
	f.vp.tick()
	if f.lib.io.wheelY != 2 {
		t.Errorf("wheel = %v, want 2", f.lib.io.wheelY)
	}
	f.vp.tick()
	want := []string{"NewFrame", "Render", "NewFrame", "Render"}
	if len(f.lib.events) != len(want) {
		t.Fatalf("events = %v", f.lib.events)
	}
	for i := range want {
		if f.lib.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", f.lib.events, want)
		}
	}
	if f.lib.io.wheelY != 2 {
		t.Error("wheel delta fed twice")
	}
}

func TestKeyEvents(t *testing.T) {
	f := newBridge(t)
	f.init(t)

	f.vp.sendKey(imbridge.KeyEvent{Key: imbridge.KeyA, Action: imbridge.KeyPressed, Char: 'a'})
	f.vp.sendKey(imbridge.KeyEvent{Key: imbridge.KeyA, Action: imbridge.KeyRepeat, Char: 'a'})
	if !f.lib.io.keys[imbridge.KeyA] || string(f.lib.io.chars) != "aa" {
		t.Errorf("keys %v chars %q", f.lib.io.keys, string(f.lib.io.chars))
	}
	f.vp.sendKey(imbridge.KeyEvent{Key: imbridge.KeyA, Action: imbridge.KeyReleased, Char: 'a'})
	if f.lib.io.keys[imbridge.KeyA] || string(f.lib.io.chars) != "aa" {
		t.Errorf("release: keys %v chars %q", f.lib.io.keys, string(f.lib.io.chars))
	}
}

func TestShutdown(t *testing.T) {
	f := newBridge(t)
	f.init(t)
	f.lib.drawData = quad([4]float32{0, 0, 800, 600})
	f.vp.tick()
	f.q.Drain()

	f.gui.Shutdown(f.vp)
	if f.gui.Active() || f.lib.destroys != 1 {
		t.Fatal("context not destroyed")
	}
	if f.vp.subscriptions() != 0 {
		t.Errorf("%d subscriptions left", f.vp.subscriptions())
	}
	f.q.Drain()
	if f.dev.count("DestroyTexture") != 1 || f.dev.count("DestroyBuffers") != 1 {
		t.Errorf("GPU resources not released: %v", f.dev.calls)
	}

	// Ticks after shutdown reach nobody.
	renders := f.lib.renders
	f.vp.tick()
	if f.lib.renders != renders {
		t.Error("frame captured after Shutdown")
	}

	f.gui.Shutdown(f.vp)
	if f.lib.destroys != 1 || f.q.Len() != 0 {
		t.Error("second Shutdown was not a no-op")
	}
}

func TestShutdownOnViewportClose(t *testing.T) {
	f := newBridge(t)
	f.init(t)
	f.vp.close()
	if f.gui.Active() || f.vp.subscriptions() != 0 {
		t.Error("closing the viewport did not shut the GUI down")
	}
}

func TestShutdownWithoutInitialize(t *testing.T) {
	f := newBridge(t)
	f.gui.Shutdown(f.vp)
	if f.lib.destroys != 0 || f.q.Len() != 0 {
		t.Error("Shutdown without Initialize did work")
	}
}

func TestWidgetsRequireContext(t *testing.T) {
	f := newBridge(t)
	f.lib.click = true
	v := false
	if f.gui.Button("a") || f.gui.Checkbox("b", &v) || f.gui.Begin("w", nil) {
		t.Error("widgets reported input without a context")
	}
	f.gui.Text("x")
	f.gui.End()
	if f.lib.widgetCalls != 0 {
		t.Errorf("library called %d times without a context", f.lib.widgetCalls)
	}

	f.init(t)
	if f.gui.ButtonBranched("a") != imbridge.Clicked {
		t.Error("ButtonBranched should report Clicked")
	}
	f.lib.click = false
	if b := f.gui.CheckboxBranched("b", &v); b != imbridge.NotClicked || b.String() != "NotClicked" {
		t.Errorf("CheckboxBranched = %v", b)
	}
}

func TestSubscriptionReleaseOnce(t *testing.T) {
	n := 0
	s := imbridge.NewSubscription(func() { n++ })
	s.Release()
	s.Release()
	if n != 1 {
		t.Errorf("release ran %d times", n)
	}

	var set imbridge.CallbackSet[func()]
	a := set.Add(func() {})
	b := set.Add(func() {})
	if a.ID() == b.ID() {
		t.Error("subscriptions share an id")
	}
	a.Release()
	a.Release()
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}
