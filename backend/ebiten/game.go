package ebiten

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/imbridge"
)

// Game implements ebiten.Game around a game's own update and draw
// functions, with the GUI bridge layered on top.
type Game struct {
	bridge *imbridge.GuiSubsystem
	vp     *Viewport
	dev    *Device
	queue  *imbridge.Queue

	update func() error
	draw   func(screen *ebiten.Image)

	initialized bool
	err         error
}

var _ ebiten.Game = (*Game)(nil)

// NewGame wires lib to an ebiten window. update runs every tick; draw runs
// every frame and is where game code issues its widget calls. Either may be
// nil.
func NewGame(lib imbridge.Library, update func() error, draw func(screen *ebiten.Image), opts ...imbridge.Option) *Game {
	g := &Game{
		vp:     NewViewport(imbridge.FeatureLevelSM5),
		dev:    NewDevice(nil),
		queue:  imbridge.NewQueue(),
		update: update,
		draw:   draw,
	}
	g.bridge = imbridge.New(lib, g.queue, g.dev, opts...)
	ebiten.SetWindowClosingHandled(true)
	return g
}

// Bridge returns the GUI subsystem for widget and EditObject calls.
func (g *Game) Bridge() *imbridge.GuiSubsystem { return g.bridge }

// Update polls input and runs the game's update. It ends the game when the window is closing.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if ebiten.IsWindowBeingClosed() {
		g.vp.Close()
		g.queue.Drain()
		g.dev.Release()
		return ebiten.Termination
	}
	g.vp.poll()
	if g.update != nil {
		return g.update()
	}
	return nil
}

// Draw runs one GUI frame and replays it onto screen.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.initialized {
		// Layout has run by now, so the viewport has a size.
		if err := g.bridge.Initialize(g.vp); err != nil {
			g.err = fmt.Errorf("GUI bridge: %w", err)
			return
		}
		g.initialized = true
	} else {
		g.vp.flush()
		g.vp.BeginFrame()
	}

	if g.draw != nil {
		g.draw(screen)
	}
	g.vp.Rendered()

	g.dev.SetScreen(screen)
	g.queue.Drain()
	g.dev.SetScreen(nil)
}

// Layout uses the window size as the screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.vp.setSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
