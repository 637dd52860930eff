package imbridge

import (
	"log/slog"
	"time"
)

// Option configures a GuiSubsystem.
type Option func(*GuiSubsystem)

// WithShowUI sets the initial state of the show-UI toggle (default true).
func WithShowUI(show bool) Option {
	return func(g *GuiSubsystem) { g.showUI.Store(show) }
}

// WithLogger sets the logger used by the subsystem and its replayer.
func WithLogger(l *slog.Logger) Option {
	return func(g *GuiSubsystem) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock replaces the clock used to compute frame delta time.
func WithClock(now func() time.Time) Option {
	return func(g *GuiSubsystem) {
		if now != nil {
			g.now = now
		}
	}
}

// WithKeyMap replaces the key map installed on Initialize.
func WithKeyMap(m KeyMap) Option {
	return func(g *GuiSubsystem) { g.keyMap = m }
}

// WithCopyWorkers enables parallel snapshot copies with n workers for
// frames with at least threshold draw lists.
func WithCopyWorkers(n, threshold int) Option {
	return func(g *GuiSubsystem) {
		g.copyWorkers = n
		g.copyThreshold = threshold
	}
}

// WithMaxInspectDepth bounds how deep EditObject follows nested objects.
func WithMaxInspectDepth(depth int) Option {
	return func(g *GuiSubsystem) { g.maxInspectDepth = depth }
}

// WithParallelCopyThreshold sets the draw list count at which snapshot
// copies fan out over the copy workers.
func WithParallelCopyThreshold(lists int) Option {
	return func(g *GuiSubsystem) { g.copyThreshold = lists }
}
