package imbridge

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// DrawSnapshot is a deep copy of one frame's DrawData. It owns all of its
// buffers and is never mutated after construction, so it can be handed to
// the render thread by value.
type DrawSnapshot struct {
	Lists            []DrawList
	TotalVtxCount    int
	TotalIdxCount    int
	DisplayPos       Vec2
	DisplaySize      Vec2
	FramebufferScale Vec2
}

// Empty reports whether the snapshot has no geometry.
func (s *DrawSnapshot) Empty() bool {
	return s.TotalVtxCount == 0
}

// FramebufferSize returns the snapshot's size in framebuffer pixels.
func (s *DrawSnapshot) FramebufferSize() Vec2 {
	return Vec2{
		X: s.DisplaySize.X * s.FramebufferScale.X,
		Y: s.DisplaySize.Y * s.FramebufferScale.Y,
	}
}

// NewSnapshot deep-copies dd. A nil dd yields an empty snapshot.
func NewSnapshot(dd *DrawData) DrawSnapshot {
	s := newSnapshotHeader(dd)
	if dd == nil {
		return s
	}
	for i, l := range dd.Lists {
		copyList(&s.Lists[i], l)
	}
	return s
}

func newSnapshotHeader(dd *DrawData) DrawSnapshot {
	if dd == nil {
		return DrawSnapshot{FramebufferScale: Vec2{1, 1}}
	}
	scale := dd.FramebufferScale
	if scale.X == 0 || scale.Y == 0 {
		scale = Vec2{1, 1}
	}
	return DrawSnapshot{
		Lists:            make([]DrawList, len(dd.Lists)),
		TotalVtxCount:    dd.TotalVtxCount,
		TotalIdxCount:    dd.TotalIdxCount,
		DisplayPos:       dd.DisplayPos,
		DisplaySize:      dd.DisplaySize,
		FramebufferScale: scale,
	}
}

func copyList(dst *DrawList, src *DrawList) {
	if src == nil {
		return
	}
	dst.VtxBuffer = append([]Vertex(nil), src.VtxBuffer...)
	dst.IdxBuffer = append([]uint16(nil), src.IdxBuffer...)
	dst.CmdBuffer = append([]DrawCmd(nil), src.CmdBuffer...)
}

// SnapshotCopier builds snapshots, fanning the per-list copies out over a
// worker pool once a frame has enough lists to make that worthwhile.
type SnapshotCopier struct {
	threshold int
	pool      worker.DynamicWorkerPool
}

// DefaultParallelCopyThreshold is the list count at which copies go parallel.
const DefaultParallelCopyThreshold = 8

// NewSnapshotCopier creates a copier. workers <= 0 disables the pool.
func NewSnapshotCopier(workers, threshold int) *SnapshotCopier {
	c := &SnapshotCopier{threshold: threshold}
	if c.threshold <= 0 {
		c.threshold = DefaultParallelCopyThreshold
	}
	if workers > 0 {
		c.pool = worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
	}
	return c
}

// Copy returns a deep copy of dd.
func (c *SnapshotCopier) Copy(dd *DrawData) DrawSnapshot {
	if c == nil || c.pool == nil || dd == nil || len(dd.Lists) < c.threshold {
		return NewSnapshot(dd)
	}

	s := newSnapshotHeader(dd)

	// Workers stay alive between frames; the WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	for i, l := range dd.Lists {
		wg.Add(1)
		dst := &s.Lists[i]
		src := l
		c.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				copyList(dst, src)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return s
}

// Close stops the copier's workers.
func (c *SnapshotCopier) Close() {
	if c != nil && c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}
