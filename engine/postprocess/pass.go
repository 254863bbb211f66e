package postprocess

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-toon/common"
)

// Kind identifies a post-processing pass.
type Kind int

const (
	KindBloom Kind = iota
	KindAntiAlias
	KindToneMap
)

// String returns the lowercase pass name.
func (k Kind) String() string {
	switch k {
	case KindBloom:
		return "bloom"
	case KindAntiAlias:
		return "antialias"
	case KindToneMap:
		return "tonemap"
	default:
		return "unknown"
	}
}

// Order is the fixed pass order. Bloom reads pre-antialiased luminance, anti-aliasing runs
// on linear color, and tone mapping is last before display.
var Order = [...]Kind{KindBloom, KindAntiAlias, KindToneMap}

// FrameContext carries the per-frame inputs passes may consult.
type FrameContext struct {
	// Width and Height are the frame resolution in pixels.
	Width, Height int

	// Depth is the depth snapshot for the frame, or nil when unavailable.
	Depth *common.DepthTexture
}

// depthFor returns the depth snapshot at the size of b, or nil if none is usable.
func (c FrameContext) depthFor(b *Buffer) *common.DepthTexture {
	if !c.Depth.Valid() {
		return nil
	}
	return c.Depth.Resize(b.Width, b.Height)
}

// Pass is one stage of the chain. Apply reads src and writes every pixel of dst; the
// two buffers have the same size and never alias.
type Pass interface {
	Kind() Kind
	Apply(ctx FrameContext, rows RowRunner, src, dst *Buffer)
}

// PassDescriptor describes one configured pass.
type PassDescriptor struct {
	Kind    Kind
	Enabled bool
	Params  any
}

// RowRunner splits row ranges across workers.
type RowRunner interface {
	// Run calls fn over [0, height) in contiguous bands and returns when all bands are done.
	Run(height int, fn func(y0, y1 int))
}

// serialRows runs every band on the calling goroutine.
type serialRows struct{}

func (serialRows) Run(height int, fn func(y0, y1 int)) {
	fn(0, height)
}

// poolRows fans bands out over a long-lived worker pool. A WaitGroup is the per-pass
// barrier since the pool itself only drains when its workers idle out.
type poolRows struct {
	pool    worker.DynamicWorkerPool
	workers int
}

// minBandRows keeps bands large enough to amortize task submission.
const minBandRows = 16

func newPoolRows(workers int) RowRunner {
	if workers <= 1 {
		return serialRows{}
	}
	return &poolRows{
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
	}
}

func (p *poolRows) Run(height int, fn func(y0, y1 int)) {
	bands := min(p.workers*2, max(height/minBandRows, 1))
	if bands <= 1 {
		fn(0, height)
		return
	}
	step := (height + bands - 1) / bands

	var wg sync.WaitGroup
	id := 0
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(y0, y1)
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}
