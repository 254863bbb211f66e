// Package frame advances the per-frame state shared by the toon and outline passes.
package frame

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Viewport reports the current drawable size. It is sampled every frame because the size
// may change between frames.
type Viewport interface {
	// Size returns the viewport size in logical pixels.
	Size() (width, height int)

	// PixelRatio returns the device pixel ratio.
	PixelRatio() float32
}

// FixedViewport is a Viewport with a constant size, for headless hosts and tests.
type FixedViewport struct {
	Width, Height int
	Ratio         float32
}

// Size returns the fixed size.
func (v FixedViewport) Size() (int, int) {
	return v.Width, v.Height
}

// PixelRatio returns the fixed ratio, or 1 if unset.
func (v FixedViewport) PixelRatio() float32 {
	if v.Ratio <= 0 {
		return 1
	}
	return v.Ratio
}

// State is the process-wide frame state. It is only written by Advance.
type State struct {
	// Frame counts Advance calls.
	Frame uint64

	// Time is the accumulated, wrapped elapsed time.
	Time float32

	// Delta is the wrapped delta of the latest frame.
	Delta float32

	// LightPosition is the last observed world position of the tracked light.
	LightPosition mgl32.Vec3

	// Width and Height are the viewport size in logical pixels.
	Width, Height int

	// PixelRatio is the device pixel ratio observed this frame.
	PixelRatio float32

	// Depth is this frame's depth snapshot resized to the drawing-buffer size, or nil when
	// none is available.
	Depth *common.DepthTexture
}

// Resolution returns the viewport size as a vector.
func (s State) Resolution() mgl32.Vec2 {
	return mgl32.Vec2{float32(s.Width), float32(s.Height)}
}

// DrawingBufferSize returns the viewport size scaled by the pixel ratio.
func (s State) DrawingBufferSize() (int, int) {
	return int(float32(s.Width) * s.PixelRatio), int(float32(s.Height) * s.PixelRatio)
}

// Updater runs once per rendered frame before the post-processing chain.
type Updater interface {
	// Advance applies queued uniform writes, then advances the frame by delta seconds.
	// The delta is reduced modulo one second before use. The light position, elapsed
	// time and both resolution parameters are written into the uniform sets, and the
	// depth source is sampled. Calling Advance with a zero delta leaves time unchanged.
	// Failed queued writes are logged and returned but never stop the frame.
	//
	// Parameters:
	//   - delta: the elapsed time since the previous frame, in seconds
	//
	// Returns:
	//   - State: the frame state after the update
	//   - error: the joined errors of failed queued writes and uniform updates, or nil
	Advance(delta float32) (State, error)

	// State returns the latest frame state.
	State() State
}

// updater is the implementation of the Updater interface.
type updater struct {
	mu sync.Mutex

	toon     uniform.Set
	outline  uniform.Set
	marker   light.Marker
	viewport Viewport
	depth    common.DepthSource
	logger   zerolog.Logger

	state State
}

var _ Updater = &updater{}

// NewUpdater creates a frame updater for the two pass uniform sets. The toon set, outline
// set, light marker and viewport are required; NewUpdater panics if any is nil.
//
// Parameters:
//   - toon: the shared toon uniform set
//   - outline: the shared outline uniform set
//   - marker: the tracked light
//   - viewport: the viewport sampled every frame
//   - options: functional options to further configure the updater
//
// Returns:
//   - Updater: the new updater
func NewUpdater(toon, outline uniform.Set, marker light.Marker, viewport Viewport, options ...UpdaterOption) Updater {
	if toon == nil || outline == nil {
		panic("frame: NewUpdater requires both uniform sets")
	}
	if marker == nil {
		panic("frame: NewUpdater requires a light marker")
	}
	if viewport == nil {
		panic("frame: NewUpdater requires a viewport")
	}
	u := &updater{
		toon:     toon,
		outline:  outline,
		marker:   marker,
		viewport: viewport,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(u)
	}
	u.state.Time = toon.Float(uniform.Time)
	u.state.PixelRatio = viewport.PixelRatio()
	return u
}

func (u *updater) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *updater) Advance(delta float32) (State, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var errs []error
	for _, s := range []uniform.Set{u.toon, u.outline} {
		if s.Pending() == 0 {
			continue
		}
		n, err := s.Drain()
		if err != nil {
			u.logger.Warn().Err(err).Str("set", s.Name()).Int("applied", n).Msg("queued uniform writes failed")
			errs = append(errs, err)
		}
	}

	st := u.state
	st.Frame++
	st.Delta = common.WrapDelta(delta)
	st.LightPosition = u.marker.WorldPosition()
	st.Time = u.toon.Float(uniform.Time) + st.Delta
	st.Width, st.Height = u.viewport.Size()
	st.PixelRatio = u.viewport.PixelRatio()

	res := st.Resolution()
	errs = append(errs,
		u.toon.SetVec3(uniform.LightPosition, st.LightPosition),
		u.toon.SetFloat(uniform.Time, st.Time),
		u.outline.SetVec2(uniform.Resolution, res),
		u.toon.SetVec2(uniform.Resolution, res.Mul(st.PixelRatio)),
	)

	st.Depth = nil
	if u.depth != nil {
		if d := u.depth.DepthTexture(); d.Valid() {
			w, h := st.DrawingBufferSize()
			st.Depth = d.Resize(w, h)
		}
	}

	u.state = st
	return st, errors.Join(errs...)
}

// UpdaterOption is a functional option for configuring an Updater.
type UpdaterOption func(*updater)

// WithLogger sets the logger used to report failed queued writes.
func WithLogger(logger zerolog.Logger) UpdaterOption {
	return func(u *updater) {
		u.logger = logger
	}
}

// WithDepthSource sets the depth capture collaborator sampled every frame.
//
// Parameters:
//   - src: the depth source
//
// Returns:
//   - UpdaterOption: option function to apply
func WithDepthSource(src common.DepthSource) UpdaterOption {
	return func(u *updater) {
		u.depth = src
	}
}
