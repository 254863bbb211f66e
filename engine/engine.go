package engine

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-toon/engine/frame"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/Carmen-Shannon/oxy-toon/engine/toon"
	"github.com/rs/zerolog"
)

// RenderFunc draws one frame. It receives the frame state after the uniform update and
// the draw list of every ready scene in ascending key order, and returns the rendered
// color buffer for post-processing, or nil to skip it.
type RenderFunc func(state frame.State, draws []scene.DrawItem) *postprocess.Buffer

// PresentFunc receives the post-processed frame. The buffer is reused by the next frame.
type PresentFunc func(out *postprocess.Buffer)

// engine implements the Engine interface.
// Coordinates the tick and render goroutines.
type engine struct {
	mu sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	pipeline toon.Pipeline
	logger   zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate  time.Duration
	tickCallback    func(deltaTime float32)
	renderCallback  RenderFunc
	presentCallback PresentFunc

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	maxFrames        uint64        // quit after this many frames; 0 = unbounded
	frames           atomic.Uint64
}

// Engine drives the toon pipeline. A fixed-rate tick goroutine runs host logic, and a
// render goroutine advances the pipeline, collects draw lists, calls the render
// callback and post-processes its output.
type Engine interface {
	// Pipeline returns the toon pipeline the render loop advances, or nil.
	Pipeline() toon.Pipeline

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for host logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame.
	//
	// Parameters:
	//   - callback: the draw function
	SetRenderCallback(callback RenderFunc)

	// SetPresentCallback registers the function receiving each post-processed frame.
	//
	// Parameters:
	//   - callback: the present function
	SetPresentCallback(callback PresentFunc)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are drawn in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining draw order (lower draws first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Frames returns the number of completed render frames.
	Frames() uint64

	// Run starts the tick and render loops and blocks until Quit is called, the frame
	// limit is reached or the render loop panics.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (pipeline, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		logger:          zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Pipeline() toon.Pipeline {
	return e.pipeline
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	e.wg.Wait()
	e.running.Store(false)
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.RLock()
	rate := e.engineTickRate
	e.mu.RUnlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.RLock()
			cb := e.tickCallback
			e.mu.RUnlock()
			if cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("render goroutine recovered from panic")
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastRender).Seconds())
		lastRender = frameStart

		e.renderFrame(dt)
		took := time.Since(frameStart)

		if e.profilingEnabled.Load() && e.profiler != nil {
			e.profiler.ObserveFrame(took)
			e.profiler.Tick()
		}

		n := e.frames.Add(1)
		if e.maxFrames > 0 && n >= e.maxFrames {
			e.signalQuit()
			return
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - took; remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame runs one frame: uniform update, draw, post-process, present.
func (e *engine) renderFrame(dt float32) {
	var state frame.State
	if e.pipeline != nil {
		var err error
		if state, err = e.pipeline.Advance(dt); err != nil {
			e.logger.Warn().Err(err).Uint64("frame", state.Frame).Msg("uniform update failed")
		}
	}

	e.mu.RLock()
	render, present := e.renderCallback, e.presentCallback
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	var draws []scene.DrawItem
	for _, k := range keys {
		if s := e.scenes[k]; s.Ready().Ready() {
			draws = append(draws, s.DrawList()...)
		}
	}
	e.mu.RUnlock()

	if render == nil {
		return
	}
	color := render(state, draws)
	if color == nil {
		return
	}

	out := color
	if e.pipeline != nil {
		var err error
		if out, err = e.pipeline.Post(state, color); err != nil {
			e.logger.Error().Err(err).Uint64("frame", state.Frame).Msg("post-processing failed")
			return
		}
	}
	if present != nil {
		present(out)
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
		return
	}
	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	e.tickCallback = callback
	e.mu.Unlock()
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback RenderFunc) {
	e.mu.Lock()
	e.renderCallback = callback
	e.mu.Unlock()
}

// SetPresentCallback registers the function receiving each post-processed frame.
func (e *engine) SetPresentCallback(callback PresentFunc) {
	e.mu.Lock()
	e.presentCallback = callback
	e.mu.Unlock()
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop. Takes effect before Run.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}
