package profiler

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Profiler tracks frame rate, pass timings and memory statistics for performance monitoring.
// Outputs a summary to the log at a configurable interval and exports Prometheus collectors.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         zerolog.Logger

	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	passDuration  *prometheus.HistogramVec
	fps           prometheus.Gauge
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger the periodic summary is written to.
func WithLogger(logger zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithUpdateInterval sets how often the summary is logged.
func WithUpdateInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to further configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logger:         zerolog.Nop(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oxytoon_frames_total",
			Help: "Total number of rendered frames",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oxytoon_frame_duration_seconds",
			Help:    "Frame duration in seconds",
			Buckets: []float64{0.001, 0.004, 0.008, 0.016, 0.033, 0.05, 0.1, 0.25},
		}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oxytoon_pass_duration_seconds",
			Help:    "Post-processing pass duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"pass"}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oxytoon_fps",
			Help: "Frames per second over the last update interval",
		}),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Register adds the profiler's collectors to reg.
//
// Parameters:
//   - reg: the registry, e.g. prometheus.DefaultRegisterer
//
// Returns:
//   - error: error if a collector is already registered
func (p *Profiler) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{p.frames, p.frameDuration, p.passDuration, p.fps} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveFrame records the duration of one frame.
func (p *Profiler) ObserveFrame(took time.Duration) {
	p.frameDuration.Observe(took.Seconds())
}

// ObservePass records the duration of one post-processing pass.
//
// Parameters:
//   - pass: the pass name
//   - took: the pass duration
func (p *Profiler) ObservePass(pass string, took time.Duration) {
	p.passDuration.WithLabelValues(pass).Observe(took.Seconds())
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	p.frames.Inc()
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	p.fps.Set(fps)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// TotalAlloc only grows, so the delta is the churn since the last summary
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info().
		Float64("fps", fps).
		Float64("heap_mb", allocMB).
		Float64("alloc_rate_mb_s", allocRateMB).
		Uint32("gc", gcCount).
		Uint64("gc_last_us", lastPauseUs).
		Uint64("gc_max_us", maxPauseUs).
		Float64("sys_mb", sysMB).
		Msg("profiler")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
