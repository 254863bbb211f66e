package scene

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// ErrAlreadyAssembled is returned when Assemble is called after a successful assembly.
var ErrAlreadyAssembled = errors.New("scene: character already assembled")

// DefaultPlacement is where the character and its outline copy are placed.
var DefaultPlacement = mgl32.Vec3{0, -0.7, 0}

// OutlineSuffix is appended to the name of the outline copy's root node.
const OutlineSuffix = ".outline"

// Assembler replaces a loaded model's materials with toon materials and injects the
// silhouette copy of its hierarchy into the scene.
type Assembler interface {
	// Assemble runs scene assembly for model. Every material (toon and outline) is built
	// before anything is committed: if any build fails the model, the scene and the ready
	// signal are left untouched and the error is returned. On success the model's meshes
	// carry toon materials, an outline copy of the hierarchy carrying outline materials is
	// placed coincident with the model, both are in the scene, and the ready signal is set.
	//
	// Parameters:
	//   - model: the root of the loaded model
	//
	// Returns:
	//   - error: ErrAlreadyAssembled, or the first material build error
	Assemble(model *Node) error

	// Assembled reports whether a previous Assemble call succeeded.
	Assembled() bool
}

// assembler is the implementation of the Assembler interface.
type assembler struct {
	mu        sync.Mutex
	assembled bool

	scene     Scene
	toon      material.Builder
	outline   material.OutlineBuilder
	placement mgl32.Vec3
	workers   int
	logger    zerolog.Logger
}

var _ Assembler = &assembler{}

// NewAssembler creates an assembler for the given scene and builders. All three are
// required and NewAssembler panics if any of them is nil.
//
// Parameters:
//   - s: the scene the character is assembled into
//   - toon: the toon material builder
//   - outline: the outline material builder
//   - options: functional options to further configure the assembler
//
// Returns:
//   - Assembler: the new assembler
func NewAssembler(s Scene, toon material.Builder, outline material.OutlineBuilder, options ...AssemblerOption) Assembler {
	if s == nil {
		panic("scene: NewAssembler requires a non-nil Scene")
	}
	if toon == nil || outline == nil {
		panic("scene: NewAssembler requires non-nil material builders")
	}
	a := &assembler{
		scene:     s,
		toon:      toon,
		outline:   outline,
		placement: DefaultPlacement,
		workers:   1,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *assembler) Assembled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.assembled
}

func (a *assembler) Assemble(model *Node) error {
	if model == nil {
		return errors.New("scene: cannot assemble a nil model")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.assembled {
		return ErrAlreadyAssembled
	}

	start := time.Now()
	outline := model.Clone()
	outline.Name = model.Name + OutlineSuffix

	var sources, copies []*Mesh
	model.EachMesh(func(m *Mesh) { sources = append(sources, m) })
	outline.EachMesh(func(m *Mesh) { copies = append(copies, m) })

	jobs := make([]func() (material.Material, error), 0, len(sources)+len(copies))
	for _, m := range sources {
		base := m.Base
		jobs = append(jobs, func() (material.Material, error) {
			mat, err := a.toon.Build(base, material.CategoryFromName(base.Name))
			if err != nil {
				return nil, fmt.Errorf("scene: mesh %q: %w", m.Name, err)
			}
			return mat, nil
		})
	}
	for _, m := range copies {
		base := m.Base
		jobs = append(jobs, func() (material.Material, error) {
			mat, err := a.outline.Build(base)
			if err != nil {
				return nil, fmt.Errorf("scene: outline of mesh %q: %w", m.Name, err)
			}
			return mat, nil
		})
	}

	built, err := a.run(jobs)
	if err != nil {
		a.logger.Error().Err(err).Str("model", model.Name).Msg("scene assembly aborted")
		return err
	}

	// commit
	counts := make(map[material.Category]int)
	for i, m := range sources {
		m.Material = built[i]
		m.RenderOrder = built[i].RenderOrder()
		counts[built[i].Category()]++
	}
	for i, m := range copies {
		mat := built[len(sources)+i]
		m.Material = mat
		m.RenderOrder = mat.RenderOrder()
	}
	model.Position = a.placement
	outline.Position = a.placement
	if !a.scene.Contains(model) {
		a.scene.Add(model)
	}
	a.scene.Add(outline)
	a.assembled = true
	a.scene.Ready().Set()

	ev := a.logger.Info().
		Str("model", model.Name).
		Int("meshes", len(sources)).
		Int("outlines", len(copies)).
		Dur("took", time.Since(start))
	for cat, n := range counts {
		ev = ev.Int(cat.String(), n)
	}
	ev.Msg("scene assembled")
	return nil
}

// run executes the build jobs, on the worker pool when more than one worker is configured.
// Results keep job order; the error of the lowest-indexed failing job is returned.
func (a *assembler) run(jobs []func() (material.Material, error)) ([]material.Material, error) {
	results := make([]material.Material, len(jobs))
	errs := make([]error, len(jobs))

	if a.workers <= 1 || len(jobs) < 2 {
		for i, job := range jobs {
			results[i], errs[i] = job()
		}
	} else {
		pool := worker.NewDynamicWorkerPool(min(a.workers, len(jobs)), len(jobs), 1*time.Second)
		var wg sync.WaitGroup
		for i, job := range jobs {
			wg.Add(1)
			pool.SubmitTask(worker.Task{
				ID: i,
				Do: func() (any, error) {
					defer wg.Done()
					results[i], errs[i] = job()
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*assembler)

// WithAssemblyLogger sets the logger used to report assembly.
func WithAssemblyLogger(logger zerolog.Logger) AssemblerOption {
	return func(a *assembler) {
		a.logger = logger
	}
}

// WithPlacement sets the position given to the model root and its outline copy.
//
// Parameters:
//   - p: the placement
//
// Returns:
//   - AssemblerOption: option function to apply
func WithPlacement(p mgl32.Vec3) AssemblerOption {
	return func(a *assembler) {
		a.placement = p
	}
}

// WithAssemblyWorkers builds materials on n workers. Values below 1 select runtime.NumCPU()-1.
func WithAssemblyWorkers(n int) AssemblerOption {
	return func(a *assembler) {
		if n < 1 {
			n = max(runtime.NumCPU()-1, 1)
		}
		a.workers = n
	}
}
