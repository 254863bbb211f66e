package scene

import "github.com/rs/zerolog"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger used by the scene.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = logger
	}
}

// WithRoots adds initial root hierarchies to the scene.
//
// Parameters:
//   - roots: the root nodes
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRoots(roots ...*Node) SceneBuilderOption {
	return func(s *scene) {
		for _, r := range roots {
			if r != nil {
				s.roots = append(s.roots, r)
			}
		}
	}
}

// WithReadySignal shares an externally owned ready signal, so a host UI can wait on it
// before the scene exists.
func WithReadySignal(r *ReadySignal) SceneBuilderOption {
	return func(s *scene) {
		if r != nil {
			s.ready = r
		}
	}
}
