package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
)

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *scene.Node: the root of the imported hierarchy
	//   - error: error if loading fails
	Load(path string) (*scene.Node, error)

	// LoadReader imports a self-contained model from a reader stream.
	//
	// Parameters:
	//   - name: the root node name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *scene.Node: the root of the imported hierarchy
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*scene.Node, error)
}
