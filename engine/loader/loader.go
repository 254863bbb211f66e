package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/rs/zerolog"
)

// ErrUnsupportedFormat is returned for model files no backend can read.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]*scene.Node

	backend loaderBackend
	logger  zerolog.Logger
}

// Loader defines the public-facing interface for loading and caching character models
// and their textures. It abstracts the file format behind a backend and keeps a cache of
// previously loaded models. Loading is the host's job; failures are returned, never
// retried, and are fatal to scene assembly.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), a fresh clone of the cached tree is
	// returned so each caller owns its nodes.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *scene.Node: the root of the loaded hierarchy
	//   - error: error if loading fails
	Load(path string) (*scene.Node, error)

	// LoadReader imports a self-contained model (GLB or glTF with embedded buffers) from a
	// reader and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key and root node name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - *scene.Node: the root of the loaded hierarchy
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*scene.Node, error)

	// Get retrieves a clone of a cached model by name. Returns nil if not found.
	Get(name string) *scene.Node

	// Models returns the sorted names of all cached models.
	Models() []string

	// LoadTextures loads the character textures from dir using the fixed file layout and
	// applies their import tags.
	//
	// Parameters:
	//   - dir: the texture root directory
	//
	// Returns:
	//   - *material.TextureSet: the decoded textures
	//   - error: the first texture that failed to load
	LoadTextures(dir string) (*material.TextureSet, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the model format backend
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the new loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]*scene.Node),
		logger:     zerolog.Nop(),
	}
	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*scene.Node, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gltf" && ext != ".glb" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	root, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	l.store(path, root)
	return root.Clone(), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*scene.Node, error) {
	root, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", name, err)
	}
	l.store(name, root)
	return root.Clone(), nil
}

func (l *loader) store(key string, root *scene.Node) {
	l.mu.Lock()
	l.modelCache[key] = root
	l.mu.Unlock()
	l.logger.Info().Str("model", key).Int("meshes", root.MeshCount()).Msg("model loaded")
}

func (l *loader) Get(name string) *scene.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if root, ok := l.modelCache[name]; ok {
		return root.Clone()
	}
	return nil
}

func (l *loader) Models() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.modelCache))
	for k := range l.modelCache {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
