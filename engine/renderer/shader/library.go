package shader

import (
	"embed"
	"fmt"
	"sort"
	"sync"
)

//go:embed assets/*.wgsl
var assets embed.FS

// Keys of the built-in toon shaders.
const (
	KeyToonVertex      = "toon.vertex"
	KeyFaceFragment    = "toon.face.fragment"
	KeyBodyFragment    = "toon.body.fragment"
	KeyOutlineVertex   = "outline.vertex"
	KeyOutlineFragment = "outline.fragment"
)

var builtins = []struct {
	key        string
	shaderType ShaderType
	file       string
}{
	{KeyToonVertex, ShaderTypeVertex, "assets/toon_vertex.wgsl"},
	{KeyFaceFragment, ShaderTypeFragment, "assets/face_fragment.wgsl"},
	{KeyBodyFragment, ShaderTypeFragment, "assets/body_fragment.wgsl"},
	{KeyOutlineVertex, ShaderTypeVertex, "assets/outline_vertex.wgsl"},
	{KeyOutlineFragment, ShaderTypeFragment, "assets/outline_fragment.wgsl"},
}

// Library is a read-only registry of shaders keyed by name.
type Library interface {
	// Get retrieves a shader by key.
	//
	// Parameters:
	//   - key: the shader key
	//
	// Returns:
	//   - Shader: the shader, or nil if absent
	//   - bool: true if the key is registered
	Get(key string) (Shader, bool)

	// MustGet retrieves a shader by key and panics if it is not registered.
	MustGet(key string) Shader

	// Keys returns the registered keys in sorted order.
	Keys() []string

	// CompileAll compiles every registered shader to SPIR-V and stops at the first failure.
	//
	// Returns:
	//   - map[string][]uint32: SPIR-V words keyed by shader key
	//   - error: error if any shader fails to compile
	CompileAll() (map[string][]uint32, error)
}

type library struct {
	shaders map[string]Shader
}

var _ Library = &library{}

var (
	builtinOnce    sync.Once
	builtinLibrary *library
)

// Builtin returns the library of embedded toon and outline shaders. The sources are parsed
// once on first use and shared afterwards.
//
// Returns:
//   - Library: the built-in shader library
func Builtin() Library {
	builtinOnce.Do(func() {
		lib := &library{shaders: make(map[string]Shader, len(builtins))}
		for _, b := range builtins {
			src, err := assets.ReadFile(b.file)
			if err != nil {
				panic(fmt.Sprintf("shader: missing embedded source %s: %v", b.file, err))
			}
			lib.shaders[b.key] = NewShader(b.key, b.shaderType, string(src))
		}
		builtinLibrary = lib
	})
	return builtinLibrary
}

func (l *library) Get(key string) (Shader, bool) {
	s, ok := l.shaders[key]
	return s, ok
}

func (l *library) MustGet(key string) Shader {
	s, ok := l.shaders[key]
	if !ok {
		panic(fmt.Sprintf("shader: %s is not registered", key))
	}
	return s
}

func (l *library) Keys() []string {
	keys := make([]string, 0, len(l.shaders))
	for k := range l.shaders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l *library) CompileAll() (map[string][]uint32, error) {
	out := make(map[string][]uint32, len(l.shaders))
	for _, key := range l.Keys() {
		words, err := l.shaders[key].Compile()
		if err != nil {
			return nil, err
		}
		out[key] = words
	}
	return out, nil
}
