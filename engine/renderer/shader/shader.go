package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// ShaderType identifies the pipeline stage a shader module feeds.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

// String returns the lowercase stage name.
func (t ShaderType) String() string {
	if t == ShaderTypeFragment {
		return "fragment"
	}
	return "vertex"
}

// Visibility returns the wgpu stage flag for the shader type.
func (t ShaderType) Visibility() wgpu.ShaderStage {
	if t == ShaderTypeFragment {
		return wgpu.ShaderStageFragment
	}
	return wgpu.ShaderStageVertex
}

// Binding is a single @group/@binding resource declaration reflected from WGSL source.
type Binding struct {
	// Group is the bind group index.
	Group int

	// Index is the binding index within the group.
	Index int

	// Name is the WGSL variable name.
	Name string

	// Entry is the layout entry the host uses to build the bind group layout.
	Entry wgpu.BindGroupLayoutEntry
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	bindings   []Binding
	module     *wgpu.ShaderModuleDescriptor
}

// Shader is a WGSL source with its reflected entry point and resource bindings. The host
// renderer turns it into a GPU module; this package only prepares descriptors.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "fs_face"), or empty if none was found
	EntryPoint() string

	// Bindings returns every reflected resource binding ordered by group, then index.
	//
	// Returns:
	//   - []Binding: the reflected bindings
	Bindings() []Binding

	// Binding looks up a reflected binding by its WGSL variable name.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - Binding: the binding, or the zero Binding if absent
	//   - bool: true if the variable was found
	Binding(name string) (Binding, bool)

	// BindGroupLayoutDescriptors groups the reflected entries into layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor carrying the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Compile translates the WGSL source to SPIR-V words for backends that do not accept WGSL.
	//
	// Returns:
	//   - []uint32: the SPIR-V module as little-endian 32-bit words
	//   - error: error if the source fails to compile
	Compile() ([]uint32, error)
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source, reflecting its entry point and bindings.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the pipeline stage of the shader
//   - source: the WGSL source code
//
// Returns:
//   - Shader: a new Shader instance
func NewShader(key string, shaderType ShaderType, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
	s.entryPoint = parseEntryPoint(source, shaderType)
	s.bindings = parseBindings(source, shaderType.Visibility())
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return GroupLayouts(s.bindings)
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Compile() ([]uint32, error) {
	raw, err := naga.Compile(s.source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to compile %s: %w", s.key, err)
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[i*4]) |
			uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 |
			uint32(raw[i*4+3])<<24
	}
	return words, nil
}

// GroupLayouts builds bind group layout descriptors from a list of bindings. Bindings that
// share a group and index (for example one declared by both stages of a pipeline) are merged
// into a single entry whose visibility covers both stages.
//
// Parameters:
//   - bindings: the bindings to group, from one or more shaders
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index, entries sorted by binding
func GroupLayouts(bindings []Binding) map[int]wgpu.BindGroupLayoutDescriptor {
	groups := make(map[int]map[int]wgpu.BindGroupLayoutEntry)
	for _, b := range bindings {
		if groups[b.Group] == nil {
			groups[b.Group] = make(map[int]wgpu.BindGroupLayoutEntry)
		}
		if existing, ok := groups[b.Group][b.Index]; ok {
			existing.Visibility |= b.Entry.Visibility
			groups[b.Group][b.Index] = existing
			continue
		}
		groups[b.Group][b.Index] = b.Entry
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		list := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Binding < list[j].Binding })
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out
}
