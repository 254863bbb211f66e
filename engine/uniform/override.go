package uniform

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// overrideView reads a per-instance override map before falling back to the shared set.
// It is the only sanctioned way for one material to diverge from its pass's shared values.
type overrideView struct {
	shared    View
	overrides map[string]Value
	order     []string
}

var _ View = &overrideView{}

// WithOverrides returns a read-only view of shared in which the entries of overrides take
// precedence. The override map is copied; later writes to the shared set remain visible
// for every name that is not overridden.
//
// Parameters:
//   - shared: the shared uniform set
//   - overrides: per-instance entries, in declaration order
//
// Returns:
//   - View: the combined view
func WithOverrides(shared View, overrides ...Entry) View {
	v := &overrideView{
		shared:    shared,
		overrides: make(map[string]Value, len(overrides)),
	}
	for _, e := range overrides {
		if _, ok := v.overrides[e.Name]; !ok {
			v.order = append(v.order, e.Name)
		}
		v.overrides[e.Name] = e.Value
	}
	return v
}

func (v *overrideView) Name() string {
	return v.shared.Name()
}

func (v *overrideView) Get(name string) (Value, bool) {
	if o, ok := v.overrides[name]; ok {
		return o, true
	}
	return v.shared.Get(name)
}

func (v *overrideView) Names() []string {
	names := v.shared.Names()
	for _, n := range v.order {
		if _, ok := v.shared.Get(n); !ok {
			names = append(names, n)
		}
	}
	return names
}

func (v *overrideView) Float(name string) float32 {
	if o, ok := v.overrides[name]; ok && o.kind == KindFloat {
		return o.f
	}
	return v.shared.Float(name)
}

func (v *overrideView) Color(name string) mgl32.Vec3 {
	if o, ok := v.overrides[name]; ok && o.kind == KindColor {
		return o.v3
	}
	return v.shared.Color(name)
}

func (v *overrideView) Vec2(name string) mgl32.Vec2 {
	if o, ok := v.overrides[name]; ok && o.kind == KindVec2 {
		return o.v2
	}
	return v.shared.Vec2(name)
}

func (v *overrideView) Vec3(name string) mgl32.Vec3 {
	if o, ok := v.overrides[name]; ok && o.kind == KindVec3 {
		return o.v3
	}
	return v.shared.Vec3(name)
}

func (v *overrideView) Texture(name string) *common.TextureAsset {
	if o, ok := v.overrides[name]; ok && o.kind == KindTexture {
		return o.texture
	}
	return v.shared.Texture(name)
}

func (v *overrideView) Bool(name string) bool {
	if o, ok := v.overrides[name]; ok && o.kind == KindBool {
		return o.b
	}
	return v.shared.Bool(name)
}
