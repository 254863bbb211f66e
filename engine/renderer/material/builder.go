package material

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

var (
	// ErrMissingColorMap is returned when a base material has no color map.
	ErrMissingColorMap = errors.New("material: base material has no color map")

	// ErrMissingTexture is returned when a category texture has not been loaded.
	ErrMissingTexture = errors.New("material: missing category texture")

	// ErrInvalidCategory is returned when the toon builder is asked for the outline category.
	ErrInvalidCategory = errors.New("material: category not supported by this builder")
)

var (
	// FaceForward is the fixed forward axis of the face rig.
	FaceForward = mgl32.Vec3{0, 0, 1}

	// FaceLeft is the fixed left axis of the face rig.
	FaceLeft = mgl32.Vec3{1, 0, 0}
)

// Builder constructs toon material instances from base materials.
type Builder interface {
	// Build creates the material for a surface category. The base material's transparency,
	// depth, alpha-test and side are reproduced; lighting is replaced by the toon shaders.
	//
	// Parameters:
	//   - base: the source material snapshot
	//   - category: the surface category
	//
	// Returns:
	//   - Material: the new material instance
	//   - error: ErrMissingColorMap, ErrMissingTexture or ErrInvalidCategory
	Build(base BaseMaterial, category Category) (Material, error)

	// Uniforms returns the shared set every built material reads.
	Uniforms() uniform.Set
}

// builderConfig holds the collaborators shared by the toon and outline builders.
type builderConfig struct {
	shaders  shader.Library
	cache    *pipeline.Cache
	depth    *common.TextureAsset
	logger   zerolog.Logger
	order    int
	hasOrder bool
}

func newBuilderConfig(options []BuilderOption) builderConfig {
	cfg := builderConfig{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.shaders == nil {
		cfg.shaders = shader.Builtin()
	}
	if cfg.cache == nil {
		cfg.cache = pipeline.NewCache()
	}
	if cfg.depth == nil {
		cfg.depth = common.NewDepthTextureAsset()
	}
	return cfg
}

// builder is the implementation of the Builder interface.
type builder struct {
	builderConfig
	uniforms uniform.Set
	textures *TextureSet
}

var _ Builder = &builder{}

// NewBuilder creates a toon material builder bound to the shared toon uniform set.
//
// Parameters:
//   - uniforms: the shared toon uniform set
//   - textures: the character textures
//   - options: variadic list of BuilderOption functions
//
// Returns:
//   - Builder: the material builder
func NewBuilder(uniforms uniform.Set, textures *TextureSet, options ...BuilderOption) Builder {
	if uniforms == nil {
		panic("material: builder requires a uniform set")
	}
	if textures == nil {
		panic("material: builder requires a texture set")
	}
	return &builder{
		builderConfig: newBuilderConfig(options),
		uniforms:      uniforms,
		textures:      textures,
	}
}

func (b *builder) Uniforms() uniform.Set {
	return b.uniforms
}

func (b *builder) Build(base BaseMaterial, category Category) (Material, error) {
	if base.Map == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingColorMap, base.Name)
	}

	t := b.textures
	fragment := shader.KeyBodyFragment
	overrides := []uniform.Entry{
		{Name: uniform.ColorMap, Value: uniform.Texture(base.Map)},
	}

	switch category {
	case CategoryFace:
		if err := requireTextures(base.Name, category, "face light", t.FaceLightMap, "body ramp", t.BodyRamp); err != nil {
			return nil, err
		}
		fragment = shader.KeyFaceFragment
		overrides = append(overrides,
			uniform.Entry{Name: uniform.RampMap, Value: uniform.Texture(t.BodyRamp)},
			uniform.Entry{Name: uniform.ForwardVec, Value: uniform.Vec3(FaceForward)},
			uniform.Entry{Name: uniform.LeftVec, Value: uniform.Vec3(FaceLeft)},
		)
	case CategoryHair, CategoryDress:
		if err := requireTextures(base.Name, category, "hair light", t.HairLight, "hair ramp", t.HairRamp, "hair normal", t.HairNormal); err != nil {
			return nil, err
		}
		overrides = append(overrides,
			uniform.Entry{Name: uniform.LightMap, Value: uniform.Texture(t.HairLight)},
			uniform.Entry{Name: uniform.RampMap, Value: uniform.Texture(t.HairRamp)},
			uniform.Entry{Name: uniform.NormalMap, Value: uniform.Texture(t.HairNormal)},
			uniform.Entry{Name: uniform.EmissiveMap, Value: uniform.Texture(nil)},
			uniform.Entry{Name: uniform.Hair, Value: uniform.Bool(category == CategoryHair)},
		)
	case CategoryBody:
		if err := requireTextures(base.Name, category, "body light", t.BodyLight, "body ramp", t.BodyRamp, "body normal", t.BodyNormal, "body emissive", t.BodyEmissive); err != nil {
			return nil, err
		}
		overrides = append(overrides,
			uniform.Entry{Name: uniform.LightMap, Value: uniform.Texture(t.BodyLight)},
			uniform.Entry{Name: uniform.RampMap, Value: uniform.Texture(t.BodyRamp)},
			uniform.Entry{Name: uniform.NormalMap, Value: uniform.Texture(t.BodyNormal)},
			uniform.Entry{Name: uniform.EmissiveMap, Value: uniform.Texture(t.BodyEmissive)},
		)
	case CategoryOther:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	overrides = append(overrides, uniform.Entry{Name: uniform.DepthTexture, Value: uniform.Texture(b.depth)})

	p := b.cache.Get(pipeline.State{
		Vertex:      b.shaders.MustGet(shader.KeyToonVertex),
		Fragment:    b.shaders.MustGet(fragment),
		CullMode:    base.Side.CullMode(),
		DepthTest:   base.DepthTest,
		DepthWrite:  base.DepthWrite,
		Blend:       base.Transparent,
		AlphaCutoff: base.AlphaTest,
	})

	b.logger.Debug().
		Str("material", base.Name).
		Stringer("category", category).
		Str("pipeline", p.Key()).
		Msg("built toon material")

	return NewMaterial(
		WithName(base.Name),
		WithCategory(category),
		WithBase(base),
		WithPipeline(p),
		WithUniforms(uniform.WithOverrides(b.uniforms, overrides...)),
		WithRenderOrder(b.order),
	), nil
}
