package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTextures() *material.TextureSet {
	return &material.TextureSet{
		FaceLightMap: common.NewTextureAsset("face.light"),
		HairLight:    common.NewTextureAsset("hair.light"),
		HairRamp:     common.NewTextureAsset("hair.ramp"),
		HairNormal:   common.NewTextureAsset("hair.normal"),
		BodyLight:    common.NewTextureAsset("body.light"),
		BodyRamp:     common.NewTextureAsset("body.ramp"),
		BodyNormal:   common.NewTextureAsset("body.normal"),
		BodyEmissive: common.NewTextureAsset("body.emissive"),
		MetalMap:     common.NewTextureAsset("matcap.metal"),
	}
}

func testMesh(materialName string) *Mesh {
	base := material.NewBaseMaterial(materialName)
	base.Map = common.NewTextureAsset(materialName + ".map")
	return &Mesh{
		Name:     materialName + ".mesh",
		Geometry: &Geometry{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		Base:     base,
	}
}

// testModel builds root -> {face, body}, root -> child -> {hair, unnamed}.
func testModel() *Node {
	root := NewNode("character")
	root.AddMesh(testMesh("face"))
	root.AddMesh(testMesh("body"))
	child := NewNode("head")
	child.AddMesh(testMesh("hair"))
	child.AddMesh(testMesh(""))
	root.AddChild(child)
	return root
}

func testAssembler(t *testing.T, s Scene, textures *material.TextureSet, options ...AssemblerOption) Assembler {
	t.Helper()
	toon := material.NewBuilder(uniform.NewToonSet(), textures)
	outline := material.NewOutlineBuilder(uniform.NewOutlineSet())
	return NewAssembler(s, toon, outline, options...)
}

func TestNodeCloneSharesGeometryOnly(t *testing.T) {
	model := testModel()
	dup := model.Clone()

	require.Equal(t, model.MeshCount(), dup.MeshCount())
	assert.NotSame(t, model.Meshes[0], dup.Meshes[0])
	assert.Same(t, model.Meshes[0].Geometry, dup.Meshes[0].Geometry)
	assert.NotSame(t, model.Children[0], dup.Children[0])

	dup.Meshes[0].Base.Name = "changed"
	assert.Equal(t, "face", model.Meshes[0].Base.Name)
}

func TestReadySignalNeverReverts(t *testing.T) {
	r := NewReadySignal()
	assert.False(t, r.Ready())
	assert.True(t, r.Set())
	assert.False(t, r.Set())
	assert.True(t, r.Ready())
	select {
	case <-r.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestAssembleDoublesMeshCount(t *testing.T) {
	s := NewScene("character")
	model := testModel()
	a := testAssembler(t, s, testTextures())

	assert.False(t, s.Ready().Ready())
	require.NoError(t, a.Assemble(model))
	assert.True(t, s.Ready().Ready())
	assert.True(t, a.Assembled())

	assert.Equal(t, 2*model.MeshCount(), s.MeshCount())
	require.Len(t, s.Roots(), 2)
	outline := s.Roots()[1]
	assert.Equal(t, "character"+OutlineSuffix, outline.Name)
	assert.Equal(t, DefaultPlacement, model.Position)
	assert.Equal(t, model.Position, outline.Position)

	want := map[string]material.Category{
		"face": material.CategoryFace,
		"body": material.CategoryBody,
		"hair": material.CategoryHair,
		"":     material.CategoryOther,
	}
	model.EachMesh(func(m *Mesh) {
		require.NotNil(t, m.Material)
		assert.Equal(t, want[m.Base.Name], m.Material.Category(), m.Base.Name)
	})

	outlines := 0
	outline.EachMesh(func(m *Mesh) {
		require.NotNil(t, m.Material)
		assert.Equal(t, material.CategoryOutline, m.Material.Category())
		assert.Equal(t, material.SideBack, m.Material.Base().Side)
		assert.Same(t, m.Base.Map, m.Material.Texture(uniform.ColorMap), "outline tinted by the unmodified color map")
		outlines++
	})
	assert.Equal(t, model.MeshCount(), outlines)
}

func TestAssembleKeepsModelAlreadyInScene(t *testing.T) {
	model := testModel()
	s := NewScene("character", WithRoots(model))
	require.NoError(t, testAssembler(t, s, testTextures()).Assemble(model))
	assert.Len(t, s.Roots(), 2)
}

func TestAssembleFailureLeavesSceneUntouched(t *testing.T) {
	textures := testTextures()
	textures.HairNormal = nil
	s := NewScene("character")
	model := testModel()
	a := testAssembler(t, s, textures)

	err := a.Assemble(model)
	require.Error(t, err)
	assert.ErrorIs(t, err, material.ErrMissingTexture)
	assert.False(t, s.Ready().Ready())
	assert.False(t, a.Assembled())
	assert.Empty(t, s.Roots())
	model.EachMesh(func(m *Mesh) {
		assert.Nil(t, m.Material)
	})
	assert.Equal(t, mgl32.Vec3{}, model.Position)
}

func TestAssembleTwiceFails(t *testing.T) {
	s := NewScene("character")
	model := testModel()
	a := testAssembler(t, s, testTextures())

	require.NoError(t, a.Assemble(model))
	assert.ErrorIs(t, a.Assemble(model), ErrAlreadyAssembled)
	assert.Equal(t, 2*model.MeshCount(), s.MeshCount())
	assert.True(t, s.Ready().Ready())
}

func TestAssembleOnWorkerPool(t *testing.T) {
	s := NewScene("character")
	model := testModel()
	a := testAssembler(t, s, testTextures(), WithAssemblyWorkers(4), WithPlacement(mgl32.Vec3{1, 2, 3}))

	require.NoError(t, a.Assemble(model))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, model.Position)
	model.EachMesh(func(m *Mesh) {
		assert.Equal(t, m.Base.Name, m.Material.Name())
	})
}

func TestDrawListOrdersOutlinesFirst(t *testing.T) {
	s := NewScene("character")
	model := testModel()
	require.NoError(t, testAssembler(t, s, testTextures()).Assemble(model))

	items := s.DrawList()
	require.Len(t, items, 2*model.MeshCount())
	half := len(items) / 2
	for i, item := range items {
		if i < half {
			assert.Equal(t, material.CategoryOutline, item.Mesh.Material.Category())
		} else {
			assert.NotEqual(t, material.CategoryOutline, item.Mesh.Material.Category())
		}
	}
	assert.InDelta(t, -0.7, items[half].World.Col(3)[1], 1e-6)
}

func TestDrawListSkipsHiddenAndUnshaded(t *testing.T) {
	root := NewNode("root")
	root.AddMesh(testMesh("face"))
	hidden := NewNode("hidden")
	hidden.Visible = false
	root.AddChild(hidden)
	s := NewScene("s", WithRoots(root))

	assert.Empty(t, s.DrawList())
	assert.Equal(t, 1, s.MeshCount())
}
