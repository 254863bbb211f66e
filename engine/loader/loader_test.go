package loader

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	// mark the top-left texel so row order can be checked after decode
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// testDocument builds a two-node document: a root with a body mesh and a child with a
// hair mesh that has vertex colors and a double sided, blended material.
func testDocument(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	tri := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	pos := modeler.WritePosition(doc, tri)
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	col := modeler.WriteColor(doc, [][4]uint8{{255, 255, 255, 128}, {255, 255, 255, 255}, {255, 255, 255, 0}})

	img, err := modeler.WriteImage(doc, "body.png", "image/png", bytes.NewReader(pngBytes(t, 2, 2, color.NRGBA{G: 255, A: 255})))
	require.NoError(t, err)
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapClampToEdge, WrapT: gltf.WrapMirroredRepeat, MagFilter: gltf.MagNearest})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img), Sampler: gltf.Index(0)})

	cutoff := 0.3
	doc.Materials = append(doc.Materials,
		&gltf.Material{
			Name: "Body",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor:  &[4]float64{1, 0.5, 0.25, 1},
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
			},
			AlphaMode:   gltf.AlphaMask,
			AlphaCutoff: &cutoff,
		},
		&gltf.Material{
			Name:        "Hair",
			AlphaMode:   gltf.AlphaBlend,
			DoubleSided: true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{1, 1, 1, 0.5},
			},
		},
	)

	doc.Meshes = append(doc.Meshes,
		&gltf.Mesh{Name: "body", Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: nrm, gltf.TEXCOORD_0: uv},
			Material:   gltf.Index(0),
		}}},
		&gltf.Mesh{Name: "hair", Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos, gltf.COLOR_0: col},
			Material:   gltf.Index(1),
		}}},
	)

	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "root", Mesh: gltf.Index(0), Children: []int{1}, Translation: [3]float64{0, 1, 0}},
		&gltf.Node{Name: "head", Mesh: gltf.Index(1), Scale: [3]float64{2, 2, 2}, Rotation: [4]float64{0, 0, 0, 1}},
	)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func findMesh(root *scene.Node, name string) *scene.Mesh {
	var found *scene.Mesh
	root.EachMesh(func(m *scene.Mesh) {
		if m.Name == name {
			found = m
		}
	})
	return found
}

func TestFromDocument_Hierarchy(t *testing.T) {
	root, err := FromDocument(testDocument(t), "character", "")
	require.NoError(t, err)

	assert.Equal(t, "character", root.Name)
	assert.Equal(t, 2, root.MeshCount())
	require.Len(t, root.Children, 1)

	top := root.Children[0]
	assert.Equal(t, "root", top.Name)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, top.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, top.Scale, "unset scale keeps the identity")
	require.Len(t, top.Children, 1)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, top.Children[0].Scale)
}

func TestFromDocument_Geometry(t *testing.T) {
	root, err := FromDocument(testDocument(t), "character", "")
	require.NoError(t, err)

	body := findMesh(root, "body")
	require.NotNil(t, body)
	assert.Equal(t, 3, body.Geometry.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, body.Geometry.Indices)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, body.Geometry.Normals[0])
	assert.Equal(t, mgl32.Vec2{1, 0}, body.Geometry.UVs[1])
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, body.Geometry.Colors[2], "missing colors default to full outline width")

	hair := findMesh(root, "hair")
	require.NotNil(t, hair)
	assert.Equal(t, []uint32{0, 1, 2}, hair.Geometry.Indices, "non-indexed primitives get sequential indices")
	assert.InDelta(t, 128.0/255, hair.Geometry.Colors[0][3], 1e-6)
	assert.InDelta(t, 0, hair.Geometry.Colors[2][3], 1e-6)
}

func TestFromDocument_Materials(t *testing.T) {
	root, err := FromDocument(testDocument(t), "character", "")
	require.NoError(t, err)

	body := findMesh(root, "body").Base
	assert.Equal(t, "Body", body.Name)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, body.Color)
	assert.InDelta(t, 0.3, body.AlphaTest, 1e-6)
	assert.False(t, body.Transparent)
	assert.Equal(t, material.SideFront, body.Side)

	require.NotNil(t, body.Map)
	assert.Equal(t, common.ColorSpaceSRGB, body.Map.ColorSpace)
	assert.False(t, body.Map.FlipY)
	assert.Equal(t, wgpu.AddressModeClampToEdge, body.Map.Sampler.AddressModeU)
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, body.Map.Sampler.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, body.Map.Sampler.MagFilter)
	require.NoError(t, body.Map.Decode())
	assert.Equal(t, 2, body.Map.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, body.Map.Pixels[:4])

	hair := findMesh(root, "hair").Base
	assert.True(t, hair.Transparent)
	assert.False(t, hair.DepthWrite)
	assert.InDelta(t, 0.5, hair.Opacity, 1e-6)
	assert.Equal(t, material.SideDouble, hair.Side)
	assert.Nil(t, hair.Map)
}

func TestFromDocument_NoMeshes(t *testing.T) {
	_, err := FromDocument(gltf.NewDocument(), "empty", "")
	assert.Error(t, err)
}

func TestLoader_LoadBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ayaka.glb")
	require.NoError(t, gltf.SaveBinary(testDocument(t), path))

	l := NewLoader(BackendTypeGLTF)
	first, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ayaka", first.Name)
	assert.Equal(t, []string{path}, l.Models())

	second, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "each caller owns its nodes")
	assert.Same(t, findMesh(first, "body").Geometry, findMesh(second, "body").Geometry)

	require.NoError(t, os.Remove(path))
	_, err = l.Load(path)
	assert.NoError(t, err, "cached models do not touch the file system")
}

func TestLoader_LoadReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(testDocument(t), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	l := NewLoader(BackendTypeGLTF)
	root, err := l.LoadReader("model", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, root.MeshCount())
	assert.NotNil(t, l.Get("model"))
	assert.Nil(t, l.Get("missing"))
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	_, err := l.Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoader_WithModel(t *testing.T) {
	root := scene.NewNode("cached")
	l := NewLoader(BackendTypeGLTF, WithModel("cached", root))
	got := l.Get("cached")
	require.NotNil(t, got)
	assert.NotSame(t, root, got)
	assert.Equal(t, "cached", got.Name)
}

func TestDecodeDataURI(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	data, mime, err := decodeDataURI("data:image/png;base64," + base64.StdEncoding.EncodeToString(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mime)

	_, _, err = decodeDataURI("data:image/png;base64")
	assert.Error(t, err)
}

func writeTextureTree(t *testing.T, skip string) string {
	t.Helper()
	dir := t.TempDir()
	for _, file := range TextureFiles {
		if file == skip {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, pngBytes(t, 4, 2, color.NRGBA{B: 255, A: 255}), 0o644))
	}
	return dir
}

func TestLoadTextures(t *testing.T) {
	dir := writeTextureTree(t, "")
	set, err := NewLoader(BackendTypeGLTF).LoadTextures(dir)
	require.NoError(t, err)

	for name, tex := range set.All() {
		require.NotNil(t, tex, name)
		assert.True(t, tex.Decoded(), name)
	}

	assert.False(t, set.FaceLightMap.GenerateMipmaps)
	assert.False(t, set.FaceLightMap.FlipY)
	assert.Equal(t, []byte{255, 0, 0, 255}, set.FaceLightMap.Pixels[:4], "top-left origin keeps row order")

	assert.True(t, set.MetalMap.FlipY)
	assert.NotEqual(t, []byte{255, 0, 0, 255}, set.MetalMap.Pixels[:4], "flipped rows move the marked texel to the bottom")

	assert.Equal(t, wgpu.AddressModeRepeat, set.HairNormal.Sampler.AddressModeU)
	assert.Equal(t, common.ColorSpaceLinear, set.HairRamp.ColorSpace)
	assert.Equal(t, common.ColorSpaceSRGB, set.BodyEmissive.ColorSpace)
	assert.Equal(t, common.ColorSpaceSRGB, set.BodyLight.ColorSpace)
	assert.False(t, set.BodyRamp.GenerateMipmaps)
}

func TestLoadTextures_MissingFile(t *testing.T) {
	dir := writeTextureTree(t, HairNormalFile)
	_, err := LoadTextureSet(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), HairNormalFile)
}
