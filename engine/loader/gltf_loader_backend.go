package loader

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// DefaultAlphaCutoff is the glTF default for MASK materials.
const DefaultAlphaCutoff = 0.5

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromDocument(doc, name, filepath.Dir(path))
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader) (*scene.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return FromDocument(doc, name, "")
}

// FromDocument converts a decoded glTF document into a scene hierarchy. The default scene's
// root nodes become children of a new root named name. Each primitive becomes one mesh
// carrying the base material it references; base color maps are tagged sRGB with a
// top-left origin.
//
// Parameters:
//   - doc: the decoded document
//   - name: the name of the returned root
//   - dir: the directory external image URIs are resolved against
//
// Returns:
//   - *scene.Node: the root of the hierarchy
//   - error: error if an accessor cannot be read or the document has no meshes
func FromDocument(doc *gltf.Document, name, dir string) (*scene.Node, error) {
	c := &gltfConverter{
		doc:       doc,
		dir:       dir,
		materials: make(map[int]material.BaseMaterial),
		textures:  make(map[int]*common.TextureAsset),
	}

	root := scene.NewNode(name)
	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		// no scenes: every node that is nobody's child is a root
		child := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, ci := range n.Children {
				child[ci] = true
			}
		}
		for i := range doc.Nodes {
			if !child[i] {
				roots = append(roots, i)
			}
		}
	}

	for _, ni := range roots {
		n, err := c.node(ni, 0)
		if err != nil {
			return nil, err
		}
		root.AddChild(n)
	}
	if root.MeshCount() == 0 {
		return nil, errors.New("gltf: document has no meshes")
	}
	return root, nil
}

// maxNodeDepth guards against cyclic node graphs in malformed files.
const maxNodeDepth = 256

type gltfConverter struct {
	doc       *gltf.Document
	dir       string
	materials map[int]material.BaseMaterial
	textures  map[int]*common.TextureAsset
}

func (c *gltfConverter) node(index, depth int) (*scene.Node, error) {
	if index < 0 || index >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("gltf: node %d out of range", index)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("gltf: node hierarchy deeper than %d", maxNodeDepth)
	}
	src := c.doc.Nodes[index]
	n := scene.NewNode(src.Name)
	n.Position = mgl32.Vec3{float32(src.Translation[0]), float32(src.Translation[1]), float32(src.Translation[2])}
	if src.Rotation != [4]float64{} {
		n.Rotation = mgl32.Quat{
			W: float32(src.Rotation[3]),
			V: mgl32.Vec3{float32(src.Rotation[0]), float32(src.Rotation[1]), float32(src.Rotation[2])},
		}
	}
	if src.Scale != [3]float64{} {
		n.Scale = mgl32.Vec3{float32(src.Scale[0]), float32(src.Scale[1]), float32(src.Scale[2])}
	}

	if src.Mesh != nil {
		meshes, err := c.mesh(*src.Mesh)
		if err != nil {
			return nil, err
		}
		for _, m := range meshes {
			n.AddMesh(m)
		}
	}
	for _, ci := range src.Children {
		child, err := c.node(ci, depth+1)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (c *gltfConverter) mesh(index int) ([]*scene.Mesh, error) {
	if index < 0 || index >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("gltf: mesh %d out of range", index)
	}
	src := c.doc.Meshes[index]
	out := make([]*scene.Mesh, 0, len(src.Primitives))
	for pi, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		geom, err := c.geometry(prim)
		if err != nil {
			return nil, fmt.Errorf("gltf: mesh %q primitive %d: %w", src.Name, pi, err)
		}
		base := material.NewBaseMaterial("")
		if prim.Material != nil {
			if base, err = c.material(*prim.Material); err != nil {
				return nil, err
			}
		}
		name := src.Name
		if len(src.Primitives) > 1 {
			name = fmt.Sprintf("%s.%d", src.Name, pi)
		}
		out = append(out, &scene.Mesh{Name: name, Geometry: geom, Base: base})
	}
	return out, nil
}

func (c *gltfConverter) geometry(prim *gltf.Primitive) (*scene.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(c.doc, c.doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	g := &scene.Geometry{Positions: make([]mgl32.Vec3, len(positions))}
	for i, p := range positions {
		g.Positions[i] = p
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(c.doc, c.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		g.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			g.Normals[i] = n
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(c.doc, c.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
		g.UVs = make([]mgl32.Vec2, len(uvs))
		for i, uv := range uvs {
			g.UVs[i] = uv
		}
	}

	// outline width is scaled by vertex color alpha; meshes without colors get full width
	g.Colors = make([]mgl32.Vec4, len(positions))
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		colors, err := modeler.ReadColor(c.doc, c.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		for i := range g.Colors {
			if i < len(colors) {
				col := colors[i]
				g.Colors[i] = mgl32.Vec4{float32(col[0]) / 255, float32(col[1]) / 255, float32(col[2]) / 255, float32(col[3]) / 255}
			}
		}
	} else {
		for i := range g.Colors {
			g.Colors[i] = mgl32.Vec4{1, 1, 1, 1}
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(c.doc, c.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		g.Indices = indices
	} else {
		g.Indices = make([]uint32, len(positions))
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}
	return g, nil
}

func (c *gltfConverter) material(index int) (material.BaseMaterial, error) {
	if m, ok := c.materials[index]; ok {
		return m, nil
	}
	if index < 0 || index >= len(c.doc.Materials) {
		return material.BaseMaterial{}, fmt.Errorf("gltf: material %d out of range", index)
	}
	src := c.doc.Materials[index]
	base := material.NewBaseMaterial(src.Name)

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			base.Color = mgl32.Vec3{float32(f[0]), float32(f[1]), float32(f[2])}
			base.Opacity = float32(f[3])
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			tex, err := c.texture(ti.Index, src.Name)
			if err != nil {
				return material.BaseMaterial{}, fmt.Errorf("gltf: material %q: %w", src.Name, err)
			}
			base.Map = tex
		}
	}

	switch src.AlphaMode {
	case gltf.AlphaBlend:
		base.Transparent = true
		base.DepthWrite = false
	case gltf.AlphaMask:
		base.AlphaTest = DefaultAlphaCutoff
		if src.AlphaCutoff != nil {
			base.AlphaTest = float32(*src.AlphaCutoff)
		}
	}
	if src.DoubleSided {
		base.Side = material.SideDouble
	}

	c.materials[index] = base
	return base, nil
}

// texture resolves a glTF texture to a color map. Textures shared by several materials
// resolve to the same asset.
func (c *gltfConverter) texture(index int, materialName string) (*common.TextureAsset, error) {
	if t, ok := c.textures[index]; ok {
		return t, nil
	}
	if index < 0 || index >= len(c.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", index)
	}
	src := c.doc.Textures[index]
	if src.Source == nil || *src.Source >= len(c.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", index)
	}
	img := c.doc.Images[*src.Source]

	t := common.NewTextureAsset(common.FirstNonZero(img.Name, materialName+".map"))
	t.FlipY = false
	t.ColorSpace = common.ColorSpaceSRGB
	t.MimeType = img.MimeType

	switch {
	case img.BufferView != nil:
		data, err := c.bufferView(*img.BufferView)
		if err != nil {
			return nil, err
		}
		t.Data = data
	case strings.HasPrefix(img.URI, "data:"):
		data, mime, err := decodeDataURI(img.URI)
		if err != nil {
			return nil, err
		}
		t.Data, t.MimeType = data, mime
	case img.URI != "":
		t.Path = filepath.Join(c.dir, filepath.FromSlash(img.URI))
	default:
		return nil, fmt.Errorf("image %q has no data", t.Name)
	}

	if src.Sampler != nil && *src.Sampler < len(c.doc.Samplers) {
		t.Sampler = samplerStagingData(c.doc.Samplers[*src.Sampler])
	} else {
		t.SetRepeat()
	}
	c.textures[index] = t
	return t, nil
}

func (c *gltfConverter) bufferView(index int) ([]byte, error) {
	if index < 0 || index >= len(c.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := c.doc.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(c.doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := c.doc.Buffers[bv.Buffer].Data
	start, end := int(bv.ByteOffset), int(bv.ByteOffset)+int(bv.ByteLength)
	if start < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer length %d", index, len(data))
	}
	out := make([]byte, end-start)
	copy(out, data[start:end])
	return out, nil
}

// decodeDataURI decodes a base64 data URI into raw bytes and extracts the MIME type.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", errors.New("malformed data URI: no comma found")
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return []byte(encoded), mime, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mime, nil
}

// samplerStagingData converts a glTF sampler, falling back to the glTF defaults (linear
// filtering, repeat wrapping) for unset fields.
func samplerStagingData(s *gltf.Sampler) common.SamplerStagingData {
	out := common.DefaultSamplerStagingData()
	out.AddressModeU = wrapToAddressMode(s.WrapS)
	out.AddressModeV = wrapToAddressMode(s.WrapT)
	if s.MagFilter == gltf.MagNearest {
		out.MagFilter = wgpu.FilterModeNearest
	}
	if s.MinFilter == gltf.MinNearest {
		out.MinFilter = wgpu.FilterModeNearest
		out.MipmapFilter = wgpu.MipmapFilterModeNearest
	}
	return out
}

// wrapToAddressMode converts a glTF wrap mode to a wgpu AddressMode.
func wrapToAddressMode(w gltf.WrappingMode) wgpu.AddressMode {
	switch w {
	case gltf.WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case gltf.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}
