package scene

import (
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is the vertex data of a mesh. It is immutable after loading and shared by
// reference between a mesh and its clones.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions)
}

// Mesh is a drawable surface: shared geometry, the base material it was loaded with, and
// the shaded material that replaces it during assembly.
type Mesh struct {
	Name     string
	Geometry *Geometry

	// Base is the material the mesh was loaded with.
	Base material.BaseMaterial

	// Material is the assigned shaded material; nil until assembly.
	Material material.Material

	// RenderOrder orders draws; lower values draw first.
	RenderOrder int
}

// Node is an element of the scene hierarchy with a local TRS transform.
type Node struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Visible  bool
	Meshes   []*Mesh
	Children []*Node
}

// NewNode creates a visible node with an identity transform.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - *Node: the new node
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// AddChild appends a child node.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// AddMesh appends a mesh.
func (n *Node) AddMesh(m *Mesh) {
	n.Meshes = append(n.Meshes, m)
}

// Traverse calls fn for n and every descendant, depth first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// EachMesh calls fn for every mesh in the subtree rooted at n, in traversal order.
func (n *Node) EachMesh(fn func(*Mesh)) {
	n.Traverse(func(node *Node) {
		for _, m := range node.Meshes {
			fn(m)
		}
	})
}

// MeshCount returns the number of meshes in the subtree rooted at n.
func (n *Node) MeshCount() int {
	count := 0
	n.EachMesh(func(*Mesh) { count++ })
	return count
}

// LocalMatrix returns the node's translation * rotation * scale matrix.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(n.Rotation.Mat4()).Mul4(s)
}

// Clone returns a deep copy of the subtree. Nodes and meshes are new values; geometry is
// shared. Mesh materials are copied by reference and are expected to be replaced.
//
// Returns:
//   - *Node: the copied subtree
func (n *Node) Clone() *Node {
	out := &Node{
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
		Visible:  n.Visible,
		Meshes:   make([]*Mesh, len(n.Meshes)),
		Children: make([]*Node, len(n.Children)),
	}
	for i, m := range n.Meshes {
		dup := *m
		out.Meshes[i] = &dup
	}
	for i, c := range n.Children {
		out.Children[i] = c.Clone()
	}
	return out
}
