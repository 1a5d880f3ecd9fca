package input

import (
	"fmt"

	"github.com/lumenrt/polaris/asset/compiler/bvh"
	"github.com/lumenrt/polaris/types"
)

// A triangle primitive
type Primitive struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3
	UVs      [3]types.Vec2
}

// A mesh stores its triangles as a flat prototype array. Each triangle
// occupies Stride floats: V0 V1 V2 N0 N1 N2 UV0 UV1 UV2 (bvh.TriangleLength
// floats) followed by zero padding up to Stride.
type Mesh struct {
	Name      string
	Stride    int
	Prototype []float32
}

// Create a new named mesh using bvh.TriangleLength floats per triangle.
func NewMesh(name string) *Mesh {
	return NewMeshWithStride(name, bvh.TriangleLength)
}

// Create a new named mesh whose triangle records are padded to stride
// floats. NewMeshWithStride panics if stride cannot hold a full record.
func NewMeshWithStride(name string, stride int) *Mesh {
	if stride < bvh.TriangleLength {
		panic(fmt.Sprintf("input: triangle stride %d is smaller than %d", stride, bvh.TriangleLength))
	}
	return &Mesh{
		Name:      name,
		Stride:    stride,
		Prototype: make([]float32, 0),
	}
}

// Append a primitive to the mesh prototype array.
func (m *Mesh) AppendPrimitive(prim *Primitive) {
	for _, v := range prim.Vertices {
		m.Prototype = append(m.Prototype, v[:]...)
	}
	for _, n := range prim.Normals {
		m.Prototype = append(m.Prototype, n[:]...)
	}
	for _, uv := range prim.UVs {
		m.Prototype = append(m.Prototype, uv[:]...)
	}
	for pad := bvh.TriangleLength; pad < m.Stride; pad++ {
		m.Prototype = append(m.Prototype, 0)
	}
}

// Get the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if m.Stride == 0 {
		return 0
	}
	return len(m.Prototype) / m.Stride
}

// Decode the primitive with the given index.
func (m *Mesh) Primitive(index int) *Primitive {
	offset := index * m.Stride
	rec := m.Prototype[offset : offset+bvh.TriangleLength]

	prim := &Primitive{}
	for i := 0; i < 3; i++ {
		prim.Vertices[i] = types.XYZ(rec[i*3], rec[i*3+1], rec[i*3+2])
		prim.Normals[i] = types.XYZ(rec[9+i*3], rec[9+i*3+1], rec[9+i*3+2])
		prim.UVs[i] = types.XY(rec[18+i*2], rec[18+i*2+1])
	}
	return prim
}

// The raw scene as produced by a scene reader.
type Scene struct {
	Meshes []*Mesh
}

// Create a new empty scene.
func NewScene() *Scene {
	return &Scene{
		Meshes: make([]*Mesh, 0),
	}
}

// Get the total number of triangles in the scene.
func (sc *Scene) TriangleCount() int {
	total := 0
	for _, mesh := range sc.Meshes {
		total += mesh.TriangleCount()
	}
	return total
}
