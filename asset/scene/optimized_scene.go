package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/lumenrt/polaris/asset/compiler/bvh"
	"github.com/olekukonko/tablewriter"
)

// A compiled mesh. The BVH arrays use the layout documented by bvh.Arrays;
// the prototype array keeps the original triangle order so leaf triangle
// ids can be used to look up normals and UVs.
type Mesh struct {
	Name string

	// Number of floats per triangle in Prototype.
	TriangleStride int

	// Triangle data (vertices, normals, uvs).
	Prototype []float32

	// Flattened BVH.
	BoundingVertices []float32
	BvhData          []uint32

	// BVH shape.
	NodeCount int
	LeafCount int
	MaxDepth  int
}

// Get the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	if m.TriangleStride == 0 {
		return 0
	}
	return len(m.Prototype) / m.TriangleStride
}

// Get the flattened BVH.
func (m *Mesh) Arrays() bvh.Arrays {
	return bvh.Arrays{
		BoundingVertices: m.BoundingVertices,
		Bvh:              m.BvhData,
	}
}

// Check that the mesh arrays agree with the recorded node count.
func (m *Mesh) Validate() error {
	if got, exp := len(m.BoundingVertices), m.NodeCount*bvh.RecordWidth; got != exp {
		return fmt.Errorf("mesh %q: expected %d bounding values; got %d", m.Name, exp, got)
	}
	if got, exp := len(m.BvhData), m.NodeCount*bvh.LinkWidth; got != exp {
		return fmt.Errorf("mesh %q: expected %d bvh values; got %d", m.Name, exp, got)
	}
	if m.TriangleStride <= 0 || len(m.Prototype)%m.TriangleStride != 0 {
		return fmt.Errorf("mesh %q: prototype length %d does not match stride %d", m.Name, len(m.Prototype), m.TriangleStride)
	}
	return nil
}

// A compiled scene ready for upload to the renderer.
type Scene struct {
	ID     uuid.UUID
	Meshes []*Mesh
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Mesh", "Triangles", "Nodes", "Leafs", "Depth", "Size"})

	totalTriangles := 0
	totalNodes := 0
	sizes := make([]interface{}, 0, 3*len(sc.Meshes))
	for _, mesh := range sc.Meshes {
		table.Append([]string{
			mesh.Name,
			fmt.Sprintf("%d", mesh.TriangleCount()),
			fmt.Sprintf("%d", mesh.NodeCount),
			fmt.Sprintf("%d", mesh.LeafCount),
			fmt.Sprintf("%d", mesh.MaxDepth),
			fmtSize(mesh.Prototype, mesh.BoundingVertices, mesh.BvhData),
		})

		totalTriangles += mesh.TriangleCount()
		totalNodes += mesh.NodeCount
		sizes = append(sizes, mesh.Prototype, mesh.BoundingVertices, mesh.BvhData)
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", totalTriangles),
		fmt.Sprintf("%d", totalNodes),
		" ",
		" ",
		strings.TrimLeft(fmtSize(sizes...), " "),
	})

	table.Render()
	return fmt.Sprintf("scene %s\n%s", sc.ID, buf.String())
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
