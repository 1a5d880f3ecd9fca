package bvh

import "math"

const (
	// Marks an absent child in a link record.
	Sentinel uint32 = math.MaxUint32

	// Number of float32 values per bounding/vertex record.
	RecordWidth = 24

	// Number of uint32 values per link record.
	LinkWidth = 3

	// Floats used by the bounding of a single child inside a node record.
	boundingFloats = 6

	// Floats used by the vertices of a single triangle inside a leaf record.
	triangleFloats = 9
)

// Arrays holds a flattened BVH. Both slices are indexed by node id:
// record id lives at BoundingVertices[id*RecordWidth:(id+1)*RecordWidth]
// and Bvh[id*LinkWidth:(id+1)*LinkWidth].
//
// Link records have the layout [isNode, child0, child1]. For inner nodes the
// children are node ids and the bounding record stores the child boxes as
// min/max pairs. For leaves the children are triangle ids and the bounding
// record stores the triangle vertices. Unused slots are zero-filled and
// absent children are set to Sentinel.
type Arrays struct {
	BoundingVertices []float32
	Bvh              []uint32
}

// Get the number of serialized records.
func (a Arrays) NodeCount() int {
	return len(a.Bvh) / LinkWidth
}

// Flatten the tree into GPU-friendly arrays using a depth-first pre-order
// traversal.
func (t *TriangleBVH) ToArrays() Arrays {
	nodeCount := t.NodeCount()
	out := Arrays{
		BoundingVertices: make([]float32, 0, nodeCount*RecordWidth),
		Bvh:              make([]uint32, 0, nodeCount*LinkWidth),
	}

	t.Traverse(
		func(node *Node[Triangle]) {
			var record [RecordWidth]float32
			link := [LinkWidth]uint32{uint32(KindNode), Sentinel, Sentinel}
			for index, child := range node.Children {
				bounding := child.Bounding
				if bounding.IsNull() {
					bounding = Bounding{}
				}
				copy(record[index*boundingFloats:], bounding.Min[:])
				copy(record[index*boundingFloats+3:], bounding.Max[:])
				link[index+1] = uint32(child.ID)
			}
			out.BoundingVertices = append(out.BoundingVertices, record[:]...)
			out.Bvh = append(out.Bvh, link[:]...)
		},
		func(leaf *Node[Triangle]) {
			var record [RecordWidth]float32
			link := [LinkWidth]uint32{uint32(KindLeaf), Sentinel, Sentinel}
			for index, tri := range leaf.Items {
				for vIndex, v := range tri.Vertices() {
					copy(record[index*triangleFloats+vIndex*3:], v[:])
				}
				link[index+1] = tri.ID
			}
			out.BoundingVertices = append(out.BoundingVertices, record[:]...)
			out.Bvh = append(out.Bvh, link[:]...)
		},
	)

	return out
}
