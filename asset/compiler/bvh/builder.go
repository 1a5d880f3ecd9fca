package bvh

import (
	"errors"
	"math"
	"time"

	"github.com/lumenrt/polaris/log"
	"github.com/lumenrt/polaris/types"
)

var (
	// Returned when a tree would assign an id that collides with Sentinel.
	ErrTooManyNodes = errors.New("bvh: node count exceeds the addressable id range")

	logger = log.New("bvh builder")
)

// A BVH over triangle primitives.
type TriangleBVH struct {
	Tree[Triangle]
}

// Build a BVH for the given triangles. The triangle slice is not modified.
func NewTriangleBVH(triangles []Triangle) (*TriangleBVH, error) {
	start := time.Now()
	root := subdivideTree(triangles, 0, 0)

	if uint64(root.NextID) > uint64(Sentinel) {
		return nil, ErrTooManyNodes
	}

	tree := &TriangleBVH{Tree: Tree[Triangle]{Root: root}}
	if len(triangles) > 0 {
		stats := tree.Stats()
		logger.Debugf(
			"BVH tree build time: %d ms, triangles: %d, maxDepth: %d, nodes: %d, leafs: %d",
			time.Since(start).Nanoseconds()/1e6,
			len(triangles), stats.MaxDepth, stats.Nodes, stats.Leaves,
		)
	}
	return tree, nil
}

// Recursively partition items into a tree whose root receives startingID.
// Ids are assigned in pre-order; the returned node's NextID is the first id
// not used by the subtree.
func subdivideTree[T Primitive](items []T, startingID, parentID int) *Node[T] {
	bounding := TightenBounding(items)
	if len(items) <= MaxTrianglesPerLeaf {
		return newLeaf(items, parentID, bounding, startingID)
	}

	// Split at the box midpoint along the axis with the lowest cost
	center := bounding.Center()
	splitAxis := XAxis
	minCost := math.Inf(1)
	for axis := XAxis; axis <= ZAxis; axis++ {
		if cost := evaluateSplitCost(items, bounding, center, axis); cost < minCost {
			minCost = cost
			splitAxis = axis
		}
	}

	// No axis separates the items; group them by list position instead
	if math.IsInf(minCost, 1) {
		return fillFlatTree(items, startingID, parentID)
	}

	box0, box1 := bounding.Split(splitAxis, center[splitAxis])
	bucket0 := make([]T, 0, len(items))
	bucket1 := make([]T, 0, len(items))
	for _, item := range items {
		in0 := IsTriangleInBounding(item, box0)
		in1 := IsTriangleInBounding(item, box1)
		if !in0 && in1 {
			bucket1 = append(bucket1, item)
		} else {
			// Items inside box0 only, inside both or straddling the
			// cut plane all go to the first bucket.
			bucket0 = append(bucket0, item)
		}
	}

	children := make([]*Node[T], 0, MaxChildrenPerNode)
	nextID := startingID + 1
	for _, bucket := range [][]T{bucket0, bucket1} {
		if len(bucket) == 0 {
			continue
		}
		child := subdivideTree(bucket, nextID, startingID)
		children = append(children, child)
		nextID = child.NextID
	}

	return newNode(children, parentID, bounding, startingID, nextID)
}

// Partition items by their position in the list into MaxChildrenPerNode
// chunks and resume spatial subdivision on each chunk. Used when no axis
// can separate the items (e.g. coincident geometry).
func fillFlatTree[T Primitive](items []T, startingID, parentID int) *Node[T] {
	bounding := TightenBounding(items)
	if len(items) <= MaxTrianglesPerLeaf {
		return newLeaf(items, parentID, bounding, startingID)
	}

	itemsPerChild := (len(items) + MaxChildrenPerNode - 1) / MaxChildrenPerNode
	children := make([]*Node[T], 0, MaxChildrenPerNode)
	nextID := startingID + 1
	for offset := 0; offset < len(items); offset += itemsPerChild {
		end := offset + itemsPerChild
		if end > len(items) {
			end = len(items)
		}

		child := subdivideTree(items[offset:end], nextID, startingID)
		children = append(children, child)
		nextID = child.NextID
	}

	return newNode(children, parentID, bounding, startingID, nextID)
}

// Score splitting items at center along axis (lower is better). The score
// is the imbalance between the items that fall exclusively in either half.
// Items inside both halves or straddling the cut plane are not penalized.
// Splits that leave either half without exclusive items score +Inf.
func evaluateSplitCost[T Primitive](items []T, bounding Bounding, center types.Vec3, axis Axis) float64 {
	box0, box1 := bounding.Split(axis, center[axis])

	var in0Count, in1Count int
	for _, item := range items {
		in0 := IsTriangleInBounding(item, box0)
		in1 := IsTriangleInBounding(item, box1)
		switch {
		case in0 && !in1:
			in0Count++
		case !in0 && in1:
			in1Count++
		}
	}

	if in0Count == 0 || in1Count == 0 {
		return math.Inf(1)
	}

	return math.Abs(float64(in0Count - in1Count))
}
