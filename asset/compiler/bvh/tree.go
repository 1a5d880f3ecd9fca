package bvh

import "github.com/lumenrt/polaris/types"

const (
	// Max primitives stored in a leaf.
	MaxTrianglesPerLeaf = 2

	// Max children of an inner node.
	MaxChildrenPerNode = 2
)

// The Primitive interface is implemented by all payloads that can be
// partitioned into a BVH.
type Primitive interface {
	Vertices() [3]types.Vec3
}

// The kind of a tree node. The value matches the isNode flag of the
// serialized link records.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindNode
)

// Node is a tagged variant holding either an inner node (Children) or a
// leaf (Items). Every node owns the id range [ID, NextID) which covers the
// node itself and all its descendants.
type Node[T Primitive] struct {
	Kind     Kind
	Bounding Bounding

	ParentID int
	ID       int
	NextID   int

	// Populated for inner nodes.
	Children []*Node[T]

	// Populated for leaves.
	Items []T
}

// Returns true if this is a leaf node.
func (n *Node[T]) IsLeaf() bool {
	return n.Kind == KindLeaf
}

func newLeaf[T Primitive](items []T, parentID int, bounding Bounding, id int) *Node[T] {
	return &Node[T]{
		Kind:     KindLeaf,
		Bounding: bounding,
		ParentID: parentID,
		ID:       id,
		NextID:   id + 1,
		Items:    items,
	}
}

func newNode[T Primitive](children []*Node[T], parentID int, bounding Bounding, id, nextID int) *Node[T] {
	return &Node[T]{
		Kind:     KindNode,
		Bounding: bounding,
		ParentID: parentID,
		ID:       id,
		NextID:   nextID,
		Children: children,
	}
}

// A visitor invoked for each node during a traversal.
type Visitor[T Primitive] func(node *Node[T])

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Nodes    int
	Leaves   int
	Items    int
	MaxDepth int
}

// Tree is the generic BVH skeleton shared by all payload types.
type Tree[T Primitive] struct {
	Root *Node[T]
}

// Visit all nodes in depth-first pre-order. Inner nodes are passed to
// nodeFn and leaves to leafFn; either visitor may be nil.
func (t *Tree[T]) Traverse(nodeFn, leafFn Visitor[T]) {
	if t.Root == nil {
		return
	}

	stack := []*Node[T]{t.Root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsLeaf() {
			if leafFn != nil {
				leafFn(node)
			}
			continue
		}

		if nodeFn != nil {
			nodeFn(node)
		}

		// Push children in reverse so the first child is visited first
		for index := len(node.Children) - 1; index >= 0; index-- {
			stack = append(stack, node.Children[index])
		}
	}
}

// Get the number of nodes and leaves in the tree.
func (t *Tree[T]) NodeCount() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.NextID - t.Root.ID
}

// Collect tree statistics.
func (t *Tree[T]) Stats() TreeStats {
	var stats TreeStats
	if t.Root != nil {
		collectStats(t.Root, 0, &stats)
	}
	return stats
}

func collectStats[T Primitive](node *Node[T], depth int, stats *TreeStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.IsLeaf() {
		stats.Leaves++
		stats.Items += len(node.Items)
		return
	}

	stats.Nodes++
	for _, child := range node.Children {
		collectStats(child, depth+1, stats)
	}
}
