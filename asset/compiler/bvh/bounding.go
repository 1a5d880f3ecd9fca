package bvh

import (
	"math"

	"github.com/lumenrt/polaris/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

var axisNames = [...]string{"x", "y", "z"}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "?"
}

// An axis-aligned bounding box. All containment tests treat the box faces
// as inclusive.
type Bounding struct {
	Min types.Vec3
	Max types.Vec3
}

// Create the null box (min=+Inf, max=-Inf) which is the identity element
// for Union.
func NullBounding() Bounding {
	inf := float32(math.Inf(1))
	return Bounding{
		Min: types.Splat3(inf),
		Max: types.Splat3(-inf),
	}
}

// Returns true if the box does not enclose any point.
func (b Bounding) IsNull() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow the box so it includes v.
func (b Bounding) Extend(v types.Vec3) Bounding {
	return Bounding{
		Min: types.MinVec3(b.Min, v),
		Max: types.MaxVec3(b.Max, v),
	}
}

// Get the smallest box enclosing both boxes.
func (b Bounding) Union(other Bounding) Bounding {
	return Bounding{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Returns true if other lies entirely inside b.
func (b Bounding) Contains(other Bounding) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get the box midpoint.
func (b Bounding) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Clip the box at the given coordinate along axis. The two returned boxes
// share the cut plane.
func (b Bounding) Split(axis Axis, at float32) (Bounding, Bounding) {
	lo, hi := b, b
	lo.Max[axis] = at
	hi.Min[axis] = at
	return lo, hi
}

// Returns true if v lies inside box (inclusive).
func IsVertexInBounding(v types.Vec3, box Bounding) bool {
	return box.Min[0] <= v[0] && v[0] <= box.Max[0] &&
		box.Min[1] <= v[1] && v[1] <= box.Max[1] &&
		box.Min[2] <= v[2] && v[2] <= box.Max[2]
}

// Returns true if all primitive vertices lie inside box.
func IsTriangleInBounding[T Primitive](tri T, box Bounding) bool {
	for _, v := range tri.Vertices() {
		if !IsVertexInBounding(v, box) {
			return false
		}
	}
	return true
}

// Calculate the tightest box enclosing every vertex of the given primitives.
// An empty list yields the null box.
func TightenBounding[T Primitive](items []T) Bounding {
	bounding := NullBounding()
	for _, item := range items {
		for _, v := range item.Vertices() {
			bounding = bounding.Extend(v)
		}
	}
	return bounding
}
