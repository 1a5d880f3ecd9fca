package bvh

import "github.com/lumenrt/polaris/types"

// A triangle primitive. ID is the index of the triangle in the prototype
// array it was decoded from and is used for reverse lookups once the BVH
// has reordered the triangles.
type Triangle struct {
	A, B, C types.Vec3
	ID      uint32
}

// Get triangle vertices in A, B, C order.
func (t Triangle) Vertices() [3]types.Vec3 {
	return [3]types.Vec3{t.A, t.B, t.C}
}
