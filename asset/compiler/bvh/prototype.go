package bvh

import (
	"errors"
	"fmt"

	"github.com/lumenrt/polaris/types"
)

const (
	// Number of floats per triangle in a prototype array:
	// 3 vertices, 3 normals and 3 uv pairs (V V V N N N UV UV UV).
	TriangleLength = 24

	// Floats per triangle that are read by the BVH builder.
	vertexFloats = 9
)

var (
	ErrInvalidStride      = errors.New("bvh: triangle stride must hold at least 3 vertices")
	ErrMalformedPrototype = errors.New("bvh: prototype array length is not a multiple of the triangle stride")
)

// Decode triangles from a flat prototype array where each triangle occupies
// stride floats and its first 9 floats are the vertex coordinates. Any
// trailing per-triangle attributes are ignored.
func DecodeTriangles(prototype []float32, stride int) ([]Triangle, error) {
	if stride < vertexFloats {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidStride, stride)
	}
	if len(prototype)%stride != 0 {
		return nil, fmt.Errorf("%w (length %d, stride %d)", ErrMalformedPrototype, len(prototype), stride)
	}

	count := len(prototype) / stride
	if uint64(count) >= uint64(Sentinel) {
		return nil, ErrTooManyNodes
	}

	triangles := make([]Triangle, count)
	for index := range triangles {
		offset := index * stride
		triangles[index] = Triangle{
			A:  types.XYZ(prototype[offset+0], prototype[offset+1], prototype[offset+2]),
			B:  types.XYZ(prototype[offset+3], prototype[offset+4], prototype[offset+5]),
			C:  types.XYZ(prototype[offset+6], prototype[offset+7], prototype[offset+8]),
			ID: uint32(index),
		}
	}
	return triangles, nil
}

// Build a triangle BVH from a flat prototype array.
func FromPrototypeArray(prototype []float32, stride int) (*TriangleBVH, error) {
	triangles, err := DecodeTriangles(prototype, stride)
	if err != nil {
		return nil, err
	}
	return NewTriangleBVH(triangles)
}
