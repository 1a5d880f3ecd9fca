package bvh

import (
	"math/rand"

	"github.com/lumenrt/polaris/types"
)

// Create a unit right triangle in the XY plane with its right angle at origin.
func mockTriangle(id uint32, origin types.Vec3) Triangle {
	return Triangle{
		A:  origin,
		B:  origin.Add(types.XYZ(1, 0, 0)),
		C:  origin.Add(types.XYZ(0, 1, 0)),
		ID: id,
	}
}

// Two pairs of triangles separated along the X axis.
func mockSeparatedTriangles() []Triangle {
	return []Triangle{
		mockTriangle(0, types.XYZ(-10, 0, 0)),
		mockTriangle(1, types.XYZ(-10, 0, 2)),
		mockTriangle(2, types.XYZ(9, 0, 0)),
		mockTriangle(3, types.XYZ(9, 0, 2)),
	}
}

func mockRandomTriangles(count int, seed int64) []Triangle {
	rng := rand.New(rand.NewSource(seed))
	coord := func(scale float32) float32 {
		return (rng.Float32()*2 - 1) * scale
	}

	triangles := make([]Triangle, count)
	for index := range triangles {
		origin := types.XYZ(coord(50), coord(50), coord(50))
		triangles[index] = Triangle{
			A:  origin,
			B:  origin.Add(types.XYZ(coord(2), coord(2), coord(2))),
			C:  origin.Add(types.XYZ(coord(2), coord(2), coord(2))),
			ID: uint32(index),
		}
	}
	return triangles
}

// Encode triangles into a prototype array padding each record to stride
// floats with the given filler value.
func mockPrototype(triangles []Triangle, stride int, filler float32) []float32 {
	out := make([]float32, 0, len(triangles)*stride)
	for _, tri := range triangles {
		for _, v := range tri.Vertices() {
			out = append(out, v[:]...)
		}
		for pad := vertexFloats; pad < stride; pad++ {
			out = append(out, filler)
		}
	}
	return out
}
