package bvh

import (
	"errors"
	"testing"
)

func TestDecodeTriangles(t *testing.T) {
	triangles := mockSeparatedTriangles()

	// Trailing attributes must be ignored
	decoded, err := DecodeTriangles(mockPrototype(triangles, TriangleLength, 42), TriangleLength)
	if err != nil {
		t.Fatal(err)
	}

	if len(decoded) != len(triangles) {
		t.Fatalf("expected %d triangles; got %d", len(triangles), len(decoded))
	}
	for index, tri := range decoded {
		if tri != triangles[index] {
			t.Fatalf("expected triangle %d to be %+v; got %+v", index, triangles[index], tri)
		}
	}
}

func TestDecodeTrianglesWithVertexOnlyStride(t *testing.T) {
	triangles := mockSeparatedTriangles()
	decoded, err := DecodeTriangles(mockPrototype(triangles, vertexFloats, 0), vertexFloats)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(triangles) || decoded[3].ID != 3 {
		t.Fatalf("expected 4 triangles with sequential ids; got %+v", decoded)
	}
}

func TestFromPrototypeArrayErrors(t *testing.T) {
	proto := mockPrototype(mockSeparatedTriangles(), TriangleLength, 0)

	specs := []struct {
		data   []float32
		stride int
		expErr error
	}{
		{proto[:len(proto)-1], TriangleLength, ErrMalformedPrototype},
		{proto[:TriangleLength+vertexFloats], TriangleLength, ErrMalformedPrototype},
		{proto, 8, ErrInvalidStride},
		{proto, 0, ErrInvalidStride},
	}

	for idx, spec := range specs {
		_, err := FromPrototypeArray(spec.data, spec.stride)
		if !errors.Is(err, spec.expErr) {
			t.Errorf("[spec %d] expected error %v; got %v", idx, spec.expErr, err)
		}
	}
}

func TestFromPrototypeArrayEmpty(t *testing.T) {
	tree, err := FromPrototypeArray(nil, TriangleLength)
	if err != nil {
		t.Fatal(err)
	}
	if tree.NodeCount() != 1 || !tree.Root.IsLeaf() {
		t.Fatalf("expected a single empty leaf; got %d nodes", tree.NodeCount())
	}
}
