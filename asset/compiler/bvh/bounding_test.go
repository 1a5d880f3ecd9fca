package bvh

import (
	"testing"

	"github.com/lumenrt/polaris/types"
)

func TestVertexInBoundingIsInclusive(t *testing.T) {
	box := Bounding{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 1)}

	specs := []struct {
		v   types.Vec3
		exp bool
	}{
		{types.XYZ(0.5, 0.5, 0.5), true},
		{types.XYZ(0, 0, 0), true},
		{types.XYZ(1, 1, 1), true},
		{types.XYZ(1, 0.5, 0), true},
		{types.XYZ(1.0001, 0.5, 0.5), false},
		{types.XYZ(0.5, -0.0001, 0.5), false},
		{types.XYZ(0.5, 0.5, 2), false},
	}

	for idx, spec := range specs {
		if got := IsVertexInBounding(spec.v, box); got != spec.exp {
			t.Errorf("[spec %d] expected IsVertexInBounding(%v) to be %t; got %t", idx, spec.v, spec.exp, got)
		}
	}
}

func TestTriangleInBounding(t *testing.T) {
	box := Bounding{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 1)}

	inside := mockTriangle(0, types.XYZ(0, 0, 0))
	if !IsTriangleInBounding(inside, box) {
		t.Fatal("expected triangle touching the box faces to be inside")
	}

	partial := mockTriangle(1, types.XYZ(0.5, 0, 0))
	if IsTriangleInBounding(partial, box) {
		t.Fatal("expected triangle with a vertex outside the box to be rejected")
	}
}

func TestTightenBounding(t *testing.T) {
	box := TightenBounding(mockSeparatedTriangles())
	expBox := Bounding{Min: types.XYZ(-10, 0, 0), Max: types.XYZ(10, 1, 2)}
	if box != expBox {
		t.Fatalf("expected bounding to be %v; got %v", expBox, box)
	}

	empty := TightenBounding([]Triangle{})
	if !empty.IsNull() {
		t.Fatalf("expected bounding of an empty set to be the null box; got %v", empty)
	}
	if empty != NullBounding() {
		t.Fatalf("expected bounding of an empty set to equal NullBounding(); got %v", empty)
	}
}

func TestBoundingSplit(t *testing.T) {
	box := Bounding{Min: types.XYZ(-2, -4, -6), Max: types.XYZ(2, 4, 6)}

	lo, hi := box.Split(YAxis, 1)
	expLo := Bounding{Min: types.XYZ(-2, -4, -6), Max: types.XYZ(2, 1, 6)}
	expHi := Bounding{Min: types.XYZ(-2, 1, -6), Max: types.XYZ(2, 4, 6)}
	if lo != expLo {
		t.Fatalf("expected lower half to be %v; got %v", expLo, lo)
	}
	if hi != expHi {
		t.Fatalf("expected upper half to be %v; got %v", expHi, hi)
	}

	// The original box must not be modified
	if box.Max[1] != 4 || box.Min[1] != -4 {
		t.Fatalf("expected split to leave the source box untouched; got %v", box)
	}

	if !box.Contains(lo) || !box.Contains(hi) {
		t.Fatal("expected box to contain both halves")
	}
	if lo.Union(hi) != box {
		t.Fatalf("expected union of halves to be %v; got %v", box, lo.Union(hi))
	}
	if lo.Contains(box) {
		t.Fatal("expected lower half not to contain the whole box")
	}

	if c := box.Center(); c != types.XYZ(0, 0, 0) {
		t.Fatalf("expected center to be the origin; got %v", c)
	}
}

func TestAxisString(t *testing.T) {
	if XAxis.String() != "x" || YAxis.String() != "y" || ZAxis.String() != "z" {
		t.Fatalf("unexpected axis names: %s %s %s", XAxis, YAxis, ZAxis)
	}
}
