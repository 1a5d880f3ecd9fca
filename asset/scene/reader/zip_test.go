package reader

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumenrt/polaris/asset/compiler"
	"github.com/lumenrt/polaris/asset/compiler/input"
	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/asset/scene/writer"
	"github.com/lumenrt/polaris/types"
)

func compileMockScene(t *testing.T) *scene.Scene {
	t.Helper()

	parsed := input.NewScene()
	for meshIndex, count := range []int{1, 5, 12} {
		mesh := input.NewMesh(strings.Repeat("m", meshIndex+1))
		for index := 0; index < count; index++ {
			origin := types.XYZ(float32(index)*2, float32(meshIndex), 0)
			mesh.AppendPrimitive(&input.Primitive{
				Vertices: [3]types.Vec3{origin, origin.Add(types.XYZ(1, 0, 0)), origin.Add(types.XYZ(0, 0, 1))},
				UVs:      [3]types.Vec2{types.XY(0, 0), types.XY(1, 0), types.XY(0, 1)},
			})
		}
		parsed.Meshes = append(parsed.Meshes, mesh)
	}

	sc, err := compiler.Compile(context.Background(), parsed, compiler.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestZipRoundTrip(t *testing.T) {
	sc := compileMockScene(t)
	zipFile := filepath.Join(t.TempDir(), "scene.zip")

	if err := writer.WriteScene(sc, zipFile); err != nil {
		t.Fatal(err)
	}

	out, err := ReadScene(context.Background(), zipFile, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if out.ID != sc.ID {
		t.Fatalf("expected scene id %s; got %s", sc.ID, out.ID)
	}
	if len(out.Meshes) != len(sc.Meshes) {
		t.Fatalf("expected %d meshes; got %d", len(sc.Meshes), len(out.Meshes))
	}

	for meshIndex, mesh := range out.Meshes {
		exp := sc.Meshes[meshIndex]
		if mesh.Name != exp.Name || mesh.NodeCount != exp.NodeCount || mesh.LeafCount != exp.LeafCount || mesh.MaxDepth != exp.MaxDepth {
			t.Fatalf("[mesh %d] metadata mismatch", meshIndex)
		}
		if !equalSlices(mesh.Prototype, exp.Prototype) {
			t.Fatalf("[mesh %d] prototype mismatch", meshIndex)
		}
		if !equalSlices(mesh.BoundingVertices, exp.BoundingVertices) {
			t.Fatalf("[mesh %d] bounding vertices mismatch", meshIndex)
		}
		if !equalSlices(mesh.BvhData, exp.BvhData) {
			t.Fatalf("[mesh %d] bvh data mismatch", meshIndex)
		}
	}

	if !strings.Contains(out.Stats(), "mmm") {
		t.Fatalf("expected stats to list mesh mmm; got\n%s", out.Stats())
	}
}

func TestZipReaderRejectsTruncatedBlobs(t *testing.T) {
	sc := compileMockScene(t)
	zipFile := filepath.Join(t.TempDir(), "scene.zip")
	if err := writer.WriteScene(sc, zipFile); err != nil {
		t.Fatal(err)
	}

	// Rewrite the archive dropping the last bvh record of mesh 2
	truncated := filepath.Join(t.TempDir(), "truncated.zip")
	rewriteZip(t, zipFile, truncated, func(name string, data []byte) []byte {
		if name == scene.MeshBlobPath(2, scene.BvhBlob) {
			return data[:len(data)-12]
		}
		return data
	})

	_, err := ReadScene(context.Background(), truncated, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "bvh values") {
		t.Fatalf("expected a bvh length validation error; got %v", err)
	}

	// Rewrite the archive dropping a blob
	missing := filepath.Join(t.TempDir(), "missing.zip")
	rewriteZip(t, zipFile, missing, func(name string, data []byte) []byte {
		if name == scene.MeshBlobPath(0, scene.BoundingBlob) {
			return nil
		}
		return data
	})

	_, err = ReadScene(context.Background(), missing, DefaultOptions())
	expErr := "zipSceneReader: missing meshes/0/bounding.bin"
	if err == nil || err.Error() != expErr {
		t.Fatalf("expected error %q; got %v", expErr, err)
	}
}

func TestIsMeshBlob(t *testing.T) {
	specs := []struct {
		name string
		exp  bool
	}{
		{"meshes/0/bvh.bin", true},
		{"meshes/1/prototype.bin", true},
		{"meshes/2/bounding.bin", false},
		{"meshes/x/bvh.bin", false},
		{"meshes/0/foo.bin", false},
		{"readme.txt", false},
	}

	for _, spec := range specs {
		if got := isMeshBlob(spec.name, 2); got != spec.exp {
			t.Fatalf("expected isMeshBlob(%q) to return %t; got %t", spec.name, spec.exp, got)
		}
	}
}

// Copy a zip archive passing each entry through fn. Entries for which fn
// returns nil are dropped.
func rewriteZip(t *testing.T, src, dst string, fn func(name string, data []byte) []byte) {
	t.Helper()

	zr, err := zip.OpenReader(src)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	f, err := os.Create(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			t.Fatal(err)
		}
		data := make([]byte, entry.UncompressedSize64)
		_, err = io.ReadFull(rc, data)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}

		data = fn(entry.Name, data)
		if data == nil {
			continue
		}
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}
