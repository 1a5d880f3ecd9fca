package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Compiled scene archive layout. The archive stores gob-encoded metadata in
// DataFile and one set of raw little-endian blobs per mesh.
const (
	DataFile = "scene.bin"

	PrototypeBlob = "prototype.bin"
	BoundingBlob  = "bounding.bin"
	BvhBlob       = "bvh.bin"
)

// Get the archive path for a mesh blob.
func MeshBlobPath(meshIndex int, blob string) string {
	return fmt.Sprintf("meshes/%d/%s", meshIndex, blob)
}

// Scene metadata stored in DataFile.
type Metadata struct {
	ID     uuid.UUID
	Meshes []MeshMetadata
}

// Mesh metadata. The array contents are stored as separate blobs.
type MeshMetadata struct {
	Name           string
	TriangleStride int
	NodeCount      int
	LeafCount      int
	MaxDepth       int
}

// Extract the scene metadata.
func (sc *Scene) Metadata() Metadata {
	meta := Metadata{
		ID:     sc.ID,
		Meshes: make([]MeshMetadata, len(sc.Meshes)),
	}
	for index, mesh := range sc.Meshes {
		meta.Meshes[index] = MeshMetadata{
			Name:           mesh.Name,
			TriangleStride: mesh.TriangleStride,
			NodeCount:      mesh.NodeCount,
			LeafCount:      mesh.LeafCount,
			MaxDepth:       mesh.MaxDepth,
		}
	}
	return meta
}

// Create an empty scene from its metadata. Mesh arrays must be populated
// by the caller.
func FromMetadata(meta Metadata) *Scene {
	sc := &Scene{
		ID:     meta.ID,
		Meshes: make([]*Mesh, len(meta.Meshes)),
	}
	for index, mm := range meta.Meshes {
		sc.Meshes[index] = &Mesh{
			Name:           mm.Name,
			TriangleStride: mm.TriangleStride,
			NodeCount:      mm.NodeCount,
			LeafCount:      mm.LeafCount,
			MaxDepth:       mm.MaxDepth,
		}
	}
	return sc
}
