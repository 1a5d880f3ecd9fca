package reader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lumenrt/polaris/asset"
	"github.com/lumenrt/polaris/asset/buffer"
	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/log"
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read compiled scene from zip file.
func (p *zipSceneReader) Read(_ context.Context, sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	// Metadata must be loaded first as it defines the number of meshes.
	var meta scene.Metadata
	var blobs = make(map[string]*zip.File, 0)
	var foundMetadata bool
	for _, f := range zr.File {
		if f.Name != scene.DataFile {
			blobs[f.Name] = f
			continue
		}

		if err = p.decodeMetadata(f, &meta); err != nil {
			return nil, err
		}
		foundMetadata = true
	}
	if !foundMetadata {
		return nil, fmt.Errorf("zipSceneReader: missing %s", scene.DataFile)
	}

	sc := scene.FromMetadata(meta)
	for index, mesh := range sc.Meshes {
		if mesh.Prototype, err = readBlob[float32](blobs, scene.MeshBlobPath(index, scene.PrototypeBlob)); err != nil {
			return nil, err
		}
		if mesh.BoundingVertices, err = readBlob[float32](blobs, scene.MeshBlobPath(index, scene.BoundingBlob)); err != nil {
			return nil, err
		}
		if mesh.BvhData, err = readBlob[uint32](blobs, scene.MeshBlobPath(index, scene.BvhBlob)); err != nil {
			return nil, err
		}

		if err = mesh.Validate(); err != nil {
			return nil, fmt.Errorf("zipSceneReader: %w", err)
		}
	}

	for name := range blobs {
		if !isMeshBlob(name, len(sc.Meshes)) {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", name)
		}
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (p *zipSceneReader) decodeMetadata(f *zip.File, meta *scene.Metadata) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err = gob.NewDecoder(rc).Decode(meta); err != nil {
		return fmt.Errorf("zipSceneReader: failed to load %s: %s", f.Name, err.Error())
	}
	return nil
}

// Read and decode a little-endian blob from the archive.
func readBlob[T buffer.Element](blobs map[string]*zip.File, name string) ([]T, error) {
	f, exists := blobs[name]
	if !exists {
		return nil, fmt.Errorf("zipSceneReader: missing %s", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	values, err := buffer.Decode[T](data)
	if err != nil {
		return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", name, err)
	}
	return values, nil
}

// Check whether name refers to a blob of one of the scene meshes.
func isMeshBlob(name string, meshCount int) bool {
	tokens := strings.Split(name, "/")
	if len(tokens) != 3 || tokens[0] != "meshes" {
		return false
	}
	index, err := strconv.Atoi(tokens[1])
	if err != nil || index < 0 || index >= meshCount {
		return false
	}
	switch tokens[2] {
	case scene.PrototypeBlob, scene.BoundingBlob, scene.BvhBlob:
		return true
	}
	return false
}
