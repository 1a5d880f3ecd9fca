package writer

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lumenrt/polaris/asset/buffer"
	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/log"
)

type zipSceneWriter struct {
	logger   log.Logger
	filename string
}

// Create a new zip scene writer.
func newZipSceneWriter(filename string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:   log.New("zip scene writer"),
		filename: filename,
	}
}

// Write compiled scene to a zip archive.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef(`writing compiled scene to "%s"`, w.filename)
	start := time.Now()

	for _, mesh := range sc.Meshes {
		if err := mesh.Validate(); err != nil {
			return fmt.Errorf("zipSceneWriter: %w", err)
		}
	}

	// Write to a temp file next to the target and move it into place once
	// complete.
	f, err := os.CreateTemp(filepath.Dir(w.filename), "."+filepath.Base(w.filename)+".*.tmp")
	if err != nil {
		return err
	}
	tmpFile := f.Name()

	err = f.Chmod(0644)
	if err == nil {
		err = w.writeArchive(f, sc)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpFile, w.filename)
	}
	if err != nil {
		os.Remove(tmpFile)
		return err
	}

	w.logger.Noticef("wrote scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Encode the scene metadata and mesh blobs into a zip stream.
func (w *zipSceneWriter) writeArchive(out io.Writer, sc *scene.Scene) error {
	zw := zip.NewWriter(out)

	dw, err := zw.Create(scene.DataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(dw).Encode(sc.Metadata()); err != nil {
		return fmt.Errorf("zipSceneWriter: could not encode scene metadata: %w", err)
	}

	for index, mesh := range sc.Meshes {
		blobs := []struct {
			name string
			data []byte
		}{
			{scene.PrototypeBlob, buffer.Encode(mesh.Prototype)},
			{scene.BoundingBlob, buffer.Encode(mesh.BoundingVertices)},
			{scene.BvhBlob, buffer.Encode(mesh.BvhData)},
		}
		for _, blob := range blobs {
			bw, err := zw.Create(scene.MeshBlobPath(index, blob.name))
			if err != nil {
				return err
			}
			if _, err = bw.Write(blob.data); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}
