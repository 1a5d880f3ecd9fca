package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumenrt/polaris/asset"
	"github.com/lumenrt/polaris/asset/compiler"
	"github.com/lumenrt/polaris/asset/compiler/bvh"
	"github.com/lumenrt/polaris/asset/scene"
)

// Scene reader options.
type Options struct {
	// Number of floats per triangle record in the prototype arrays of
	// meshes parsed from source files. Records are zero-padded past
	// bvh.TriangleLength.
	TriangleStride int

	// Options for compiling parsed scenes.
	Compiler compiler.Options
}

// Get the default reader options.
func DefaultOptions() Options {
	return Options{
		TriangleStride: bvh.TriangleLength,
		Compiler:       compiler.DefaultOptions(),
	}
}

// Check reader options.
func (o Options) Validate() error {
	if o.TriangleStride < bvh.TriangleLength {
		return fmt.Errorf("readScene: triangle stride must be at least %d; got %d", bvh.TriangleLength, o.TriangleStride)
	}
	return nil
}

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(context.Context, *asset.Resource) (*scene.Scene, error)
}

// Read scene from file. Wavefront sources are parsed and compiled using the
// supplied options; zip archives are loaded as-is.
func ReadScene(ctx context.Context, filename string, opts Options) (*scene.Scene, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	if strings.HasSuffix(filename, ".obj") {
		reader = newWavefrontReader(opts)
	} else if strings.HasSuffix(filename, ".zip") {
		reader = newZipSceneReader()
	} else {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}
	return reader.Read(ctx, res)
}
