package compiler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/lumenrt/polaris/asset/compiler/bvh"
	"github.com/lumenrt/polaris/asset/compiler/input"
	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/log"
)

// Compiler options. Prototype strides are defined per mesh.
type Options struct {
	// Max number of mesh BVHs built in parallel. Values <= 0 select the
	// number of available CPUs.
	Workers int
}

// Get the default compiler options.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.NumCPU(),
	}
}

type meshJob struct {
	index int
	mesh  *input.Mesh
}

type meshResult struct {
	index int
	mesh  *scene.Mesh
	err   error
}

type sceneCompiler struct {
	parsedScene *input.Scene
	opts        Options
	logger      log.Logger
}

// Compile a scene representation parsed by a scene reader into a GPU-friendly
// optimized scene format.
//
// Each mesh BVH is built as an independent unit of work; builds for
// different meshes run in parallel. The first build error cancels any
// pending work and is returned to the caller.
func Compile(ctx context.Context, parsedScene *input.Scene, opts Options) (*scene.Scene, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		opts:        opts,
		logger:      log.New("scene compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene (%d meshes, %d triangles)", len(parsedScene.Meshes), parsedScene.TriangleCount())

	meshes, err := compiler.partitionGeometry(ctx)
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return &scene.Scene{
		ID:     uuid.New(),
		Meshes: meshes,
	}, nil
}

// Build a BVH for each mesh using a pool of workers. The output preserves
// the mesh order of the parsed scene.
func (sc *sceneCompiler) partitionGeometry(ctx context.Context) ([]*scene.Mesh, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCount := len(sc.parsedScene.Meshes)
	workers := sc.opts.Workers
	if workers > jobCount {
		workers = jobCount
	}

	jobChan := make(chan meshJob)
	resChan := make(chan meshResult, jobCount)

	for w := 0; w < workers; w++ {
		go func() {
			for job := range jobChan {
				mesh, err := sc.compileMesh(job.mesh)
				resChan <- meshResult{index: job.index, mesh: mesh, err: err}
			}
		}()
	}

	// Feed jobs until all are queued or the context is cancelled
	go func() {
		defer close(jobChan)
		for index, mesh := range sc.parsedScene.Meshes {
			select {
			case jobChan <- meshJob{index: index, mesh: mesh}:
			case <-ctx.Done():
				return
			}
		}
	}()

	out := make([]*scene.Mesh, jobCount)
	for pending := jobCount; pending > 0; pending-- {
		select {
		case res := <-resChan:
			if res.err != nil {
				return nil, res.err
			}
			out[res.index] = res.mesh
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return out, nil
}

// Build and flatten the BVH for a single mesh. The prototype array is
// decoded using the mesh stride.
func (sc *sceneCompiler) compileMesh(mesh *input.Mesh) (*scene.Mesh, error) {
	start := time.Now()
	sc.logger.Infof(`building BVH tree for "%s" (%d triangles)`, mesh.Name, mesh.TriangleCount())

	tree, err := bvh.FromPrototypeArray(mesh.Prototype, mesh.Stride)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
	}

	arrays := tree.ToArrays()
	stats := tree.Stats()

	sc.logger.Infof(
		`built BVH tree for "%s" in %d ms (nodes: %d, leafs: %d, depth: %d)`,
		mesh.Name, time.Since(start).Nanoseconds()/1e6, stats.Nodes, stats.Leaves, stats.MaxDepth,
	)

	return &scene.Mesh{
		Name:             mesh.Name,
		TriangleStride:   mesh.Stride,
		Prototype:        mesh.Prototype,
		BoundingVertices: arrays.BoundingVertices,
		BvhData:          arrays.Bvh,
		NodeCount:        arrays.NodeCount(),
		LeafCount:        stats.Leaves,
		MaxDepth:         stats.MaxDepth,
	}, nil
}
