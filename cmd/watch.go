package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/asset/watch"
	"github.com/lumenrt/polaris/config"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Compile scenes and recompile them whenever their sources change.
func WatchScenes(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene files to watch")
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w, err := watch.New(func(sceneFile string) error {
		return rebuildScene(runCtx, cfg, sceneFile)
	})
	if err != nil {
		return err
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		// A broken source can be fixed while watching
		if err = rebuildScene(runCtx, cfg, sceneFile); err != nil {
			logger.Errorf("%s", err.Error())
		}

		if err = w.Add(sceneFile); err != nil {
			return err
		}
	}

	logger.Notice("watching for changes; press ctrl+c to exit")
	return w.Run(runCtx)
}

// Recompile a scene and log a rebuild summary.
func rebuildScene(ctx context.Context, cfg *config.Config, sceneFile string) error {
	start := time.Now()
	sc, err := compileFile(ctx, cfg, sceneFile)
	logger.Noticef("rebuild summary:\n%s", rebuildSummary(sceneFile, sc, time.Since(start), err))
	return err
}

// Render a table describing the outcome of a scene rebuild.
func rebuildSummary(sceneFile string, sc *scene.Scene, elapsed time.Duration, err error) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene", "Meshes", "Triangles", "Nodes", "Time", "Status"})

	meshes, triangles, nodes := 0, 0, 0
	status := "ok"
	if err != nil {
		status = "failed"
	} else {
		meshes = len(sc.Meshes)
		for _, mesh := range sc.Meshes {
			triangles += mesh.TriangleCount()
			nodes += mesh.NodeCount
		}
	}

	table.Append([]string{
		sceneFile,
		fmt.Sprintf("%d", meshes),
		fmt.Sprintf("%d", triangles),
		fmt.Sprintf("%d", nodes),
		fmt.Sprintf("%d ms", elapsed.Nanoseconds()/1e6),
		status,
	})
	table.Render()
	return buf.String()
}
