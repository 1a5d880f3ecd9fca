package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/lumenrt/polaris/asset/scene"
	"github.com/lumenrt/polaris/asset/scene/reader"
	"github.com/lumenrt/polaris/asset/scene/writer"
	"github.com/lumenrt/polaris/config"
	"github.com/urfave/cli"
)

// Compile scene to binary format.
func CompileScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		sc, err := compileFile(runCtx, cfg, sceneFile)
		if err != nil {
			return err
		}

		// Display compiled scene info
		logger.Noticef("scene information:\n%s", sc.Stats())
	}

	return nil
}

// Parse, compile and write a scene source file to a zip archive.
func compileFile(ctx context.Context, cfg *config.Config, sceneFile string) (*scene.Scene, error) {
	logger.Noticef("parsing and compiling scene: %s", sceneFile)
	sc, err := reader.ReadScene(ctx, sceneFile, cfg.ReaderOptions())
	if err != nil {
		return nil, err
	}

	zipFile := outputPath(sceneFile, cfg.Output.Dir)
	if cfg.Output.Dir != "" {
		if err = os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return nil, err
		}
	}

	if err = writer.WriteScene(sc, zipFile); err != nil {
		return nil, err
	}
	return sc, nil
}

// Get the archive path for a scene source file. If outDir is empty the
// archive is placed next to the source file.
func outputPath(sceneFile, outDir string) string {
	zipFile := strings.TrimSuffix(sceneFile, ".obj") + ".zip"
	if outDir == "" {
		return zipFile
	}
	return filepath.Join(outDir, filepath.Base(zipFile))
}
