package main

import (
	"os"

	"github.com/lumenrt/polaris/cmd"
	"github.com/lumenrt/polaris/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	compilerFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "stride",
			Usage: "floats per triangle record in compiled prototype arrays (at least 24; extra floats are zero padding)",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of meshes to compile in parallel (0 = number of CPUs)",
		},
		cli.StringFlag{
			Name:  "out-dir",
			Usage: "write compiled archives to this directory instead of next to their sources",
		},
	}

	app := cli.NewApp()
	app.Name = "polaris"
	app.Usage = "compile scenes into GPU-friendly BVH archives"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a TOML config file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file, build a BVH tree for each
mesh to optimize ray intersection tests and package scene elements in a
GPU-friendly format.

The optimized scene data is then written to a zip archive.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     compilerFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "print statistics for a compiled scene",
			ArgsUsage: "scene_file.zip",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "watch",
			Usage: "compile scenes and recompile them when their sources change",
			Description: `
Compile each scene and keep watching its source file. Whenever the file is
modified the scene is recompiled and its archive is replaced. Press ctrl+c to
exit.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     compilerFlags,
			Action:    cmd.WatchScenes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("polaris").Error(err.Error())
		os.Exit(1)
	}
}
