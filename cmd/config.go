package cmd

import (
	"github.com/lumenrt/polaris/config"
	"github.com/urfave/cli"
)

// Load the configuration file (if one was specified), apply any command
// flag overrides and setup logging.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if cfgFile := ctx.GlobalString("config"); cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet("stride") {
		cfg.Compiler.TriangleStride = ctx.Int("stride")
	}
	if ctx.IsSet("workers") {
		cfg.Compiler.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("out-dir") {
		cfg.Output.Dir = ctx.String("out-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(ctx, cfg)
	return cfg, nil
}
