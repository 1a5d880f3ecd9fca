package cmd

import (
	"github.com/lumenrt/polaris/config"
	"github.com/lumenrt/polaris/log"
	"github.com/urfave/cli"
)

var logger = log.New("polaris")

// Apply the configured log level. The -v and -vv flags take precedence over
// the config file.
func setupLogging(ctx *cli.Context, cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err == nil {
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
