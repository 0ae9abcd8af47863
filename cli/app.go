package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmmorris1975/simple-logger/logger"
	"github.com/okta-tools/okta-aws/config"
	"github.com/urfave/cli/v2"
)

var log = logger.StdLogger

// App is the struct used to manage the configuration and behavior for the cli handling library.
var App = &cli.App{
	Usage:     "Exchange an Okta session for temporary AWS credentials",
	UsageText: fmt.Sprintf("%s [options] [profile]", filepath.Base(os.Args[0])),
	Flags:     appFlags,

	UseShortOptionHandling: true,
	EnableBashCompletion:   true,

	Before: func(ctx *cli.Context) error {
		if ctx.Bool(debugFlag.Name) {
			log.SetLevel(logger.DEBUG)
		} else if ctx.Bool(quietFlag.Name) {
			log.SetLevel(logger.ERROR)
		}
		return nil
	},

	Metadata: map[string]interface{}{
		"url": "https://github.com/okta-tools/okta-aws",
	},

	Action: execCmd,
}

//nolint:gochecknoinits // kinda need this here
func init() {
	// override built-in version flag to use -V instead of -v
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func execCmd(ctx *cli.Context) error {
	configPath := ctx.String(configFlag.Name)

	if ctx.Bool(setupFlag.Name) {
		return runSetup(configPath, os.Stdin, os.Stderr)
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, config.ErrNotFound) {
		log.Infof("No configuration file found, starting setup")
		if err = runSetup(configPath, os.Stdin, os.Stderr); err != nil {
			return err
		}
		cfg, err = config.Load(configPath)
	}

	if err != nil {
		return err
	}

	profile := checkProfileArgs(ctx)

	x, err := newExecutor(ctx, cfg, profile)
	if err != nil {
		return err
	}

	mode := modeFetch
	if ctx.Bool(listFlag.Name) {
		mode = modeList
	} else if ctx.Bool(allFlag.Name) {
		mode = modeAll
	}

	return x.run(ctx.Context, mode, profile)
}
