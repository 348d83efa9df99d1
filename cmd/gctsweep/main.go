package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/thrasher-corp/gctsweep/log"
)

const version = "1.0.0"

var (
	configPath string
	verbose    bool
)

func main() {
	app := cli.NewApp()
	app.Name = "gctsweep"
	app.Version = version
	app.Usage = "parameter sweep backtesting over historical candle data"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "sweep.yaml",
			Usage:       "path to the sweep definition file",
			Destination: &configPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "enable debug logging on all subsystems",
			Destination: &verbose,
		},
	}
	app.Before = func(*cli.Context) error {
		if verbose {
			log.SetGlobalLevels(log.Levels{Info: true, Debug: true, Warn: true, Error: true})
		}
		return nil
	}
	app.Commands = []*cli.Command{
		runCommand,
		detailCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
