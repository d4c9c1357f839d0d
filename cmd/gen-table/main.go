package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	pcgbreaker "github.com/pcg-breaker/pcgbreaker"
)

func main() {
	app := &cli.App{
		Name:  "gen-table",
		Usage: "precompute the PCG-Breaker lookup table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn, or error",
				EnvVars: []string{"PCG_BREAKER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "out",
				Value:   "table.bin",
				Usage:   "path to write the table file to",
				Aliases: []string{"o"},
			},
		},
		Action: func(c *cli.Context) error {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return cli.Exit(err.Error(), pcgbreaker.KindMalformedInput.ExitCode())
			}
			log := pcgbreaker.NewLogger(os.Stdout, level)

			path := c.String("out")
			log.Info().Str("path", path).Msg("building table")

			if err := pcgbreaker.BuildTable(path); err != nil {
				return exitFromErr(err)
			}

			log.Info().Str("path", path).Msg("table written")
			return nil
		},
	}

	cli.HandleExitCoder(app.Run(os.Args))
}

func exitFromErr(err error) cli.ExitCoder {
	if be, ok := err.(*pcgbreaker.BreakerError); ok {
		return cli.Exit(be.Error(), be.Kind.ExitCode())
	}
	return cli.Exit(err.Error(), 1)
}
