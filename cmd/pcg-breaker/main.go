package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	pcgbreaker "github.com/pcg-breaker/pcgbreaker"
)

func main() {
	app := &cli.App{
		Name:      "pcg-breaker",
		Usage:     "predict and recover a PCG-XSH-RR generator from its outputs",
		ArgsUsage: "<table.bin>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "table",
				Usage:   "path to the precomputed table (overrides the positional argument)",
				EnvVars: []string{"PCG_BREAKER_TABLE"},
			},
			&cli.BoolFlag{
				Name:  "binary",
				Usage: "read observations as raw 32-bit words instead of numeric text lines",
			},
			&cli.BoolFlag{
				Name:  "big-endian",
				Usage: "decode binary-mode words big-endian instead of native-endian",
			},
			&cli.BoolFlag{
				Name:  "recovery",
				Usage: "suppress per-output predictions; run until the candidate set collapses, then print the recovered state",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn, or error",
				EnvVars: []string{"PCG_BREAKER_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "calibrate-timer",
				Usage: "measure the clock's precision before running and warn if it's too coarse to trust the elapsed-seconds figures this tool logs",
			},
		},
		Action: run,
	}

	cli.HandleExitCoder(app.Run(os.Args))
}

func run(c *cli.Context) error {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return cli.Exit(err.Error(), pcgbreaker.KindMalformedInput.ExitCode())
	}
	log := pcgbreaker.NewLogger(os.Stdout, level)

	if c.Bool("calibrate-timer") {
		precisionNs, plausible := pcgbreaker.CalibrateTimer()
		event := log.Info()
		if !plausible {
			event = log.Warn()
		}
		event.Int64("precision_ns", precisionNs).Bool("plausible", plausible).Msg("measured clock precision")
	}

	tablePath := c.String("table")
	if tablePath == "" {
		tablePath = c.Args().First()
	}
	if tablePath == "" {
		return cli.Exit("missing table path: pass --table or a positional argument", pcgbreaker.KindMalformedInput.ExitCode())
	}

	start := pcgbreaker.SampleTime()

	log.Info().Str("path", tablePath).Msg("loading precomputed table")
	table, err := pcgbreaker.OpenTable(tablePath)
	if err != nil {
		return exitFromErr(err)
	}
	log.Info().Msg("table loaded")

	order := pcgbreaker.NativeEndian
	if c.Bool("big-endian") {
		order = pcgbreaker.BigEndian
	}
	var reader *pcgbreaker.OutputReader
	if c.Bool("binary") {
		reader = pcgbreaker.NewBinaryReader(os.Stdin, order)
	} else {
		reader = pcgbreaker.NewLineReader(os.Stdin)
	}

	log.Info().Msg("reading 4 outputs to seed the candidate set")
	var first [4]uint32
	for i := range first {
		v, err := reader.Next()
		if err != nil {
			return exitFromErr(err)
		}
		first[i] = v
	}

	engine := pcgbreaker.NewEngine(table)
	result, err := engine.Seed(first[0], first[1], first[2], first[3])
	if err != nil {
		return exitFromErr(err)
	}
	table.Close()

	elapsed := elapsedSeconds(start)
	log.Info().Float64("seconds", elapsed).Int("guesses", result.Guesses).Msg("candidate set seeded")

	recovery := c.Bool("recovery")
	if !recovery {
		printPrediction(result.Candidates.Predict())
	}

	outputIndex := 5
	for {
		observed, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return exitFromErr(err)
		}

		if err := engine.Refine(result.Candidates, observed); err != nil {
			return exitFromErr(err)
		}

		if result.Candidates.Collapsed() {
			recovered := pcgbreaker.Recover(result.Candidates)
			fmt.Printf("\n    pcg32_random_t state = {\n")
			fmt.Printf("        .state = 0x%016X\n", recovered.State)
			fmt.Printf("        .inc   = 0x%016X\n", recovered.Inc)
			fmt.Printf("    };\n\n")
			log.Info().Float64("seconds", elapsedSeconds(start)).Msg("generator fully recovered")
			return nil
		}

		if recovery {
			log.Info().Int("survivors", result.Candidates.Len()).Int("outputs", outputIndex).
				Float64("seconds", elapsedSeconds(start)).Msg("pruned candidate set")
		} else {
			printPrediction(result.Candidates.Predict())
		}
		outputIndex++
	}

	log.Info().Msg("input closed; no more outputs available")
	return nil
}

func printPrediction(p pcgbreaker.Prediction) {
	fmt.Println()
	for _, v := range p.Values {
		fmt.Printf("    0x%08X (%.2f%% probability)\n", v.Output, v.Probability*100)
	}
	fmt.Println()
}

func elapsedSeconds(start pcgbreaker.TimeStamp) float64 {
	return float64(pcgbreaker.DiffTimeStamps(start, pcgbreaker.SampleTime())) / 1e9
}

func exitFromErr(err error) cli.ExitCoder {
	if be, ok := err.(*pcgbreaker.BreakerError); ok {
		return cli.Exit(be.Error(), be.Kind.ExitCode())
	}
	return cli.Exit(err.Error(), 1)
}
