package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	pcgbreaker "github.com/pcg-breaker/pcgbreaker"
)

func main() {
	app := &cli.App{
		Name:  "pcg-simulate",
		Usage: "emit a PCG-XSH-RR output stream, for feeding pcg-breaker end to end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "state",
				Usage:   "0x-prefixed 64-bit initial state; state and inc are random only if both --state and --inc are omitted",
				EnvVars: []string{"PCG_SIMULATE_STATE"},
			},
			&cli.StringFlag{
				Name:    "inc",
				Usage:   "0x-prefixed 64-bit increment; state and inc are random only if both --state and --inc are omitted",
				EnvVars: []string{"PCG_SIMULATE_INC"},
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "number of outputs to emit; 0 means run forever",
			},
			&cli.BoolFlag{
				Name:  "binary",
				Usage: "emit raw 32-bit native-endian words instead of 0x-prefixed hex lines",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn, or error",
				EnvVars: []string{"PCG_BREAKER_LOG_LEVEL"},
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
	log := pcgbreaker.NewLogger(os.Stderr, level)

	var gen *pcgbreaker.Generator
	var state, inc uint64
	if c.String("state") != "" || c.String("inc") != "" {
		state, err = parseHexU64(c.String("state"))
		if err != nil {
			return cli.Exit("parse --state: "+err.Error(), pcgbreaker.KindMalformedInput.ExitCode())
		}
		inc, err = parseHexU64(c.String("inc"))
		if err != nil {
			return cli.Exit("parse --inc: "+err.Error(), pcgbreaker.KindMalformedInput.ExitCode())
		}
		gen = pcgbreaker.NewGenerator(state, inc)
	} else {
		gen, state, inc = pcgbreaker.NewRandomGenerator(pcgbreaker.NewDPRNG())
	}

	log.Info().Str("state", fmt.Sprintf("0x%016X", state)).Str("inc", fmt.Sprintf("0x%016X", inc)).
		Msg("simulating generator")

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	count := c.Int("count")
	binaryMode := c.Bool("binary")
	for i := 0; count == 0 || i < count; i++ {
		output := gen.Next()
		if binaryMode {
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], output)
			if _, err := out.Write(buf[:]); err != nil {
				return cli.Exit(err.Error(), pcgbreaker.KindIOFailure.ExitCode())
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "0x%08X\n", output); err != nil {
			return cli.Exit(err.Error(), pcgbreaker.KindIOFailure.ExitCode())
		}
	}
	return nil
}

func parseHexU64(s string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		return 0, err
	}
	return v, nil
}
