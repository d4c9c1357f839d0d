package pcgbreaker

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger builds the package-wide zerolog logger: a human-readable
// console writer with `[-]`/`[+]`-flavoured level markers when w is a
// terminal, or plain JSON otherwise, matching the reference tool's
// console aesthetic while staying machine-parseable under redirection.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: false}
		console.FormatLevel = func(i interface{}) string {
			level, _ := i.(string)
			switch level {
			case zerolog.LevelInfoValue:
				return "[+]"
			case zerolog.LevelWarnValue, zerolog.LevelErrorValue, zerolog.LevelFatalValue:
				return "[!]"
			default:
				return "[-]"
			}
		}
		w = console
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// isTerminal reports whether f looks like an interactive terminal, covering
// both real ttys and Cygwin/MSYS pseudo-terminals on Windows.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
