// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup sends human readable logs to w at the named level. Unknown level
// names fall back to info. Colors are used only when w is a terminal.
func Setup(w io.Writer, level string, debug bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: "15:04:05"})
}
