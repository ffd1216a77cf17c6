package commands

import (
	"io"

	"ccviewer/internal/tui"
)

// RunTUI opens the interactive browser. Logs are discarded while the alternate
// screen is active.
func RunTUI(period string) error {
	a, err := loadApp(io.Discard)
	if err != nil {
		return err
	}
	return tui.Run(a.store, a.engine, period)
}
