package commands

import (
	"fmt"
	"io"

	"ccviewer/internal/output"
)

// Version information, set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// VersionInfo is the JSON shape of `ccviewer version --json`.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func RunVersion(w io.Writer) {
	output.Print(VersionInfo{Version: Version, Commit: Commit, Date: Date}, func() {
		fmt.Fprintf(w, "ccviewer version %s (commit %s, built %s)\n", Version, Commit, Date)
	})
}
