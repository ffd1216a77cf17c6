package output

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// JSONMode controls whether output is JSON or human-readable
var JSONMode bool

// Stdout is where Print writes; tests replace it.
var Stdout io.Writer = os.Stdout

// Result represents a generic result for JSON output
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Print outputs data. In JSON mode, marshals to JSON. Otherwise calls the textFn.
func Print(data any, textFn func()) {
	if JSONMode {
		out, err := json.MarshalIndent(Result{Success: true, Data: data}, "", "  ")
		if err != nil {
			PrintError(err)
			return
		}
		fmt.Fprintln(Stdout, string(out))
		return
	}
	textFn()
}

// PrintError outputs an error and exits. In JSON mode, marshals error to JSON.
func PrintError(err error) {
	if JSONMode {
		out, _ := json.MarshalIndent(Result{Success: false, Error: err.Error()}, "", "  ")
		fmt.Fprintln(Stdout, string(out))
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Table renders rows under headers. The first labelCols columns are left
// aligned and the rest, which hold numbers, right aligned.
func Table(w io.Writer, headers []string, labelCols int, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))
	table.Header(headers)

	alignments := make([]tw.Align, len(headers))
	for i := range alignments {
		if i < labelCols {
			alignments[i] = tw.AlignLeft
		} else {
			alignments[i] = tw.AlignRight
		}
	}
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.PerColumn = alignments
	})

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	return table.Render()
}
