package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"ccviewer/internal/export"
	"ccviewer/internal/output"
	"ccviewer/internal/stats"
	"ccviewer/internal/ui"
)

// StatsOptions selects the report RunStats produces.
type StatsOptions struct {
	Period  string
	Project string // empty for every project
	Output  string // file path; empty prints
}

// RunStats builds a report and prints it, or writes it to opts.Output.
func RunStats(ctx context.Context, w io.Writer, opts StatsOptions) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	return runStats(ctx, w, a.engine, opts)
}

func runStats(ctx context.Context, w io.Writer, engine *stats.Engine, opts StatsOptions) error {
	ctx = orBackground(ctx)

	var (
		report *stats.Report
		err    error
	)
	if opts.Project != "" {
		report, err = engine.Project(ctx, opts.Project, opts.Period)
	} else {
		report, err = engine.Overall(ctx, opts.Period)
	}
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := export.WriteJSON(opts.Output, report); err != nil {
			return err
		}
		ui.ShowSuccess("Report written to %s", opts.Output)
		return nil
	}

	output.Print(report, func() {
		if err := printReport(w, report); err != nil {
			ui.ShowError("Failed to render report", err)
		}
	})
	return nil
}

// printReport renders a report as text tables.
func printReport(w io.Writer, r *stats.Report) error {
	o := r.Overview
	fmt.Fprintf(w, "Claude Usage (%s)", ui.PeriodLabel(o.Period))
	if o.DateRange.Start != "" {
		fmt.Fprintf(w, "  %s to %s", o.DateRange.Start, o.DateRange.End)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Total Cost:     %s\n", ui.FormatCost(r.Cost.TotalCost))
	fmt.Fprintf(w, "  Sessions:       %s\n", ui.FormatCount(int64(o.TotalSessions)))
	fmt.Fprintf(w, "  Messages:       %s\n", ui.FormatCount(int64(o.TotalMessages)))
	fmt.Fprintf(w, "  Projects:       %s\n", ui.FormatCount(int64(o.TotalProjects)))
	fmt.Fprintf(w, "  Input Tokens:   %s\n", ui.FormatCount(o.TokenUsage.InputTokens))
	fmt.Fprintf(w, "  Output Tokens:  %s\n", ui.FormatCount(o.TokenUsage.OutputTokens))
	if r.Cache.TotalCacheCreation > 0 || r.Cache.TotalCacheRead > 0 {
		fmt.Fprintf(w, "  Cache Write:    %s\n", ui.FormatCount(r.Cache.TotalCacheCreation))
		fmt.Fprintf(w, "  Cache Read:     %s\n", ui.FormatCount(r.Cache.TotalCacheRead))
		fmt.Fprintf(w, "  Cache Hit Rate: %s (saved %s)\n",
			ui.FormatPercent(r.Cache.CacheHitRate), ui.FormatCost(r.Cache.EstimatedSavings))
	}
	fmt.Fprintln(w)

	if len(r.Daily) > 0 {
		rows := make([][]string, 0, len(r.Daily))
		for _, d := range r.Daily {
			rows = append(rows, []string{
				d.Date,
				strconv.Itoa(d.SessionCount),
				strconv.Itoa(d.MessageCount),
				ui.FormatTokens(d.TokenUsage.TotalTokens),
				ui.FormatCost(d.Cost),
			})
		}
		if err := output.Table(w, []string{"Date", "Sessions", "Messages", "Tokens", "Cost"}, 1, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.ByProject) > 0 {
		rows := make([][]string, 0, len(r.ByProject))
		for _, p := range r.ByProject {
			rows = append(rows, []string{
				p.ProjectName,
				strconv.Itoa(p.SessionCount),
				ui.FormatTokens(p.TokenUsage.TotalTokens),
				ui.FormatCost(p.Cost),
			})
		}
		if err := output.Table(w, []string{"Project", "Sessions", "Tokens", "Cost"}, 1, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.ByModel) > 0 {
		rows := make([][]string, 0, len(r.ByModel))
		for _, m := range r.ByModel {
			rows = append(rows, []string{
				ui.ShortenModel(m.Model),
				strconv.Itoa(m.MessageCount),
				ui.FormatTokens(m.TokenUsage.TotalTokens),
				ui.FormatCost(m.Cost),
			})
		}
		if err := output.Table(w, []string{"Model", "Messages", "Tokens", "Cost"}, 1, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.Productivity.ToolUsage) > 0 {
		rows := make([][]string, 0, len(r.Productivity.ToolUsage))
		for _, t := range r.Productivity.ToolUsage {
			rows = append(rows, []string{
				t.ToolName,
				strconv.Itoa(t.TotalCalls),
				strconv.Itoa(t.SuccessCount),
				ui.FormatPercent(t.SuccessRate),
			})
		}
		if err := output.Table(w, []string{"Tool", "Calls", "Succeeded", "Success"}, 1, rows); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Agent sessions: %d (%s of sessions)\n",
		r.Productivity.SessionsWithAgents, ui.FormatPercent(r.Productivity.AgentUsageRate))
	return nil
}
