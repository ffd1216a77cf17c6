package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccviewer/internal/stats"
	"ccviewer/internal/ui"
)

// Stats-specific styles
var (
	statsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	statsCostStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E8E4E0"))

	statsBarFilledStyle = lipgloss.NewStyle().
				Foreground(primaryColor)

	statsBarEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3A3F47"))

	statsDimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

const maxBreakdownEntries = 6

type reportLoadedMsg struct {
	seq    int
	report *stats.Report
	err    error
}

// loadReportCmd builds the overall report, or one project's when projectID is
// set.
func loadReportCmd(engine *stats.Engine, seq int, projectID, period string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			report *stats.Report
			err    error
		)
		if projectID == "" {
			report, err = engine.Overall(ctx, period)
		} else {
			report, err = engine.Project(ctx, projectID, period)
		}
		return reportLoadedMsg{seq: seq, report: report, err: err}
	}
}

// renderStatsView renders the report panel.
func renderStatsView(r *stats.Report, scope string, width int) string {
	var b strings.Builder

	title := statsHeaderStyle.Render(fmt.Sprintf("  %s · %s", scope, ui.PeriodLabel(r.Overview.Period)))
	if r.Overview.DateRange.Start != "" {
		title += statsDimStyle.Render(fmt.Sprintf(" (%s to %s)",
			shortDate(r.Overview.DateRange.Start), shortDate(r.Overview.DateRange.End)))
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	summary := fmt.Sprintf("  Cost: %s    Sessions: %s    Messages: %s    Projects: %s",
		statsCostStyle.Render(ui.FormatCost(r.Cost.TotalCost)),
		statsCostStyle.Render(ui.FormatCount(int64(r.Overview.TotalSessions))),
		statsCostStyle.Render(ui.FormatCount(int64(r.Overview.TotalMessages))),
		statsCostStyle.Render(ui.FormatCount(int64(r.Overview.TotalProjects))))
	b.WriteString(summary)
	b.WriteString("\n")

	u := r.Overview.TokenUsage
	tokens := fmt.Sprintf("  Tokens: %s in / %s out / %s cache write / %s cache read",
		ui.FormatTokens(u.InputTokens),
		ui.FormatTokens(u.OutputTokens),
		ui.FormatTokens(u.CacheCreationTokens),
		ui.FormatTokens(u.CacheReadTokens))
	b.WriteString(statsDimStyle.Render(tokens))
	b.WriteString("\n")

	cache := fmt.Sprintf("  Cache hit rate: %s    Saved: %s    Agent usage: %s of sessions",
		ui.FormatPercent(r.Cache.CacheHitRate),
		ui.FormatCost(r.Cache.EstimatedSavings),
		ui.FormatPercent(r.Productivity.AgentUsageRate))
	b.WriteString(statsDimStyle.Render(cache))
	b.WriteString("\n\n")

	barWidth := min(width-40, 30)
	if barWidth < 10 {
		barWidth = 10
	}

	if len(r.ByProject) > 1 {
		entries := make([]costEntry, 0, len(r.ByProject))
		for _, p := range r.ByProject {
			entries = append(entries, costEntry{name: p.ProjectName, cost: p.Cost})
		}
		b.WriteString(statsHeaderStyle.Render("  By Project:"))
		b.WriteString("\n")
		renderBreakdown(&b, topEntries(entries), r.Cost.TotalCost, barWidth)
		b.WriteString("\n")
	}

	if len(r.Cost.ByModel) > 0 {
		entries := make([]costEntry, 0, len(r.Cost.ByModel))
		for _, m := range r.Cost.ByModel {
			entries = append(entries, costEntry{name: ui.ShortenModel(m.Model), cost: m.Cost})
		}
		b.WriteString(statsHeaderStyle.Render("  By Model:"))
		b.WriteString("\n")
		renderBreakdown(&b, topEntries(entries), r.Cost.TotalCost, barWidth)
		b.WriteString("\n")
	}

	if len(r.Productivity.ToolUsage) > 0 {
		b.WriteString(statsHeaderStyle.Render("  Top Tools:"))
		b.WriteString("\n")
		for i, t := range r.Productivity.ToolUsage {
			if i == maxBreakdownEntries {
				break
			}
			b.WriteString(fmt.Sprintf("  %-20s %7s calls  %s\n",
				truncate(t.ToolName, 20),
				ui.FormatCount(int64(t.TotalCalls)),
				statsDimStyle.Render(ui.FormatPercent(t.SuccessRate)+" ok")))
		}
		b.WriteString("\n")
	}

	if len(r.Daily) > 1 {
		b.WriteString(statsHeaderStyle.Render("  Daily Cost:"))
		b.WriteString("\n")
		renderDailyChart(&b, r.Daily, width-6, 6)
	}

	return b.String()
}

type costEntry struct {
	name string
	cost float64
}

// topEntries keeps the costliest entries and folds the rest into "others".
// Input is already sorted by cost.
func topEntries(entries []costEntry) []costEntry {
	if len(entries) <= maxBreakdownEntries {
		return entries
	}
	otherCost := 0.0
	for _, e := range entries[maxBreakdownEntries:] {
		otherCost += e.cost
	}
	out := append([]costEntry(nil), entries[:maxBreakdownEntries]...)
	return append(out, costEntry{name: "others", cost: otherCost})
}

func renderBreakdown(b *strings.Builder, entries []costEntry, total float64, barWidth int) {
	maxNameLen := 0
	for _, e := range entries {
		maxNameLen = max(maxNameLen, len(e.name))
	}
	maxNameLen = min(maxNameLen, 20)

	for _, e := range entries {
		pct := 0.0
		filled := 0
		if total > 0 {
			pct = e.cost / total * 100
			filled = int(math.Round(float64(barWidth) * e.cost / total))
		}
		filled = max(0, min(filled, barWidth))

		bar := statsBarFilledStyle.Render(strings.Repeat("█", filled)) +
			statsBarEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

		line := fmt.Sprintf("  %s  %-*s  %7s  %s",
			bar,
			maxNameLen, truncate(e.name, maxNameLen),
			ui.FormatCost(e.cost),
			statsDimStyle.Render(fmt.Sprintf("(%4.1f%%)", pct)))
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderDailyChart(b *strings.Builder, daily []stats.DailyStat, width, maxHeight int) {
	maxCost := 0.0
	for _, d := range daily {
		maxCost = max(maxCost, d.Cost)
	}
	if maxCost == 0 {
		b.WriteString(statsDimStyle.Render("  no spend in this period"))
		b.WriteString("\n")
		return
	}

	yLabelWidth := len(ui.FormatCost(maxCost)) + 1
	barSpacing := 2
	maxBars := max(1, (width-yLabelWidth-2)/barSpacing)
	visibleDays := daily
	if len(daily) > maxBars {
		visibleDays = daily[len(daily)-maxBars:]
	}

	for row := maxHeight; row >= 1; row-- {
		threshold := float64(row) / float64(maxHeight)

		label := strings.Repeat(" ", yLabelWidth)
		switch row {
		case maxHeight:
			label = fmt.Sprintf("%*s ", yLabelWidth-1, ui.FormatCost(maxCost))
		case maxHeight / 2:
			label = fmt.Sprintf("%*s ", yLabelWidth-1, ui.FormatCost(maxCost/2))
		case 1:
			label = fmt.Sprintf("%*s ", yLabelWidth-1, "$0")
		}
		line := statsDimStyle.Render(label)

		for _, d := range visibleDays {
			if d.Cost/maxCost >= threshold {
				line += statsBarFilledStyle.Render("█") + " "
			} else {
				line += "  "
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	first := shortDate(visibleDays[0].Date)
	last := shortDate(visibleDays[len(visibleDays)-1].Date)
	gap := max(1, len(visibleDays)*barSpacing-len(first)-len(last))
	b.WriteString(strings.Repeat(" ", yLabelWidth) + statsDimStyle.Render(first+strings.Repeat(" ", gap)+last))
	b.WriteString("\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func shortDate(dateStr string) string {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format("Jan 2")
}
