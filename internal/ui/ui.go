package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Out receives status lines; tests replace it.
var Out io.Writer = os.Stdout

func ShowHeader(title string) {
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
	fmt.Fprintf(Out, " %s\n", title)
	fmt.Fprintf(Out, " %s\n", strings.Repeat("─", len(title)+2))
}

func ShowSuccess(format string, args ...interface{}) {
	fmt.Fprintf(Out, " ✓ %s\n", fmt.Sprintf(format, args...))
}

func ShowError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(Out, " ✗ %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(Out, " ✗ %s\n", msg)
	}
}

func ShowWarning(format string, args ...interface{}) {
	fmt.Fprintf(Out, " ! %s\n", fmt.Sprintf(format, args...))
}

func ShowInfo(format string, args ...interface{}) {
	fmt.Fprintf(Out, " ℹ %s\n", fmt.Sprintf(format, args...))
}

// FormatCost prints small amounts with four decimals.
func FormatCost(cost float64) string {
	if cost < 0.01 {
		return fmt.Sprintf("$%.4f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens abbreviates large counts: 1.2M, 3.4K.
func FormatTokens(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}

// FormatCount formats a count with thousand separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := strconv.FormatInt(n, 10)
	parts := []string{}
	for i := len(s); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{s[start:i]}, parts...)
	}
	return strings.Join(parts, ",")
}

// FormatPercent prints a 0..100 rate with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

var modelPrefixes = []struct{ prefix, short string }{
	{"claude-opus-4-", "opus-4-"},
	{"claude-sonnet-4-", "sonnet-4-"},
	{"claude-haiku-4-", "haiku-4-"},
	{"claude-3-7-sonnet-", "sonnet-3.7-"},
	{"claude-3-5-sonnet-", "sonnet-3.5-"},
	{"claude-3-5-haiku-", "haiku-3.5-"},
	{"claude-3-opus-", "opus-3-"},
	{"claude-3-haiku-", "haiku-3-"},
}

// ShortenModel strips the common "claude-" prefixes for display.
func ShortenModel(model string) string {
	for _, p := range modelPrefixes {
		if rest, ok := strings.CutPrefix(model, p.prefix); ok {
			return p.short + rest
		}
	}
	return model
}

// PeriodLabel names a window selector.
func PeriodLabel(period string) string {
	switch period {
	case "", "7":
		return "Last 7 Days"
	case "30":
		return "Last 30 Days"
	case "all":
		return "All Time"
	default:
		return "Last " + period + " Days"
	}
}
