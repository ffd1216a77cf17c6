package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "950", FormatCount(950))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "12,345,678", FormatCount(12345678))
	assert.Equal(t, "-1,500", FormatCount(-1500))
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "999", FormatTokens(999))
	assert.Equal(t, "1.5K", FormatTokens(1500))
	assert.Equal(t, "2.0M", FormatTokens(2_000_000))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0033", FormatCost(0.0033))
	assert.Equal(t, "$12.35", FormatCost(12.346))
}

func TestShortenModel(t *testing.T) {
	assert.Equal(t, "sonnet-4-5-20250929", ShortenModel("claude-sonnet-4-5-20250929"))
	assert.Equal(t, "haiku-3.5-20241022", ShortenModel("claude-3-5-haiku-20241022"))
	assert.Equal(t, "unknown", ShortenModel("unknown"))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Last 7 Days", PeriodLabel(""))
	assert.Equal(t, "All Time", PeriodLabel("all"))
	assert.Equal(t, "Last 14 Days", PeriodLabel("14"))
}
