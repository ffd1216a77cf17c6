package stats

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccviewer/internal/projects"
	"ccviewer/internal/transcript"
)

const sonnet = "claude-sonnet-4-5-20250929"

func userLine(ts string) string {
	return fmt.Sprintf(`{"type":"user","timestamp":%q,"message":{"role":"user","content":"hello"}}`, ts)
}

func assistantLine(ts, model string, in, out, cacheCreate, cacheRead int64) string {
	return fmt.Sprintf(`{"type":"assistant","timestamp":%q,"message":{"role":"assistant","model":%q,"usage":{"input_tokens":%d,"output_tokens":%d,"cache_creation_input_tokens":%d,"cache_read_input_tokens":%d},"content":[{"type":"text","text":"ok"}]}}`,
		ts, model, in, out, cacheCreate, cacheRead)
}

func jsonl(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func records(t *testing.T, lines ...string) []transcript.Record {
	t.Helper()
	recs, err := transcript.Parse(strings.NewReader(jsonl(lines...)))
	require.NoError(t, err)
	return recs
}

func writeSession(t *testing.T, root, project, id, content string) {
	t.Helper()
	dir := filepath.Join(root, project)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".jsonl"), []byte(content), 0o644))
}

func newTestEngine(root string, now time.Time) *Engine {
	return NewEngine(projects.NewStore(root), Options{
		Workers:  4,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
}

// --- pricing ---

func TestCost_Opus(t *testing.T) {
	p := NewPricing(nil, "")
	cost := Cost(TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, p.Resolve("claude-opus-4-20250514"))
	assert.InDelta(t, 90.0, cost.Total().InexactFloat64(), 1e-9)

	cost = Cost(TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, p.Resolve("claude-opus-4-6"))
	assert.InDelta(t, 30.0, cost.Total().InexactFloat64(), 1e-9)
}

func TestCost_Sonnet(t *testing.T) {
	p := NewPricing(nil, "")
	cost := Cost(TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, p.Resolve(sonnet))
	assert.InDelta(t, 18.0, cost.Total().InexactFloat64(), 1e-9)
}

func TestCost_Haiku(t *testing.T) {
	p := NewPricing(nil, "")
	cost := Cost(TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, p.Resolve("claude-3-5-haiku-20241022"))
	assert.InDelta(t, 4.80, cost.Total().InexactFloat64(), 1e-9)
}

func TestCost_WithCache(t *testing.T) {
	p := NewPricing(nil, "")
	cost := Cost(TokenUsage{
		InputTokens:         500_000,
		OutputTokens:        100_000,
		CacheCreationTokens: 200_000,
		CacheReadTokens:     300_000,
	}, p.Resolve(sonnet))

	// 1.50 + 1.50 + 200K*3.75/1M + 300K*0.30/1M
	assert.Equal(t, "1.5", cost.Input.String())
	assert.Equal(t, "1.5", cost.Output.String())
	assert.Equal(t, "0.75", cost.CacheCreation.String())
	assert.Equal(t, "0.09", cost.CacheRead.String())
	assert.Equal(t, "3.84", cost.Total().String())
}

func TestCost_UnknownModelFallsBack(t *testing.T) {
	p := NewPricing(nil, "")
	assert.Equal(t, p.Resolve(sonnet), p.Resolve("gpt-unknown"))

	cost := Cost(TokenUsage{InputTokens: 1000, OutputTokens: 1000}, p.Resolve("some-future-model"))
	assert.True(t, cost.Total().IsPositive())
}

func TestPricing_LongestPrefixWins(t *testing.T) {
	p := NewPricing(nil, "")
	assert.Equal(t, 5.0, p.Resolve("claude-opus-4-5-20251101").InputPerMillion)
	assert.Equal(t, 15.0, p.Resolve("claude-opus-4-20250514").InputPerMillion)
}

func TestPricing_Overrides(t *testing.T) {
	custom := ModelPricing{InputPerMillion: 1, OutputPerMillion: 2, CacheWritePerMillion: 3, CacheReadPerMillion: 4}
	p := NewPricing(map[string]ModelPricing{"my-model": custom}, "my-model")

	assert.Equal(t, custom, p.Resolve("my-model-v2"))
	assert.Equal(t, custom, p.Resolve("nothing-like-it"))
	assert.Equal(t, custom, p.Default())
	assert.Equal(t, "my-model", p.DefaultModel())
}

func TestPricing_UnknownDefaultModel(t *testing.T) {
	p := NewPricing(nil, "not-a-model")
	assert.Equal(t, builtinPricing["claude-sonnet-4-5"], p.Default())
}

// --- window ---

func TestParseWindow(t *testing.T) {
	cases := map[string]Window{"": {Days: 7}, "7": {Days: 7}, "30": {Days: 30}, "all": {}, "ALL": {}, "14": {Days: 14}}
	for in, want := range cases {
		got, err := ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"0", "-3", "week", "1.5"} {
		_, err := ParseWindow(bad)
		assert.ErrorIs(t, err, ErrInvalidWindow, bad)
	}
}

func TestWindowCutoff(t *testing.T) {
	now := time.Date(2025, 1, 16, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Window{Days: 7}.Cutoff(now, time.UTC))
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), Window{Days: 1}.Cutoff(now, time.UTC))
	assert.True(t, Window{}.Cutoff(now, time.UTC).IsZero())

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, time.Date(2025, 1, 11, 0, 0, 0, 0, tokyo), Window{Days: 7}.Cutoff(now, tokyo))
}

// --- accumulator ---

func TestAccumulator_SessionCountIsCardinality(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 1, 1, 0, 0),
		assistantLine("2025-01-10T09:10:00Z", sonnet, 1, 1, 0, 0),
		assistantLine("2025-01-10T09:20:00Z", sonnet, 1, 1, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, r.Overview.TotalSessions)
	assert.Equal(t, 3, r.Overview.TotalMessages)
	assert.Equal(t, 1, r.Trends.ByHour[9].SessionCount)
	assert.Equal(t, 3, r.Trends.ByHour[9].MessageCount)
	require.Len(t, r.Daily, 1)
	assert.Equal(t, 1, r.Daily[0].SessionCount)
	assert.Equal(t, 1, r.ByModel[0].SessionCount)
}

func TestAccumulator_DegenerateSessionExcluded(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		assistantLine("2025-01-10T09:00:01Z", sonnet, 100, 100, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Zero(t, r.Overview.TotalSessions)
	assert.Zero(t, r.Overview.TokenUsage.TotalTokens)
	assert.Empty(t, r.ByProject)
	assert.Empty(t, r.Daily)
}

func TestAccumulator_SubSessionPassedDirectlyIgnored(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "agent-x", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 100, 100, 0, 0),
	)})
	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Zero(t, r.Overview.TotalSessions)
}

func TestAccumulator_CutoffBoundary(t *testing.T) {
	cutoff := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	acc := NewAccumulator(cutoff, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-09T23:00:00Z"),
		assistantLine("2025-01-09T23:59:59.999Z", sonnet, 1000, 0, 0, 0),
		assistantLine("2025-01-10T00:00:00Z", sonnet, 7, 0, 0, 0),
	)})

	r := acc.Report(Window{Days: 1}, cutoff.Add(12*time.Hour))
	assert.Equal(t, int64(7), r.Overview.TokenUsage.TotalTokens)
	assert.Equal(t, 1, r.Overview.TotalMessages)
}

func TestAccumulator_OldSessionContributesNothing(t *testing.T) {
	cutoff := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	acc := NewAccumulator(cutoff, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "old", ProjectID: "p", Records: records(t,
		userLine("2025-01-01T09:00:00Z"),
		assistantLine("2025-01-01T09:00:01Z", sonnet, 10, 10, 0, 0),
	)})

	r := acc.Report(Window{Days: 1}, cutoff.Add(time.Hour))
	assert.Zero(t, r.Overview.TotalSessions)
	assert.Empty(t, r.ByProject)
	assert.Zero(t, r.Overview.TotalProjects)
}

func TestAccumulator_DailyGapFill(t *testing.T) {
	now := time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC)
	w := Window{Days: 7}
	acc := NewAccumulator(w.Cutoff(now, time.UTC), time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T08:00:00Z"),
		assistantLine("2025-01-10T08:00:01Z", sonnet, 10, 0, 0, 0),
		assistantLine("2025-01-16T08:00:01Z", sonnet, 20, 0, 0, 0),
	)})

	r := acc.Report(w, now)
	require.Len(t, r.Daily, 7)
	assert.Equal(t, "2025-01-10", r.Daily[0].Date)
	assert.Equal(t, "2025-01-16", r.Daily[6].Date)
	assert.Equal(t, int64(10), r.Daily[0].TokenUsage.TotalTokens)
	assert.Equal(t, int64(20), r.Daily[6].TokenUsage.TotalTokens)
	for _, d := range r.Daily[1:6] {
		assert.Zero(t, d.TokenUsage.TotalTokens, d.Date)
		assert.Zero(t, d.SessionCount, d.Date)
	}
	assert.Equal(t, DateRange{Start: "2025-01-10", End: "2025-01-16"}, r.Overview.DateRange)
}

func TestAccumulator_DailyExtendsPastTodayOnClockSkew(t *testing.T) {
	now := time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC)
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-14T08:00:00Z"),
		assistantLine("2025-01-14T08:00:01Z", sonnet, 1, 0, 0, 0),
		assistantLine("2025-01-18T08:00:01Z", sonnet, 1, 0, 0, 0),
	)})

	r := acc.Report(Window{}, now)
	require.Len(t, r.Daily, 5)
	assert.Equal(t, "2025-01-14", r.Daily[0].Date)
	assert.Equal(t, "2025-01-18", r.Daily[4].Date)
}

func TestAccumulator_LocalTimeBucketing(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	acc := NewAccumulator(time.Time{}, tokyo, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T23:00:00Z"),
		// Friday 23:30 UTC is Saturday 08:30 in Tokyo
		assistantLine("2025-01-10T23:30:00Z", sonnet, 5, 0, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 11, 12, 0, 0, 0, tokyo))
	require.Len(t, r.Daily, 1)
	assert.Equal(t, "2025-01-11", r.Daily[0].Date)
	assert.Equal(t, int64(5), r.Trends.ByHour[8].TokenUsage.TotalTokens)
	assert.Equal(t, int64(5), r.Trends.ByWeekday[6].TokenUsage.TotalTokens)
	assert.Equal(t, "Saturday", r.Trends.ByWeekday[6].DayName)
}

func TestAccumulator_CacheHitRateZeroGuard(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 10, 10, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 0.0, r.Cache.CacheHitRate)
	assert.Equal(t, 0.0, r.Cache.EstimatedSavings)
}

func TestAccumulator_EphemeralBreakdown(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		`{"type":"assistant","timestamp":"2025-01-10T09:00:01Z","message":{"model":"claude-sonnet-4-5-20250929","usage":{"input_tokens":1,"cache_creation_input_tokens":30,"cache_creation":{"ephemeral_5m_input_tokens":10,"ephemeral_1h_input_tokens":20}}}}`,
		`{"type":"assistant","timestamp":"2025-01-10T09:00:02Z","message":{"model":"claude-sonnet-4-5-20250929","usage":{"input_tokens":1,"cache_creation_input_tokens":5}}}`,
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, int64(10), r.Cache.Ephemeral5mTokens)
	assert.Equal(t, int64(20), r.Cache.Ephemeral1hTokens)
	assert.Equal(t, int64(35), r.Cache.TotalCacheCreation)
}

func TestAccumulator_MissingModelIsUnknown(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", "", 1_000_000, 0, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	require.Len(t, r.ByModel, 1)
	assert.Equal(t, unknownModel, r.ByModel[0].Model)
	assert.InDelta(t, 3.0, r.Cost.TotalCost, 1e-9)
}

func TestAccumulator_ToolStats(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		`{"type":"assistant","timestamp":"2025-01-10T09:00:01Z","message":{"content":[{"type":"tool_use","id":"t1","name":"Bash","input":{}},{"type":"tool_use","id":"t2","name":"Bash","input":{}},{"type":"tool_use","id":"t3","name":"Read","input":{}}]}}`,
		`{"type":"user","timestamp":"2025-01-10T09:00:02Z","message":{"content":[{"type":"tool_result","tool_use_id":"t1"},{"type":"tool_result","tool_use_id":"t2","is_error":true},{"type":"tool_result","tool_use_id":"t9"}]}}`,
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	tools := r.Productivity.ToolUsage
	require.Len(t, tools, 2, "unmatched outcome adds no tool")
	assert.Equal(t, ToolStat{ToolName: "Bash", TotalCalls: 2, SuccessCount: 1, SuccessRate: 50}, tools[0])
	assert.Equal(t, ToolStat{ToolName: "Read", TotalCalls: 1}, tools[1])
	assert.Equal(t, 3, r.Productivity.TotalToolCalls)

	for _, tool := range tools {
		assert.GreaterOrEqual(t, tool.SuccessRate, 0.0)
		assert.LessOrEqual(t, tool.SuccessRate, 100.0)
	}
}

func TestAccumulator_ToolOutcomeOutsideWindow(t *testing.T) {
	cutoff := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	acc := NewAccumulator(cutoff, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "p", Records: records(t,
		userLine("2025-01-09T23:00:00Z"),
		`{"type":"assistant","timestamp":"2025-01-09T23:59:00Z","message":{"content":[{"type":"tool_use","id":"t1","name":"Bash","input":{}}]}}`,
		`{"type":"user","timestamp":"2025-01-10T00:01:00Z","message":{"content":[{"type":"tool_result","tool_use_id":"t1"}]}}`,
	)})

	r := acc.Report(Window{Days: 1}, cutoff.Add(time.Hour))
	assert.Empty(t, r.Productivity.ToolUsage, "success is never counted without its invocation")
}

func TestAccumulator_HourAndWeekdayAlwaysComplete(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))

	require.Len(t, r.Trends.ByHour, 24)
	require.Len(t, r.Trends.ByWeekday, 7)
	for i, h := range r.Trends.ByHour {
		assert.Equal(t, i, h.Hour)
	}
	assert.Equal(t, "Sunday", r.Trends.ByWeekday[0].DayName)
	assert.NotNil(t, r.Daily)
	assert.Empty(t, r.Daily)
	assert.NotNil(t, r.ByProject)
	assert.NotNil(t, r.Productivity.ToolUsage)
	assert.Equal(t, 0.0, r.Productivity.AgentUsageRate)
}

func TestAccumulator_SortsByTotalTokens(t *testing.T) {
	acc := NewAccumulator(time.Time{}, time.UTC, nil)
	acc.AddSession(SessionInput{ID: "s1", ProjectID: "small", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", "claude-3-5-haiku-20241022", 1, 0, 0, 0),
	)})
	acc.AddSession(SessionInput{ID: "s2", ProjectID: "big", Records: records(t,
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 100, 0, 0, 0),
	)})

	r := acc.Report(Window{}, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "big", r.ByProject[0].ProjectID)
	assert.Equal(t, sonnet, r.ByModel[0].Model)
	assert.Equal(t, sonnet, r.Cost.ByModel[0].Model)
	assert.Equal(t, 2, r.Overview.TotalProjects)
}

// --- engine ---

func TestEngine_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "-home-me-app", "a", jsonl(
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:05Z", sonnet, 100, 50, 0, 0),
	))
	writeSession(t, root, "-home-me-app", "b", jsonl(
		userLine("2025-01-11T14:00:00Z"),
		assistantLine("2025-01-11T14:00:05Z", sonnet, 200, 100, 0, 500),
	))

	now := time.Date(2025, 1, 12, 18, 0, 0, 0, time.UTC)
	r, err := newTestEngine(root, now).Overall(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "7", r.Overview.Period)
	assert.Equal(t, int64(950), r.Overview.TokenUsage.TotalTokens)
	assert.Equal(t, 2, r.Overview.TotalSessions)
	assert.Equal(t, 1, r.Overview.TotalProjects)

	require.Len(t, r.Daily, 7)
	assert.Equal(t, "2025-01-06", r.Daily[0].Date)
	byDate := make(map[string]DailyStat)
	for _, d := range r.Daily {
		byDate[d.Date] = d
	}
	assert.Equal(t, int64(150), byDate["2025-01-10"].TokenUsage.TotalTokens)
	assert.Equal(t, int64(800), byDate["2025-01-11"].TokenUsage.TotalTokens)
	assert.Zero(t, byDate["2025-01-12"].TokenUsage.TotalTokens)
	assert.Zero(t, byDate["2025-01-06"].TokenUsage.TotalTokens)

	require.Len(t, r.ByProject, 1)
	assert.Equal(t, 2, r.ByProject[0].SessionCount)
	assert.Equal(t, "-home-me-app", r.ByProject[0].ProjectID)

	assert.Equal(t, int64(500), r.Cache.TotalCacheRead)
	assert.Equal(t, 100.0, r.Cache.CacheHitRate)
	assert.InDelta(t, 0.00135, r.Cache.EstimatedSavings, 1e-12)

	// 0.00105 + 0.00225, summed per message
	assert.InDelta(t, 0.0033, r.Cost.TotalCost, 1e-12)
	assert.InDelta(t, 0.0009, r.Cost.ByCategory.Input, 1e-12)
}

func TestEngine_ClaudeCodeTranscript(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "-home-me-api", "s1", jsonl(
		`{"type":"summary","summary":"Read main","leafUuid":"u3"}`,
		`{"parentUuid":null,"isSidechain":false,"userType":"external","cwd":"/home/me/api","sessionId":"s1","version":"2.0.14","type":"user","message":{"role":"user","content":"read main.go"},"uuid":"u1","timestamp":"2025-10-01T11:59:58.001Z"}`,
		`{"parentUuid":"u1","isSidechain":false,"userType":"external","cwd":"/home/me/api","sessionId":"s1","version":"2.0.14","message":{"id":"msg_01","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929","content":[{"type":"thinking","thinking":"open it","signature":"c2ln"},{"type":"tool_use","id":"toolu_9","name":"Read","input":{"file_path":"/home/me/api/main.go"}}],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":4,"cache_creation_input_tokens":1200,"cache_read_input_tokens":15000,"cache_creation":{"ephemeral_5m_input_tokens":0,"ephemeral_1h_input_tokens":1200},"output_tokens":80,"server_tool_use":{"web_search_requests":0,"web_fetch_requests":0},"service_tier":"standard"}},"requestId":"req_011","type":"assistant","uuid":"u2","timestamp":"2025-10-01T12:00:00.123Z"}`,
		`{"parentUuid":"u2","isSidechain":false,"userType":"external","cwd":"/home/me/api","sessionId":"s1","version":"2.0.14","type":"user","message":{"role":"user","content":[{"tool_use_id":"toolu_9","type":"tool_result","content":"package main"}]},"uuid":"u3","timestamp":"2025-10-01T12:00:01.456Z","toolUseResult":{"type":"text","file":{"filePath":"/home/me/api/main.go","numLines":1}}}`,
		`{"type":"assistant","timestamp":"","message":{"model":"claude-sonnet-4-5-20250929","usage":{"output_tokens":999}}}`,
	))

	now := time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC)
	r, err := newTestEngine(root, now).Overall(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, 1, r.Overview.TotalSessions)
	assert.Equal(t, 1, r.Overview.TotalMessages)
	assert.Equal(t, int64(16284), r.Overview.TokenUsage.TotalTokens)
	assert.Equal(t, int64(1200), r.Cache.Ephemeral1hTokens)
	require.Len(t, r.ByProject, 1)
	assert.Equal(t, "-home-me-api", r.ByProject[0].ProjectID)

	require.Len(t, r.Productivity.ToolUsage, 1)
	assert.Equal(t, "Read", r.Productivity.ToolUsage[0].ToolName)
	assert.Equal(t, 1, r.Productivity.ToolUsage[0].SuccessCount)
}

func TestEngine_SubSessionsFoldIntoParent(t *testing.T) {
	root := t.TempDir()
	project := "-home-me-app"
	writeSession(t, root, project, "main", jsonl(
		userLine("2025-01-10T09:00:00Z"),
		`{"type":"assistant","timestamp":"2025-01-10T09:00:01Z","message":{"model":"claude-sonnet-4-5-20250929","usage":{"input_tokens":10},"content":[{"type":"tool_use","id":"t1","name":"Task","input":{"description":"dig"}}]}}`,
		`{"type":"user","timestamp":"2025-01-10T09:05:00Z","message":{"content":[{"type":"tool_result","tool_use_id":"t1"}]},"toolUseResult":{"agentId":"abc"}}`,
	))
	writeSession(t, root, project, "agent-abc", jsonl(
		userLine("2025-01-10T09:00:02Z"),
		assistantLine("2025-01-10T09:00:03Z", sonnet, 1000, 0, 0, 0),
	))
	writeSession(t, root, project, "agent-orphan", jsonl(
		userLine("2025-01-10T09:00:02Z"),
		assistantLine("2025-01-10T09:00:03Z", sonnet, 50000, 0, 0, 0),
	))

	now := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	engine := newTestEngine(root, now)

	r, err := engine.Overall(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Overview.TotalSessions)
	assert.Equal(t, int64(1010), r.Overview.TokenUsage.TotalTokens)
	assert.Equal(t, 1, r.Productivity.SessionsWithAgents)
	assert.Equal(t, 100.0, r.Productivity.AgentUsageRate)

	require.NoError(t, os.Remove(filepath.Join(root, project, "agent-abc.jsonl")))
	r, err = engine.Overall(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Overview.TotalSessions)
	assert.Equal(t, int64(10), r.Overview.TokenUsage.TotalTokens)
	assert.Zero(t, r.Productivity.SessionsWithAgents)
}

func TestEngine_SkipsBrokenAndEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "p", "good", jsonl(
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 5, 5, 0, 0),
	))
	writeSession(t, root, "p", "broken", "{oops\n")
	writeSession(t, root, "p", "empty", "")

	r, err := newTestEngine(root, time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)).Overall(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Overview.TotalSessions)
	assert.Equal(t, int64(10), r.Overview.TokenUsage.TotalTokens)
}

func TestEngine_Project(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "p1", "s1", jsonl(
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 5, 5, 0, 0),
	))
	writeSession(t, root, "p2", "s2", jsonl(
		userLine("2025-01-10T09:00:00Z"),
		assistantLine("2025-01-10T09:00:01Z", sonnet, 100, 100, 0, 0),
	))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "idle"), 0o755))

	engine := newTestEngine(root, time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC))

	r, err := engine.Project(context.Background(), "p1", "7")
	require.NoError(t, err)
	require.Len(t, r.ByProject, 1)
	assert.Equal(t, "p1", r.ByProject[0].ProjectID)
	assert.Equal(t, int64(10), r.Overview.TokenUsage.TotalTokens)

	r, err = engine.Project(context.Background(), "idle", "30")
	require.NoError(t, err)
	require.Len(t, r.ByProject, 1)
	assert.Zero(t, r.ByProject[0].SessionCount)
	assert.Len(t, r.Daily, 30)
	assert.Len(t, r.Trends.ByHour, 24)
	assert.Len(t, r.Trends.ByWeekday, 7)

	_, err = engine.Project(context.Background(), "missing", "7")
	assert.True(t, errors.Is(err, projects.ErrProjectNotFound))

	_, err = engine.Project(context.Background(), "p1", "nope")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestEngine_AllWindowWithoutData(t *testing.T) {
	r, err := newTestEngine(t.TempDir(), time.Now()).Overall(context.Background(), "all")
	require.NoError(t, err)
	assert.Equal(t, "all", r.Overview.Period)
	assert.Empty(t, r.Daily)
	assert.Equal(t, DateRange{}, r.Overview.DateRange)
}

func TestEngine_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "p", "s", jsonl(userLine("2025-01-10T09:00:00Z")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine(root, time.Now()).Overall(ctx, "7")
	assert.ErrorIs(t, err, context.Canceled)
}
