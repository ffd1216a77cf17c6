package stats

import "ccviewer/internal/transcript"

// TokenUsage is re-exported so report consumers need not import transcript.
type TokenUsage = transcript.TokenUsage

// Report is the full statistics view of one window, optionally scoped to a
// single project. Every slice is non-nil so JSON output never carries null.
type Report struct {
	Overview     Overview          `json:"overview"`
	Daily        []DailyStat       `json:"daily"`
	ByProject    []ProjectStat     `json:"byProject"`
	ByModel      []ModelStat       `json:"byModel"`
	Cache        CacheStats        `json:"cache"`
	Cost         CostStats         `json:"cost"`
	Productivity ProductivityStats `json:"productivity"`
	Trends       Trends            `json:"trends"`
}

// Overview holds the report totals.
type Overview struct {
	Period        string     `json:"period"`
	TotalSessions int        `json:"totalSessions"`
	TotalMessages int        `json:"totalMessages"`
	TotalProjects int        `json:"totalProjects"`
	TokenUsage    TokenUsage `json:"tokenUsage"`
	DateRange     DateRange  `json:"dateRange"`
}

// DateRange is the inclusive span of the daily list, as local dates.
// Both ends are empty when the list is empty.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DailyStat aggregates usage by local calendar date.
type DailyStat struct {
	Date         string     `json:"date"` // "2025-01-10"
	TokenUsage   TokenUsage `json:"tokenUsage"`
	SessionCount int        `json:"sessionCount"`
	MessageCount int        `json:"messageCount"`
	Cost         float64    `json:"cost"`
}

// ProjectStat aggregates usage by raw project id.
type ProjectStat struct {
	ProjectID    string     `json:"projectId"`
	ProjectName  string     `json:"projectName"`
	TokenUsage   TokenUsage `json:"tokenUsage"`
	SessionCount int        `json:"sessionCount"`
	MessageCount int        `json:"messageCount"`
	Cost         float64    `json:"cost"`
}

// ModelStat aggregates usage by model id.
type ModelStat struct {
	Model        string     `json:"model"`
	TokenUsage   TokenUsage `json:"tokenUsage"`
	SessionCount int        `json:"sessionCount"`
	MessageCount int        `json:"messageCount"`
	Cost         float64    `json:"cost"`
}

// CacheStats describes prompt cache efficiency.
type CacheStats struct {
	TotalCacheCreation int64   `json:"totalCacheCreation"`
	TotalCacheRead     int64   `json:"totalCacheRead"`
	Ephemeral5mTokens  int64   `json:"ephemeral5mTokens"`
	Ephemeral1hTokens  int64   `json:"ephemeral1hTokens"`
	CacheHitRate       float64 `json:"cacheHitRate"`     // percent
	EstimatedSavings   float64 `json:"estimatedSavings"` // USD
}

// CostStats is the USD cost breakdown.
type CostStats struct {
	TotalCost  float64      `json:"totalCost"`
	ByCategory CostCategory `json:"byCategory"`
	ByModel    []ModelCost  `json:"byModel"`
}

// CostCategory splits cost by token kind.
type CostCategory struct {
	Input         float64 `json:"input"`
	Output        float64 `json:"output"`
	CacheCreation float64 `json:"cacheCreation"`
	CacheRead     float64 `json:"cacheRead"`
}

// ModelCost represents cost aggregation for a single model.
type ModelCost struct {
	Model string  `json:"model"`
	Cost  float64 `json:"cost"`
}

// ProductivityStats covers tool calls and agent usage.
type ProductivityStats struct {
	ToolUsage          []ToolStat `json:"toolUsage"`
	TotalToolCalls     int        `json:"totalToolCalls"`
	SessionsWithAgents int        `json:"sessionsWithAgents"`
	AgentUsageRate     float64    `json:"agentUsageRate"` // percent
}

// ToolStat counts invocations and successful outcomes of one tool.
type ToolStat struct {
	ToolName     string  `json:"toolName"`
	TotalCalls   int     `json:"totalCalls"`
	SuccessCount int     `json:"successCount"`
	SuccessRate  float64 `json:"successRate"` // percent
}

// Trends holds the hour-of-day and weekday distributions.
type Trends struct {
	ByHour    []HourStat    `json:"byHour"`
	ByWeekday []WeekdayStat `json:"byWeekday"`
}

// HourStat is one local hour of the day, 0 through 23.
type HourStat struct {
	Hour         int        `json:"hour"`
	TokenUsage   TokenUsage `json:"tokenUsage"`
	SessionCount int        `json:"sessionCount"`
	MessageCount int        `json:"messageCount"`
}

// WeekdayStat is one local weekday, 0 (Sunday) through 6.
type WeekdayStat struct {
	Weekday      int        `json:"weekday"`
	DayName      string     `json:"dayName"`
	TokenUsage   TokenUsage `json:"tokenUsage"`
	SessionCount int        `json:"sessionCount"`
	MessageCount int        `json:"messageCount"`
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
