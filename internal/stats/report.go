package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Report assembles the accumulated state into a report for window w as of
// now. It may be called once all sessions are folded.
func (a *Accumulator) Report(w Window, now time.Time) *Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	daily := a.assembleDaily(w, now)
	r := &Report{
		Overview: Overview{
			Period:        w.String(),
			TotalSessions: a.totals.sessionCount(),
			TotalMessages: a.totals.messages,
			TotalProjects: lo.CountBy(a.projects.order, func(id string) bool {
				return a.projects.m[id].sessionCount() > 0
			}),
			TokenUsage: a.totals.usage,
		},
		Daily:        daily,
		ByProject:    a.assembleProjects(),
		ByModel:      a.assembleModels(),
		Cache:        a.assembleCache(),
		Cost:         a.assembleCost(),
		Productivity: a.assembleProductivity(),
		Trends:       a.assembleTrends(),
	}
	if len(daily) > 0 {
		r.Overview.DateRange = DateRange{Start: daily[0].Date, End: daily[len(daily)-1].Date}
	}
	return r
}

// assembleDaily lists every local date from the window start through today,
// or through the latest observed date when that is later.
func (a *Accumulator) assembleDaily(w Window, now time.Time) []DailyStat {
	var start time.Time
	if w.All() {
		if a.firstSeen.IsZero() {
			return []DailyStat{}
		}
		start = startOfDay(a.firstSeen, a.loc)
	} else {
		start = startOfDay(w.Cutoff(now, a.loc), a.loc)
	}

	end := startOfDay(now, a.loc)
	if !a.lastSeen.IsZero() {
		if last := startOfDay(a.lastSeen, a.loc); last.After(end) {
			end = last
		}
	}

	out := []DailyStat{}
	for day := start; !day.After(end); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, a.loc) {
		date := day.Format(dateLayout)
		stat := DailyStat{Date: date}
		if b, ok := a.daily.m[date]; ok {
			stat.TokenUsage = b.usage
			stat.SessionCount = b.sessionCount()
			stat.MessageCount = b.messages
			stat.Cost = b.cost.InexactFloat64()
		}
		out = append(out, stat)
	}
	return out
}

func (a *Accumulator) assembleProjects() []ProjectStat {
	out := lo.Map(a.projects.order, func(id string, _ int) ProjectStat {
		b := a.projects.m[id]
		return ProjectStat{
			ProjectID:    id,
			ProjectName:  a.projectNames[id],
			TokenUsage:   b.usage,
			SessionCount: b.sessionCount(),
			MessageCount: b.messages,
			Cost:         b.cost.InexactFloat64(),
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TokenUsage.TotalTokens > out[j].TokenUsage.TotalTokens
	})
	return out
}

func (a *Accumulator) assembleModels() []ModelStat {
	out := lo.Map(a.models.order, func(model string, _ int) ModelStat {
		b := a.models.m[model]
		return ModelStat{
			Model:        model,
			TokenUsage:   b.usage,
			SessionCount: b.sessionCount(),
			MessageCount: b.messages,
			Cost:         b.cost.InexactFloat64(),
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TokenUsage.TotalTokens > out[j].TokenUsage.TotalTokens
	})
	return out
}

func (a *Accumulator) assembleCache() CacheStats {
	created := a.totals.usage.CacheCreationTokens
	read := a.totals.usage.CacheReadTokens

	def := a.pricing.Default()
	savings := perMillion(read, def.InputPerMillion).Sub(perMillion(read, def.CacheReadPerMillion))

	return CacheStats{
		TotalCacheCreation: created,
		TotalCacheRead:     read,
		Ephemeral5mTokens:  a.ephemeral5m,
		Ephemeral1hTokens:  a.ephemeral1h,
		CacheHitRate:       percent(read, read+created),
		EstimatedSavings:   savings.InexactFloat64(),
	}
}

// assembleCost reports the sum of per-message costs, each message priced by
// its own model.
func (a *Accumulator) assembleCost() CostStats {
	byModel := lo.Map(a.models.order, func(model string, _ int) ModelCost {
		return ModelCost{Model: model, Cost: a.models.m[model].cost.InexactFloat64()}
	})
	sort.SliceStable(byModel, func(i, j int) bool {
		return byModel[i].Cost > byModel[j].Cost
	})

	return CostStats{
		TotalCost: a.costs.Total().InexactFloat64(),
		ByCategory: CostCategory{
			Input:         a.costs.Input.InexactFloat64(),
			Output:        a.costs.Output.InexactFloat64(),
			CacheCreation: a.costs.CacheCreation.InexactFloat64(),
			CacheRead:     a.costs.CacheRead.InexactFloat64(),
		},
		ByModel: byModel,
	}
}

func (a *Accumulator) assembleProductivity() ProductivityStats {
	tools := lo.Map(a.toolOrder, func(name string, _ int) ToolStat {
		c := a.tools[name]
		return ToolStat{
			ToolName:     name,
			TotalCalls:   c.total,
			SuccessCount: c.success,
			SuccessRate:  percent(int64(c.success), int64(c.total)),
		}
	})
	sort.SliceStable(tools, func(i, j int) bool {
		return tools[i].TotalCalls > tools[j].TotalCalls
	})

	totalSessions := a.totals.sessionCount()
	return ProductivityStats{
		ToolUsage:          tools,
		TotalToolCalls:     lo.SumBy(tools, func(t ToolStat) int { return t.TotalCalls }),
		SessionsWithAgents: a.sessionsWithAgents,
		AgentUsageRate:     percent(int64(a.sessionsWithAgents), int64(totalSessions)),
	}
}

func (a *Accumulator) assembleTrends() Trends {
	hours := make([]HourStat, 0, len(a.hours))
	for h := range a.hours {
		b := &a.hours[h]
		hours = append(hours, HourStat{Hour: h, TokenUsage: b.usage, SessionCount: b.sessionCount(), MessageCount: b.messages})
	}
	weekdays := make([]WeekdayStat, 0, len(a.weekdays))
	for d := range a.weekdays {
		b := &a.weekdays[d]
		weekdays = append(weekdays, WeekdayStat{
			Weekday:      d,
			DayName:      weekdayNames[d],
			TokenUsage:   b.usage,
			SessionCount: b.sessionCount(),
			MessageCount: b.messages,
		})
	}
	return Trends{ByHour: hours, ByWeekday: weekdays}
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole)).InexactFloat64()
}
