package transcript

import "time"

// TokenUsage is the token accounting of one or more assistant messages.
// TotalTokens is always the sum of the four counters.
type TokenUsage struct {
	InputTokens         int64 `json:"inputTokens"`
	OutputTokens        int64 `json:"outputTokens"`
	CacheCreationTokens int64 `json:"cacheCreationTokens"`
	CacheReadTokens     int64 `json:"cacheReadTokens"`
	TotalTokens         int64 `json:"totalTokens"`
}

// Add returns the field-wise sum of u and o with the total recomputed.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	sum := TokenUsage{
		InputTokens:         u.InputTokens + o.InputTokens,
		OutputTokens:        u.OutputTokens + o.OutputTokens,
		CacheCreationTokens: u.CacheCreationTokens + o.CacheCreationTokens,
		CacheReadTokens:     u.CacheReadTokens + o.CacheReadTokens,
	}
	sum.TotalTokens = sum.InputTokens + sum.OutputTokens + sum.CacheCreationTokens + sum.CacheReadTokens
	return sum
}

// UsageFact is the token usage reported by one assistant record.
type UsageFact struct {
	TokenUsage
	Ephemeral5mTokens int64
	Ephemeral1hTokens int64
	Model             string
	Timestamp         time.Time
}

// ExtractTokenUsage returns the usage fact of an assistant record that carries
// a usage block. Missing counters count as zero.
func ExtractTokenUsage(rec Record) (UsageFact, bool) {
	if rec.Kind != KindAssistant || rec.Message == nil || rec.Message.Usage == nil {
		return UsageFact{}, false
	}
	u := rec.Message.Usage

	usage := TokenUsage{}.Add(TokenUsage{
		InputTokens:         u.InputTokens,
		OutputTokens:        u.OutputTokens,
		CacheCreationTokens: u.CacheCreationInputTokens,
		CacheReadTokens:     u.CacheReadInputTokens,
	})
	return UsageFact{
		TokenUsage:        usage,
		Ephemeral5mTokens: u.CacheCreation.Ephemeral5mInputTokens,
		Ephemeral1hTokens: u.CacheCreation.Ephemeral1hInputTokens,
		Model:             string(rec.Message.Model),
		Timestamp:         rec.Timestamp,
	}, true
}

// ToolInvocation is one tool_use item issued by the assistant.
type ToolInvocation struct {
	ID        string
	Name      string
	Timestamp time.Time
}

// ToolFact is a resolved tool outcome.
type ToolFact struct {
	ToolName   string
	Succeeded  bool
	InvokedAt  time.Time
	ResolvedAt time.Time
}

// ExtractToolInvocations lists every assistant tool invocation in source order.
func ExtractToolInvocations(records []Record) []ToolInvocation {
	var out []ToolInvocation
	for _, rec := range records {
		if rec.Kind != KindAssistant {
			continue
		}
		for _, item := range rec.Items() {
			if use, ok := item.(ToolUse); ok && use.ID != "" && use.Name != "" {
				out = append(out, ToolInvocation{ID: use.ID, Name: use.Name, Timestamp: rec.Timestamp})
			}
		}
	}
	return out
}

// ExtractToolFacts resolves every tool outcome of a session against the
// invocations declared in the same session. Outcomes that match no invocation
// are dropped, and each outcome id is resolved at most once. A repeated
// invocation id resolves to its first occurrence.
func ExtractToolFacts(records []Record) []ToolFact {
	invocations := make(map[string]ToolInvocation)
	for _, inv := range ExtractToolInvocations(records) {
		if _, seen := invocations[inv.ID]; !seen {
			invocations[inv.ID] = inv
		}
	}

	var facts []ToolFact
	resolved := make(map[string]struct{})
	for _, rec := range records {
		for _, item := range rec.Items() {
			switch it := item.(type) {
			case ToolResult:
				inv, ok := invocations[it.ToolUseID]
				if !ok {
					continue
				}
				if _, done := resolved[it.ToolUseID]; done {
					continue
				}
				resolved[it.ToolUseID] = struct{}{}
				facts = append(facts, ToolFact{
					ToolName:   inv.Name,
					Succeeded:  !it.IsError,
					InvokedAt:  inv.Timestamp,
					ResolvedAt: rec.Timestamp,
				})
			case Text, ToolUse, Other:
			}
		}
	}
	return facts
}
