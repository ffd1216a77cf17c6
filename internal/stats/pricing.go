package stats

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"

	"ccviewer/internal/transcript"
)

// DefaultModel prices any model the table does not know.
const DefaultModel = anthropic.Model("claude-sonnet-4-5-20250929")

// ModelPricing holds per-million-token pricing for a model.
type ModelPricing struct {
	InputPerMillion      float64 `yaml:"input" json:"input"`            // USD per 1M input tokens
	OutputPerMillion     float64 `yaml:"output" json:"output"`          // USD per 1M output tokens
	CacheWritePerMillion float64 `yaml:"cache_write" json:"cacheWrite"` // USD per 1M cache creation tokens
	CacheReadPerMillion  float64 `yaml:"cache_read" json:"cacheRead"`   // USD per 1M cache read tokens
}

// builtinPricing maps model name prefixes to their pricing.
var builtinPricing = map[anthropic.Model]ModelPricing{
	"claude-opus-4-6":   {InputPerMillion: 5.0, OutputPerMillion: 25.0, CacheWritePerMillion: 6.25, CacheReadPerMillion: 0.50},
	"claude-opus-4-5":   {InputPerMillion: 5.0, OutputPerMillion: 25.0, CacheWritePerMillion: 6.25, CacheReadPerMillion: 0.50},
	"claude-opus-4-1":   {InputPerMillion: 15.0, OutputPerMillion: 75.0, CacheWritePerMillion: 18.75, CacheReadPerMillion: 1.50},
	"claude-opus-4":     {InputPerMillion: 15.0, OutputPerMillion: 75.0, CacheWritePerMillion: 18.75, CacheReadPerMillion: 1.50},
	"claude-sonnet-4-6": {InputPerMillion: 3.0, OutputPerMillion: 15.0, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-sonnet-4-5": {InputPerMillion: 3.0, OutputPerMillion: 15.0, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-sonnet-4":   {InputPerMillion: 3.0, OutputPerMillion: 15.0, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-3-7-sonnet": {InputPerMillion: 3.0, OutputPerMillion: 15.0, CacheWritePerMillion: 3.75, CacheReadPerMillion: 0.30},
	"claude-haiku-4-5":  {InputPerMillion: 1.0, OutputPerMillion: 5.0, CacheWritePerMillion: 1.25, CacheReadPerMillion: 0.10},
	"claude-3-5-haiku":  {InputPerMillion: 0.80, OutputPerMillion: 4.0, CacheWritePerMillion: 1.0, CacheReadPerMillion: 0.08},
	"claude-3-haiku":    {InputPerMillion: 0.25, OutputPerMillion: 1.25, CacheWritePerMillion: 0.30, CacheReadPerMillion: 0.03},
}

// Pricing resolves model ids to prices. It never fails: unknown ids get the
// default model's prices.
type Pricing struct {
	table        map[anthropic.Model]ModelPricing
	defaultModel anthropic.Model
	fallback     ModelPricing
}

// NewPricing builds a resolver from the builtin table plus overrides, which
// replace or add entries. An empty defaultModel means DefaultModel.
func NewPricing(overrides map[string]ModelPricing, defaultModel string) *Pricing {
	p := &Pricing{
		table:        make(map[anthropic.Model]ModelPricing, len(builtinPricing)+len(overrides)),
		defaultModel: DefaultModel,
	}
	for k, v := range builtinPricing {
		p.table[k] = v
	}
	for k, v := range overrides {
		p.table[anthropic.Model(k)] = v
	}
	if defaultModel != "" {
		p.defaultModel = anthropic.Model(defaultModel)
	}

	if m, ok := p.lookup(p.defaultModel); ok {
		p.fallback = m
	} else {
		p.fallback, _ = p.lookup(DefaultModel)
	}
	return p
}

// lookup matches by exact id, then by longest prefix, so
// "claude-sonnet-4-5-20250929" matches "claude-sonnet-4-5".
func (p *Pricing) lookup(model anthropic.Model) (ModelPricing, bool) {
	if m, ok := p.table[model]; ok {
		return m, true
	}
	var best anthropic.Model
	for key := range p.table {
		if strings.HasPrefix(string(model), string(key)) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return p.table[best], true
	}
	return ModelPricing{}, false
}

// Resolve returns the pricing for a model id.
func (p *Pricing) Resolve(model string) ModelPricing {
	if m, ok := p.lookup(anthropic.Model(model)); ok {
		return m
	}
	return p.fallback
}

// Default returns the default model's pricing.
func (p *Pricing) Default() ModelPricing {
	return p.fallback
}

// DefaultModel returns the model id unknown models are priced as.
func (p *Pricing) DefaultModel() string {
	return string(p.defaultModel)
}

// CostBreakdown is an exact USD cost split by token kind.
type CostBreakdown struct {
	Input         decimal.Decimal
	Output        decimal.Decimal
	CacheCreation decimal.Decimal
	CacheRead     decimal.Decimal
}

// Total is the sum of the four components.
func (c CostBreakdown) Total() decimal.Decimal {
	return c.Input.Add(c.Output).Add(c.CacheCreation).Add(c.CacheRead)
}

// Add returns the component-wise sum.
func (c CostBreakdown) Add(o CostBreakdown) CostBreakdown {
	return CostBreakdown{
		Input:         c.Input.Add(o.Input),
		Output:        c.Output.Add(o.Output),
		CacheCreation: c.CacheCreation.Add(o.CacheCreation),
		CacheRead:     c.CacheRead.Add(o.CacheRead),
	}
}

// Cost prices a usage: each component is tokens / 1M * price.
func Cost(u transcript.TokenUsage, p ModelPricing) CostBreakdown {
	return CostBreakdown{
		Input:         perMillion(u.InputTokens, p.InputPerMillion),
		Output:        perMillion(u.OutputTokens, p.OutputPerMillion),
		CacheCreation: perMillion(u.CacheCreationTokens, p.CacheWritePerMillion),
		CacheRead:     perMillion(u.CacheReadTokens, p.CacheReadPerMillion),
	}
}

func perMillion(tokens int64, price float64) decimal.Decimal {
	return decimal.NewFromInt(tokens).Mul(decimal.NewFromFloat(price)).Shift(-6)
}
