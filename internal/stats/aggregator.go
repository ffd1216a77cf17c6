package stats

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ccviewer/internal/transcript"
)

const unknownModel = "unknown"

// bucket accumulates usage for one grouping key.
type bucket struct {
	usage    transcript.TokenUsage
	sessions map[string]struct{}
	messages int
	cost     decimal.Decimal
}

func (b *bucket) add(u transcript.TokenUsage, sessionID string, cost decimal.Decimal) {
	if b.sessions == nil {
		b.sessions = make(map[string]struct{})
	}
	b.usage = b.usage.Add(u)
	b.sessions[sessionID] = struct{}{}
	b.messages++
	b.cost = b.cost.Add(cost)
}

func (b *bucket) sessionCount() int {
	return len(b.sessions)
}

// bucketSet is a keyed set of buckets that remembers first-seen order so
// stable sorts are deterministic for a given fold order.
type bucketSet struct {
	order []string
	m     map[string]*bucket
}

func newBucketSet() bucketSet {
	return bucketSet{m: make(map[string]*bucket)}
}

func (s *bucketSet) get(key string) *bucket {
	b, ok := s.m[key]
	if !ok {
		b = &bucket{}
		s.m[key] = b
		s.order = append(s.order, key)
	}
	return b
}

type toolCounter struct {
	total   int
	success int
}

// SessionInput is one main session ready to fold, with the records of the
// agent sessions it links to.
type SessionInput struct {
	ID          string
	ProjectID   string
	ProjectName string
	Records     []transcript.Record
	SubSessions [][]transcript.Record
}

// Accumulator folds sessions into every grouping of a report. It lives for
// one request; AddSession is safe for concurrent use and folds each session
// as a unit.
type Accumulator struct {
	mu      sync.Mutex
	cutoff  time.Time
	loc     *time.Location
	pricing *Pricing

	totals   bucket
	daily    bucketSet
	projects bucketSet
	models   bucketSet
	hours    [24]bucket
	weekdays [7]bucket

	tools     map[string]*toolCounter
	toolOrder []string

	projectNames       map[string]string
	costs              CostBreakdown
	ephemeral5m        int64
	ephemeral1h        int64
	sessionsWithAgents int

	firstSeen time.Time
	lastSeen  time.Time
}

// NewAccumulator returns an empty accumulator for messages at or after cutoff.
func NewAccumulator(cutoff time.Time, loc *time.Location, pricing *Pricing) *Accumulator {
	if loc == nil {
		loc = time.Local
	}
	if pricing == nil {
		pricing = NewPricing(nil, "")
	}
	return &Accumulator{
		cutoff:       cutoff,
		loc:          loc,
		pricing:      pricing,
		daily:        newBucketSet(),
		projects:     newBucketSet(),
		models:       newBucketSet(),
		tools:        make(map[string]*toolCounter),
		projectNames: make(map[string]string),
	}
}

// seedProject makes the project appear in the report even when none of its
// sessions has an in-window message.
func (a *Accumulator) seedProject(id, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.projects.get(id)
	a.projectNames[id] = name
}

type pricedFact struct {
	transcript.UsageFact
	cost CostBreakdown
}

// AddSession folds one main session. Degenerate sessions and agent sessions
// passed directly are ignored; agent sessions only count through
// SubSessions, under the parent's id.
func (a *Accumulator) AddSession(in SessionInput) {
	if transcript.ShouldSkip(in.Records) || transcript.IsSubSession(in.ID) {
		return
	}

	var facts []pricedFact
	var invocations []transcript.ToolInvocation
	var outcomes []transcript.ToolFact
	collect := func(records []transcript.Record) {
		for _, rec := range records {
			if !inWindow(rec.Timestamp, a.cutoff) {
				continue
			}
			fact, ok := transcript.ExtractTokenUsage(rec)
			if !ok {
				continue
			}
			if fact.Model == "" {
				fact.Model = unknownModel
			}
			facts = append(facts, pricedFact{UsageFact: fact, cost: Cost(fact.TokenUsage, a.pricing.Resolve(fact.Model))})
		}
		invocations = append(invocations, dedupInvocations(transcript.ExtractToolInvocations(records))...)
		outcomes = append(outcomes, transcript.ExtractToolFacts(records)...)
	}

	collect(in.Records)
	for _, sub := range in.SubSessions {
		if !transcript.ShouldSkip(sub) {
			collect(sub)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, f := range facts {
		a.addFact(in, f)
	}
	if len(facts) > 0 && len(in.SubSessions) > 0 {
		a.sessionsWithAgents++
	}

	for _, inv := range invocations {
		if inWindow(inv.Timestamp, a.cutoff) {
			a.tool(inv.Name).total++
		}
	}
	for _, out := range outcomes {
		if out.Succeeded && inWindow(out.InvokedAt, a.cutoff) && inWindow(out.ResolvedAt, a.cutoff) {
			a.tool(out.ToolName).success++
		}
	}
}

// addFact applies one usage fact to every grouping. Caller holds a.mu.
func (a *Accumulator) addFact(in SessionInput, f pricedFact) {
	local := f.Timestamp.In(a.loc)
	total := f.cost.Total()

	a.totals.add(f.TokenUsage, in.ID, total)
	a.daily.get(local.Format(dateLayout)).add(f.TokenUsage, in.ID, total)
	a.hours[local.Hour()].add(f.TokenUsage, in.ID, total)
	a.weekdays[int(local.Weekday())].add(f.TokenUsage, in.ID, total)
	a.projects.get(in.ProjectID).add(f.TokenUsage, in.ID, total)
	a.models.get(f.Model).add(f.TokenUsage, in.ID, total)

	if _, ok := a.projectNames[in.ProjectID]; !ok {
		a.projectNames[in.ProjectID] = in.ProjectName
	}
	a.costs = a.costs.Add(f.cost)
	a.ephemeral5m += f.Ephemeral5mTokens
	a.ephemeral1h += f.Ephemeral1hTokens

	if a.firstSeen.IsZero() || local.Before(a.firstSeen) {
		a.firstSeen = local
	}
	if local.After(a.lastSeen) {
		a.lastSeen = local
	}
}

func (a *Accumulator) tool(name string) *toolCounter {
	c, ok := a.tools[name]
	if !ok {
		c = &toolCounter{}
		a.tools[name] = c
		a.toolOrder = append(a.toolOrder, name)
	}
	return c
}

// dedupInvocations keeps the first invocation of each id. Claude Code may
// write the same assistant message more than once while streaming.
func dedupInvocations(in []transcript.ToolInvocation) []transcript.ToolInvocation {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, inv := range in {
		if _, ok := seen[inv.ID]; ok {
			continue
		}
		seen[inv.ID] = struct{}{}
		out = append(out, inv)
	}
	return out
}
