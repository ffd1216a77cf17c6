// Package stats computes token, cost, cache, tool and trend statistics over
// the Claude Code transcript archive.
package stats

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ccviewer/internal/projects"
	"ccviewer/internal/transcript"
)

// Options configures an Engine. Zero values pick sensible defaults.
type Options struct {
	Workers  int              // concurrent file reads, default GOMAXPROCS
	Location *time.Location   // day/hour bucketing, default time.Local
	Now      func() time.Time // clock, default time.Now
	Pricing  *Pricing         // default builtin table
}

// Engine builds reports on demand. Each call scans the archive afresh and
// folds into its own Accumulator, so concurrent calls share no state.
type Engine struct {
	store   *projects.Store
	opts    Options
	metrics engineMetrics
}

// NewEngine returns an engine reading from store.
func NewEngine(store *projects.Store, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Pricing == nil {
		opts.Pricing = NewPricing(nil, "")
	}
	return &Engine{store: store, opts: opts, metrics: newEngineMetrics()}
}

// Pricing returns the resolver reports are priced with.
func (e *Engine) Pricing() *Pricing {
	return e.opts.Pricing
}

// Overall builds the report across every project.
func (e *Engine) Overall(ctx context.Context, window string) (*Report, error) {
	w, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	defer e.metrics.observe(ctx, "overall", started)

	list, err := e.store.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	now := e.opts.Now()
	acc := NewAccumulator(w.Cutoff(now, e.opts.Location), e.opts.Location, e.opts.Pricing)
	if err := e.fold(ctx, acc, list); err != nil {
		return nil, err
	}
	return acc.Report(w, now), nil
}

// Project builds the report for a single project. It returns
// projects.ErrProjectNotFound when the project directory does not exist; a
// project without in-window activity yields an empty report with one
// byProject entry.
func (e *Engine) Project(ctx context.Context, projectID, window string) (*Report, error) {
	w, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	defer e.metrics.observe(ctx, "project", started)

	p, err := e.store.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := e.opts.Now()
	acc := NewAccumulator(w.Cutoff(now, e.opts.Location), e.opts.Location, e.opts.Pricing)
	acc.seedProject(p.ID, projects.DisplayName(p.ID))
	if err := e.fold(ctx, acc, []projects.Project{p}); err != nil {
		return nil, err
	}
	return acc.Report(w, now), nil
}

// fold reads every main session of the given projects concurrently and adds
// it to acc. Unreadable projects and files are logged and skipped.
func (e *Engine) fold(ctx context.Context, acc *Accumulator, list []projects.Project) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for _, p := range list {
		files, err := e.store.Sessions(gctx, p)
		if err != nil {
			if gctx.Err() != nil {
				break
			}
			log.Warn().Err(err).Str("project", p.ID).Msg("skip project")
			continue
		}
		index := projects.IndexByID(files)
		name := projects.DisplayName(p.ID)

		for _, f := range files {
			if f.Empty() || f.IsSubSession() {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.foldSession(gctx, acc, f, name, index)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) foldSession(ctx context.Context, acc *Accumulator, f projects.SessionFile, name string, index map[string]projects.SessionFile) {
	records, ok := e.parse(ctx, f)
	if !ok || transcript.ShouldSkip(records) {
		return
	}

	var subs [][]transcript.Record
	for _, link := range projects.ResolveLinks(records, index) {
		if link.Empty() {
			subs = append(subs, nil)
			continue
		}
		sub, _ := e.parse(ctx, link)
		subs = append(subs, sub)
	}

	acc.AddSession(SessionInput{
		ID:          f.ID,
		ProjectID:   f.ProjectID,
		ProjectName: name,
		Records:     records,
		SubSessions: subs,
	})
}

func (e *Engine) parse(ctx context.Context, f projects.SessionFile) ([]transcript.Record, bool) {
	e.metrics.scanned(ctx)
	records, err := transcript.ParseFile(f.Path)
	if err != nil {
		e.metrics.failed(ctx)
		log.Warn().Err(err).Str("project", f.ProjectID).Str("session", f.ID).Msg("skip unparseable session")
		return nil, false
	}
	return records, true
}
