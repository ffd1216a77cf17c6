package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"ccviewer/internal/stats"
)

// Reporter builds the overall report for a window selector.
type Reporter interface {
	Overall(ctx context.Context, window string) (*stats.Report, error)
}

// Scheduler snapshots the overall report into Dir on a cron schedule.
type Scheduler struct {
	reporter Reporter
	spec     string
	dir      string
	period   string
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// NewScheduler returns a scheduler that, once started, writes a report for
// period into dir every time spec fires.
func NewScheduler(reporter Reporter, spec, dir, period string) *Scheduler {
	if period == "" {
		period = stats.DefaultWindow
	}
	return &Scheduler{
		reporter: reporter,
		spec:     spec,
		dir:      dir,
		period:   period,
		now:      time.Now,
	}
}

// Start validates the inputs and registers the export job.
func (s *Scheduler) Start() error {
	if _, err := stats.ParseWindow(s.period); err != nil {
		return err
	}
	if s.dir == "" {
		return fmt.Errorf("export dir is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("export scheduler already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, s.fire); err != nil {
		return fmt.Errorf("invalid export schedule %q: %w", s.spec, err)
	}
	c.Start()
	s.cron = c
	log.Info().Str("schedule", s.spec).Str("dir", s.dir).Str("period", s.period).Msg("export scheduler started")
	return nil
}

// Stop shuts the cron runner down, waiting for a running export to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	log.Info().Msg("export scheduler stopped")
}

func (s *Scheduler) fire() {
	path, err := s.RunOnce(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("scheduled export failed")
		return
	}
	log.Info().Str("path", path).Msg("report exported")
}

// RunOnce builds the report now and writes it into the export directory,
// returning the written path.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	report, err := s.reporter.Overall(ctx, s.period)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, FileName(s.period, s.now()))
	if err := WriteJSON(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// FileName names a snapshot taken at t.
func FileName(period string, t time.Time) string {
	return fmt.Sprintf("ccviewer-report-%s-%s.json", period, t.Format("20060102-150405"))
}
