package commands

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"ccviewer/internal/config"
	"ccviewer/internal/export"
	"ccviewer/internal/httpserver"
	mcpserver "ccviewer/internal/mcp"
	"ccviewer/internal/watcher"
)

// RunServe is the single entry point for `ccviewer serve`.
//
// It starts the REST API, the WebSocket change feed, MCP over streamable
// HTTP at /mcp and, when configured, the scheduled report export. It returns
// after SIGINT/SIGTERM once the server has drained.
func RunServe(addr string) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = a.cfg.HTTPBind
	}
	if len(a.cfg.HTTPTokens) == 0 {
		log.Warn().Msg("no http_tokens configured, API is open to anyone who can reach " + addr)
	}

	hub := httpserver.NewHub()
	mcp := mcpserver.New(a.store, a.engine, Version)
	server := httpserver.NewHTTPServer(httpserver.Options{
		Tokens:  a.cfg.HTTPTokens,
		Version: Version,
		Store:   a.store,
		Engine:  a.engine,
		Hub:     hub,
		MCP:     mcp.HTTPHandler(),
	})

	// ── File watcher → WebSocket ────────────────────────────────────────────
	w, err := watcher.New(a.store.Root(), func(ev watcher.Event) {
		log.Debug().Str("type", string(ev.Type)).Str("project", ev.ProjectID).Str("session", ev.SessionID).Msg("archive changed")
		hub.Broadcast(ev)
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Str("root", a.store.Root()).Msg("file watcher disabled")
	}
	defer w.Stop()

	// ── Scheduled export ────────────────────────────────────────────────────
	if sched := startExport(a.cfg.Export, a.engine); sched != nil {
		defer sched.Stop()
	}

	// ── HTTP server ─────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutCtx)
}

// startExport starts the cron-driven report export when a schedule is set.
func startExport(cfg config.ExportConfig, reporter export.Reporter) *export.Scheduler {
	if cfg.Schedule == "" {
		return nil
	}
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(config.ConfigPath), "exports")
	}
	sched := export.NewScheduler(reporter, cfg.Schedule, dir, cfg.Period)
	if err := sched.Start(); err != nil {
		log.Error().Err(err).Msg("scheduled export disabled")
		return nil
	}
	return sched
}
