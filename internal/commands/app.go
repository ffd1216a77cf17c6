package commands

import (
	"fmt"
	"io"
	"os"

	"ccviewer/internal/config"
	"ccviewer/internal/logging"
	"ccviewer/internal/projects"
	"ccviewer/internal/stats"
)

// Flags are the persistent root flags; they override the config file.
type Flags struct {
	JSON      bool
	Config    string
	ClaudeDir string
	LogLevel  string
	Debug     bool
	Workers   int
}

// GlobalFlags is bound by the root command.
var GlobalFlags Flags

// app is what every command reads from once the config is resolved.
type app struct {
	cfg    *config.Config
	store  *projects.Store
	engine *stats.Engine
}

// loadApp reads the config, applies flag overrides, configures logging to
// logOut and builds the store and engine.
func loadApp(logOut io.Writer) (*app, error) {
	path := GlobalFlags.Config
	if path == "" {
		path = config.ConfigPath
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if GlobalFlags.ClaudeDir != "" {
		cfg.ClaudeDir = GlobalFlags.ClaudeDir
	}
	if GlobalFlags.LogLevel != "" {
		cfg.LogLevel = GlobalFlags.LogLevel
	}
	if GlobalFlags.Workers > 0 {
		cfg.Workers = GlobalFlags.Workers
	}

	logging.Setup(logOut, cfg.LogLevel, GlobalFlags.Debug)

	root := cfg.ClaudeDir
	if root == "" {
		if root, err = projects.DefaultRoot(); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(root); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("projects dir %s: %w", root, err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store := projects.NewStore(root)
	engine := stats.NewEngine(store, stats.Options{
		Workers:  cfg.Workers,
		Location: loc,
		Pricing:  cfg.PricingResolver(),
	})
	return &app{cfg: cfg, store: store, engine: engine}, nil
}
