package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"ccviewer/internal/config"
	"ccviewer/internal/output"
	"ccviewer/internal/ui"
)

func configPath() string {
	if GlobalFlags.Config != "" {
		return GlobalFlags.Config
	}
	return config.ConfigPath
}

// RunConfigInit writes the default configuration with a freshly generated
// API token.
func RunConfigInit(force bool) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	token, err := generateToken()
	if err != nil {
		return err
	}
	cfg.HTTPTokens = []string{token}

	if err := config.SaveTo(path, cfg); err != nil {
		return err
	}
	ui.ShowSuccess("Config written to %s", path)
	ui.ShowInfo("API token: %s", token)
	return nil
}

// RunConfigShow prints the effective configuration after defaults.
func RunConfigShow(w io.Writer) error {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return err
	}
	var printErr error
	output.Print(cfg, func() {
		printErr = yaml.NewEncoder(w).Encode(cfg)
	})
	return printErr
}

// generateToken returns a random 32-char hex token.
func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
