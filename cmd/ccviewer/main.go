package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccviewer/internal/commands"
	"ccviewer/internal/output"
)

var rootCmd = &cobra.Command{
	Use:           "ccviewer",
	Short:         "Usage statistics for Claude Code transcripts",
	Long:          "Browse Claude Code projects and sessions and report token usage, cost, cache efficiency and activity from ~/.claude/projects",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&commands.GlobalFlags.JSON, "json", false, "Output in JSON format")
	flags.StringVar(&commands.GlobalFlags.Config, "config", "", "Config file (default ~/.ccviewer/config.yaml or $CCVIEWER_CONFIG)")
	flags.StringVar(&commands.GlobalFlags.ClaudeDir, "claude-dir", "", "Projects directory (default ~/.claude/projects)")
	flags.StringVar(&commands.GlobalFlags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&commands.GlobalFlags.Debug, "debug", false, "Enable debug logging")
	flags.IntVar(&commands.GlobalFlags.Workers, "workers", 0, "Concurrent transcript reads (default GOMAXPROCS)")

	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.ProjectsCmd)
	rootCmd.AddCommand(commands.SessionsCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.CompletionCmd)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		// If stdin is a TTY, launch the TUI
		if !commands.GlobalFlags.JSON && term.IsTerminal(int(os.Stdin.Fd())) {
			return commands.RunTUI("")
		}
		return commands.RunProjects(cmd.Context(), cmd.OutOrStdout())
	}
}

func main() {
	// Propagate --json flag before execution
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.JSONMode = commands.GlobalFlags.JSON
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
