package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StatsCmd represents the stats command
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and cost report",
	Long:  "Aggregate Claude Code transcripts into a usage report: tokens, cost, cache efficiency, tool calls and activity trends",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		project, _ := cmd.Flags().GetString("project")
		outPath, _ := cmd.Flags().GetString("output")
		return RunStats(cmd.Context(), cmd.OutOrStdout(), StatsOptions{
			Period:  period,
			Project: project,
			Output:  outPath,
		})
	},
}

// ProjectsCmd represents the projects command
var ProjectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"p"},
	Short:   "List projects",
	Long:    "List Claude Code projects with session counts, most recently active first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunProjects(cmd.Context(), cmd.OutOrStdout())
	},
}

// SessionsCmd represents the sessions command
var SessionsCmd = &cobra.Command{
	Use:   "sessions <project-id>",
	Short: "List sessions of a project",
	Long:  "List the sessions of a project with titles, message counts and linked agent sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSessions(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

// ServeCmd represents the serve command
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP, WebSocket and MCP server",
	Long:  "Serve the REST API, live change events over WebSocket and MCP over streamable HTTP, with optional scheduled report export",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return RunServe(addr)
	},
}

// MCPCmd represents the mcp command
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long:  "Run ccviewer as an MCP server over stdin/stdout for integration with Claude Code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunMCP(cmd.Context())
	},
}

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ccviewer version",
	Long:  "Show the version of ccviewer",
	Run: func(cmd *cobra.Command, args []string) {
		RunVersion(cmd.OutOrStdout())
	},
}

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c"},
	Short:   "Manage configuration",
	Long:    "Create or inspect the ccviewer configuration file",
}

// ConfigInitCmd writes a default config file
var ConfigInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return RunConfigInit(force)
	},
}

// ConfigShowCmd prints the effective configuration
var ConfigShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShow(cmd.OutOrStdout())
	},
}

// CompletionCmd generates shell completion scripts
var CompletionCmd = &cobra.Command{
	Use:    "completion [bash|zsh|fish|powershell]",
	Short:  "Generate shell completion script",
	Hidden: true,
	Long: `Generate shell completion script for the specified shell.

Usage examples:
  # Bash
  source <(ccviewer completion bash)

  # Zsh
  source <(ccviewer completion zsh)

  # Fish
  ccviewer completion fish | source`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(out, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}

func init() {
	StatsCmd.Flags().StringP("period", "p", "7", "Time window: 7, 30, all or a day count")
	StatsCmd.Flags().String("project", "", "Restrict the report to one project id")
	StatsCmd.Flags().StringP("output", "o", "", "Write the JSON report to a file instead of printing")

	ServeCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8787)")

	ConfigInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	ConfigCmd.AddCommand(ConfigInitCmd)
	ConfigCmd.AddCommand(ConfigShowCmd)
}
