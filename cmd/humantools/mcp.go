package main

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/humantools/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tools to AI agents over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.New(kit, logger, version, cfg.MaxFiles).ServeStdio()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of humantools",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("humantools %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd, versionCmd)
}
