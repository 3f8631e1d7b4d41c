package main

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pagehand",
	Short: "Browser automation operations over the Model Context Protocol",
	Long: `pagehand drives a managed Chromium browser and exposes it as named
operations: navigation, DOM queries, form filling, content extraction to
Markdown, table and record extraction, infinite-scroll handling, cookie and
tab management.

By default it speaks MCP over stdio, for use as a tool server by any
MCP-capable client.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to pagehand.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}
