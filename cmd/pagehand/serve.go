package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagehand/pagehand/internal/browser"
	"github.com/pagehand/pagehand/internal/config"
	"github.com/pagehand/pagehand/internal/logging"
	"github.com/pagehand/pagehand/internal/mcp"
	"github.com/pagehand/pagehand/internal/tools"
)

var httpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server (stdio by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "http", "", "serve MCP over HTTP on this address (e.g. :8321) instead of stdio")
}

func runServe(ctx context.Context) error {
	if verbose {
		logging.SetVerbose()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.Infof("shutting down")
		cancel()
	}()

	manager := browser.NewManager(cfg.Browser)
	defer func() {
		if err := manager.Close(); err != nil {
			logging.Warnf("browser close: %v", err)
		}
	}()

	registry := tools.NewRegistry()
	registry.RegisterDefaults(manager)

	server := mcp.NewServer(registry, Version)

	if cfg.HTTPAddr != "" {
		return server.ServeHTTP(ctx, cfg.HTTPAddr)
	}
	// stdio transport: stdout belongs to the protocol, logs go to stderr.
	return server.Run(ctx)
}
