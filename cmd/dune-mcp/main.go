// Command dune-mcp serves the Dune Analytics tool catalog to an MCP host,
// over stdio by default or over HTTP with the http subcommand.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"dune-mcp/internal/config"
	"dune-mcp/internal/dune"
	"dune-mcp/internal/server"
	"dune-mcp/internal/tools"
)

const (
	serverName    = "Dune Analytics MCP Server"
	serverVersion = "0.1.0"
)

func main() {
	root := &cobra.Command{
		Use:          "dune-mcp",
		Short:        "MCP server exposing the Dune Analytics API as assistant tools",
		SilenceUsage: true,
		RunE:         runStdio,
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the tool catalog over HTTP instead of stdio",
		RunE:  runHTTP,
	}
	httpCmd.Flags().String("listen", "", "listen address (overrides LISTEN_ADDR)")
	root.AddCommand(httpCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the shared tool registry. Logs go to
// stderr: in stdio mode stdout carries the protocol.
func setup() (*config.Config, *tools.Registry, *slog.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	client, err := dune.New(dune.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		HTTP:    &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, tools.NewRegistry(client), logger, nil
}

func runStdio(_ *cobra.Command, _ []string) error {
	_, registry, logger, err := setup()
	if err != nil {
		return err
	}

	s := mcpserver.NewMCPServer(serverName, serverVersion,
		mcpserver.WithInstructions("Query blockchain data via the Dune Analytics API"),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	registry.Install(s)

	logger.Info("serving MCP over stdio", "tools", len(registry.Names()))
	return mcpserver.ServeStdio(s)
}

func runHTTP(cmd *cobra.Command, _ []string) error {
	cfg, registry, logger, err := setup()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if cfg.Token == "" {
		logger.Warn("MCP_TOKEN not set; endpoints will be open. Set MCP_TOKEN to secure.")
	}

	srv := server.New(server.Config{Token: cfg.Token}, registry, logger)
	logger.Info("starting MCP HTTP server", "addr", cfg.ListenAddr, "tools", len(registry.Names()))

	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")
	if (certFile == "") != (keyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if certFile != "" {
		logger.Info("TLS enabled: using provided certificate and key")
		return http.ListenAndServeTLS(cfg.ListenAddr, certFile, keyFile, srv.Router())
	}
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
