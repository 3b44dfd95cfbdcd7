package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/machlink/machlink/internal/config"
	internalmcp "github.com/machlink/machlink/internal/mcp"
)

const version = "0.1.0"

func main() {
	var (
		workspaceFlag = flag.String("workspace", "", "Workspace root to load at startup (optional)")
		configFlag    = flag.String("config", "", "Path to machlink.yaml config file")
		portFlag      = flag.Int("port", 0, "TCP port for streamable HTTP transport (0 for stdio)")
		debugFlag     = flag.Bool("debug", false, "Enable debug logging")
		versionFlag   = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("machlink-mcp v%s\n", version)
		fmt.Println("Model Context Protocol server for machine-definition linking")
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	level := cfg.SlogLevel()
	if *debugFlag {
		level = slog.LevelDebug
	}
	// Stdout carries the protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	state := internalmcp.NewMCPServer(cfg, logger)
	defer state.Close()

	ctx := context.Background()
	if *workspaceFlag != "" {
		path, err := filepath.Abs(*workspaceFlag)
		if err != nil {
			logger.Error("resolve workspace path", "err", err)
			os.Exit(1)
		}
		count, err := state.LoadWorkspace(ctx, path)
		if err != nil {
			logger.Error("load workspace", "path", path, "err", err)
			os.Exit(1)
		}
		logger.Info("workspace preloaded", "path", path, "modules", count)
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "machlink", Version: version}, nil)
	internalmcp.RegisterAllTools(server, state)

	if *portFlag > 0 {
		handler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
			return server
		}, nil)
		addr := fmt.Sprintf(":%d", *portFlag)
		logger.Info("machlink MCP server listening", "addr", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Error("server stopped", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("machlink MCP server listening on stdio")
	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
