// Package commands implements the machlink subcommands. Every command
// bootstraps a workspace the same way: scan the configured root, parse each
// machine file, and register it with the manager.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/internal/config"
	"github.com/machlink/machlink/pkg/parser"
	"github.com/machlink/machlink/pkg/resolve"
	"github.com/machlink/machlink/pkg/types"
	"github.com/machlink/machlink/pkg/workspace"
)

// Loaded bundles everything a command needs after bootstrap.
type Loaded struct {
	Config  *config.Config
	Manager *workspace.Manager
	Sink    *types.Collector
}

// LoadWorkspace loads the workspace per config and flags. Parse failures and
// unresolved imports land in the sink; only I/O-level problems abort.
func LoadWorkspace(ctx context.Context) (*Loaded, error) {
	cfg, err := cli.LoadConfigWithFlags()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := cli.NewLogger(cfg)

	extensions := cfg.Workspace.Extensions
	if len(extensions) == 0 {
		extensions = resolve.DefaultExtensions
	}

	sink := types.NewCollector()
	resolvers := []resolve.ModuleResolver{
		resolve.NewFileSystemResolver(extensions, sink),
	}
	if cfg.Remote.Enabled {
		client := &http.Client{Timeout: cfg.Remote.FetchTimeout.Std()}
		resolvers = append(resolvers, resolve.NewURLResolver(client, nil, sink, logger))
	}
	manager := workspace.NewManager(resolve.NewComposite(resolvers...), sink, logger)

	files, err := workspace.ScanFiles(cfg.Workspace.Root, extensions)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.Workspace.Root, err)
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		id := types.NormalizeModuleID(file)
		mod, err := parser.Parse(id, content)
		if err != nil {
			sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  err.Error(),
				Module:   id,
			})
			continue
		}
		if err := manager.AddDocument(ctx, mod); err != nil {
			return nil, err
		}
	}

	return &Loaded{Config: cfg, Manager: manager, Sink: sink}, nil
}

// MustLoadWorkspace is LoadWorkspace with exit-on-error, for commands.
func MustLoadWorkspace(ctx context.Context) *Loaded {
	loaded, err := LoadWorkspace(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading workspace: %v\n", err)
		os.Exit(1)
	}
	return loaded
}

// OutputJSON marshals v with indentation to stdout.
func OutputJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}

// PrintDiagnostics writes every collected finding to stderr and reports
// whether any of them were errors.
func PrintDiagnostics(sink *types.Collector) bool {
	for _, d := range sink.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	return sink.HasErrors()
}
