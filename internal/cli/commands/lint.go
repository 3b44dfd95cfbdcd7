package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/pkg/link"
	"github.com/machlink/machlink/pkg/types"
)

// LintCommand loads the workspace, links every module, and reports all
// diagnostics in one pass.
func LintCommand(args []string) {
	loaded := MustLoadWorkspace(context.Background())

	// Cycles block linking; everything else is reported per module.
	if cycles := loaded.Manager.DetectCycles(); len(cycles) > 0 {
		for _, cycle := range cycles {
			linkErr := types.NewCircularDependency(cycle)
			loaded.Sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  linkErr.Message,
			})
		}
	} else {
		merger := link.NewScopeMerger(loaded.Manager, loaded.Sink)
		for _, id := range loaded.Manager.DocumentsInOrder() {
			if _, err := merger.VisibleSymbols(id); err != nil {
				fmt.Fprintf(os.Stderr, "Error linking %s: %v\n", id, err)
				os.Exit(1)
			}
		}
	}

	if *cli.GlobalFlags.Json {
		out := make([]map[string]string, 0, len(loaded.Sink.Diagnostics))
		for _, d := range loaded.Sink.Diagnostics {
			out = append(out, map[string]string{
				"severity": d.Severity.String(),
				"message":  d.Message,
				"module":   string(d.Module),
				"property": d.Property,
			})
		}
		OutputJSON(map[string]interface{}{
			"modules":     len(loaded.Manager.Modules()),
			"diagnostics": out,
		})
		if loaded.Sink.HasErrors() {
			os.Exit(1)
		}
		return
	}

	hadErrors := PrintDiagnostics(loaded.Sink)
	fmt.Printf("%d module(s), %d diagnostic(s)\n", len(loaded.Manager.Modules()), len(loaded.Sink.Diagnostics))
	if hadErrors {
		os.Exit(1)
	}
}
