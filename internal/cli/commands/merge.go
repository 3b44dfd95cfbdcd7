package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/pkg/merge"
	"github.com/machlink/machlink/pkg/types"
)

// MergeCommand flattens an entry machine and its transitive imports.
func MergeCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: merge requires 1 argument: <entry>\n")
		fmt.Fprintf(os.Stderr, "Usage: machlink merge traffic.mach\n")
		os.Exit(1)
	}

	loaded := MustLoadWorkspace(context.Background())
	entry := resolveEntryID(loaded, args[0])

	merger := merge.NewMerger(loaded.Manager, loaded.Sink, nil)
	res, err := merger.MergeMachines(entry)
	if err != nil {
		PrintDiagnostics(loaded.Sink)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(res.Graph.Nodes))
	for name := range res.Graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	if *cli.GlobalFlags.Json {
		symbols := make([]map[string]string, 0, len(names))
		for _, name := range names {
			prov := res.SourceMap[name]
			symbols = append(symbols, map[string]string{
				"name":          name,
				"source_file":   string(prov.SourceFile),
				"original_name": prov.OriginalName,
			})
		}
		edges := make([]map[string]string, 0, len(res.Graph.Edges))
		for _, e := range res.Graph.Edges {
			edges = append(edges, map[string]string{"from": e.From, "to": e.To, "event": e.Event})
		}
		sources := make([]string, 0, len(res.SourceFiles))
		for _, f := range res.SourceFiles {
			sources = append(sources, string(f))
		}
		OutputJSON(map[string]interface{}{
			"entry":        string(entry),
			"symbols":      symbols,
			"edges":        edges,
			"source_files": sources,
		})
		return
	}

	fmt.Printf("Merged machine: %s\n", entry)
	fmt.Printf("================\n")
	fmt.Printf("Symbols: %d\n", len(names))
	for _, name := range names {
		prov := res.SourceMap[name]
		if prov.OriginalName != "" {
			fmt.Printf("  %s  (from %s, originally %s)\n", name, prov.SourceFile, prov.OriginalName)
		} else {
			fmt.Printf("  %s  (from %s)\n", name, prov.SourceFile)
		}
	}
	if len(res.Graph.Edges) > 0 {
		fmt.Printf("\nTransitions: %d\n", len(res.Graph.Edges))
		for _, e := range res.Graph.Edges {
			fmt.Printf("  %s --%s--> %s\n", e.From, e.Event, e.To)
		}
	}
	fmt.Printf("\nSource files: %d\n", len(res.SourceFiles))
	for _, f := range res.SourceFiles {
		fmt.Printf("  %s\n", f)
	}
}

// resolveEntryID maps a user-supplied entry argument onto a loaded module
// id, accepting both exact ids and bare file names.
func resolveEntryID(loaded *Loaded, arg string) types.ModuleID {
	id := types.NormalizeModuleID(arg)
	if _, ok := loaded.Manager.Module(id); ok {
		return id
	}
	for _, candidate := range loaded.Manager.Modules() {
		if candidate.Base() == arg {
			return candidate
		}
	}
	return id
}
