package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/machlink/machlink/internal/cli"
	"github.com/machlink/machlink/pkg/link"
)

// ResolveCommand resolves a definition name from a module's point of view.
func ResolveCommand(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Error: resolve requires 2 arguments: <module> <name>\n")
		fmt.Fprintf(os.Stderr, "Usage: machlink resolve app.mach StopLight\n")
		os.Exit(1)
	}

	loaded := MustLoadWorkspace(context.Background())
	id := resolveEntryID(loaded, args[0])
	name := args[1]

	node, err := link.NewLinker(loaded.Manager).ResolveReference(id, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *cli.GlobalFlags.Json {
		OutputJSON(map[string]interface{}{
			"module":         string(id),
			"name":           name,
			"qualified_name": node.QualifiedName(),
			"kind":           node.Kind.String(),
			"initial":        node.Initial,
		})
		return
	}

	fmt.Printf("Reference: %s (in %s)\n", name, id)
	fmt.Printf("================\n")
	fmt.Printf("Definition: %s\n", node.QualifiedName())
	fmt.Printf("Kind: %s\n", node.Kind)
	if node.Initial {
		fmt.Printf("Initial: true\n")
	}
	if len(node.Transitions) > 0 && *cli.GlobalFlags.Verbose {
		fmt.Printf("\nTransitions: %d\n", len(node.Transitions))
		for _, t := range node.Transitions {
			fmt.Printf("  %s -> %s\n", t.Event, t.Target)
		}
	}
}
