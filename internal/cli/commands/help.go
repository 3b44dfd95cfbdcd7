package commands

import (
	"fmt"
	"os"

	"github.com/machlink/machlink/internal/cli"
)

var helpTopics = map[string]string{
	"order": `machlink order

Prints every loaded module in dependency order: a module appears only
after all modules it imports. Fails when the workspace has circular
imports, because no such order exists.`,

	"cycles": `machlink cycles

Detects circular import chains and prints each as a closed walk, e.g.
a.mach -> b.mach -> a.mach. A self-import prints as a.mach -> a.mach.
Exits non-zero when any cycle is found.`,

	"lint": `machlink lint

Loads the workspace and links every module, reporting all findings in
one pass: unresolved imports, missing symbols, alias collisions, and
ambiguous short names. Exits non-zero when any error-severity finding
was reported.`,

	"merge": `machlink merge <entry>

Flattens the entry machine and its transitive imports into one
consolidated graph. Each merged symbol carries provenance: the source
file it came from and, when renamed by an alias, its original name.
Refuses cyclic workspaces and missing symbols outright.`,

	"resolve": `machlink resolve <module> <name>

Resolves a definition name from the module's point of view: its own
definitions first, then its imports by effective alias. Reports where
the definition lives and what kind it is.`,

	"watch": `machlink watch

Loads the workspace and keeps it current: file changes are debounced,
re-parsed, and re-linked, with diagnostics printed after each batch.
Runs until interrupted.`,
}

// HelpCommand shows help for a specific command.
func HelpCommand(args []string) {
	if len(args) < 1 {
		cli.Usage()
		return
	}
	topic, ok := helpTopics[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "No help available for %q\n", args[0])
		cli.Usage()
		os.Exit(1)
	}
	fmt.Println(topic)
}
