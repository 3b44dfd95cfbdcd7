package cli

import (
	"flag"
	"fmt"
	"os"
)

// Usage prints the usage information for the machlink command
func Usage() {
	fmt.Fprintf(os.Stderr, `Machlink - module resolution and cross-file linking for machine definitions

Usage: machlink [options] <command> [arguments]

Commands:
  order
    Print the modules of the workspace in dependency order
    (every module after the modules it imports)

  cycles
    Detect and print circular import chains

  lint
    Load the workspace, link every module, and report all
    diagnostics: unresolved imports, missing symbols, collisions

  merge <entry>
    Flatten an entry machine and its transitive imports into one
    consolidated graph with per-symbol provenance

  resolve <module> <name>
    Resolve a definition name from a module's point of view:
    local definitions first, then its imports

  watch
    Keep the workspace loaded and re-link on every file change
    until interrupted

  help [command]
    Show help for a specific command

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  # Print the processing order for the current directory
  machlink order

  # Lint a specific workspace and emit JSON diagnostics
  machlink --workspace ./machines --json lint

  # Flatten traffic.mach with everything it imports
  machlink merge traffic.mach

  # Find out where a referenced state is defined
  machlink resolve app.mach StopLight

  # Work offline: refuse http(s) imports
  machlink --no-remote lint

  # Watch a workspace with a custom debounce
  machlink --debounce 100ms watch
`)
}
