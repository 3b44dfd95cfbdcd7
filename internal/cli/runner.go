package cli

import (
	"fmt"
	"os"
)

// CommandFunc is the handler signature for a machlink subcommand; it
// receives the arguments after the command name.
type CommandFunc func([]string)

// Runner maps subcommand names like "order" and "merge" to their handlers.
type Runner struct {
	commands map[string]CommandFunc
}

// NewRunner creates an empty command table.
func NewRunner() *Runner {
	return &Runner{
		commands: make(map[string]CommandFunc),
	}
}

// RegisterCommand installs the handler for a subcommand name.
func (r *Runner) RegisterCommand(name string, fn CommandFunc) {
	r.commands[name] = fn
}

// Execute dispatches to the named subcommand. Unknown names print the
// usage text and exit non-zero.
func (r *Runner) Execute(command string, args []string) {
	if fn, ok := r.commands[command]; ok {
		fn(args)
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		Usage()
		os.Exit(1)
	}
}

// GetCommands returns the registered command table.
func (r *Runner) GetCommands() map[string]CommandFunc {
	return r.commands
}
