package types

import (
	"fmt"
	"strings"
)

// LinkError represents failures in module resolution and linking.
type LinkError struct {
	Type       ErrorType
	ImportPath string
	From       ModuleID // originating module, when known
	Symbol     string
	Cycle      []ModuleID // populated for CircularDependency
	HTTPStatus int        // populated for URLImport when available
	Message    string
	Cause      error
}

func (e *LinkError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("%s: %s", e.From, e.Message)
	}
	return e.Message
}

func (e *LinkError) Unwrap() error {
	return e.Cause
}

type ErrorType int

const (
	ModuleNotFound ErrorType = iota
	CircularDependency
	SymbolNotFound
	SymbolCollision
	ModuleParse
	URLImport
)

// NewModuleNotFound reports that no resolver located the import target.
func NewModuleNotFound(importPath string, from ModuleID) *LinkError {
	return &LinkError{
		Type:       ModuleNotFound,
		ImportPath: importPath,
		From:       from,
		Message:    fmt.Sprintf("module not found: %q", importPath),
	}
}

// NewCircularDependency reports a reachable cycle; the message renders the
// cycle as a chain of file names joined with arrows.
func NewCircularDependency(cycle []ModuleID) *LinkError {
	names := make([]string, len(cycle))
	for i, id := range cycle {
		names[i] = id.Base()
	}
	return &LinkError{
		Type:    CircularDependency,
		Cycle:   cycle,
		Message: "circular dependency: " + strings.Join(names, " → "),
	}
}

// NewSymbolNotFound reports that the module resolved but the requested
// definition is absent.
func NewSymbolNotFound(symbol string, origin ModuleID, from ModuleID) *LinkError {
	return &LinkError{
		Type:    SymbolNotFound,
		From:    from,
		Symbol:  symbol,
		Message: fmt.Sprintf("symbol %q not found in %s", symbol, origin),
	}
}

// NewSymbolCollision reports two imports (or an import and a local
// definition) sharing an effective alias.
func NewSymbolCollision(alias string, from ModuleID) *LinkError {
	return &LinkError{
		Type:    SymbolCollision,
		From:    from,
		Symbol:  alias,
		Message: fmt.Sprintf("symbol collision: %q is already defined", alias),
	}
}

// NewModuleParse reports resolved content that failed to parse.
func NewModuleParse(id ModuleID, cause error) *LinkError {
	return &LinkError{
		Type:    ModuleParse,
		From:    id,
		Message: fmt.Sprintf("parse failed: %v", cause),
		Cause:   cause,
	}
}

// NewURLImport reports a failed network fetch, carrying the HTTP status
// when one was received.
func NewURLImport(importPath string, status int, cause error) *LinkError {
	msg := fmt.Sprintf("url import failed: %q", importPath)
	if status != 0 {
		msg = fmt.Sprintf("url import failed: %q (status %d)", importPath, status)
	}
	return &LinkError{
		Type:       URLImport,
		ImportPath: importPath,
		HTTPStatus: status,
		Message:    msg,
		Cause:      cause,
	}
}
