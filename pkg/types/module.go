package types

import (
	"path"
	"path/filepath"
	"strings"
)

// ModuleID is the canonical identifier for a machine definition document.
// Filesystem paths, URLs, and virtual paths share one namespace; two IDs are
// the same module iff their canonical strings are equal.
type ModuleID string

// NormalizeModuleID canonicalizes a raw location into a ModuleID.
// URLs are kept literal; filesystem and virtual paths are slash-normalized
// and cleaned so "./a/../b.mach" and "b.mach" compare equal.
func NormalizeModuleID(location string) ModuleID {
	if IsURL(location) {
		return ModuleID(location)
	}
	cleaned := path.Clean(filepath.ToSlash(location))
	return ModuleID(cleaned)
}

// IsURL reports whether a location or import path uses an http(s) scheme.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Dir returns the directory portion of the module's location, used to resolve
// relative imports against the importing module.
func (id ModuleID) Dir() string {
	s := string(id)
	if IsURL(s) {
		if i := strings.LastIndex(s, "/"); i > len("https://") {
			return s[:i]
		}
		return s
	}
	return path.Dir(s)
}

// Base returns the file name portion of the module's location, used in
// human-readable cycle chains and provenance output.
func (id ModuleID) Base() string {
	return path.Base(string(id))
}

// Module is one loaded machine definition document: its parsed AST, its
// ordered import statements, and the raw content it was parsed from.
// A Module is never mutated in place; updates replace it wholesale so the
// dependency graph can be kept consistent by remove+add.
type Module struct {
	ID       ModuleID
	Document *Document
	Imports  []ImportStatement
	Raw      []byte
}

// ImportStatement is one `imports:` entry of a document. Immutable after parse.
type ImportStatement struct {
	Path    string
	Symbols []ImportedSymbol
}

// ImportedSymbol names one definition pulled in by an import statement.
type ImportedSymbol struct {
	Name  string
	Alias string
}

// EffectiveName is the local name the symbol is known by in the importing
// module: the explicit alias when present, otherwise the last dot-separated
// segment of the imported name.
func (s ImportedSymbol) EffectiveName() string {
	if s.Alias != "" {
		return s.Alias
	}
	if i := strings.LastIndex(s.Name, "."); i >= 0 {
		return s.Name[i+1:]
	}
	return s.Name
}

// ModuleInfo pairs a loaded module with its concrete resolved dependency
// list, in import order. ImportTargets records where each literal import
// path landed so linking does not have to re-resolve. Owned by the
// workspace manager.
type ModuleInfo struct {
	Module        *Module
	Dependencies  []ModuleID
	ImportTargets map[string]ModuleID
}
