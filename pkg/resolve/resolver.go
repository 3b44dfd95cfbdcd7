// Package resolve turns import paths into module content across three
// backends: local filesystem, remote URL, and an in-memory virtual
// filesystem. Resolvers are strategies behind one interface; a composite
// resolver tries them in configured order.
package resolve

import (
	"context"

	"github.com/machlink/machlink/pkg/types"
)

// ResolvedModule is the ephemeral output of a resolver: where an import
// landed and, when the backend could read it, the raw content. It is folded
// into a Module by the caller and not retained.
type ResolvedModule struct {
	ID               types.ModuleID
	ImportPath       string
	ResolvedLocation string
	Content          []byte
}

// ModuleResolver resolves an import path relative to the importing module.
//
// Contract: ordinary not-found and network failures return (nil, nil) —
// never an error across this boundary — with the detail reported through the
// resolver's diagnostic sink. The error return is reserved for context
// cancellation. Resolution takes a context because the filesystem and URL
// backends block on I/O; interactive callers impose their own timeouts.
type ModuleResolver interface {
	Name() string

	// CanResolve is a cheap predicate: does this import path's shape belong
	// to this backend?
	CanResolve(importPath string) bool

	Resolve(ctx context.Context, importPath string, from types.ModuleID) (*ResolvedModule, error)
}

// Composite tries resolvers in order; the first CanResolve match wins and
// its answer is final, even when that answer is not-found.
type Composite struct {
	resolvers []ModuleResolver
}

func NewComposite(resolvers ...ModuleResolver) *Composite {
	return &Composite{resolvers: resolvers}
}

func (c *Composite) Name() string { return "composite" }

func (c *Composite) CanResolve(importPath string) bool {
	for _, r := range c.resolvers {
		if r.CanResolve(importPath) {
			return true
		}
	}
	return false
}

func (c *Composite) Resolve(ctx context.Context, importPath string, from types.ModuleID) (*ResolvedModule, error) {
	for _, r := range c.resolvers {
		if r.CanResolve(importPath) {
			return r.Resolve(ctx, importPath, from)
		}
	}
	return nil, nil
}
