package resolve

import (
	"context"
	"path"
	"strings"

	"github.com/machlink/machlink/pkg/types"
)

// VirtualFSResolver resolves relative import paths against an injected
// in-memory path→content map. Used by editors and tests that hold unsaved
// documents. Lookups are never cached so the map stays authoritative.
type VirtualFSResolver struct {
	files      map[string]string
	extensions []string
}

func NewVirtualFSResolver(files map[string]string, extensions []string) *VirtualFSResolver {
	if files == nil {
		files = make(map[string]string)
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &VirtualFSResolver{files: files, extensions: extensions}
}

func (r *VirtualFSResolver) Name() string { return "virtual" }

func (r *VirtualFSResolver) CanResolve(importPath string) bool {
	return strings.HasPrefix(importPath, "./") ||
		strings.HasPrefix(importPath, "../") ||
		strings.HasPrefix(importPath, "/")
}

func (r *VirtualFSResolver) Resolve(ctx context.Context, importPath string, from types.ModuleID) (*ResolvedModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidate := importPath
	if !strings.HasPrefix(importPath, "/") {
		base := from.Dir()
		if from == "" {
			base = "."
		}
		candidate = path.Join(base, importPath)
	}
	candidate = path.Clean(candidate)

	for _, loc := range r.candidates(candidate) {
		if content, ok := r.files[loc]; ok {
			return &ResolvedModule{
				ID:               types.NormalizeModuleID(loc),
				ImportPath:       importPath,
				ResolvedLocation: loc,
				Content:          []byte(content),
			}, nil
		}
	}
	return nil, nil
}

// SetFile adds or replaces a virtual document.
func (r *VirtualFSResolver) SetFile(path, content string) {
	r.files[path] = content
}

// DeleteFile removes a virtual document.
func (r *VirtualFSResolver) DeleteFile(path string) {
	delete(r.files, path)
}

func (r *VirtualFSResolver) candidates(p string) []string {
	if path.Ext(p) != "" {
		return []string{p}
	}
	out := make([]string, 0, len(r.extensions))
	for _, ext := range r.extensions {
		out = append(out, p+ext)
	}
	return out
}
