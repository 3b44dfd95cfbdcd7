package resolve

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/machlink/machlink/pkg/types"
)

// DefaultExtensions is the extension list tried, in order, for
// extensionless import paths.
var DefaultExtensions = []string{".mach", ".machine"}

// FileSystemResolver resolves relative (and, with a portability warning,
// absolute) import paths against the importing module's directory on disk.
// Results are never cached: re-reads must reflect the latest edits.
type FileSystemResolver struct {
	extensions []string
	sink       types.DiagnosticSink
}

func NewFileSystemResolver(extensions []string, sink types.DiagnosticSink) *FileSystemResolver {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &FileSystemResolver{
		extensions: extensions,
		sink:       types.SinkOrDiscard(sink),
	}
}

func (r *FileSystemResolver) Name() string { return "filesystem" }

func (r *FileSystemResolver) CanResolve(importPath string) bool {
	return strings.HasPrefix(importPath, "./") ||
		strings.HasPrefix(importPath, "../") ||
		strings.HasPrefix(importPath, "/")
}

func (r *FileSystemResolver) Resolve(ctx context.Context, importPath string, from types.ModuleID) (*ResolvedModule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(importPath, "/") {
		r.sink.Accept(types.Diagnostic{
			Severity: types.SeverityWarning,
			Message:  "absolute import paths are not portable across machines: " + importPath,
			Module:   from,
			Property: "path",
		})
	}

	base := filepath.FromSlash(from.Dir())
	if from == "" {
		base = "."
	}
	candidate := importPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, filepath.FromSlash(importPath))
	}

	for _, loc := range r.candidates(candidate) {
		info, err := os.Stat(loc)
		if err != nil || info.IsDir() {
			continue
		}
		content, err := os.ReadFile(loc)
		if err != nil {
			r.sink.Accept(types.Diagnostic{
				Severity: types.SeverityError,
				Message:  "could not read " + loc + ": " + err.Error(),
				Module:   from,
				Property: "path",
			})
			return nil, nil
		}
		return &ResolvedModule{
			ID:               types.NormalizeModuleID(loc),
			ImportPath:       importPath,
			ResolvedLocation: loc,
			Content:          content,
		}, nil
	}
	return nil, nil
}

// candidates expands an extensionless path against the configured extension
// list; paths that already carry an extension are tried as-is.
func (r *FileSystemResolver) candidates(path string) []string {
	if filepath.Ext(path) != "" {
		return []string{path}
	}
	out := make([]string, 0, len(r.extensions))
	for _, ext := range r.extensions {
		out = append(out, path+ext)
	}
	return out
}
