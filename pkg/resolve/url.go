package resolve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/machlink/machlink/pkg/types"
)

// URLResolver fetches remote machine definitions over http(s). Successful
// fetches are memoized by literal import path for the resolver's lifetime;
// failures are never cached and never auto-retried. The resolver imposes no
// timeout of its own beyond the injected client's — callers bound hung
// fetches through ctx.
type URLResolver struct {
	client *http.Client
	cache  FetchCache
	sink   types.DiagnosticSink
	logger *slog.Logger
}

func NewURLResolver(client *http.Client, cache FetchCache, sink types.DiagnosticSink, logger *slog.Logger) *URLResolver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &URLResolver{
		client: client,
		cache:  cache,
		sink:   types.SinkOrDiscard(sink),
		logger: logger,
	}
}

func (r *URLResolver) Name() string { return "url" }

func (r *URLResolver) CanResolve(importPath string) bool {
	return types.IsURL(importPath)
}

func (r *URLResolver) Resolve(ctx context.Context, importPath string, from types.ModuleID) (*ResolvedModule, error) {
	if strings.HasPrefix(importPath, "http://") {
		r.sink.Accept(types.Diagnostic{
			Severity: types.SeverityWarning,
			Message:  "insecure http:// import, prefer https://: " + importPath,
			Module:   from,
			Property: "path",
		})
	}

	if cached, ok := r.cache.Get(importPath); ok {
		r.logger.Debug("url cache hit", "url", importPath)
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, importPath, nil)
	if err != nil {
		r.acceptFailure(types.NewURLImport(importPath, 0, err), from)
		return nil, nil
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.acceptFailure(types.NewURLImport(importPath, 0, err), from)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.acceptFailure(types.NewURLImport(importPath, resp.StatusCode, nil), from)
		return nil, nil
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		r.acceptFailure(types.NewURLImport(importPath, resp.StatusCode, err), from)
		return nil, nil
	}

	r.logger.Debug("fetched remote module",
		"url", importPath,
		"bytes", len(content),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	resolved := &ResolvedModule{
		ID:               types.NormalizeModuleID(importPath),
		ImportPath:       importPath,
		ResolvedLocation: importPath,
		Content:          content,
	}
	r.cache.Put(importPath, resolved)
	return resolved, nil
}

// ClearCache drops every memoized fetch; the next Resolve re-fetches.
func (r *URLResolver) ClearCache() {
	r.cache.Clear()
}

func (r *URLResolver) acceptFailure(err *types.LinkError, from types.ModuleID) {
	r.sink.Accept(types.Diagnostic{
		Severity: types.SeverityError,
		Message:  err.Message,
		Module:   from,
		Property: "path",
	})
}
