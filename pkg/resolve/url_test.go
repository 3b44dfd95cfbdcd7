package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machlink/machlink/pkg/types"
)

func TestURLResolver_CanResolve(t *testing.T) {
	r := NewURLResolver(nil, nil, nil, nil)

	assert.True(t, r.CanResolve("https://example.com/lib.mach"))
	assert.True(t, r.CanResolve("http://example.com/lib.mach"))
	assert.False(t, r.CanResolve("./lib.mach"))
	assert.False(t, r.CanResolve("/abs/lib.mach"))
}

func TestURLResolver_FetchAndMemoize(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("machine: Remote"))
	}))
	defer srv.Close()

	cache := NewMemoryCache()
	r := NewURLResolver(srv.Client(), cache, nil, nil)
	url := srv.URL + "/lib.mach"

	resolved, err := r.Resolve(context.Background(), url, "app.mach")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, []byte("machine: Remote"), resolved.Content)
	assert.Equal(t, types.ModuleID(url), resolved.ID)

	// Second resolve is served from the cache.
	again, err := r.Resolve(context.Background(), url, "app.mach")
	require.NoError(t, err)
	assert.Same(t, resolved, again)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, cache.Len())

	// Explicit clear forces a re-fetch.
	r.ClearCache()
	_, err = r.Resolve(context.Background(), url, "app.mach")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestURLResolver_HTTPErrorIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}))
	defer srv.Close()

	sink := types.NewCollector()
	cache := NewMemoryCache()
	r := NewURLResolver(srv.Client(), cache, sink, nil)

	resolved, err := r.Resolve(context.Background(), srv.URL+"/missing.mach", "app.mach")
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// Failures surface as diagnostics and are never cached.
	require.NotEmpty(t, sink.Errors())
	assert.Contains(t, sink.Errors()[0].Message, "status 404")
	assert.Equal(t, 0, cache.Len())
}

func TestURLResolver_InsecureSchemeWarns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("machine: Remote"))
	}))
	defer srv.Close()

	sink := types.NewCollector()
	r := NewURLResolver(srv.Client(), nil, sink, nil)

	// httptest serves plain http, so the fetch succeeds with a warning.
	resolved, err := r.Resolve(context.Background(), srv.URL+"/lib.mach", "app.mach")
	require.NoError(t, err)
	require.NotNil(t, resolved)

	var warned bool
	for _, d := range sink.Diagnostics {
		if d.Severity == types.SeverityWarning {
			warned = true
			assert.Contains(t, d.Message, "http://")
		}
	}
	assert.True(t, warned, "expected insecure-scheme warning")
}

func TestURLResolver_NetworkFailureIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	url := srv.URL + "/lib.mach"
	srv.Close() // connection refused from here on

	sink := types.NewCollector()
	r := NewURLResolver(&http.Client{}, nil, sink, nil)

	resolved, err := r.Resolve(context.Background(), url, "app.mach")
	require.NoError(t, err)
	assert.Nil(t, resolved)
	assert.NotEmpty(t, sink.Errors())
}
