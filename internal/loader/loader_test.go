package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/refs"
)

func writeFile(t *testing.T, dir, name, content string) refs.Location {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return refs.Location{Locator: path}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "api.yaml", "openapi: 3.1.0\ninfo:\n  title: Test\n  version: \"1.0\"\n")

	ld := New(nil, nil)
	doc, err := ld.Load(context.Background(), loc)
	require.NoError(t, err)
	require.Equal(t, loc.Locator, doc.Location.Locator)
	require.Equal(t, "Test", document.MapGet(document.MapGet(doc.Root, "info"), "title").Value)
}

func TestLoadCachesPerLocator(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "api.yaml", "openapi: 3.1.0\n")

	ld := New(nil, nil)
	first, err := ld.Load(context.Background(), loc)
	require.NoError(t, err)

	// A different fragment still hits the same cached document.
	second, err := ld.Load(context.Background(), refs.Location{Locator: loc.Locator, Fragment: "/info"})
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLoadSeeded(t *testing.T) {
	doc, err := document.Parse([]byte("openapi: 3.1.0\n"), refs.Location{Locator: "/nonexistent/api.yaml"})
	require.NoError(t, err)

	ld := New(nil, nil)
	ld.Seed(doc)

	got, err := ld.Load(context.Background(), doc.Location)
	require.NoError(t, err)
	require.Same(t, doc, got)
}

func TestLoadHTTP(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("components:\n  schemas:\n    Pet:\n      type: object\n"))
	}))
	defer srv.Close()

	ld := New(srv.Client(), nil)
	loc := refs.Location{Locator: srv.URL + "/pets.yaml"}

	doc, err := ld.Load(context.Background(), loc)
	require.NoError(t, err)
	require.NotNil(t, document.MapGet(doc.Root, "components"))

	_, err = ld.Load(context.Background(), loc)
	require.NoError(t, err)
	require.Equal(t, 1, hits)
}

func TestLoadHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ld := New(srv.Client(), nil)
	_, err := ld.Load(context.Background(), refs.Location{Locator: srv.URL + "/missing.yaml"})
	require.ErrorContains(t, err, "404")
}

func TestLoadMissingFile(t *testing.T) {
	ld := New(nil, nil)
	_, err := ld.Load(context.Background(), refs.Location{Locator: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
}
