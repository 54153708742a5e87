// Package loader fetches and caches the documents a resolution run touches.
package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/refs"
)

// Loader fetches documents from disk or over http(s) and caches the parsed
// result per locator, so every reference site into the same resource
// observes the one shared parse tree. A Loader is scoped to a single
// resolution run.
type Loader struct {
	client *http.Client
	cache  map[string]*document.Document
	logger *slog.Logger
}

// New returns a Loader. A nil client falls back to http.DefaultClient and a
// nil logger discards output.
func New(client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		client: client,
		cache:  make(map[string]*document.Document),
		logger: logger,
	}
}

// Seed registers an already-parsed document under its own locator, so
// references back at it resolve against the live tree instead of a second
// copy read from the source.
func (l *Loader) Seed(doc *document.Document) {
	l.cache[doc.Location.DocKey()] = doc
}

// Load returns the document at loc, fetching and parsing it on first use.
// The fragment part of loc is ignored; callers navigate it themselves.
func (l *Loader) Load(ctx context.Context, loc refs.Location) (*document.Document, error) {
	key := loc.DocKey()
	if doc, ok := l.cache[key]; ok {
		return doc, nil
	}

	data, err := l.fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(data, refs.Location{Locator: key})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded document",
		"location", key, "type", doc.SpecType, "version", doc.Version)

	l.cache[key] = doc
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, loc refs.Location) ([]byte, error) {
	if loc.IsHTTP() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.Locator, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", loc.Locator, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", loc.Locator, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetching %s: unexpected status %s", loc.Locator, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", loc.Locator, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(loc.Locator)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc.Locator, err)
	}
	return data, nil
}
