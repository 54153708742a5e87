package refs

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Location is a normalized absolute document locator plus an optional JSON
// pointer fragment. The locator is either an absolute filesystem path or an
// absolute http(s) URL and never carries a fragment itself. Locations with
// equal canonical strings are the same location.
type Location struct {
	Locator  string
	Fragment string
}

// NewLocation builds a Location from user input (a file path or URL,
// optionally with a '#<pointer>' suffix). File paths are made absolute
// against the working directory.
func NewLocation(input string) (Location, error) {
	ref := Ref(input)
	uri := ref.URI()
	if uri == "" {
		return Location{}, fmt.Errorf("location %q has no document part", input)
	}
	if isHTTPURL(uri) {
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("invalid URL %q: %w", uri, err)
		}
		u.Fragment = ""
		return Location{Locator: u.String(), Fragment: ref.Fragment()}, nil
	}
	abs, err := filepath.Abs(uri)
	if err != nil {
		return Location{}, fmt.Errorf("resolving path %q: %w", uri, err)
	}
	return Location{Locator: abs, Fragment: ref.Fragment()}, nil
}

// String returns the canonical form, "<locator>" or "<locator>#<fragment>".
func (l Location) String() string {
	if l.Fragment == "" {
		return l.Locator
	}
	return l.Locator + "#" + l.Fragment
}

// DocKey returns the cache key for the document at this location,
// independent of the fragment.
func (l Location) DocKey() string { return l.Locator }

// IsHTTP reports whether the locator is an http(s) URL.
func (l Location) IsHTTP() bool { return isHTTPURL(l.Locator) }

// Ref returns the location rendered as a reference string.
func (l Location) Ref() Ref { return Ref(l.String()) }

// Resolve resolves a possibly-relative reference against this location and
// returns the absolute location it denotes. A bare-fragment reference keeps
// the base locator; URL bases follow RFC 3986 relative resolution; file
// bases join against the base directory.
func (l Location) Resolve(r Ref) (Location, error) {
	uri := r.URI()
	frag := r.Fragment()

	switch {
	case uri == "":
		return Location{Locator: l.Locator, Fragment: frag}, nil
	case isHTTPURL(uri):
		u, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("invalid reference URI %q: %w", uri, err)
		}
		u.Fragment = ""
		return Location{Locator: u.String(), Fragment: frag}, nil
	case l.IsHTTP():
		base, err := url.Parse(l.Locator)
		if err != nil {
			return Location{}, fmt.Errorf("invalid base URL %q: %w", l.Locator, err)
		}
		rel, err := url.Parse(uri)
		if err != nil {
			return Location{}, fmt.Errorf("invalid reference URI %q: %w", uri, err)
		}
		abs := base.ResolveReference(rel)
		abs.Fragment = ""
		return Location{Locator: abs.String(), Fragment: frag}, nil
	case filepath.IsAbs(uri):
		return Location{Locator: filepath.Clean(uri), Fragment: frag}, nil
	default:
		return Location{Locator: filepath.Join(filepath.Dir(l.Locator), uri), Fragment: frag}, nil
	}
}
