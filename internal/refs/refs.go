// Package refs models $ref strings and the locations they resolve to.
package refs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kolah/deref/internal/jsonpointer"
)

// Ref is a raw JSON Reference value as written in a document, e.g.
// "./pets.yaml#/components/schemas/Pet" or "#/components/schemas/Pet".
type Ref string

// URI returns the document part of the reference (everything before '#').
func (r Ref) URI() string {
	uri, _, _ := strings.Cut(string(r), "#")
	return strings.TrimSpace(uri)
}

// Fragment returns the JSON pointer part of the reference without the
// leading '#'. Percent-escapes are decoded when possible.
func (r Ref) Fragment() string {
	_, frag, ok := strings.Cut(string(r), "#")
	if !ok {
		return ""
	}
	frag = strings.TrimSpace(frag)
	if decoded, err := url.PathUnescape(frag); err == nil {
		frag = decoded
	}
	return frag
}

// IsLocal reports whether the reference points inside its own document.
func (r Ref) IsLocal() bool {
	return r.URI() == ""
}

// Validate checks that the reference can be interpreted as a Location.
func (r Ref) Validate() error {
	if strings.TrimSpace(string(r)) == "" {
		return fmt.Errorf("empty reference")
	}
	uri := r.URI()
	if isHTTPURL(uri) {
		if _, err := url.Parse(uri); err != nil {
			return fmt.Errorf("invalid reference URI %q: %w", uri, err)
		}
	}
	if frag := r.Fragment(); frag != "" {
		if _, err := jsonpointer.Parse(frag); err != nil {
			return fmt.Errorf("invalid reference fragment: %w", err)
		}
	}
	return nil
}

func (r Ref) String() string { return string(r) }

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ComponentPointer reports whether a fragment addresses a named component,
// i.e. has exactly the shape /components/<section>/<name>.
func ComponentPointer(fragment string) (section, name string, ok bool) {
	parts, err := jsonpointer.Parse(fragment)
	if err != nil || len(parts) != 3 || parts[0] != "components" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
