package resolver

import (
	"fmt"

	"github.com/kolah/deref/internal/refs"
)

// inlineKind is the variant tag for the three inline strategies plus the
// two no-I/O outcomes.
type inlineKind int

const (
	// inlineNone leaves the reference untouched (purely local).
	inlineNone inlineKind = iota
	// inlineMemo rewrites the reference from the memo without I/O.
	inlineMemo
	// inlineDocument splices a whole external document in place.
	inlineDocument
	// inlineComponent lands a named component in the root registry.
	inlineComponent
	// inlineFragment splices an arbitrary external fragment in place.
	inlineFragment
)

// classification is the typed outcome of classifying one reference node.
type classification struct {
	kind inlineKind

	// replacement is the memoized local reference for inlineMemo.
	replacement string

	// loc is the normalized absolute target for the three inliners.
	loc refs.Location

	// section and name are set for inlineComponent.
	section string
	name    string
}

// classify decides what to do with a reference without performing any I/O.
// External references resolve against the root document's location; content
// spliced in from elsewhere has already had its references absolutized by
// the rewriter, so the root location is always the correct base.
func (r *run) classify(refStr string) (classification, error) {
	ref := refs.Ref(refStr)
	if ref.IsLocal() {
		return classification{kind: inlineNone}, nil
	}

	if repl, ok := r.memo[refStr]; ok {
		return classification{kind: inlineMemo, replacement: repl}, nil
	}

	if err := ref.Validate(); err != nil {
		return classification{}, fmt.Errorf("%w: %q: %w", ErrInvalidRef, refStr, err)
	}

	loc, err := r.root.Location.Resolve(ref)
	if err != nil {
		return classification{}, fmt.Errorf("%w: %q: %w", ErrInvalidRef, refStr, err)
	}

	if loc.Fragment == "" {
		return classification{kind: inlineDocument, loc: loc}, nil
	}
	if section, name, ok := refs.ComponentPointer(loc.Fragment); ok {
		return classification{kind: inlineComponent, loc: loc, section: section, name: name}, nil
	}
	return classification{kind: inlineFragment, loc: loc}, nil
}
