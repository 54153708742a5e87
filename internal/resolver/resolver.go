// Package resolver inlines external JSON References into a single
// self-contained document by repeatedly rescanning the tree until no
// reference remains unresolved.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pb33f/libopenapi/utils"
	"go.yaml.in/yaml/v4"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/loader"
	"github.com/kolah/deref/internal/refs"
)

// Result is the outcome of a successful resolution run.
type Result struct {
	Document *document.Document
	Options  Options
}

// run carries all state private to one resolution: the document cache (via
// the loader), the reference memo, and the rewrite-tracking sets. Nothing
// here is shared across runs.
type run struct {
	opts   Options
	logger *slog.Logger
	loader *loader.Loader
	root   *document.Document

	// memo maps an original external reference string to its final
	// replacement. Each original reference is resolved exactly once;
	// later occurrences consult the memo, which is what terminates
	// reference cycles.
	memo map[string]string

	fragRewritten map[string]bool
	pathRewritten map[string]bool
}

// ResolveLocation loads the document at loc and resolves it.
func ResolveLocation(ctx context.Context, loc refs.Location, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	ld := loader.New(opts.HTTPClient, opts.Logger)
	doc, err := ld.Load(ctx, loc)
	if err != nil {
		return nil, err
	}
	return resolve(ctx, ld, doc, opts)
}

// Resolve resolves an already-parsed root document in place and returns it.
// On error the document may be partially mutated and must be discarded.
func Resolve(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	ld := loader.New(opts.HTTPClient, opts.Logger)
	ld.Seed(doc)
	return resolve(ctx, ld, doc, opts)
}

func resolve(ctx context.Context, ld *loader.Loader, doc *document.Document, opts Options) (*Result, error) {
	r := &run{
		opts:          opts,
		logger:        opts.Logger,
		loader:        ld,
		root:          doc,
		memo:          make(map[string]string),
		fragRewritten: make(map[string]bool),
		pathRewritten: make(map[string]bool),
	}

	for pass := 1; ; pass++ {
		changed, err := r.walk(ctx, doc.Root, nil)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("resolution pass complete", "pass", pass, "changes", changed)
		if changed == 0 {
			break
		}
	}

	r.stampRoot(time.Now())
	stripInternal(doc.Root)

	return &Result{Document: doc, Options: opts}, nil
}

// walk performs one depth-first traversal, parent before children, and
// returns the number of references it resolved. Subtrees carrying the
// already-resolved marker are skipped without recursing, so previously
// inlined content is never re-processed.
func (r *run) walk(ctx context.Context, n *yaml.Node, path []string) (int, error) {
	if n == nil {
		return 0, nil
	}
	n = utils.NodeAlias(n)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return 0, nil
		}
		return r.walk(ctx, n.Content[0], path)

	case yaml.SequenceNode:
		changes := 0
		for i, c := range n.Content {
			ch, err := r.walk(ctx, c, childPath(path, fmt.Sprintf("%d", i)))
			changes += ch
			if err != nil {
				return changes, err
			}
		}
		return changes, nil

	case yaml.MappingNode:
		if isResolved(n) {
			return 0, nil
		}

		changes := 0
		isRef, _, refVal := utils.IsNodeRefValue(n)
		// A $ref key holding a mapping or an empty value is an ordinary
		// property, not a reference node.
		isRef = isRef && refVal != ""
		if isRef {
			ch, err := r.resolveRef(ctx, n, refVal, path)
			changes += ch
			if err != nil {
				return changes, err
			}
			// A full-document merge marks the node; stop here so its
			// freshly spliced content is not rescanned.
			if isResolved(n) {
				return changes, nil
			}
		}

		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if isRef && key == "$ref" {
				continue
			}
			ch, err := r.walk(ctx, n.Content[i+1], childPath(path, key))
			changes += ch
			if err != nil {
				return changes, err
			}
		}
		return changes, nil

	default:
		return 0, nil
	}
}

// resolveRef dispatches one reference node to its inline strategy.
func (r *run) resolveRef(ctx context.Context, n *yaml.Node, refStr string, path []string) (int, error) {
	c, err := r.classify(refStr)
	if err != nil {
		return 0, err
	}

	switch c.kind {
	case inlineNone:
		return 0, nil

	case inlineMemo:
		if refStr == c.replacement {
			return 0, nil
		}
		setRefValue(n, c.replacement)
		r.logger.Debug("rewrote memoized reference", "ref", refStr, "replacement", c.replacement)
		return 1, nil

	case inlineDocument:
		return r.inlineDocument(ctx, n, refStr, c.loc, path)

	case inlineComponent:
		return r.inlineComponent(ctx, n, refStr, c, path)

	case inlineFragment:
		return r.inlineFragment(ctx, n, refStr, c.loc)

	default:
		return 0, fmt.Errorf("unhandled classification %d for %q", c.kind, refStr)
	}
}

// memoize records the replacement for an original reference string.
// A second registration with a different replacement is an internal
// invariant violation.
func (r *run) memoize(original, replacement string) error {
	if prev, ok := r.memo[original]; ok {
		if prev == replacement {
			return nil
		}
		return fmt.Errorf("%w: %q already mapped to %q, refusing %q",
			ErrDoubleRegistration, original, prev, replacement)
	}
	r.memo[original] = replacement
	return nil
}

// childPath extends a navigation path without aliasing the parent slice.
func childPath(path []string, key string) []string {
	return append(path[:len(path):len(path)], key)
}
