package resolver

import (
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/refs"
)

const (
	// Public markers, controlled by Options.StripProvenance.
	provenanceFromKey = "x-resolved-from"
	provenanceAtKey   = "x-resolved-at"

	// Internal bookkeeping, always stripped before the document is
	// handed back.
	internalPrefix = "x-deref-"
	resolvedKey    = internalPrefix + "resolved"
	originKey      = internalPrefix + "origin"
)

// tagProvenance stamps a merged-in mapping node with its source location.
func (r *run) tagProvenance(n *yaml.Node, loc refs.Location) {
	if n.Kind != yaml.MappingNode || !r.opts.IncludeProvenance() {
		return
	}
	document.MapSet(n, provenanceFromKey, document.NewScalar(loc.String()))
}

// markResolved flags a node so later passes skip its subtree.
func markResolved(n *yaml.Node) {
	if n.Kind == yaml.MappingNode {
		document.MapSet(n, resolvedKey, document.NewBool(true))
	}
}

func isResolved(n *yaml.Node) bool {
	return document.MapGet(n, resolvedKey) != nil
}

// setOrigin records the source location of an inserted component for
// conflict detection, independently of the public provenance option.
func setOrigin(n *yaml.Node, loc refs.Location) {
	if n.Kind == yaml.MappingNode {
		document.MapSet(n, originKey, document.NewScalar(loc.String()))
	}
}

// stampRoot records overall run provenance on the root document.
func (r *run) stampRoot(completedAt time.Time) {
	if !r.opts.IncludeProvenance() {
		return
	}
	document.MapSet(r.root.Root, provenanceFromKey, document.NewScalar(r.root.Location.String()))
	document.MapSet(r.root.Root, provenanceAtKey, document.NewScalar(completedAt.UTC().Format(time.RFC3339)))
}

// stripInternal removes every internal bookkeeping key from the tree.
func stripInternal(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode {
		kept := n.Content[:0]
		for i := 0; i+1 < len(n.Content); i += 2 {
			if strings.HasPrefix(n.Content[i].Value, internalPrefix) {
				continue
			}
			kept = append(kept, n.Content[i], n.Content[i+1])
		}
		n.Content = kept
	}
	for _, c := range n.Content {
		stripInternal(c)
	}
}
