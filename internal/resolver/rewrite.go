package resolver

import (
	"strings"

	"github.com/pb33f/libopenapi/utils"
	"go.yaml.in/yaml/v4"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/refs"
)

// The two rewrite operations keep a loaded document's own references valid
// once its content is relocated into the root tree. Each is applied to a
// document at most once per run, tracked by locator; fragment rewrite must
// come before path rewrite so the splice prefix lands on refs that are
// still purely local.

// ensureFragmentRewrite prefixes every purely local reference in doc with
// the fragment at which the document's content is being spliced into the
// root, so those references keep addressing the relocated content instead
// of colliding with an unrelated root path of the same name.
func (r *run) ensureFragmentRewrite(doc *document.Document, splice string) {
	if splice == "" {
		return
	}
	key := doc.Location.DocKey()
	if r.fragRewritten[key] {
		return
	}
	r.fragRewritten[key] = true

	rewriteRefValues(doc.Root, func(val string) string {
		if !strings.HasPrefix(val, "#") {
			return val
		}
		return "#" + splice + strings.TrimPrefix(val, "#")
	})
	r.logger.Debug("rewrote local fragments", "location", key, "splice", splice)
}

// ensurePathRewrite absolutizes every reference in doc that carries a
// relative document part, resolving it against doc's own location so it
// stays fetchable after the content moves into the root tree. Purely local
// references are left alone.
func (r *run) ensurePathRewrite(doc *document.Document) {
	key := doc.Location.DocKey()
	if r.pathRewritten[key] {
		return
	}
	r.pathRewritten[key] = true

	rewriteRefValues(doc.Root, func(val string) string {
		ref := refs.Ref(val)
		if ref.IsLocal() {
			return val
		}
		loc, err := doc.Location.Resolve(ref)
		if err != nil {
			return val
		}
		return loc.String()
	})
	r.logger.Debug("rewrote reference paths", "location", key)
}

// rewriteRefValues applies fn to every $ref value in the tree.
func rewriteRefValues(n *yaml.Node, fn func(string) string) {
	if n == nil {
		return
	}
	n = utils.NodeAlias(n)

	if n.Kind == yaml.MappingNode {
		// A mapping-valued or empty $ref key is not a reference node and
		// must not be overwritten.
		if isRef, _, val := utils.IsNodeRefValue(n); isRef && val != "" {
			setRefValue(n, fn(val))
		}
	}
	for _, c := range n.Content {
		rewriteRefValues(c, fn)
	}
}

// setRefValue overwrites the $ref value of a reference node.
func setRefValue(n *yaml.Node, val string) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "$ref" {
			n.Content[i+1] = document.NewScalar(val)
			return
		}
	}
}
