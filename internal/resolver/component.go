package resolver

import (
	"context"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/jsonpointer"
	"github.com/kolah/deref/internal/refs"
)

// inlineComponent resolves a reference to /components/<section>/<name> in
// an external document. The target lands as a named component in the root
// registry and the call site keeps a local forwarding reference, preserving
// the document format's notion of reusable components instead of inlining
// by value.
func (r *run) inlineComponent(ctx context.Context, n *yaml.Node, refStr string, c classification, path []string) (int, error) {
	src, err := r.loader.Load(ctx, c.loc)
	if err != nil {
		return 0, err
	}
	r.ensurePathRewrite(src)

	target, err := jsonpointer.Get(src.Root, c.loc.Fragment)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", c.loc, err)
	}

	// Same-name passthrough: a component defined purely as a forwarding
	// reference to an identically named component elsewhere is replaced by
	// the target itself instead of gaining a redundant local alias.
	if isPassthrough(path, c) && siblingCount(n) == 0 {
		item := document.CloneNode(target)
		setOrigin(item, c.loc)
		r.tagProvenance(item, c.loc)
		if err := r.memoize(refStr, "#"+c.loc.Fragment); err != nil {
			return 0, err
		}
		*n = *item
		r.logger.Debug("replaced same-name component reference", "ref", refStr, "location", c.loc.String())
		return 1, nil
	}

	finalName, err := r.landComponent(target, c)
	if err != nil {
		return 0, err
	}

	localRef := "#" + jsonpointer.FromParts([]string{"components", c.section, finalName})
	setRefValue(n, localRef)
	if err := r.memoize(refStr, localRef); err != nil {
		return 0, err
	}
	r.logger.Debug("inlined component", "ref", refStr, "as", localRef)
	return 1, nil
}

func isPassthrough(path []string, c classification) bool {
	return len(path) == 3 && path[0] == "components" && path[1] == c.section && path[2] == c.name
}

// landComponent places the target item in the root components registry and
// returns the landing name after conflict resolution.
func (r *run) landComponent(target *yaml.Node, c classification) (string, error) {
	components := document.MapEnsure(r.root.Root, "components")
	section := document.MapEnsure(components, c.section)

	// Idempotent re-entry: a component from this exact source location may
	// already be registered, possibly under a renamed key.
	if name, ok := r.findBySource(section, c); ok {
		return name, nil
	}

	finalName := c.name
	if existing := document.MapGet(section, c.name); existing != nil {
		existingOrigin := r.componentOrigin(existing, c.section, c.name)
		switch r.opts.ConflictStrategy {
		case StrategyError:
			return "", fmt.Errorf("%w at /components/%s/%s: existing component from %s, new component from %s",
				ErrConflict, c.section, c.name, existingOrigin, c.loc)
		case StrategyIgnore:
			r.logger.Warn("component name conflict, keeping existing",
				"path", "/components/"+c.section+"/"+c.name,
				"existing", existingOrigin, "discarded", c.loc.String())
			return c.name, nil
		default:
			finalName = freeName(section, c.name)
			r.logger.Debug("component renamed on conflict",
				"path", "/components/"+c.section+"/"+c.name, "as", finalName)
		}
	}

	item := document.CloneNode(target)
	setOrigin(item, c.loc)
	r.tagProvenance(item, c.loc)
	document.MapSet(section, finalName, item)
	return finalName, nil
}

// findBySource scans a registry section for an entry that came from the
// same source location as the classification target.
func (r *run) findBySource(section *yaml.Node, c classification) (string, bool) {
	if section.Kind != yaml.MappingNode {
		return "", false
	}
	want := c.loc.String()
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		if r.componentOrigin(section.Content[i+1], c.section, name) == want {
			return name, true
		}
	}
	return "", false
}

// componentOrigin returns the source location of a registered component.
// Components native to the root document carry no origin marker; their
// implicit source is the root location at their own registry slot.
func (r *run) componentOrigin(n *yaml.Node, section, name string) string {
	if v := document.MapGet(n, originKey); v != nil {
		return v.Value
	}
	return refs.Location{
		Locator:  r.root.Location.Locator,
		Fragment: jsonpointer.FromParts([]string{"components", section, name}),
	}.String()
}

// freeName returns the first unused key obtained by appending an increasing
// integer suffix to name.
func freeName(section *yaml.Node, name string) string {
	for i := 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if document.MapGet(section, candidate) == nil {
			return candidate
		}
	}
}
