package resolver

import (
	"fmt"
	"log/slog"
	"net/http"
)

// ConflictStrategy selects how colliding component names are handled when
// the component inliner lands external components in the root registry.
type ConflictStrategy int

const (
	// StrategyRename appends the first free integer suffix to the landing
	// name (health, health1, health2, ...). The default.
	StrategyRename ConflictStrategy = iota
	// StrategyError aborts the run on the first collision.
	StrategyError
	// StrategyIgnore keeps the existing component and discards the new one.
	StrategyIgnore
)

func (s ConflictStrategy) String() string {
	switch s {
	case StrategyError:
		return "error"
	case StrategyIgnore:
		return "ignore"
	default:
		return "rename"
	}
}

// ParseConflictStrategy maps a config value to a strategy. The empty string
// selects the default.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch s {
	case "", "rename":
		return StrategyRename, nil
	case "error":
		return StrategyError, nil
	case "ignore":
		return StrategyIgnore, nil
	default:
		return StrategyRename, fmt.Errorf("invalid conflict strategy: %s (valid: error, rename, ignore)", s)
	}
}

// Options controls a resolution run.
type Options struct {
	// ConflictStrategy decides component name collisions. Default rename.
	ConflictStrategy ConflictStrategy

	// StripProvenance removes the public x-resolved-from / x-resolved-at
	// markers from the output. By default they are included.
	StripProvenance bool

	// Logger receives per-pass diagnostics. Nil discards output.
	Logger *slog.Logger

	// HTTPClient fetches http(s) references. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}

// IncludeProvenance reports whether public provenance markers are written.
func (o Options) IncludeProvenance() bool { return !o.StripProvenance }
