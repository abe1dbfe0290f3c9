// Package policy provides a simple, optional access layer over the served
// content tree. It is deliberately decoupled from the content providers so
// that using it is entirely opt-in - servers that do not configure a
// Policy keep the original serve-everything behaviour.

package policy

import (
	"context"
	"strings"
)

// Access modes recognised by the server.
const (
	ModeOpen = "open" // serve everything not blocked (default)
	ModeDeny = "deny" // serve only allow-listed paths
)

// Policy represents the access settings for served paths.
//
//   - Mode controls the high-level behaviour (open / deny).
//   - AllowList, BlockList filter by path prefix regardless of Mode.
//
// A nil *Policy means "serve everything" and is therefore the zero-cost
// default.
type Policy struct {
	Mode      string   // open / deny (default = open)
	AllowList []string // served subtrees (empty => mode decides)
	BlockList []string // hidden subtrees
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList against a navigation path. A
// rule matches the path itself and everything below it; matching is
// case-sensitive because served paths are.
func (p *Policy) IsAllowed(navPath string) bool {
	if p == nil {
		return true
	}

	normalized := normalize(navPath)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if matchesSubtree(normalized, normalize(b)) {
			return false
		}
	}

	// AllowList - if empty the mode decides, otherwise only the listed
	// subtrees are served.
	if len(p.AllowList) > 0 {
		for _, a := range p.AllowList {
			if matchesSubtree(normalized, normalize(a)) {
				return true
			}
		}
		return false
	}

	return p.Mode != ModeDeny
}

// matchesSubtree reports whether navPath equals rule or lives under it.
func matchesSubtree(navPath, rule string) bool {
	if rule == "/" {
		return true
	}
	return navPath == rule || strings.HasPrefix(navPath, rule+"/")
}

func normalize(navPath string) string {
	if navPath == "" {
		return "/"
	}
	if !strings.HasPrefix(navPath, "/") {
		navPath = "/" + navPath
	}
	if len(navPath) > 1 {
		navPath = strings.TrimRight(navPath, "/")
	}
	return navPath
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy from ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
