package scripts

import (
	"fmt"
	"slices"
	"strings"
)

// Registry resolves script names in a fixed order.
type Registry struct {
	scripts []Script
}

func NewRegistry(scripts ...Script) *Registry {
	return &Registry{scripts: scripts}
}

// Resolve returns the script called name, or every script for ScriptNameAll.
func (r *Registry) Resolve(name ScriptName) ([]Script, error) {
	target := ScriptName(strings.ToLower(string(name)))
	if target == ScriptNameAll {
		return slices.Clone(r.scripts), nil
	}

	for _, s := range r.scripts {
		if s.Name() == target {
			return []Script{s}, nil
		}
	}

	return nil, fmt.Errorf("unknown script '%s' (expected: %s)", name, strings.Join(r.Names(), "|"))
}

// Names lists the registered scripts followed by the "all" alias.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts)+1)
	for _, s := range r.scripts {
		names = append(names, string(s.Name()))
	}
	return append(names, string(ScriptNameAll))
}
