package target

import (
	"context"

	"github.com/pistolinkr/Mactaphine/internal/policy"
	"github.com/pistolinkr/Mactaphine/internal/types"
)

// Target produces the cleanup candidates for one category.
type Target interface {
	Scan(ctx context.Context) (*types.ScanResult, error)
	Definition() policy.Definition
	IsAvailable() bool
}

type Registry struct {
	targets map[types.Category]Target
}

func NewRegistry() *Registry {
	return &Registry{targets: make(map[types.Category]Target)}
}

func (r *Registry) Register(t Target) {
	r.targets[t.Definition().Category] = t
}

func (r *Registry) Get(cat types.Category) (Target, bool) {
	t, ok := r.targets[cat]
	return t, ok
}

func (r *Registry) All() []Target {
	result := make([]Target, 0, len(r.targets))
	for _, cat := range types.AllCategories {
		if t, ok := r.targets[cat]; ok {
			result = append(result, t)
		}
	}
	return result
}

func (r *Registry) Available() []Target {
	result := make([]Target, 0)
	for _, t := range r.All() {
		if t.IsAvailable() {
			result = append(result, t)
		}
	}
	return result
}
