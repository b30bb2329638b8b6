package engine

import (
	"sort"
	"strings"
)

// Constructor builds an engine instance for one game.
type Constructor func(Config) Engine

// Registry maps game type names to constructors. It is populated at process
// start and read-only afterwards, so it is safe to share across rooms.
type Registry struct {
	types map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Constructor)}
}

func (r *Registry) Register(name string, build Constructor) {
	r.types[name] = build
}

// Create builds and validates a configured instance. It returns nil when the
// type is unregistered or the config is out of bounds.
func (r *Registry) Create(name string, cfg Config) Engine {
	build, ok := r.types[name]
	if !ok {
		return nil
	}
	if !cfg.Validate() {
		return nil
	}
	return build(cfg)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.types[name]
	return ok
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes a registered game type for API listings.
func (r *Registry) Info(name string) map[string]any {
	if !r.Has(name) {
		return nil
	}
	return map[string]any{
		"name":         name,
		"display_name": displayName(name),
	}
}

func displayName(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
