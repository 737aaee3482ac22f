package usecase

import (
	"fmt"
	"strings"

	"portfolio_backend/internal/feature/instruments/domain"
)

// sourceAliases maps legacy source names to registry keys.
var sourceAliases = map[string]string{
	"SSE": "SSE_STOCK",
}

// Registry is the static table of extractors keyed by source name, in registration order.
type Registry struct {
	names  []string
	byName map[string]Extractor
}

// NewRegistry registers every extractor under its SourceName. Duplicate names panic.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byName: make(map[string]Extractor, len(extractors))}
	for _, e := range extractors {
		name := strings.ToUpper(e.SourceName())
		if _, dup := r.byName[name]; dup {
			panic(fmt.Sprintf("duplicate sync source %q", name))
		}
		r.names = append(r.names, name)
		r.byName[name] = e
	}
	return r
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Lookup resolves name (case-insensitive, aliases accepted) to its extractor.
func (r *Registry) Lookup(name string) (string, Extractor, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := sourceAliases[key]; ok {
		key = alias
	}
	e, ok := r.byName[key]
	if !ok {
		return "", nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownSource)
	}
	return key, e, nil
}
