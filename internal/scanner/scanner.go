package scanner

import (
	"fmt"
	"sort"
	"time"

	"NoticeDigest/internal/domain"
)

// Page carries one fetched listing page and the context needed to normalize it.
type Page struct {
	URL     string
	BaseURL string
	HTML    string
	Now     time.Time
	Options map[string]string
}

// Option returns a page option or def when it is unset.
func (p Page) Option(key, def string) string {
	if v, ok := p.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Extractor captures a single site's markup walker (school news, student affairs, etc.).
type Extractor interface {
	Name() string
	Extract(page Page) ([]domain.NewsItem, error)
}

// Registry keeps a mapping from extractor names to their implementations.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(extractor Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]Extractor{}
	}
	r.extractors[extractor.Name()] = extractor
}

// Resolve returns an extractor by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Extractor, error) {
	if extractor, ok := r.extractors[name]; ok {
		return extractor, nil
	}
	return nil, fmt.Errorf("extractor %s is not registered", name)
}

// Names lists registered extractors in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.extractors))
	for name := range r.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
