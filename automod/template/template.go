// Package template renders alert/log/reply bodies from match summaries.
package template

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Renderer compiles and executes pongo2 templates, caching compiled
// templates by source. Safe for concurrent use.
type Renderer struct {
	cache *lru.Cache[string, *pongo2.Template]
}

func NewRenderer() (*Renderer, error) {
	cache, err := lru.New[string, *pongo2.Template](256)
	if err != nil {
		return nil, err
	}
	return &Renderer{cache: cache}, nil
}

func (r *Renderer) Render(template string, values map[string]any) (string, error) {
	tmpl, ok := r.cache.Get(template)
	if !ok {
		var err error
		tmpl, err = pongo2.FromString(template)
		if err != nil {
			return "", fmt.Errorf("parsing template: %w", err)
		}
		r.cache.Add(template, tmpl)
	}
	out, err := tmpl.Execute(pongo2.Context(values))
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return out, nil
}
