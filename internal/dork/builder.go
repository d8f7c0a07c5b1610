package dork

import (
	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// Builder строит короткие запросы под одну платформу
type Builder struct {
	catalog *Catalog
}

func NewBuilder(catalog *Catalog) *Builder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Builder{catalog: catalog}
}

// Build возвращает от одного до трёх запросов. Ошибок не бывает:
// незаполненные поля пропускаются, при пустых критериях берётся fallback.
func (b *Builder) Build(c domain.SearchCriteria, p domain.Platform) []string {
	v := valuesFor(c, p)
	tpl := b.catalog.templatesFor(p)

	seen := make(map[string]bool)
	var queries []string
	for _, t := range tpl.Templates {
		if !v.has(t.Requires...) {
			continue
		}
		q, _ := v.fill(t.Pattern)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
		if len(queries) == domain.MaxQueriesPerPlatform {
			break
		}
	}

	if len(queries) == 0 {
		q, _ := v.fill(tpl.Fallback)
		queries = append(queries, q)
	}
	return queries
}

type PlatformQueries struct {
	Platform domain.Platform
	Queries  []string
}

// BuildAll строит запросы для всех целевых платформ, limit режет число на платформу
func (b *Builder) BuildAll(c domain.SearchCriteria, limit int) []PlatformQueries {
	out := make([]PlatformQueries, 0, len(c.TargetPlatforms))
	for _, p := range c.TargetPlatforms {
		q := b.Build(c, p)
		if limit > 0 && len(q) > limit {
			q = q[:limit]
		}
		out = append(out, PlatformQueries{Platform: p, Queries: q})
	}
	return out
}
