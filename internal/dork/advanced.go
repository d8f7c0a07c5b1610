package dork

import (
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

const basicContactRequirement = `(intext:"email" OR intext:"@") AND (intext:"phone" OR intext:"contact")`

// AdvancedBuilder - развёрнутые запросы по категориям каталога
type AdvancedBuilder struct {
	catalog *Catalog
}

func NewAdvancedBuilder(catalog *Catalog) *AdvancedBuilder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &AdvancedBuilder{catalog: catalog}
}

func (b *AdvancedBuilder) Build(c domain.SearchCriteria) []domain.DorkQuery {
	v := valuesFor(c, "")
	locFilter := b.locationFilter(v)
	contact := "(" + strings.Join(b.catalog.ContactDorks, " OR ") + ")"

	var out []domain.DorkQuery
	for _, cat := range b.catalog.Categories {
		for _, p := range cat.Patterns {
			q := v.fillClauses(p.Pattern)
			if q == "" {
				continue
			}
			if cat.Suffix != "" {
				q += " AND " + cat.Suffix
			}
			if cat.ContactDorks && len(b.catalog.ContactDorks) > 0 {
				q += " AND " + contact
			}
			if cat.LocationFilter && v["city"] != "" && locFilter != "" {
				q += " AND " + locFilter
			}
			out = append(out, domain.DorkQuery{
				Query:       q,
				Category:    cat.Name,
				Description: p.Description,
			})
		}
	}

	if role := b.roleFilter(v); role != "" {
		out = append(out, domain.DorkQuery{
			Query:       "site:linkedin.com/in AND " + role + " AND " + contact,
			Category:    "Role Targeted",
			Description: "Profiles mentioning the requested role",
		})
	}
	return out
}

// Optimized - первый запрос категорий, иначе базовый
func (b *AdvancedBuilder) Optimized(c domain.SearchCriteria) string {
	if qs := b.Build(c); len(qs) > 0 {
		return qs[0].Query
	}
	return BasicCombined(c)
}

func (b *AdvancedBuilder) locationFilter(v values) string {
	var parts []string
	seen := make(map[string]bool)
	for _, m := range b.catalog.LocationModifiers {
		q, ok := v.fill(m)
		if !ok || seen[q] {
			continue
		}
		seen[q] = true
		parts = append(parts, q)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (b *AdvancedBuilder) roleFilter(v values) string {
	if v["role"] == "" {
		return ""
	}
	var parts []string
	for _, r := range b.catalog.RolePatterns {
		if q, ok := v.fill(r); ok {
			parts = append(parts, q)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// BasicCombined - один запрос сразу по трём соцсетям
func BasicCombined(c domain.SearchCriteria) string {
	q := "site:linkedin.com/in OR site:reddit.com OR site:twitter.com"
	if len(c.Industry) > 0 {
		q += " AND (" + strings.Join(quoteAll(c.Industry), " OR ") + ")"
	}
	if c.JobTitle != "" {
		q += " AND " + quote(c.JobTitle)
	}
	if c.Location.City != "" {
		q += " AND " + quote(c.Location.City)
	}
	return q + " AND " + basicContactRequirement
}
