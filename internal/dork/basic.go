package dork

import (
	"fmt"
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

const (
	basicBaseQuery        = "site:linkedin.com/in OR site:about.me OR site:github.io"
	basicContactClause    = `("@gmail.com" OR "@yahoo.com" OR "@outlook.com" OR "email") AND ("phone" OR "mobile" OR "contact" OR "call")`
	basicProfessionalTerm = `"experience" OR "skills" OR "portfolio" OR "resume"`
)

// BasicDork собирает один длинный запрос и разбивку по полям
func BasicDork(c domain.SearchCriteria) domain.DorkQuery {
	bd := domain.DorkBreakdown{
		BaseQuery:           basicBaseQuery,
		IndustryFilter:      strings.Join(quoteAll(c.Industry), " OR "),
		LocationFilter:      strings.Join(quoteAll(c.Location.Parts()), " "),
		KeywordFilters:      quoteAll(c.Keywords),
		CustomTagFilters:    quoteAll(c.CustomTags),
		ContactRequirements: basicContactClause,
	}
	if c.JobTitle != "" {
		bd.RoleFilter = quote(c.JobTitle)
	}
	if c.Field != "" {
		bd.FieldFilter = quote(c.Field)
	}

	parts := []string{bd.BaseQuery}
	if bd.IndustryFilter != "" {
		parts = append(parts, "("+bd.IndustryFilter+")")
	}
	if bd.LocationFilter != "" {
		parts = append(parts, "("+bd.LocationFilter+")")
	}
	if bd.RoleFilter != "" {
		parts = append(parts, bd.RoleFilter)
	}
	if bd.FieldFilter != "" {
		parts = append(parts, bd.FieldFilter)
	}
	if len(bd.KeywordFilters) > 0 {
		parts = append(parts, "("+strings.Join(bd.KeywordFilters, " OR ")+")")
	}
	if len(bd.CustomTagFilters) > 0 {
		parts = append(parts, "("+strings.Join(bd.CustomTagFilters, " OR ")+")")
	}
	parts = append(parts, "("+bd.ContactRequirements+")", "("+basicProfessionalTerm+")")

	return domain.DorkQuery{
		Query:     strings.Join(parts, " "),
		Category:  "Basic",
		Breakdown: bd,
	}
}

// Alternatives - запасные запросы: профили LinkedIn, каталоги компаний, портфолио
func Alternatives(c domain.SearchCriteria) []string {
	industries := ""
	if len(c.Industry) > 0 {
		industries = "(" + strings.Join(quoteAll(c.Industry), " OR ") + ")"
	}

	var li []string
	li = append(li, "site:linkedin.com/in")
	if c.JobTitle != "" {
		li = append(li, quote(c.JobTitle))
	}
	if industries != "" {
		li = append(li, industries)
	}
	if c.Location.City != "" {
		li = append(li, quote(c.Location.City))
	}
	li = append(li, `("email" OR "contact") ("phone" OR "mobile")`)

	dir := []string{"site:crunchbase.com OR site:zoominfo.com OR site:apollo.io"}
	if industries != "" {
		dir = append(dir, industries)
	}
	if c.Location.City != "" {
		dir = append(dir, quote(c.Location.City))
	}
	if c.JobTitle != "" {
		dir = append(dir, quote(c.JobTitle))
	}
	dir = append(dir, `"email" "phone"`)

	netw := []string{"site:github.io OR site:medium.com OR site:dev.to OR site:behance.net"}
	if c.Field != "" {
		netw = append(netw, quote(c.Field))
	}
	if len(c.Keywords) > 0 {
		netw = append(netw, "("+strings.Join(quoteAll(c.Keywords), " OR ")+")")
	}
	if c.Location.City != "" {
		netw = append(netw, quote(c.Location.City))
	}
	netw = append(netw, `("contact" OR "hire" OR "email") ("phone" OR "mobile")`)

	return []string{
		strings.Join(li, " "),
		strings.Join(dir, " "),
		strings.Join(netw, " "),
	}
}

// FormatForDisplay - человекочитаемая разбивка запроса
func FormatForDisplay(q domain.DorkQuery) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated Google Dork Query:\n%s\n\nQuery Breakdown:\n", q.Query)
	fmt.Fprintf(&sb, "• Base Sites: %s\n", q.Breakdown.BaseQuery)
	fmt.Fprintf(&sb, "• Industry Filter: %s\n", orNone(q.Breakdown.IndustryFilter))
	fmt.Fprintf(&sb, "• Location Filter: %s\n", orNone(q.Breakdown.LocationFilter))
	fmt.Fprintf(&sb, "• Role Filter: %s\n", orNone(q.Breakdown.RoleFilter))
	fmt.Fprintf(&sb, "• Keywords: %s\n", orNone(strings.Join(q.Breakdown.KeywordFilters, ", ")))
	fmt.Fprintf(&sb, "• Field Filter: %s\n", orNone(q.Breakdown.FieldFilter))
	fmt.Fprintf(&sb, "• Custom Tags: %s\n", orNone(strings.Join(q.Breakdown.CustomTagFilters, ", ")))
	fmt.Fprintf(&sb, "• Contact Requirements: %s", q.Breakdown.ContactRequirements)
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
