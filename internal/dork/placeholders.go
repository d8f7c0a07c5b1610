package dork

import (
	"regexp"
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\{[a-z_]+\}`)

// values - подстановки для шаблонов. Пустое значение = поле не задано.
type values map[string]string

func valuesFor(c domain.SearchCriteria, p domain.Platform) values {
	terms := append([]string{}, c.Keywords...)
	if c.Field != "" {
		terms = append(terms, c.Field)
	}
	terms = append(terms, c.CustomTags...)

	v := values{
		"industry":     c.PrimaryIndustry(),
		"company_type": c.PrimaryIndustry(),
		"location":     c.Location.Primary(),
		"city":         c.Location.City,
		"state":        c.Location.State,
		"country":      c.Location.Country,
		"role":         c.JobTitle,
		"keywords":     strings.Join(terms, " "),
		"site":         p.Domain(),
	}
	if len(c.Keywords) > 0 {
		v["domain"] = c.Keywords[0]
	}
	for k, s := range v {
		v[k] = strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
	}
	return v
}

func (v values) has(keys ...string) bool {
	for _, k := range keys {
		if k == requireAny {
			if v["industry"] == "" && v["location"] == "" && v["role"] == "" && v["keywords"] == "" {
				return false
			}
			continue
		}
		if v[k] == "" {
			return false
		}
	}
	return true
}

// fill подставляет значения. ok=false, если остался незаполненный плейсхолдер.
func (v values) fill(pattern string) (string, bool) {
	ok := true
	out := placeholderRe.ReplaceAllStringFunc(pattern, func(m string) string {
		val := v[strings.Trim(m, "{}")]
		if val == "" {
			ok = false
		}
		return val
	})
	return collapseSpaces(out), ok
}

// fillClauses подставляет значения в AND-выражение и выкидывает клаузы,
// для которых нет данных.
func (v values) fillClauses(pattern string) string {
	clauses := strings.Split(pattern, " AND ")
	kept := clauses[:0]
	for _, cl := range clauses {
		filled, ok := v.fill(cl)
		if ok && filled != "" {
			kept = append(kept, filled)
		}
	}
	return strings.Join(kept, " AND ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}

func quoteAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, quote(s))
		}
	}
	return out
}
