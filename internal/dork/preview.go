package dork

import (
	"fmt"
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// Preview - текст с запросами по платформам, разбивкой базового запроса и запасными запросами
func Preview(c domain.SearchCriteria, b *Builder, limit int) string {
	var sb strings.Builder

	for _, pq := range b.BuildAll(c, limit) {
		fmt.Fprintf(&sb, "[%s]\n", pq.Platform)
		for i, q := range pq.Queries {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(FormatForDisplay(BasicDork(c)))

	sb.WriteString("\n\nAlternative queries:\n")
	for _, q := range Alternatives(c) {
		fmt.Fprintf(&sb, "- %s\n", q)
	}
	return strings.TrimRight(sb.String(), "\n")
}
