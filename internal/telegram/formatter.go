package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

// MaxLeadsInMessage - сколько лидов показываем в чате, остальное через /export
const MaxLeadsInMessage = 10

func FormatLeadResult(res *domain.LeadGenerationResult, limit int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>Найдено лидов: %d</b> %s\n", res.TotalCount, modeLabel(res.Mode)))
	if note := outcomeNote(res.Outcome); note != "" {
		sb.WriteString(note + "\n")
	}

	if len(res.PlatformResults) > 0 {
		sb.WriteString("\n")
		for _, pr := range res.PlatformResults {
			sb.WriteString(fmt.Sprintf("%s %s: %d\n", outcomeIcon(pr.Outcome), html.EscapeString(pr.Platform.String()), pr.Count))
		}
	}

	if len(res.Leads) == 0 {
		sb.WriteString("\nНичего не нашлось. Попробуйте расширить критерии или выбрать другие платформы.")
		return sb.String()
	}

	shown := res.Leads
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	sb.WriteString("\n━━━━━━━━━━━━━━━━━━━━━\n")
	for i, l := range shown {
		sb.WriteString(FormatLead(i+1, l))
		sb.WriteString("\n")
	}

	if rest := len(res.Leads) - len(shown); rest > 0 {
		sb.WriteString(fmt.Sprintf("...и ещё %d. ", rest))
	}
	sb.WriteString("Полный список: /export csv или /export xlsx")
	return sb.String()
}

func FormatLead(n int, l domain.Lead) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d. <b>%s</b> - %s, %s [%d]\n",
		n,
		html.EscapeString(l.Name),
		html.EscapeString(l.JobTitle),
		html.EscapeString(l.Company),
		l.Score,
	))

	var contacts []string
	if l.Email != "" {
		email := html.EscapeString(l.Email)
		if l.EmailInferred {
			email += " (?)"
		}
		contacts = append(contacts, email)
	}
	if l.Phone != "" {
		contacts = append(contacts, "+"+html.EscapeString(l.Phone))
	}
	if len(contacts) > 0 {
		sb.WriteString("   " + strings.Join(contacts, " · ") + "\n")
	}

	if l.SourceURL != "" {
		sb.WriteString(fmt.Sprintf("   <a href=\"%s\">%s</a>\n",
			html.EscapeString(l.SourceURL),
			html.EscapeString(truncate(l.SourceURL, 50)),
		))
	}
	return sb.String()
}

func FormatPreview(p *service.PreviewResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Запросы</b> %s\n\n", modeLabel(p.Mode.Type)))
	sb.WriteString("<pre>")
	sb.WriteString(html.EscapeString(p.Text))
	sb.WriteString("</pre>")
	return sb.String()
}

func FormatHistory(runs []domain.Run) string {
	if len(runs) == 0 {
		return "История пуста. Запустите поиск: /leads industry=... city=..."
	}

	var sb strings.Builder
	sb.WriteString("<b>Последние поиски:</b>\n\n")
	for i, r := range runs {
		sb.WriteString(fmt.Sprintf("%d. %s %s, лидов: %d %s\n   <code>%s</code>\n",
			i+1,
			r.CreatedAt.Format("02.01 15:04"),
			html.EscapeString(criteriaSummary(r.Criteria)),
			r.TotalCount,
			outcomeIcon(r.Outcome),
			html.EscapeString(r.ID),
		))
	}
	sb.WriteString("\nЭкспорт прогона: /export csv &lt;id&gt;")
	return sb.String()
}

func criteriaSummary(c domain.SearchCriteria) string {
	var parts []string
	parts = append(parts, c.Industry...)
	if c.JobTitle != "" {
		parts = append(parts, c.JobTitle)
	}
	if loc := c.Location.String(); loc != "" {
		parts = append(parts, loc)
	}
	parts = append(parts, c.Keywords...)
	if len(parts) == 0 {
		return "без критериев"
	}
	return truncate(strings.Join(parts, ", "), 60)
}

func modeLabel(m domain.ModeType) string {
	switch m {
	case domain.ModeQuick:
		return "<i>(быстрый поиск)</i>"
	case domain.ModeDeep:
		return "<i>(глубокий поиск)</i>"
	default:
		return ""
	}
}

func outcomeNote(o domain.Outcome) string {
	switch o {
	case domain.OutcomePartial:
		return "<i>Часть запросов завершилась ошибкой, результаты неполные.</i>"
	case domain.OutcomeFailed:
		return "<i>Поисковый сервис вернул ошибку на все запросы.</i>"
	default:
		return ""
	}
}

func outcomeIcon(o domain.Outcome) string {
	switch o {
	case domain.OutcomeSuccess:
		return "●"
	case domain.OutcomePartial:
		return "◐"
	case domain.OutcomeFailed:
		return "✕"
	default:
		return "○"
	}
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// режем по переводу строки, потом по пробелу, не заходя внутрь тега
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i < len(text) && text[i] == '\n' && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i < len(text) && text[i] == ' ' && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if (text[i] == ' ' || text[i] == '\n') && !isInsideHTMLTag(text, i) {
			return i + 1
		}
	}

	// длинный тег: режем перед ним, а если он в начале, то сразу после него
	if isInsideHTMLTag(text, maxLen-1) {
		if start := strings.LastIndexByte(text[:maxLen], '<'); start > 0 {
			return start
		}
		if end := strings.IndexByte(text[maxLen:], '>'); end >= 0 {
			return maxLen + end + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
