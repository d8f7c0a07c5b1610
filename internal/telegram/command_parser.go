package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

var (
	ErrUnknownKey    = errors.New("unknown criteria key")
	ErrBadValue      = errors.New("invalid criteria value")
	ErrUnclosedQuote = errors.New("unclosed quote")
)

// ParseModeCommand - /quick, /deep, /leads -> режим, остальное -> аргументы.
// Обычный текст идёт с defaultMode.
func ParseModeCommand(text string, defaultMode domain.ModeType) (args string, mode domain.ModeType) {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "/") {
		return text, defaultMode
	}

	parts := strings.SplitN(text, " ", 2)
	command := strings.ToLower(parts[0])
	// /quick@my_bot
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}

	var rest string
	if len(parts) > 1 {
		rest = strings.TrimSpace(parts[1])
	}

	switch command {
	case "/quick":
		return rest, domain.ModeQuick
	case "/deep":
		return rest, domain.ModeDeep
	case "/leads", "/preview":
		return rest, defaultMode
	default:
		return text, defaultMode
	}
}

// ParseCriteria разбирает "industry=Technology city=Pune title=\"Head of Sales\" saas b2b".
// Списки через запятую, слова без ключа уходят в keywords.
func ParseCriteria(args string) (domain.SearchCriteria, error) {
	var c domain.SearchCriteria

	tokens, err := tokenize(args)
	if err != nil {
		return c, err
	}

	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			c.Keywords = append(c.Keywords, tok)
			continue
		}
		if err := applyKey(&c, strings.ToLower(key), strings.TrimSpace(value)); err != nil {
			return c, err
		}
	}
	return c, nil
}

func applyKey(c *domain.SearchCriteria, key, value string) error {
	switch key {
	case "industry", "industries", "отрасль":
		c.Industry = append(c.Industry, splitList(value)...)
	case "city", "город":
		c.Location.City = value
	case "state", "region", "регион":
		c.Location.State = value
	case "country", "страна":
		c.Location.Country = value
	case "location", "loc":
		c.Location = parseLocation(value)
	case "title", "role", "job", "должность":
		c.JobTitle = value
	case "size", "company_size":
		c.CompanySize = value
	case "keywords", "kw":
		c.Keywords = append(c.Keywords, splitList(value)...)
	case "tags", "tag":
		c.CustomTags = append(c.CustomTags, splitList(value)...)
	case "field":
		c.Field = value
	case "platforms", "platform", "sites", "site":
		for _, p := range splitList(value) {
			c.TargetPlatforms = append(c.TargetPlatforms, domain.Platform(p))
		}
	case "pages", "max_pages":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: pages=%q", ErrBadValue, value)
		}
		c.MaxPages = n
	case "time", "time_range", "period":
		c.TimeRange = domain.TimeRange(value)
	case "email":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.EmailRequired = b
	case "phone":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		c.PhoneRequired = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// parseLocation - "Pune", "Pune, India" или "Austin, Texas, USA"
func parseLocation(value string) domain.Location {
	parts := splitList(value)
	switch len(parts) {
	case 0:
		return domain.Location{}
	case 1:
		return domain.Location{City: parts[0]}
	case 2:
		return domain.Location{City: parts[0], Country: parts[1]}
	}
	return domain.Location{City: parts[0], State: parts[1], Country: parts[2]}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "", "1", "yes", "true", "да", "required":
		return true, nil
	case "0", "no", "false", "нет":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrBadValue, value)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// tokenize делит по пробелам, значения в двойных кавычках остаются целыми
func tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"' || r == '«' || r == '»':
			inQuote = !inQuote
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, ErrUnclosedQuote
	}
	flush()
	return tokens, nil
}
