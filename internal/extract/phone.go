package extract

import "regexp"

var (
	phoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// Phones - номера в формате США с необязательным кодом страны, только цифры
func Phones(text string) []string {
	matches := phoneRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, m := range matches {
		digits := NormalizePhone(m)
		if !plausiblePhone(digits) {
			continue
		}
		if _, ok := seen[digits]; ok {
			continue
		}
		seen[digits] = struct{}{}
		out = append(out, digits)
	}
	return out
}

// NormalizePhone оставляет только цифры
func NormalizePhone(raw string) string {
	return nonDigitRe.ReplaceAllString(raw, "")
}

func plausiblePhone(digits string) bool {
	if len(digits) < 10 || len(digits) > 11 {
		return false
	}
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return true
		}
	}
	// 0000000000 и подобное
	return false
}
