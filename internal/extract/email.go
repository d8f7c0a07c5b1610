// Package extract вытаскивает контакты из неструктурированного текста.
// Все функции чистые: текст на входе, список кандидатов на выходе.
package extract

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var disposableProviders = []string{
	"tempmail",
	"10minutemail",
	"guerrillamail",
	"mailinator",
	"yopmail",
}

// не адреса, а имена файлов вида logo@2x.png
var invalidEmailSuffixes = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
}

// Emails возвращает уникальные адреса в порядке появления
func Emails(text string) []string {
	matches := emailRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, m := range matches {
		email := strings.Trim(m, ".")
		lower := strings.ToLower(email)
		if _, ok := seen[lower]; ok {
			continue
		}
		if IsDisposable(lower) || hasInvalidSuffix(lower) {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, email)
	}
	return out
}

func IsDisposable(email string) bool {
	lower := strings.ToLower(email)
	for _, p := range disposableProviders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func hasInvalidSuffix(email string) bool {
	for _, s := range invalidEmailSuffixes {
		if strings.HasSuffix(email, s) {
			return true
		}
	}
	return false
}
