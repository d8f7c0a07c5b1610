package extract

import (
	"regexp"
	"strings"
)

var (
	personNameRe = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)
	companyRe    = regexp.MustCompile(`((?:[A-Z][A-Za-z0-9&'-]*\s+){1,4})(Inc|LLC|Corp|Ltd|Co)\b\.?`)
	wordRe       = regexp.MustCompile(`[a-z]+`)
)

var businessTerms = map[string]bool{
	"inc": true, "llc": true, "corp": true, "ltd": true,
	"company": true, "group": true, "solutions": true, "services": true,
}

var commonWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "her", "was", "one", "our",
	"had", "words", "what", "were", "they", "we", "when", "your", "said",
	"each", "which", "she", "do", "how", "their", "if", "will", "up", "other", "about", "out",
	"many", "then", "them", "these", "so", "some", "would", "make", "like", "into", "him",
	"has", "two", "more", "go", "no", "way", "could", "my", "than", "first", "been", "call",
	"who", "its", "now", "find", "long", "down", "day", "did", "get", "come", "made", "may", "part",
	// частые заглавные слова в сниппетах, которые не имена
	"contact", "home", "page", "profile", "view", "join", "hiring", "read", "more", "new",
	"san", "los", "las", "united", "north", "south", "east", "west",
	"senior", "chief", "head", "lead", "founder", "manager", "director", "engineer",
)

// рабочие роли в начале названия компании: "CTO Acme Inc"
var roleTokens = toSet(
	"ceo", "cto", "cfo", "coo", "cmo", "vp", "founder", "cofounder", "co-founder",
	"director", "manager", "head", "lead", "senior", "at",
)

// PersonNames - кандидаты "Имя Фамилия" без бизнес-суффиксов и служебных слов
func PersonNames(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range personNameRe.FindAllString(text, -1) {
		if seen[m] || !isLikelyPersonName(m) {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func isLikelyPersonName(name string) bool {
	words := strings.Fields(name)
	if len(words) != 2 {
		return false
	}
	for _, w := range words {
		lw := strings.ToLower(w)
		if businessTerms[lw] || commonWords[lw] {
			return false
		}
	}
	return true
}

// CompanyNames - названия перед Inc/LLC/Corp/Ltd/Co
func CompanyNames(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range companyRe.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(m[1])
		for len(words) > 0 && roleTokens[strings.ToLower(words[0])] {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		name := strings.Join(words, " ") + " " + m[2]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

var jobTitleKeywords = []struct {
	word  string
	title string
}{
	{"ceo", "CEO"},
	{"cto", "CTO"},
	{"manager", "Manager"},
	{"director", "Director"},
	{"lead", "Lead"},
	{"senior", "Senior"},
	{"head", "Head"},
}

// GuessJobTitle ищет ключевое слово должности целым словом. "" если нет.
func GuessJobTitle(text string) string {
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
	}
	for _, k := range jobTitleKeywords {
		if words[k.word] {
			return k.title
		}
	}
	return ""
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
