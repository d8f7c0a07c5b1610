package extract

import (
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// Item - то, что нужно экстрактору от результата поиска
type Item struct {
	Title   string
	Snippet string
	Link    string
}

func (i Item) Text() string {
	return strings.TrimSpace(i.Title + " " + i.Snippet)
}

// Contacts извлекает контакты из заголовка и сниппета.
// Выведенный из домена адрес сюда не попадает.
func Contacts(item Item) domain.ContactInfo {
	return FromText(item.Text())
}

func FromText(text string) domain.ContactInfo {
	return domain.ContactInfo{
		Emails:    Emails(text),
		Phones:    Phones(text),
		Names:     PersonNames(text),
		Companies: CompanyNames(text),
	}
}

// HasContacts - есть ли email, имя или компания. Телефона одного мало.
func HasContacts(info domain.ContactInfo) bool {
	return len(info.Emails) > 0 || len(info.Names) > 0 || len(info.Companies) > 0
}

// Merge дописывает недостающие значения из other, порядок сохраняется
func Merge(base, other domain.ContactInfo) domain.ContactInfo {
	return domain.ContactInfo{
		Emails:    mergeUnique(base.Emails, other.Emails, true),
		Phones:    mergeUnique(base.Phones, other.Phones, false),
		Names:     mergeUnique(base.Names, other.Names, false),
		Companies: mergeUnique(base.Companies, other.Companies, false),
	}
}

func mergeUnique(a, b []string, fold bool) []string {
	if len(b) == 0 {
		return a
	}
	key := func(s string) string {
		if fold {
			return strings.ToLower(s)
		}
		return s
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if seen[key(s)] {
				continue
			}
			seen[key(s)] = true
			out = append(out, s)
		}
	}
	return out
}
