package lead

import (
	"sort"
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// Key - email в нижнем регистре, иначе "имя-компания"
func Key(l domain.Lead) string {
	if l.Email != "" {
		return strings.ToLower(l.Email)
	}
	return l.Name + "-" + l.Company
}

// Dedupe оставляет по одному лиду на ключ: с большим счетом, при равенстве первый.
// Порядок - по первому появлению ключа.
func Dedupe(leads []domain.Lead) []domain.Lead {
	if len(leads) == 0 {
		return nil
	}

	index := make(map[string]int, len(leads))
	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		k := Key(l)
		if i, ok := index[k]; ok {
			if l.Score > out[i].Score {
				out[i] = l
			}
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}
	return out
}

// SortByScore - по убыванию счета, равные сохраняют порядок
func SortByScore(leads []domain.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Score > leads[j].Score
	})
}

// FilterRequired отбрасывает лиды без email/телефона, если критерии их требуют.
// Выведенный из домена адрес за email не считается.
func FilterRequired(leads []domain.Lead, c domain.SearchCriteria) []domain.Lead {
	if !c.EmailRequired && !c.PhoneRequired {
		return leads
	}
	out := leads[:0:0]
	for _, l := range leads {
		if c.EmailRequired && !l.HasRealEmail() {
			continue
		}
		if c.PhoneRequired && l.Phone == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
