package lead

import (
	"strings"

	"github.com/kitbuilder587/lead-radar/internal/domain"
)

// Weights - очки за каждый сигнал. Эвристика без калибровки.
type Weights struct {
	Base     int
	Email    int
	Phone    int
	Name     int
	Company  int
	Industry int
	Location int
	JobTitle int
}

func DefaultWeights() Weights {
	return Weights{
		Base:     30,
		Email:    25,
		Phone:    20,
		Name:     15,
		Company:  10,
		Industry: 20,
		Location: 15,
		JobTitle: 20,
	}
}

type Scorer struct {
	w Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{w: w}
}

// Score детерминирован и всегда в [0,100]
func (s *Scorer) Score(l domain.Lead, c domain.SearchCriteria) int {
	score := s.w.Base

	if l.HasRealEmail() {
		score += s.w.Email
	}
	if l.Phone != "" {
		score += s.w.Phone
	}
	if l.Name != "" && !l.NamePlaceholder {
		score += s.w.Name
	}
	if l.Company != "" && l.Company != UnknownCompany {
		score += s.w.Company
	}
	if industryMatches(l.Industry, c.Industry) {
		score += s.w.Industry
	}
	if loc := c.Location.Primary(); loc != "" && containsFold(l.Location, loc) {
		score += s.w.Location
	}
	if c.JobTitle != "" && containsFold(l.JobTitle, c.JobTitle) {
		score += s.w.JobTitle
	}

	return domain.ClampScore(score)
}

func industryMatches(leadIndustry string, wanted []string) bool {
	for _, ind := range wanted {
		if containsFold(leadIndustry, ind) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return sub != "" && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
