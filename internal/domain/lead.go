package domain

import (
	"strings"
	"time"
)

const (
	MinScore = 0
	MaxScore = 100
)

// ContactInfo - всё, что удалось вытащить из одного результата поиска
type ContactInfo struct {
	Emails    []string `json:"emails,omitempty"`
	Phones    []string `json:"phones,omitempty"`
	Names     []string `json:"names,omitempty"`
	Companies []string `json:"companies,omitempty"`
}

func (c ContactInfo) IsEmpty() bool {
	return len(c.Emails) == 0 && len(c.Phones) == 0 && len(c.Names) == 0 && len(c.Companies) == 0
}

type Lead struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Company       string      `json:"company"`
	JobTitle      string      `json:"jobTitle"`
	Email         string      `json:"email,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	Location      string      `json:"location"`
	Industry      string      `json:"industry"`
	LinkedInURL   string      `json:"linkedinUrl,omitempty"`
	CompanySize   string      `json:"companySize"`
	Score         int         `json:"score"`
	SourceURL     string      `json:"sourceUrl"`
	Platform      Platform    `json:"platform"`
	ExtractedData ContactInfo `json:"extractedData"`

	// флаги подстановок, в выдачу не попадают
	NamePlaceholder    bool `json:"-"`
	CompanyFallback    bool `json:"-"`
	EmailInferred      bool `json:"-"`
	JobTitleGuessed    bool `json:"-"`
	LocationUnknown    bool `json:"-"`
	IndustryUnknown    bool `json:"-"`
	CompanySizeDefault bool `json:"-"`
}

// HasRealEmail - адрес найден в тексте, а не выведен из домена
func (l Lead) HasRealEmail() bool {
	return l.Email != "" && !l.EmailInferred
}

func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// QueryResult - итог одного запроса по всем его страницам
type QueryResult struct {
	Query      string  `json:"query"`
	Pages      int     `json:"pages"`
	Items      int     `json:"items"`
	Leads      int     `json:"leads"`
	Outcome    Outcome `json:"outcome"`
	Error      string  `json:"error,omitempty"`
	StatusCode int     `json:"statusCode,omitempty"`
}

type PlatformResult struct {
	Platform Platform      `json:"platform"`
	Count    int           `json:"count"`
	Queries  []QueryResult `json:"queries"`
	Outcome  Outcome       `json:"outcome"`
}

func (p PlatformResult) QueryStrings() []string {
	out := make([]string, 0, len(p.Queries))
	for _, q := range p.Queries {
		out = append(out, q.Query)
	}
	return out
}

type LeadGenerationResult struct {
	ID              string           `json:"id"`
	Leads           []Lead           `json:"leads"`
	TotalCount      int              `json:"totalCount"`
	Criteria        SearchCriteria   `json:"criteria"`
	Mode            ModeType         `json:"mode"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	DorkQueries     []string         `json:"dorkQueries"`
	PlatformResults []PlatformResult `json:"platformResults"`
	Outcome         Outcome          `json:"outcome"`
	Duration        time.Duration    `json:"duration"`
}

// DorkQueryText - все запросы прогона через " | "
func (r LeadGenerationResult) DorkQueryText() string {
	return strings.Join(r.DorkQueries, " | ")
}
