package domain

// DorkBreakdown - какие поля критериев дали какие части запроса
type DorkBreakdown struct {
	BaseQuery           string   `json:"baseQuery"`
	IndustryFilter      string   `json:"industryFilter,omitempty"`
	LocationFilter      string   `json:"locationFilter,omitempty"`
	RoleFilter          string   `json:"roleFilter,omitempty"`
	KeywordFilters      []string `json:"keywordFilters,omitempty"`
	FieldFilter         string   `json:"fieldFilter,omitempty"`
	CustomTagFilters    []string `json:"customTagFilters,omitempty"`
	ContactRequirements string   `json:"contactRequirements"`
}

type DorkQuery struct {
	Query       string        `json:"query"`
	Category    string        `json:"category,omitempty"`
	Description string        `json:"description,omitempty"`
	Breakdown   DorkBreakdown `json:"breakdown"`
}
