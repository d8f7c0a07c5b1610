package domain

import "time"

// Run - сохранённый прогон для истории
type Run struct {
	ID              string
	OwnerID         string
	Criteria        SearchCriteria
	Mode            ModeType
	Outcome         Outcome
	DorkQueries     []string
	PlatformResults []PlatformResult
	Leads           []Lead
	TotalCount      int
	Duration        time.Duration
	CreatedAt       time.Time
}

func NewRunFromResult(ownerID string, res *LeadGenerationResult) *Run {
	return &Run{
		ID:              res.ID,
		OwnerID:         ownerID,
		Criteria:        res.Criteria,
		Mode:            res.Mode,
		Outcome:         res.Outcome,
		DorkQueries:     res.DorkQueries,
		PlatformResults: res.PlatformResults,
		Leads:           res.Leads,
		TotalCount:      res.TotalCount,
		Duration:        res.Duration,
		CreatedAt:       res.GeneratedAt,
	}
}

// Result восстанавливает результат для повторного экспорта
func (r *Run) Result() *LeadGenerationResult {
	return &LeadGenerationResult{
		ID:              r.ID,
		Leads:           r.Leads,
		TotalCount:      r.TotalCount,
		Criteria:        r.Criteria,
		Mode:            r.Mode,
		GeneratedAt:     r.CreatedAt,
		DorkQueries:     r.DorkQueries,
		PlatformResults: r.PlatformResults,
		Outcome:         r.Outcome,
		Duration:        r.Duration,
	}
}
