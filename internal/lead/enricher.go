package lead

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/extract"
	"github.com/kitbuilder587/lead-radar/internal/llm"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
)

const enrichSystemPrompt = `You enrich B2B lead profiles from web search results.
Return ONLY a JSON object. Allowed keys: name, company, jobTitle, location, industry, companySize.
Every value must be a string taken from or clearly implied by the source text.
Omit keys you are not sure about. Never invent email addresses or phone numbers.`

type EnricherDeps struct {
	LLM      llm.Client
	Provider string
	Pacer    *ratelimit.Pacer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Enricher дополняет лид через LLM. Заполняет только то, что подставлено
// заглушкой; извлеченные из текста значения не трогает.
type Enricher struct {
	llm      llm.Client
	provider string
	pacer    *ratelimit.Pacer
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewEnricher(deps EnricherDeps) *Enricher {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Provider == "" {
		deps.Provider = "llm"
	}
	return &Enricher{
		llm:      deps.LLM,
		provider: deps.Provider,
		pacer:    deps.Pacer,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

type enrichment struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	JobTitle    string `json:"jobTitle"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`
	CompanySize string `json:"companySize"`
}

// Enrich возвращает дополненную копию. Любая ошибка - исходный лид без изменений.
func (e *Enricher) Enrich(ctx context.Context, l domain.Lead, item extract.Item) domain.Lead {
	if e == nil || e.llm == nil || !needsEnrichment(l) {
		return l
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return l
	}

	start := time.Now()
	resp, err := e.llm.CompleteWithSystem(ctx, enrichSystemPrompt, buildEnrichPrompt(l, item))
	e.record(err, time.Since(start))
	if err != nil {
		e.logger.Warn("lead enrichment failed", zap.String("source", l.SourceURL), zap.Error(err))
		return l
	}

	en, err := parseEnrichment(resp)
	if err != nil {
		e.logger.Debug("enrichment response dropped", zap.Error(err))
		return l
	}

	return applyEnrichment(l, en)
}

func needsEnrichment(l domain.Lead) bool {
	return l.NamePlaceholder || l.CompanyFallback || l.JobTitleGuessed ||
		l.LocationUnknown || l.IndustryUnknown || l.CompanySizeDefault
}

func buildEnrichPrompt(l domain.Lead, item extract.Item) string {
	var sb strings.Builder

	partial := map[string]string{
		"name":     l.Name,
		"company":  l.Company,
		"jobTitle": l.JobTitle,
		"location": l.Location,
		"industry": l.Industry,
	}
	b, _ := json.MarshalIndent(partial, "", "  ")

	sb.WriteString("Lead:\n")
	sb.Write(b)
	sb.WriteString("\n\nSource: ")
	sb.WriteString(item.Title)
	sb.WriteString(" - ")
	sb.WriteString(item.Snippet)
	sb.WriteString("\nURL: ")
	sb.WriteString(item.Link)
	sb.WriteString("\n\nReturn enhanced details in JSON format only.")

	return sb.String()
}

func parseEnrichment(resp string) (enrichment, error) {
	raw, err := llm.ExtractJSON(resp)
	if err != nil {
		return enrichment{}, err
	}

	// значения не-строки отбрасываем по одному, а не весь ответ
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return enrichment{}, fmt.Errorf("unmarshal enrichment: %w", err)
	}

	str := func(key string) string {
		v, ok := fields[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	return enrichment{
		Name:        str("name"),
		Company:     str("company"),
		JobTitle:    str("jobTitle"),
		Location:    str("location"),
		Industry:    str("industry"),
		CompanySize: str("companySize"),
	}, nil
}

func applyEnrichment(l domain.Lead, en enrichment) domain.Lead {
	if l.NamePlaceholder && en.Name != "" {
		l.Name, l.NamePlaceholder = en.Name, false
	}
	if l.CompanyFallback && en.Company != "" {
		l.Company, l.CompanyFallback = en.Company, false
	}
	if l.JobTitleGuessed && en.JobTitle != "" {
		l.JobTitle, l.JobTitleGuessed = en.JobTitle, false
	}
	if l.LocationUnknown && en.Location != "" {
		l.Location, l.LocationUnknown = en.Location, false
	}
	if l.IndustryUnknown && en.Industry != "" {
		l.Industry, l.IndustryUnknown = en.Industry, false
	}
	if l.CompanySizeDefault && en.CompanySize != "" {
		l.CompanySize, l.CompanySizeDefault = en.CompanySize, false
	}
	return l
}

func (e *Enricher) record(err error, d time.Duration) {
	if e.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordLLMRequest(e.provider, status, d)
}
