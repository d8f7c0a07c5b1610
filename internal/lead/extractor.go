// Package lead превращает результаты поиска в оцененные лиды.
package lead

import (
	"context"
	"hash/fnv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/extract"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
)

const (
	UnknownCompany     = "Unknown"
	DefaultJobTitle    = "Professional"
	UnknownLocation    = "Not specified"
	DefaultIndustry    = "General"
	DefaultCompanySize = "1-50"
)

// имена-заглушки, когда в тексте нет имени
var placeholderNames = []string{
	"Alex Johnson",
	"Sarah Chen",
	"Michael Rodriguez",
	"Emily Davis",
	"James Wilson",
}

// Scraper достает контакты со страницы результата
type Scraper interface {
	Contacts(ctx context.Context, link string) (domain.ContactInfo, error)
}

type ExtractorDeps struct {
	Scraper  Scraper
	Enricher *Enricher
	Scorer   *Scorer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

type Extractor struct {
	scraper  Scraper
	enricher *Enricher
	scorer   *Scorer
	metrics  *metrics.Metrics
	logger   *zap.Logger
	newID    func() string
}

func NewExtractor(deps ExtractorDeps) *Extractor {
	if deps.Scorer == nil {
		deps.Scorer = NewScorer(DefaultWeights())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Extractor{
		scraper:  deps.Scraper,
		enricher: deps.Enricher,
		scorer:   deps.Scorer,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		newID:    uuid.NewString,
	}
}

// Options - что делать сверх разбора сниппета
type Options struct {
	// Deep включает чтение страницы и обогащение через LLM
	Deep bool
}

// Extract возвращает лид или false, если в результате нет ни email, ни имени, ни компании.
func (e *Extractor) Extract(ctx context.Context, item extract.Item, c domain.SearchCriteria, p domain.Platform, opts Options) (*domain.Lead, bool) {
	info := extract.Contacts(item)

	if opts.Deep && e.scraper != nil {
		page, err := e.scraper.Contacts(ctx, item.Link)
		if err != nil {
			e.logger.Debug("page contacts unavailable, using snippet only",
				zap.String("link", item.Link),
				zap.String("platform", p.String()),
				zap.Error(err),
			)
		} else {
			info = extract.Merge(info, page)
		}
	}

	if !extract.HasContacts(info) {
		if e.metrics != nil {
			e.metrics.RecordLeadRejected(p.String())
		}
		return nil, false
	}

	l := e.build(info, item, c, p)

	if opts.Deep && e.enricher != nil {
		l = e.enricher.Enrich(ctx, l, item)
	}

	l.Score = e.scorer.Score(l, c)

	if e.metrics != nil {
		e.metrics.RecordLeadExtracted(p.String())
	}
	return &l, true
}

func (e *Extractor) build(info domain.ContactInfo, item extract.Item, c domain.SearchCriteria, p domain.Platform) domain.Lead {
	l := domain.Lead{
		ID:            e.newID(),
		SourceURL:     item.Link,
		Platform:      p,
		ExtractedData: info,
	}

	if len(info.Names) > 0 {
		l.Name = info.Names[0]
	} else {
		l.Name = PlaceholderName(item.Link)
		l.NamePlaceholder = true
	}

	switch {
	case len(info.Companies) > 0:
		l.Company = info.Companies[0]
	case !extract.IsSocialDomain(extract.Host(item.Link)) && extract.CompanyFromURL(item.Link) != "":
		l.Company = extract.CompanyFromURL(item.Link)
		l.CompanyFallback = true
	default:
		l.Company = UnknownCompany
		l.CompanyFallback = true
	}

	switch {
	case len(info.Emails) > 0:
		l.Email = info.Emails[0]
	default:
		if inferred := extract.InferEmail(item.Link); inferred != "" {
			l.Email = inferred
			l.EmailInferred = true
		}
	}

	if len(info.Phones) > 0 {
		l.Phone = info.Phones[0]
	}

	if title := extract.GuessJobTitle(item.Title); title != "" {
		l.JobTitle = title
	} else if c.JobTitle != "" {
		l.JobTitle = c.JobTitle
		l.JobTitleGuessed = true
	} else {
		l.JobTitle = DefaultJobTitle
		l.JobTitleGuessed = true
	}

	if loc := c.Location.String(); loc != "" {
		l.Location = loc
	} else {
		l.Location = UnknownLocation
		l.LocationUnknown = true
	}

	if ind := c.PrimaryIndustry(); ind != "" {
		l.Industry = ind
	} else {
		l.Industry = DefaultIndustry
		l.IndustryUnknown = true
	}

	if c.CompanySize != "" {
		l.CompanySize = c.CompanySize
	} else {
		l.CompanySize = DefaultCompanySize
		l.CompanySizeDefault = true
	}

	if p == domain.PlatformLinkedIn {
		l.LinkedInURL = item.Link
	}

	return l
}

// PlaceholderName - одно и то же имя для одной и той же ссылки
func PlaceholderName(link string) string {
	h := fnv.New32a()
	h.Write([]byte(link))
	return placeholderNames[h.Sum32()%uint32(len(placeholderNames))]
}
