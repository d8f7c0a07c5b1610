package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/dork"
	"github.com/kitbuilder587/lead-radar/internal/extract"
	"github.com/kitbuilder587/lead-radar/internal/lead"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
	"github.com/kitbuilder587/lead-radar/internal/repository"
	"github.com/kitbuilder587/lead-radar/internal/search"
)

type LeadService interface {
	Generate(ctx context.Context, req GenerateRequest) (*domain.LeadGenerationResult, error)
	Preview(req GenerateRequest) (*PreviewResult, error)
}

// GenerateRequest - критерии плюс режим. OwnerID нужен только для истории.
type GenerateRequest struct {
	OwnerID  string
	Criteria domain.SearchCriteria
	Mode     domain.ModeType
}

type PreviewResult struct {
	Criteria  domain.SearchCriteria
	Mode      domain.SearchMode
	Platforms []dork.PlatformQueries
	Advanced  []domain.DorkQuery
	Text      string
}

type LeadConfig struct {
	PageSize    int
	RunTimeout  time.Duration
	DefaultMode domain.ModeType
}

type LeadServiceDeps struct {
	Builder   *dork.Builder
	Advanced  *dork.AdvancedBuilder
	Search    search.SearchClient
	Extractor *lead.Extractor
	// пауза между обращениями к поиску, общая для всех прогонов
	Pacer   *ratelimit.Pacer
	History repository.RunRepository
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  LeadConfig
}

type leadService struct {
	builder   *dork.Builder
	advanced  *dork.AdvancedBuilder
	search    search.SearchClient
	extractor *lead.Extractor
	pacer     *ratelimit.Pacer
	history   repository.RunRepository
	logger    *zap.Logger
	metrics   *metrics.Metrics
	config    LeadConfig
}

func NewLeadService(deps LeadServiceDeps) LeadService {
	if deps.Builder == nil {
		deps.Builder = dork.NewBuilder(nil)
	}
	if deps.Advanced == nil {
		deps.Advanced = dork.NewAdvancedBuilder(nil)
	}
	if deps.Extractor == nil {
		deps.Extractor = lead.NewExtractor(lead.ExtractorDeps{Metrics: deps.Metrics, Logger: deps.Logger})
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.PageSize <= 0 || deps.Config.PageSize > search.DefaultPageSize {
		deps.Config.PageSize = search.DefaultPageSize
	}
	if deps.Config.RunTimeout == 0 {
		deps.Config.RunTimeout = 5 * time.Minute
	}
	if !deps.Config.DefaultMode.IsValid() {
		deps.Config.DefaultMode = domain.ModeStandard
	}

	return &leadService{
		builder:   deps.Builder,
		advanced:  deps.Advanced,
		search:    deps.Search,
		extractor: deps.Extractor,
		pacer:     deps.Pacer,
		history:   deps.History,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    deps.Config,
	}
}

// prepare применяет режим и проверяет критерии. Ошибка здесь - до любого запроса в сеть.
func (s *leadService) prepare(req GenerateRequest) (domain.SearchCriteria, domain.SearchMode, error) {
	modeType := req.Mode
	if modeType == "" {
		modeType = s.config.DefaultMode
	}
	if !modeType.IsValid() {
		return domain.SearchCriteria{}, domain.SearchMode{}, domain.ErrInvalidModeType
	}
	mode := domain.ModeByType(modeType)

	c := mode.Apply(req.Criteria).Sanitize()
	if err := c.Validate(); err != nil {
		return domain.SearchCriteria{}, domain.SearchMode{}, err
	}
	return c, mode, nil
}

func (s *leadService) Preview(req GenerateRequest) (*PreviewResult, error) {
	c, mode, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Criteria:  c,
		Mode:      mode,
		Platforms: s.builder.BuildAll(c, mode.MaxQueries),
		Advanced:  s.advanced.Build(c),
		Text:      dork.Preview(c, s.builder, mode.MaxQueries),
	}, nil
}

// errRunBudget - у прогона кончилось время. Наружу не уходит:
// прогон завершается с тем, что успел собрать.
var errRunBudget = errors.New("run time budget exhausted")

// Generate проходит платформы, запросы и страницы строго по очереди.
// Ошибка провайдера не прерывает прогон, а попадает в Outcome.
// По истечении RunTimeout оставшиеся запросы помечаются failed,
// а собранные лиды возвращаются. Ошибка - только при отмене вызывающим.
func (s *leadService) Generate(ctx context.Context, req GenerateRequest) (*domain.LeadGenerationResult, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncRunsInFlight()
		defer s.metrics.DecRunsInFlight()
	}

	c, mode, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if s.search == nil {
		return nil, search.ErrMissingCredentials
	}

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	s.logger.Info("lead generation started",
		zap.String("owner", req.OwnerID),
		zap.String("mode", string(mode.Type)),
		zap.Int("platforms", len(c.TargetPlatforms)),
		zap.Int("max_pages", c.MaxPages),
	)

	var (
		all       []domain.Lead
		queries   []string
		platforms []domain.PlatformResult
		outcomes  []domain.Outcome
		exhausted bool
	)

	for _, pq := range s.builder.BuildAll(c, mode.MaxQueries) {
		var (
			pr    domain.PlatformResult
			leads []domain.Lead
		)
		if exhausted {
			pr = skippedPlatform(pq)
		} else {
			pr, leads, err = s.runPlatform(runCtx, c, mode, pq)
			switch {
			case errors.Is(err, errRunBudget):
				exhausted = true
			case err != nil:
				return nil, err
			}
		}

		all = append(all, leads...)
		queries = append(queries, pq.Queries...)
		platforms = append(platforms, pr)
		outcomes = append(outcomes, pr.Outcome)

		s.logger.Info("platform processed",
			zap.String("platform", pq.Platform.String()),
			zap.Int("leads", pr.Count),
			zap.String("outcome", pr.Outcome.String()),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if exhausted {
		s.logger.Warn("run time budget exhausted, returning partial result",
			zap.Duration("run_timeout", s.config.RunTimeout),
			zap.Int("raw_leads", len(all)),
		)
	}

	leads := lead.FilterRequired(all, c)
	leads = lead.Dedupe(leads)
	lead.SortByScore(leads)
	if leads == nil {
		leads = []domain.Lead{}
	}

	res := &domain.LeadGenerationResult{
		ID:              uuid.NewString(),
		Leads:           leads,
		TotalCount:      len(leads),
		Criteria:        c,
		Mode:            mode.Type,
		GeneratedAt:     time.Now().UTC(),
		DorkQueries:     queries,
		PlatformResults: platforms,
		Outcome:         domain.CombineOutcomes(outcomes...),
		Duration:        time.Since(startTime),
	}

	s.saveHistory(ctx, req.OwnerID, res)

	if s.metrics != nil {
		s.metrics.RecordRun(string(mode.Type), res.Outcome.String(), res.TotalCount, res.Duration)
	}

	s.logger.Info("lead generation finished",
		zap.String("run_id", res.ID),
		zap.Int("leads", res.TotalCount),
		zap.Int("raw_leads", len(all)),
		zap.String("outcome", res.Outcome.String()),
		zap.Duration("duration", res.Duration),
	)

	return res, nil
}

// runPlatform возвращает errRunBudget вместе с тем, что успел собрать
func (s *leadService) runPlatform(ctx context.Context, c domain.SearchCriteria, mode domain.SearchMode, pq dork.PlatformQueries) (domain.PlatformResult, []domain.Lead, error) {
	pr := domain.PlatformResult{Platform: pq.Platform}
	var leads []domain.Lead
	var outcomes []domain.Outcome
	var runErr error

	for _, q := range pq.Queries {
		if runErr != nil {
			qr := skippedQuery(q)
			pr.Queries = append(pr.Queries, qr)
			outcomes = append(outcomes, qr.Outcome)
			continue
		}

		qr, found, err := s.runQuery(ctx, c, mode, pq.Platform, q)
		switch {
		case errors.Is(err, errRunBudget):
			runErr = err
		case err != nil:
			return pr, nil, err
		}
		leads = append(leads, found...)
		pr.Queries = append(pr.Queries, qr)
		outcomes = append(outcomes, qr.Outcome)
	}

	pr.Count = len(leads)
	pr.Outcome = domain.CombineOutcomes(outcomes...)
	return pr, leads, runErr
}

// runQuery листает страницы одного запроса. Ошибки провайдера пишет в
// QueryResult. Возвращает errRunBudget, если кончилось время прогона
// (найденное до этого остаётся), и ошибки конфигурации.
func (s *leadService) runQuery(ctx context.Context, c domain.SearchCriteria, mode domain.SearchMode, p domain.Platform, query string) (domain.QueryResult, []domain.Lead, error) {
	qr := domain.QueryResult{Query: query}
	var leads []domain.Lead
	var runErr error

	for page := 0; page < c.MaxPages; page++ {
		// rate.Limiter отказывает заранее, если пауза не влезает в дедлайн
		if err := s.pacer.Wait(ctx); err != nil {
			qr.Error = errRunBudget.Error()
			runErr = errRunBudget
			break
		}

		req := search.SearchRequest{
			Query:        query,
			Start:        search.StartForPage(page, s.config.PageSize),
			Num:          s.config.PageSize,
			DateRestrict: c.TimeRange.DateRestrict(),
		}

		resp, err := s.search.Search(ctx, req)
		if err != nil {
			if search.IsConfigError(err) {
				return qr, nil, err
			}
			if ctx.Err() != nil {
				qr.Error = errRunBudget.Error()
				runErr = errRunBudget
				break
			}

			qr.Error = err.Error()
			qr.StatusCode = search.StatusCode(err)
			s.logger.Warn("search request failed",
				zap.String("platform", p.String()),
				zap.String("query", query),
				zap.Int("page", page+1),
				zap.Error(err),
			)
			break
		}

		qr.Pages++
		if len(resp.Results) == 0 {
			break
		}
		qr.Items += len(resp.Results)

		for _, r := range resp.Results {
			item := extract.Item{Title: r.Title, Snippet: r.Snippet, Link: r.Link}
			if l, ok := s.extractor.Extract(ctx, item, c, p, lead.Options{Deep: mode.Enrich}); ok {
				leads = append(leads, *l)
			}
		}

		if len(resp.Results) < req.Num {
			break
		}
	}

	qr.Leads = len(leads)
	qr.Outcome = queryOutcome(qr)
	return qr, leads, runErr
}

func skippedQuery(query string) domain.QueryResult {
	return domain.QueryResult{
		Query:   query,
		Error:   errRunBudget.Error(),
		Outcome: domain.OutcomeFailed,
	}
}

func skippedPlatform(pq dork.PlatformQueries) domain.PlatformResult {
	pr := domain.PlatformResult{Platform: pq.Platform, Outcome: domain.OutcomeFailed}
	for _, q := range pq.Queries {
		pr.Queries = append(pr.Queries, skippedQuery(q))
	}
	return pr
}

func queryOutcome(qr domain.QueryResult) domain.Outcome {
	switch {
	case qr.Error != "" && qr.Pages == 0:
		return domain.OutcomeFailed
	case qr.Error != "":
		return domain.OutcomePartial
	case qr.Leads > 0:
		return domain.OutcomeSuccess
	}
	return domain.OutcomeEmpty
}

func (s *leadService) saveHistory(ctx context.Context, ownerID string, res *domain.LeadGenerationResult) {
	if s.history == nil || ownerID == "" {
		return
	}
	// история не должна зависеть от оставшегося бюджета прогона
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.history.Save(saveCtx, domain.NewRunFromResult(ownerID, res)); err != nil {
		s.logger.Warn("failed to save run history",
			zap.String("run_id", res.ID),
			zap.Error(fmt.Errorf("save run: %w", err)),
		)
	}
}
