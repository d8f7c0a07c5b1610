package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/cache"
	"github.com/kitbuilder587/lead-radar/internal/cache/memory"
	rediscache "github.com/kitbuilder587/lead-radar/internal/cache/redis"
	"github.com/kitbuilder587/lead-radar/internal/config"
	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/dork"
	"github.com/kitbuilder587/lead-radar/internal/lead"
	"github.com/kitbuilder587/lead-radar/internal/llm"
	"github.com/kitbuilder587/lead-radar/internal/llm/gemini"
	llmmock "github.com/kitbuilder587/lead-radar/internal/llm/mock"
	"github.com/kitbuilder587/lead-radar/internal/llm/openai"
	"github.com/kitbuilder587/lead-radar/internal/mail"
	"github.com/kitbuilder587/lead-radar/internal/mail/brevo"
	"github.com/kitbuilder587/lead-radar/internal/mail/smtp"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
	"github.com/kitbuilder587/lead-radar/internal/repository"
	memrepo "github.com/kitbuilder587/lead-radar/internal/repository/memory"
	"github.com/kitbuilder587/lead-radar/internal/repository/postgres"
	"github.com/kitbuilder587/lead-radar/internal/scrape"
	"github.com/kitbuilder587/lead-radar/internal/search"
	"github.com/kitbuilder587/lead-radar/internal/search/google"
	"github.com/kitbuilder587/lead-radar/internal/search/tavily"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

// app - собранные сервисы и то, что нужно закрыть при остановке
type app struct {
	leads       service.LeadService
	history     service.HistoryService
	outreach    service.OutreachService
	defaultMode domain.ModeType
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func build(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*app, error) {
	a := &app{defaultMode: domain.ModeType(cfg.DefaultMode)}

	if err := service.SetExportLicense(cfg.Export.UniofficeKey); err != nil {
		// без лицензии xlsx недоступен, csv работает
		logger.Warn("xlsx export disabled", zap.Error(err))
	}

	catalog := dork.DefaultCatalog()
	if cfg.Dork.PatternsFile != "" {
		c, err := dork.LoadCatalog(cfg.Dork.PatternsFile)
		if err != nil {
			return nil, fmt.Errorf("load dork patterns: %w", err)
		}
		catalog = c
	}

	searchClient, err := a.buildSearch(ctx, cfg, m, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	llmClient, llmProvider := buildLLM(cfg, logger)

	var scraper lead.Scraper
	if cfg.Scrape.Enabled {
		scraper = scrape.New(scrape.Config{
			Timeout:           cfg.Scrape.Timeout,
			MaxBodyBytes:      cfg.Scrape.MaxBodyBytes,
			RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
		}, m, logger.Named("scrape"))
	}

	var enricher *lead.Enricher
	if llmClient != nil {
		enricher = lead.NewEnricher(lead.EnricherDeps{
			LLM:      llmClient,
			Provider: llmProvider,
			Pacer:    ratelimit.NewPacer(cfg.Pacing.Enrich),
			Metrics:  m,
			Logger:   logger.Named("enrich"),
		})
	}

	extractor := lead.NewExtractor(lead.ExtractorDeps{
		Scraper:  scraper,
		Enricher: enricher,
		Scorer:   lead.NewScorer(lead.DefaultWeights()),
		Metrics:  m,
		Logger:   logger.Named("extract"),
	})

	runs, err := a.buildRepository(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.leads = service.NewLeadService(service.LeadServiceDeps{
		Builder:   dork.NewBuilder(catalog),
		Advanced:  dork.NewAdvancedBuilder(catalog),
		Search:    searchClient,
		Extractor: extractor,
		Pacer:     ratelimit.NewPacer(cfg.Pacing.Search),
		History:   runs,
		Logger:    logger.Named("leads"),
		Metrics:   m,
		Config: service.LeadConfig{
			PageSize:    cfg.Search.PageSize,
			RunTimeout:  cfg.RunTimeout,
			DefaultMode: a.defaultMode,
		},
	})
	a.history = service.NewHistoryService(runs, logger.Named("history"))

	sender, err := buildMail(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.outreach = service.NewOutreachService(service.OutreachDeps{
		Sender:      sender,
		Provider:    cfg.Mail.Provider,
		Pacer:       ratelimit.NewPacer(cfg.Pacing.Mail),
		DefaultFrom: mail.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromEmail},
		Logger:      logger.Named("outreach"),
		Metrics:     m,
	})

	return a, nil
}

func (a *app) buildSearch(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (search.SearchClient, error) {
	var client search.SearchClient
	switch cfg.Search.Provider {
	case "tavily":
		client = tavily.New(tavily.Config{
			APIKey:  cfg.Tavily.APIKey,
			BaseURL: cfg.Tavily.BaseURL,
			Timeout: cfg.Tavily.Timeout,
		}, logger.Named("tavily"))
	default:
		client = google.New(google.Config{
			APIKey:  cfg.Google.APIKey,
			CX:      cfg.Google.CX,
			BaseURL: cfg.Google.BaseURL,
			Timeout: cfg.Google.Timeout,
		}, logger.Named("google"))
	}

	var c cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		rc, err := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, logger.Named("cache"))
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		a.closers = append(a.closers, func() { rc.Close() })
		c = rc
	default:
		mc := memory.New()
		a.closers = append(a.closers, mc.Stop)
		c = mc
	}

	return search.NewCachedClient(client, c, cfg.Cache.TTL, m, logger.Named("search")), nil
}

func (a *app) buildRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RunRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL is empty, run history is kept in memory")
		return memrepo.NewRunRepository(), nil
	}

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return postgres.NewRunRepo(db), nil
}

func buildLLM(cfg *config.Config, logger *zap.Logger) (llm.Client, string) {
	switch cfg.LLM.Provider {
	case "gemini":
		return gemini.New(gemini.Config{
			APIKey:  cfg.LLM.Gemini.APIKey,
			Model:   cfg.LLM.Gemini.Model,
			BaseURL: cfg.LLM.Gemini.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger.Named("gemini")), "gemini"
	case "openai":
		return openai.New(openai.Config{
			APIKey:  cfg.LLM.OpenAI.APIKey,
			Model:   cfg.LLM.OpenAI.Model,
			BaseURL: cfg.LLM.OpenAI.BaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger.Named("openai")), "openai"
	case "mock":
		return llmmock.New(), "mock"
	default:
		return nil, ""
	}
}

func buildMail(cfg *config.Config, logger *zap.Logger) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case "brevo":
		return brevo.New(brevo.Config{
			APIKey:  cfg.Mail.Brevo.APIKey,
			BaseURL: cfg.Mail.Brevo.BaseURL,
			Timeout: cfg.Mail.Timeout,
		}, logger.Named("brevo")), nil
	case "smtp":
		c, err := smtp.New(smtp.Config{
			Host:     cfg.Mail.SMTP.Host,
			Port:     cfg.Mail.SMTP.Port,
			Username: cfg.Mail.SMTP.Username,
			Password: cfg.Mail.SMTP.Password,
			Timeout:  cfg.Mail.Timeout,
		}, logger.Named("smtp"))
		if err != nil {
			return nil, fmt.Errorf("create smtp client: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}
