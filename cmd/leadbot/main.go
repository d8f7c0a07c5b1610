package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/lead-radar/internal/config"
	"github.com/kitbuilder587/lead-radar/internal/httpapi"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/telegram"
)

func main() {
	os.Exit(runMain())
}

// runMain возвращает код выхода. Все defer успевают отработать до os.Exit.
func runMain() int {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("leadbot stopped with error", zap.Error(err))
		return 1
	}
	logger.Info("leadbot stopped")
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	app, err := build(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Token != "" {
		bot, err := telegram.New(telegram.BotConfig{
			Token:             cfg.Telegram.Token,
			Debug:             cfg.Telegram.Debug,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			DefaultMode:       app.defaultMode,
		}, app.leads, app.history, logger.Named("telegram"), m)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := bot.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if cfg.HTTP.Addr != "" {
		srv := httpapi.NewServer(httpapi.Config{
			Addr:              cfg.HTTP.Addr,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			MetricsPath:       cfg.HTTP.MetricsPath,
			WriteTimeout:      cfg.RunTimeout + time.Minute,
		}, httpapi.Deps{
			Leads:    app.leads,
			History:  app.history,
			Outreach: app.outreach,
			Logger:   logger.Named("http"),
			Metrics:  m,
			Gatherer: reg,
		})
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		})
	}

	logger.Info("leadbot started",
		zap.String("search_provider", cfg.Search.Provider),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("mail_provider", cfg.Mail.Provider),
		zap.Bool("telegram", cfg.Telegram.Token != ""),
		zap.String("http_addr", cfg.HTTP.Addr),
	)

	return g.Wait()
}
