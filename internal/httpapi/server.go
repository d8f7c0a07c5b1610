// Package httpapi - HTTP-поверхность поверх тех же сервисов, что и бот.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

type Config struct {
	Addr              string
	RequestsPerMinute int
	MetricsPath       string
	ReadTimeout       time.Duration
	// запись ответа ждёт весь прогон поиска
	WriteTimeout time.Duration
}

type Deps struct {
	Leads    service.LeadService
	History  service.HistoryService
	Outreach service.OutreachService
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

type Server struct {
	srv     *http.Server
	router  *gin.Engine
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

func NewServer(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 6 * time.Minute
	}

	gin.SetMode(gin.ReleaseMode)

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute})
	h := &handlers{
		leads:    deps.Leads,
		history:  deps.History,
		outreach: deps.Outreach,
		logger:   deps.Logger,
	}

	router := gin.New()
	router.Use(requestID())
	router.Use(recovery(deps.Logger, deps.Metrics))
	router.Use(requestLogger(deps.Logger, deps.Metrics))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET(cfg.MetricsPath, gin.WrapH(metrics.Handler(deps.Gatherer)))

	api := router.Group("/api/v1")
	api.Use(rateLimit(limiter, deps.Logger, deps.Metrics))
	{
		api.POST("/leads/search", h.search)
		api.POST("/leads/preview", h.preview)
		api.GET("/runs", h.listRuns)
		api.GET("/runs/:id", h.getRun)
		api.GET("/runs/:id/export", h.exportRun)
		api.POST("/outreach", h.sendOutreach)
	}

	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		router:  router,
		limiter: limiter,
		logger:  deps.Logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.srv.Addr))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	defer s.limiter.Stop()
	return s.srv.Shutdown(ctx)
}
