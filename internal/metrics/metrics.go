package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	RunsInFlight     prometheus.Gauge
	LeadsPerRun      prometheus.Histogram
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	LeadsExtractedTotal *prometheus.CounterVec
	LeadsRejectedTotal  *prometheus.CounterVec

	ScrapeRequestsTotal *prometheus.CounterVec

	MailsSentTotal *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

// New регистрирует метрики в reg. nil - глобальный регистратор.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_runs_total",
				Help: "Total number of lead generation runs",
			},
			[]string{"mode", "outcome"},
		),
		RunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_run_duration_seconds",
				Help:    "Lead generation run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"mode"},
		),
		RunsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_runs_in_flight",
				Help: "Number of lead generation runs in progress",
			},
		),
		LeadsPerRun: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leadgen_leads_per_run",
				Help:    "Number of leads returned by a run after dedup",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_requests_total",
				Help: "Total number of user requests processed",
			},
			[]string{"surface", "command", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_request_duration_seconds",
				Help:    "User request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"surface", "command"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadgen_requests_in_flight",
				Help: "Number of user requests currently being processed",
			},
		),

		SearchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_search_requests_total",
				Help: "Total number of search API requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_search_request_duration_seconds",
				Help:    "Search request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{},
		),

		LLMRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_llm_requests_total",
				Help: "Total number of LLM enrichment requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadgen_llm_request_duration_seconds",
				Help:    "LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		LeadsExtractedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_leads_extracted_total",
				Help: "Total number of leads built from search results",
			},
			[]string{"platform"},
		),
		LeadsRejectedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_leads_rejected_total",
				Help: "Total number of search results without usable contacts",
			},
			[]string{"platform"},
		),

		ScrapeRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_scrape_requests_total",
				Help: "Total number of contact page fetches",
			},
			[]string{"status"},
		),

		MailsSentTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_mails_sent_total",
				Help: "Total number of outreach emails",
			},
			[]string{"provider", "status"},
		),

		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "leadgen_cache_hits_total",
				Help: "Total number of search cache hits",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "leadgen_cache_misses_total",
				Help: "Total number of search cache misses",
			},
		),

		RateLimitHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_rate_limit_hits_total",
				Help: "Total number of rejected requests due to rate limiting",
			},
			[]string{"surface"},
		),
	}
}

// Handler отдаёт метрики из g. nil - глобальный.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRun(mode, outcome string, leads int, duration time.Duration) {
	m.RunsTotal.WithLabelValues(mode, outcome).Inc()
	m.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.LeadsPerRun.Observe(float64(leads))
}

func (m *Metrics) RecordRequest(surface, command, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(surface, command, status).Inc()
	m.RequestDuration.WithLabelValues(surface, command).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordLeadExtracted(platform string) {
	m.LeadsExtractedTotal.WithLabelValues(platform).Inc()
}

func (m *Metrics) RecordLeadRejected(platform string) {
	m.LeadsRejectedTotal.WithLabelValues(platform).Inc()
}

func (m *Metrics) RecordScrape(status string) {
	m.ScrapeRequestsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordMail(provider, status string) {
	m.MailsSentTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitHit(surface string) {
	m.RateLimitHitsTotal.WithLabelValues(surface).Inc()
}

func (m *Metrics) IncRunsInFlight() {
	m.RunsInFlight.Inc()
}

func (m *Metrics) DecRunsInFlight() {
	m.RunsInFlight.Dec()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
