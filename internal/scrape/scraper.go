// Package scrape дочитывает страницу результата поиска и достает с нее контакты.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/extract"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/ratelimit"
)

var (
	ErrSkipped     = errors.New("page skipped")
	ErrBadStatus   = errors.New("unexpected status")
	ErrNotHTML     = errors.New("not an html page")
	ErrFetchFailed = errors.New("fetch failed")
)

type Config struct {
	Timeout           time.Duration
	MaxBodyBytes      int64
	UserAgent         string
	RequestsPerSecond float64
}

type Scraper struct {
	client    *http.Client
	maxBody   int64
	userAgent string
	hosts     *ratelimit.HostLimiter
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func New(cfg Config, m *metrics.Metrics, logger *zap.Logger) *Scraper {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; LeadRadar/1.0)"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}

	return &Scraper{
		client:    &http.Client{Timeout: cfg.Timeout},
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
		hosts:     ratelimit.NewHostLimiter(cfg.RequestsPerSecond, 1),
		metrics:   m,
		logger:    logger,
	}
}

// Contacts скачивает страницу и возвращает найденные на ней контакты.
// Страницы соцсетей не трогаем: они закрыты логином и банят ботов.
func (s *Scraper) Contacts(ctx context.Context, link string) (domain.ContactInfo, error) {
	host := extract.Host(link)
	if host == "" || extract.IsSocialDomain(host) {
		return domain.ContactInfo{}, ErrSkipped
	}

	if err := s.hosts.WaitURL(ctx, link); err != nil {
		return domain.ContactInfo{}, err
	}

	info, err := s.fetch(ctx, link)
	s.record(err)
	if err != nil {
		s.logger.Debug("scrape failed", zap.String("url", link), zap.Error(err))
		return domain.ContactInfo{}, err
	}
	return info, nil
}

func (s *Scraper) fetch(ctx context.Context, link string) (domain.ContactInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return domain.ContactInfo{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.ContactInfo{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ContactInfo{}, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return domain.ContactInfo{}, ErrNotHTML
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return domain.ContactInfo{}, fmt.Errorf("parse html: %w", err)
	}

	return ParseDocument(doc), nil
}

// ParseDocument - mailto:/tel: ссылки плюс видимый текст страницы
func ParseDocument(doc *goquery.Document) domain.ContactInfo {
	var anchors domain.ContactInfo

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)

		switch {
		case strings.HasPrefix(lower, "mailto:"):
			addr := href[len("mailto:"):]
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			anchors.Emails = append(anchors.Emails, extract.Emails(addr)...)
		case strings.HasPrefix(lower, "tel:"):
			anchors.Phones = append(anchors.Phones, extract.Phones(href[len("tel:"):])...)
		}
	})

	doc.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if text == "" {
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}

	fromText := extract.FromText(text)
	// на полной странице имена слишком шумные, берем только явные контакты
	fromText.Names = nil

	return extract.Merge(anchors, fromText)
}

func (s *Scraper) record(err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrBadStatus):
		status = "bad_status"
	case errors.Is(err, ErrNotHTML):
		status = "not_html"
	default:
		status = "error"
	}
	s.metrics.RecordScrape(status)
}
