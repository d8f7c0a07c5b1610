package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/search"
)

const (
	providerName   = "google"
	maxBodyBytes   = 2 << 20
	defaultBaseURL = "https://www.googleapis.com"
)

type Config struct {
	APIKey  string
	CX      string
	BaseURL string
	Timeout time.Duration
}

// Client - Google Custom Search JSON API. Повторов нет: ошибка отдаётся сразу.
type Client struct {
	apiKey  string
	cx      string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		cx:      cfg.CX,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type googleResponse struct {
	Items             []googleItem `json:"items"`
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Error *googleError `json:"error"`
}

type googleItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"errors"`
	Status string `json:"status"`
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	if c.apiKey == "" || c.cx == "" {
		return nil, search.ErrMissingCredentials
	}
	if req.Start <= 0 {
		req.Start = 1
	}
	if req.Num <= 0 || req.Num > search.DefaultPageSize {
		req.Num = search.DefaultPageSize
	}
	if req.Start+req.Num-1 > search.MaxResultIndex {
		return &search.SearchResponse{Query: req.Query}, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", req.Query)
	params.Set("num", strconv.Itoa(req.Num))
	params.Set("start", strconv.Itoa(req.Start))
	if req.DateRestrict != "" {
		params.Set("dateRestrict", req.DateRestrict)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customsearch/v1?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", search.ErrSearchFailed, err)
	}

	var gr googleResponse
	parseErr := json.Unmarshal(body, &gr)

	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp.StatusCode, gr.Error, body)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", search.ErrSearchFailed, parseErr)
	}
	// бывает 200 с телом ошибки
	if gr.Error != nil {
		code := gr.Error.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, c.providerError(code, gr.Error, body)
	}

	c.logger.Debug("search page fetched",
		zap.String("query", req.Query),
		zap.Int("start", req.Start),
		zap.Int("items", len(gr.Items)),
	)

	return toSearchResponse(req.Query, &gr), nil
}

func (c *Client) providerError(status int, ge *googleError, body []byte) error {
	msg := ""
	reason := ""
	if ge != nil {
		msg = ge.Message
		if len(ge.Errors) > 0 {
			reason = ge.Errors[0].Reason
		}
	}
	if msg == "" {
		msg = truncate(string(body), 200)
	}

	c.logger.Warn("search provider error",
		zap.Int("status", status),
		zap.String("reason", reason),
		zap.String("message", msg),
	)

	return &search.ProviderError{
		Provider:   providerName,
		StatusCode: status,
		Message:    msg,
		Err:        classify(status, reason),
	}
}

func classify(status int, reason string) error {
	switch reason {
	case "dailyLimitExceeded", "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return search.ErrQuotaExceeded
	}
	switch status {
	case http.StatusBadRequest:
		return search.ErrInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return search.ErrUnauthorized
	case http.StatusTooManyRequests:
		return search.ErrRateLimit
	}
	return search.ErrSearchFailed
}

func toSearchResponse(query string, gr *googleResponse) *search.SearchResponse {
	results := make([]search.SearchResult, 0, len(gr.Items))
	for _, it := range gr.Items {
		results = append(results, search.SearchResult{
			Title:   it.Title,
			Link:    it.Link,
			Snippet: it.Snippet,
		})
	}
	total, _ := strconv.ParseInt(gr.SearchInformation.TotalResults, 10, 64)

	return &search.SearchResponse{
		Query:        query,
		Results:      results,
		TotalResults: total,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
