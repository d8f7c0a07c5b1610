package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/search"
)

const (
	providerName = "tavily"
	// больше за один запрос API не отдаёт
	maxResults = 20
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client - запасной провайдер поиска. Страниц у Tavily нет, поэтому
// страница эмулируется запросом первых start+num результатов.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.tavily.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results,omitempty"`
	SearchDepth       string `json:"search_depth,omitempty"`
	TimeRange         string `json:"time_range,omitempty"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
	Error string `json:"error"`
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	if c.apiKey == "" {
		return nil, search.ErrMissingCredentials
	}
	if req.Start <= 0 {
		req.Start = 1
	}
	if req.Num <= 0 || req.Num > search.DefaultPageSize {
		req.Num = search.DefaultPageSize
	}
	offset := req.Start - 1
	if offset >= maxResults {
		return &search.SearchResponse{Query: req.Query}, nil
	}
	want := offset + req.Num
	if want > maxResults {
		want = maxResults
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       req.Query,
		MaxResults:  want,
		SearchDepth: "basic",
		TimeRange:   timeRange(req.DateRestrict),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", search.ErrSearchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp.StatusCode, respBody)
	}

	var tr tavilyResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", search.ErrSearchFailed, err)
	}

	out := &search.SearchResponse{Query: req.Query, TotalResults: int64(len(tr.Results))}
	if offset >= len(tr.Results) {
		return out, nil
	}
	for _, r := range tr.Results[offset:] {
		out.Results = append(out.Results, search.SearchResult{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Content,
		})
	}
	return out, nil
}

func (c *Client) providerError(status int, body []byte) error {
	var te tavilyError
	_ = json.Unmarshal(body, &te)
	msg := te.Detail.Error
	if msg == "" {
		msg = te.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	c.logger.Warn("search provider error", zap.String("provider", providerName), zap.Int("status", status), zap.String("message", msg))

	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = search.ErrInvalidRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = search.ErrUnauthorized
	case http.StatusTooManyRequests:
		sentinel = search.ErrRateLimit
	case 432, 433:
		// лимит тарифа
		sentinel = search.ErrQuotaExceeded
	default:
		sentinel = search.ErrSearchFailed
	}

	return &search.ProviderError{Provider: providerName, StatusCode: status, Message: msg, Err: sentinel}
}

func timeRange(dateRestrict string) string {
	switch dateRestrict {
	case "d1":
		return "day"
	case "d3", "w1":
		return "week"
	case "m1":
		return "month"
	case "y1":
		return "year"
	}
	return ""
}
