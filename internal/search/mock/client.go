package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/lead-radar/internal/search"
)

// Client - поиск для тестов. Results отдаются только на первой странице,
// если не заданы страницы явно через WithPage.
type Client struct {
	Results []search.SearchResult
	Error   error
	Delay   time.Duration

	pages       map[pageKey][]search.SearchResult
	queryErrors map[string]error

	CallCount   int
	LastRequest search.SearchRequest
	AllRequests []search.SearchRequest

	mu sync.Mutex
}

type pageKey struct {
	query string
	start int
}

func New() *Client {
	return &Client{
		pages:       make(map[pageKey][]search.SearchResult),
		queryErrors: make(map[string]error),
	}
}

func (c *Client) WithResults(results []search.SearchResult) *Client {
	c.Results = results
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

// WithPage задаёт выдачу для конкретного запроса и смещения
func (c *Client) WithPage(query string, start int, results []search.SearchResult) *Client {
	c.pages[pageKey{query, start}] = results
	return c
}

// WithQueryError - ошибка только для одного запроса
func (c *Client) WithQueryError(query string, err error) *Client {
	c.queryErrors[query] = err
	return c
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastRequest = req
	c.AllRequests = append(c.AllRequests, req)
	delay := c.Delay
	err := c.Error
	if qerr, ok := c.queryErrors[req.Query]; ok {
		err = qerr
	}
	start := req.Start
	if start <= 0 {
		start = 1
	}
	results, explicit := c.pages[pageKey{req.Query, start}]
	if !explicit && start == 1 {
		results = c.Results
	}
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	return &search.SearchResponse{
		Query:        req.Query,
		Results:      results,
		TotalResults: int64(len(results)),
	}, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Requests() []search.SearchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]search.SearchRequest, len(c.AllRequests))
	copy(out, c.AllRequests)
	return out
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastRequest = search.SearchRequest{}
	c.AllRequests = nil
}
