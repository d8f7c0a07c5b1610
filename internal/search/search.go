package search

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("search API key or engine id is not configured")
	ErrUnauthorized       = errors.New("invalid API key")
	ErrQuotaExceeded      = errors.New("search quota exceeded")
	ErrRateLimit          = errors.New("rate limit exceeded")
	ErrInvalidRequest     = errors.New("invalid request parameters")
	ErrSearchFailed       = errors.New("search request failed")
)

const (
	// DefaultPageSize - максимум результатов на страницу у API
	DefaultPageSize = 10
	// MaxResultIndex - API не отдаёт результаты дальше сотого
	MaxResultIndex = 100
)

type SearchClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type SearchRequest struct {
	Query        string
	Start        int // 1-based
	Num          int
	DateRestrict string
}

// StartForPage - смещение для страницы с нуля при размере size:
// для 10 это 1, 11, 21...
func StartForPage(page, size int) int {
	if size <= 0 || size > DefaultPageSize {
		size = DefaultPageSize
	}
	return page*size + 1
}

type SearchResponse struct {
	Query        string
	Results      []SearchResult
	TotalResults int64
}

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ProviderError - провайдер отклонил запрос. Err - одна из ошибок пакета.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusCode достаёт HTTP статус из цепочки ошибок, 0 если его нет
func StatusCode(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// IsConfigError - ошибка конфигурации, дальше искать бессмысленно
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingCredentials)
}
