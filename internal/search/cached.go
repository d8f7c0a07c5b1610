package search

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kitbuilder587/lead-radar/internal/cache"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
)

// CachedClient кеширует страницы выдачи и склеивает одновременные
// одинаковые запросы в один вызов провайдера. Ошибки не кешируются.
type CachedClient struct {
	next    SearchClient
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
	group   singleflight.Group
}

func NewCachedClient(next SearchClient, c cache.Cache, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *CachedClient {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &CachedClient{
		next:    next,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

func (c *CachedClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	key := CacheKey(req)

	if c.cache != nil {
		if resp, ok := c.fromCache(ctx, key); ok {
			if c.metrics != nil {
				c.metrics.RecordCacheHit()
			}
			return resp, nil
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss()
		}
	}

	// общий вызов не зависит от отмены первого из ждущих,
	// каждый ждёт его по своему ctx
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx := context.WithoutCancel(ctx)
		start := time.Now()
		resp, err := c.next.Search(callCtx, req)
		if c.metrics != nil {
			c.metrics.RecordSearchRequest(statusLabel(err), time.Since(start))
		}
		if err != nil {
			return nil, err
		}
		c.store(callCtx, key, resp)
		return resp, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("search request coalesced", zap.String("query", req.Query))
	}

	resp := *res.Val.(*SearchResponse)
	resp.Results = append([]SearchResult(nil), resp.Results...)
	return &resp, nil
}

func (c *CachedClient) fromCache(ctx context.Context, key string) (*SearchResponse, bool) {
	b, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("search cache get failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp SearchResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		c.logger.Warn("search cache entry is corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (c *CachedClient) store(ctx context.Context, key string, resp *SearchResponse) {
	if c.cache == nil {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
		c.logger.Warn("search cache set failed", zap.Error(err))
	}
}

// CacheKey - хеш нормализованного запроса и параметров страницы
func CacheKey(req SearchRequest) string {
	q := strings.Join(strings.Fields(strings.ToLower(req.Query)), " ")
	data := fmt.Sprintf("%s|%d|%d|%s", q, req.Start, req.Num, req.DateRestrict)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("search:%x", hash[:8])
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrMissingCredentials):
		return "unauthorized"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	}
	return "error"
}
