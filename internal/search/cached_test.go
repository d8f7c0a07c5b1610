package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/cache/memory"
	"github.com/kitbuilder587/lead-radar/internal/metrics"
	"github.com/kitbuilder587/lead-radar/internal/search"
	"github.com/kitbuilder587/lead-radar/internal/search/mock"
)

func TestCachedClient_HitsCache(t *testing.T) {
	c := memory.New()
	defer c.Stop()
	m := metrics.New(prometheus.NewRegistry())

	inner := mock.New().WithResults([]search.SearchResult{{Title: "Jane Doe", Link: "https://a.com"}})
	client := search.NewCachedClient(inner, c, time.Minute, m, zap.NewNop())

	req := search.SearchRequest{Query: "site:linkedin.com/in CTO", Start: 1}
	for i := 0; i < 3; i++ {
		resp, err := client.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(resp.Results) != 1 || resp.Results[0].Title != "Jane Doe" {
			t.Fatalf("unexpected response %+v", resp)
		}
	}

	if inner.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", inner.Calls())
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
}

func TestCachedClient_KeyIncludesPage(t *testing.T) {
	c := memory.New()
	defer c.Stop()

	inner := mock.New().WithResults([]search.SearchResult{{Title: "x"}})
	client := search.NewCachedClient(inner, c, time.Minute, nil, zap.NewNop())

	client.Search(context.Background(), search.SearchRequest{Query: "q", Start: 1})
	client.Search(context.Background(), search.SearchRequest{Query: "q", Start: 11})
	client.Search(context.Background(), search.SearchRequest{Query: "  Q ", Start: 1})

	if inner.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", inner.Calls())
	}
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	c := memory.New()
	defer c.Stop()

	inner := mock.New().WithError(search.ErrRateLimit)
	client := search.NewCachedClient(inner, c, time.Minute, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := client.Search(context.Background(), search.SearchRequest{Query: "q"})
		if !errors.Is(err, search.ErrRateLimit) {
			t.Fatalf("error = %v", err)
		}
	}
	if inner.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", inner.Calls())
	}
}

func TestCachedClient_CoalescesConcurrent(t *testing.T) {
	inner := mock.New().
		WithResults([]search.SearchResult{{Title: "x"}}).
		WithDelay(100 * time.Millisecond)
	client := search.NewCachedClient(inner, nil, time.Minute, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Search(context.Background(), search.SearchRequest{Query: "same"}); err != nil {
				t.Errorf("Search() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if inner.Calls() >= 5 {
		t.Errorf("provider calls = %d, expected coalescing", inner.Calls())
	}
}

func TestCachedClient_CancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := mock.New().
		WithResults([]search.SearchResult{{Title: "x"}}).
		WithDelay(150 * time.Millisecond)
	client := search.NewCachedClient(inner, nil, time.Minute, nil, zap.NewNop())
	req := search.SearchRequest{Query: "shared"}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.Search(firstCtx, req)
		firstErr <- err
	}()

	// второй встаёт в очередь к уже идущему вызову
	time.Sleep(30 * time.Millisecond)
	secondErr := make(chan error, 1)
	go func() {
		_, err := client.Search(context.Background(), req)
		secondErr <- err
	}()

	time.Sleep(30 * time.Millisecond)
	cancelFirst()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller error = %v, want context.Canceled", err)
	}
	if err := <-secondErr; err != nil {
		t.Errorf("second caller error = %v, want nil", err)
	}
	if inner.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", inner.Calls())
	}
}

func TestStartForPage(t *testing.T) {
	tests := []struct {
		name string
		page int
		size int
		want int
	}{
		{"first page", 0, 10, 1},
		{"third page of ten", 2, 10, 21},
		{"second page of five", 1, 5, 6},
		{"fourth page of five", 3, 5, 16},
		{"zero size falls back", 1, 0, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.StartForPage(tt.page, tt.size); got != tt.want {
				t.Errorf("StartForPage(%d, %d) = %d, want %d", tt.page, tt.size, got, tt.want)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	a := search.CacheKey(search.SearchRequest{Query: "Foo  Bar", Start: 1})
	b := search.CacheKey(search.SearchRequest{Query: "foo bar", Start: 1})
	c := search.CacheKey(search.SearchRequest{Query: "foo bar", Start: 1, DateRestrict: "w1"})

	if a != b {
		t.Error("normalized queries should share a key")
	}
	if a == c {
		t.Error("date restriction must change the key")
	}
}

func TestProviderError(t *testing.T) {
	err := error(&search.ProviderError{Provider: "google", StatusCode: 429, Err: search.ErrRateLimit})
	if !errors.Is(err, search.ErrRateLimit) {
		t.Error("ProviderError should unwrap to its sentinel")
	}
	if search.StatusCode(err) != 429 {
		t.Errorf("StatusCode() = %d", search.StatusCode(err))
	}
	if search.StatusCode(errors.New("plain")) != 0 {
		t.Error("plain error has no status")
	}
	if err.Error() != "google: status 429: rate limit exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
}
