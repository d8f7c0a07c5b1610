package memory

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/kitbuilder587/lead-radar/internal/cache"
)

var _ cache.Cache = (*Cache)(nil)

func TestCache_SetAndGet(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, "test-key", []byte("test-value"), 5*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "test-key")
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(got) != "test-value" {
		t.Errorf("Get() = %q, want %q", got, "test-value")
	}
}

func TestCache_GetNonExistent(t *testing.T) {
	c := New()
	defer c.Stop()

	got, ok, err := c.Get(context.Background(), "non-existent")
	if ok || err != nil {
		t.Errorf("Get() ok=%v err=%v, want false nil", ok, err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "expiring-key", []byte("v"), 50*time.Millisecond)

	if _, ok, _ := c.Get(ctx, "expiring-key"); !ok {
		t.Error("Key should exist before TTL expiration")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "expiring-key"); ok {
		t.Error("Key should be expired after TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "delete-key", []byte("v"), time.Hour)
	c.Delete(ctx, "delete-key")

	if _, ok, _ := c.Get(ctx, "delete-key"); ok {
		t.Error("Key should not exist after delete")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("value1"), time.Hour)
	c.Set(ctx, "k", []byte("value2"), time.Hour)

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "value2" {
		t.Errorf("Get() = %q, want value2 after overwrite", got)
	}
}

func TestCache_SetCopiesValue(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	buf := []byte("abc")
	c.Set(ctx, "k", buf, time.Hour)
	buf[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed with caller buffer: %q", got)
	}
}

func TestCache_Stop(t *testing.T) {
	c := New()
	c.Stop()
	c.Stop()
}

func TestCache_CleanupRemovesExpired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewWithContext(ctx, 10*time.Millisecond)
	defer c.Stop()

	c.Set(ctx, "short", []byte("v"), time.Millisecond)
	c.Set(ctx, "long", []byte("v"), time.Hour)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after cleanup", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New()
	defer c.Stop()
	ctx := context.Background()

	done := make(chan bool)

	go func() {
		for i := 0; i < 1000; i++ {
			c.Set(ctx, "concurrent-key", []byte(strconv.Itoa(i)), time.Hour)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 1000; i++ {
			c.Get(ctx, "concurrent-key")
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			c.Delete(ctx, "concurrent-key")
			time.Sleep(time.Microsecond)
		}
		done <- true
	}()

	<-done
	<-done
	<-done
}
