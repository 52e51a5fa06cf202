package cache

import (
	"context"
	"testing"
	"time"

	"leadcrm_backend/internal/taxonomy"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	parent := int16(2)
	nodes := []taxonomy.Node{
		{ID: 2, Dimension: taxonomy.DimensionCall, Code: "ANSWERED", Name: "Answered", IsActive: true},
		{ID: 3, Dimension: taxonomy.DimensionCall, Code: "HAS_DEMAND", Name: "Has demand", ParentID: &parent, IsActive: true},
	}

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("Get on empty cache = (ok=%v, err=%v), want miss", ok, err)
	}

	if err := c.Set(ctx, nodes); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("Get after Set = (ok=%v, err=%v), want hit", ok, err)
	}
	if len(got) != 2 || got[0].Code != "ANSWERED" || got[1].ParentID == nil || *got[1].ParentID != 2 {
		t.Fatalf("cached nodes = %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, []taxonomy.Node{{ID: 1, Dimension: taxonomy.DimensionCall, Code: "UNCONTACTED"}}); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("Get after TTL = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestCacheCorruptPayloadTreatedAsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set(snapshotKey, "{not json")

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("Get with corrupt payload = (ok=%v, err=%v), want silent miss", ok, err)
	}
	// The broken key is dropped so the next writer starts clean.
	if mr.Exists(snapshotKey) {
		t.Error("corrupt payload left in place")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, []taxonomy.Node{{ID: 1, Dimension: taxonomy.DimensionCall, Code: "UNCONTACTED"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("Get after Invalidate = (ok=%v, err=%v), want miss", ok, err)
	}
}
