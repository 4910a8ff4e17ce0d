package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls map[string]time.Duration
	pingErr     error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:        map[string]string{},
		incr:        map[string]int64{},
		expireCalls: map[string]time.Duration{},
	}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.pingErr != nil {
		cmd.SetErr(m.pingErr)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = toString(value)
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, exists := m.data[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	m.data[key] = toString(value)
	cmd.SetVal(true)
	return cmd
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(m.incr[key])
	return cmd
}

func (m *mockCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expireCalls[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	c := &Client{store: newMockCmdable()}

	if got := c.IdempotencyKey("checkout", "abc"); got != "mritika:idempotency:checkout:abc" {
		t.Fatalf("unexpected idempotency key: %s", got)
	}
	if got := c.RateLimitKey("login:10.0.0.1"); got != "mritika:rate_limit:login:10.0.0.1" {
		t.Fatalf("unexpected rate limit key: %s", got)
	}
	if got := c.AccessSessionKey("token-id"); got != "mritika:session:access:token-id" {
		t.Fatalf("unexpected session key: %s", got)
	}
}

func TestSetGetDel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &Client{store: newMockCmdable()}

	if err := c.Set(ctx, "mritika:test:key", "value", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "mritika:test:key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "value" {
		t.Fatalf("expected value, got %q", got)
	}

	if err := c.Del(ctx, "mritika:test:key"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := c.Get(ctx, "mritika:test:key"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNX(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &Client{store: newMockCmdable()}
	key := c.IdempotencyKey("orders", "req-1")

	ok, err := c.SetNX(ctx, key, "pending", time.Minute)
	if err != nil {
		t.Fatalf("SetNX: %v", err)
	}
	if !ok {
		t.Fatal("expected first SetNX to succeed")
	}

	ok, err = c.SetNX(ctx, key, "pending", time.Minute)
	if err != nil {
		t.Fatalf("SetNX: %v", err)
	}
	if ok {
		t.Fatal("expected second SetNX to report existing key")
	}
}

func TestIncrWithTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mock := newMockCmdable()
	c := &Client{store: mock}
	key := c.RateLimitKey("login:10.0.0.1")

	count, err := c.IncrWithTTL(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("IncrWithTTL: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if ttl, ok := mock.expireCalls[key]; !ok || ttl != time.Minute {
		t.Fatalf("expected expire to be set on first increment, got %v", mock.expireCalls)
	}

	count, err = c.IncrWithTTL(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("IncrWithTTL: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected expire to run only once, got %d calls", len(mock.expireCalls))
	}
}

func TestUninitializedClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &Client{}

	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := c.Get(ctx, "any"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on empty client: %v", err)
	}
}
