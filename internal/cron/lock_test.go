package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedis()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected to acquire the lock (ok=%v err=%v)", ok, err)
	}

	second, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct second lock: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("second instance must not acquire a held lock (ok=%v err=%v)", ok, err)
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release (ok=%v err=%v)", ok, err)
	}
}

func TestRedisLockReleaseRespectsOwner(t *testing.T) {
	store := newFakeRedis()
	ctx := context.Background()

	holder, _ := NewRedisLock(store, "cron:lock", time.Minute)
	if ok, _ := holder.Acquire(ctx); !ok {
		t.Fatalf("expected acquire")
	}

	// Simulate another owner overwriting the key after an expiry.
	store.data["cron:lock"] = "someone-else"
	if err := holder.Release(ctx); err != nil {
		t.Fatalf("release must be a no-op for a foreign owner: %v", err)
	}
	if store.data["cron:lock"] != "someone-else" {
		t.Fatalf("release must not delete a foreign lock")
	}
}
