package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	a := NewRedisLock(client, "import:org-1", time.Minute)
	ok, err := a.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	b := NewRedisLock(client, "import:org-1", time.Minute)
	ok, err = b.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second acquire should fail while lock is held")
	}

	if err := a.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = b.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestRedisLock_ReleaseByNonOwnerIsNoop(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	owner := NewRedisLock(client, "import:org-2", time.Minute)
	if ok, _ := owner.Acquire(ctx); !ok {
		t.Fatal("owner acquire failed")
	}

	stranger := NewRedisLock(client, "import:org-2", time.Minute)
	if err := stranger.Release(ctx); err != nil {
		t.Fatalf("stranger release: %v", err)
	}

	// Owner still holds the lock.
	third := NewRedisLock(client, "import:org-2", time.Minute)
	if ok, _ := third.Acquire(ctx); ok {
		t.Error("lock was released by a non-owner")
	}
}
