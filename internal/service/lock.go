package service

import (
	"context"
	"sync"
	"time"

	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TenantLocker serializes payment recording per tenant. The returned func
// releases the lock.
type TenantLocker interface {
	Lock(ctx context.Context, tenantID string) (func(), error)
}

// NewTenantLocker uses Redis when a client is given so that several server
// instances share the lock, and an in-process lock otherwise.
func NewTenantLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) TenantLocker {
	if client == nil {
		return NewLocalLocker()
	}
	return &redisLocker{client: client, ttl: ttl, wait: ttl, retry: 50 * time.Millisecond, logger: logger}
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func (l *redisLocker) Lock(ctx context.Context, tenantID string) (func(), error) {
	key := "lock:payment:" + tenantID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, customError.WrapCacheError(err)
		}
		if ok {
			return func() {
				// the request context may already be cancelled
				if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
					l.logger.Warn("releasing payment lock",
						zap.String("op", "service.redisLocker.Lock"),
						zap.String("tenant_id", tenantID),
						zap.Error(err))
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, customError.WrapPaymentInProgress(tenantID)
		}

		select {
		case <-ctx.Done():
			return nil, customError.WrapPaymentInProgress(tenantID)
		case <-time.After(l.retry):
		}
	}
}

// LocalLocker is a keyed mutex that honours context cancellation.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, tenantID string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[tenantID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[tenantID] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-ctx.Done():
		return nil, customError.WrapPaymentInProgress(tenantID)
	}
}
