package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// ErrTimelineBusy is returned when another writer holds the tariff timeline
// of the same service.
var ErrTimelineBusy = errors.New("tariff_timeline_busy")

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const serviceLockTTL = 10 * time.Second

// Locker serializes mutations of one service's tariffs across processes.
// The database transaction already isolates statements; the lock keeps two
// concurrent edits from interleaving into overlapping intervals.
type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("lock client not configured")
	}
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}

// withServiceLock runs fn while holding the per-service mutex when a locker
// is configured; single-process deployments rely on the DB transaction alone.
func (s *Service) withServiceLock(ctx context.Context, serviceID snowflake.ID, fn func() error) error {
	if s.locker == nil {
		return fn()
	}

	key := fmt.Sprintf("tariffs:svc:%d", serviceID)
	token, ok, err := s.locker.TryLock(ctx, key, serviceLockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTimelineBusy
	}
	defer func() {
		_ = s.locker.Release(ctx, key, token)
	}()

	return fn()
}
