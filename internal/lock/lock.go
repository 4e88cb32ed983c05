// Package lock provides named locks shared by all service instances so that
// scheduled jobs run on one instance at a time.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "haitaton:lock:" // haitaton:lock:{name}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Service struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewService(client *redis.Client, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{client: client, ttl: ttl, log: log}
}

// TryLock reserves name for the lock TTL. It returns the token needed to
// release the lock, or ok=false when another holder has it.
func (s *Service) TryLock(ctx context.Context, name string) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.client.SetNX(ctx, keyPrefix+name, token, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return token, ok, nil
}

func (s *Service) Unlock(ctx context.Context, name, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{keyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

// DoIfUnlocked runs fn while holding the named lock. Nothing runs when the
// lock is held elsewhere. Errors from fn are logged, not returned.
func (s *Service) DoIfUnlocked(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	token, ok, err := s.TryLock(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info("Lock already reserved, skipping", "name", name)
		return nil
	}
	s.log.Info("Lock obtained", "name", name)

	defer func() {
		// release even when ctx was cancelled during fn
		if err := s.Unlock(context.WithoutCancel(ctx), name, token); err != nil {
			s.log.Error("lock not released", "name", name, "error", err)
			return
		}
		s.log.Info("Lock released", "name", name)
	}()

	if err := fn(ctx); err != nil {
		s.log.Error("locked job failed", "name", name, "error", err)
	}
	return nil
}
