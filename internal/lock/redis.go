// Package lock provides a best-effort run lock so overlapping cron triggers
// do not process the same reminders twice.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RunLock is a SETNX lock with a TTL. A nil *RunLock (or one built without a
// redis client) is valid and always grants the lock, which keeps
// single-instance deployments working without redis.
type RunLock struct {
	client *redis.Client
	script *redis.Script
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *RunLock {
	if client == nil {
		return nil
	}

	return &RunLock{
		client: client,
		script: redis.NewScript(releaseScript),
		ttl:    ttl,
	}
}

// Acquire attempts to take the named lock. It returns a release token when
// the lock was granted and false when another holder has it.
func (l *RunLock) Acquire(ctx context.Context, key string) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", true, nil
	}

	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}

	return token, ok, nil
}

// Release frees the lock if it is still held under the given token. An
// expired or stolen lock is left alone.
func (l *RunLock) Release(ctx context.Context, key, token string) {
	if l == nil || l.client == nil {
		return
	}

	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 250*time.Millisecond)
	defer cancel()

	_ = l.script.Run(releaseCtx, l.client, []string{key}, token).Err()
}
