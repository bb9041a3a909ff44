package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RespondentLock serializes event processing per respondent. Workers for
// different respondents run fully parallel; two events for the same
// respondent must never interleave their read-modify-write of the session.
type RespondentLock interface {
	// Acquire tries to take the lock; it returns a release token and
	// whether the lock was obtained.
	Acquire(ctx context.Context, respondentID string) (string, bool, error)
	// Release frees the lock only if the token still owns it.
	Release(ctx context.Context, respondentID, token string) error
}

type respondentLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRespondentLock creates an advisory lock keyed by respondent id. The
// TTL bounds how long a crashed worker can block a respondent.
func NewRespondentLock(client *redis.Client, ttl time.Duration) RespondentLock {
	return &respondentLock{client: client, ttl: ttl}
}

func (l *respondentLock) key(respondentID string) string {
	return "lock:respondent:" + respondentID
}

func (l *respondentLock) Acquire(ctx context.Context, respondentID string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, l.key(respondentID), token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// releaseScript deletes the lock only when the stored token matches, so an
// expired lock re-acquired by another worker is never released by the
// original holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *respondentLock) Release(ctx context.Context, respondentID, token string) error {
	return releaseScript.Run(ctx, l.client, []string{l.key(respondentID)}, token).Err()
}
