package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// SessionCache keeps a short-lived snapshot of a respondent's session for
// the admin status endpoint, sparing mongo a read per poll.
type SessionCache interface {
	Set(ctx context.Context, session *model.SurveySession) error
	Get(ctx context.Context, respondentID string) (*model.SurveySession, error)
	Invalidate(ctx context.Context, respondentID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session snapshot cache.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &sessionCache{client: client, ttl: ttl}
}

func (c *sessionCache) key(respondentID string) string {
	return "session:respondent:" + respondentID
}

func (c *sessionCache) Set(ctx context.Context, session *model.SurveySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.RespondentID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, respondentID string) (*model.SurveySession, error) {
	data, err := c.client.Get(ctx, c.key(respondentID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.SurveySession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Invalidate(ctx context.Context, respondentID string) error {
	return c.client.Del(ctx, c.key(respondentID)).Err()
}
