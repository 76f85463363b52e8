package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Cxsmxnaut/Gradely/internal/model"
	pkgerrors "github.com/Cxsmxnaut/Gradely/pkg/errors"
)

const sessionKeyPrefix = "gradely:session:"

// SessionRegistry records which session is currently active for each
// user. A background refresh is only allowed to commit its result if
// the session that enqueued it is still the active one; logout clears
// the entry so late-arriving refreshes are discarded.
type SessionRegistry struct {
	client *redis.Client
}

func NewSessionRegistry(redisClient *RedisClient) *SessionRegistry {
	return &SessionRegistry{client: redisClient.Client()}
}

func (r *SessionRegistry) SetActive(ctx context.Context, userID, sessionID string) error {
	return r.client.Set(ctx, sessionKeyPrefix+userID, sessionID, 0).Err()
}

func (r *SessionRegistry) Active(ctx context.Context, userID string) (string, error) {
	sessionID, err := r.client.Get(ctx, sessionKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", pkgerrors.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active session: %w", err)
	}
	return sessionID, nil
}

func (r *SessionRegistry) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKeyPrefix+userID).Err()
}

// Verify returns ErrSessionSuperseded when the job's session is no
// longer the active one for its user.
func (r *SessionRegistry) Verify(ctx context.Context, job model.RefreshJob) error {
	active, err := r.Active(ctx, job.UserID)
	if err != nil {
		return err
	}
	if active != job.SessionID {
		return pkgerrors.ErrSessionSuperseded
	}
	return nil
}
