package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a heartbeat keeps a member marked online.
const DefaultTTL = 45 * time.Second

// RedisTracker implements Tracker on a Redis sorted set per team. The member
// payload is stored as JSON; the score is the entry's expiry deadline, so
// pruning is a single ZREMRANGEBYSCORE.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisTracker creates a Tracker backed by the given Redis client.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTracker{client: client, ttl: ttl, now: time.Now}
}

func teamKey(teamID uuid.UUID) string {
	return "presence:" + teamID.String()
}

// Heartbeat marks the member online until now+TTL. Re-tracking an already
// online member just refreshes the deadline.
func (t *RedisTracker) Heartbeat(ctx context.Context, teamID uuid.UUID, m Member) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding presence member: %w", err)
	}

	deadline := float64(t.now().Add(t.ttl).UnixMilli())
	key := teamKey(teamID)

	pipe := t.client.Pipeline()
	// One hash entry per user id points at the current payload so a changed
	// full_name does not leave a stale duplicate in the set.
	pipe.HSet(ctx, key+":members", m.UserID.String(), payload)
	pipe.ZAdd(ctx, key, redis.Z{Score: deadline, Member: m.UserID.String()})
	pipe.Expire(ctx, key, t.ttl*4)
	pipe.Expire(ctx, key+":members", t.ttl*4)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording heartbeat: %w", err)
	}

	return nil
}

// List prunes expired entries and returns the members still online.
func (t *RedisTracker) List(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	key := teamKey(teamID)
	now := t.now().UnixMilli()

	if err := t.client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", now)).Err(); err != nil {
		return nil, fmt.Errorf("pruning presence set: %w", err)
	}

	ids, err := t.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading presence set: %w", err)
	}
	if len(ids) == 0 {
		return []Member{}, nil
	}

	payloads, err := t.client.HMGet(ctx, key+":members", ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading presence payloads: %w", err)
	}

	members := make([]Member, 0, len(payloads))
	for _, raw := range payloads {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var m Member
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			continue
		}
		members = append(members, m)
	}

	return members, nil
}

// Leave removes the member immediately instead of waiting for expiry.
func (t *RedisTracker) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	key := teamKey(teamID)

	pipe := t.client.Pipeline()
	pipe.ZRem(ctx, key, userID.String())
	pipe.HDel(ctx, key+":members", userID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("removing presence entry: %w", err)
	}

	return nil
}
