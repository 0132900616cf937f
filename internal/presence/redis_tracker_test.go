package presence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTestRedisAddr = "127.0.0.1:6379"

func setupTracker(t *testing.T) (*RedisTracker, func()) {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = defaultTestRedisAddr
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("skipping: cannot ping test redis: %v", err)
	}

	return NewRedisTracker(client, DefaultTTL), func() { _ = client.Close() }
}

func strPtr(s string) *string { return &s }

func TestHeartbeatThenList_ReturnsMember(t *testing.T) {
	tracker, cleanup := setupTracker(t)
	defer cleanup()

	ctx := context.Background()
	teamID := uuid.New()
	m := Member{UserID: uuid.New(), FullName: strPtr("Ada"), Email: strPtr("ada@example.com")}

	require.NoError(t, tracker.Heartbeat(ctx, teamID, m))

	members, err := tracker.List(ctx, teamID)
	require.NoError(t, err)

	require.Len(t, members, 1)
	assert.Equal(t, m.UserID, members[0].UserID)
	require.NotNil(t, members[0].FullName)
	assert.Equal(t, "Ada", *members[0].FullName)
}

func TestHeartbeat_RefreshesPayloadWithoutDuplicating(t *testing.T) {
	tracker, cleanup := setupTracker(t)
	defer cleanup()

	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()

	require.NoError(t, tracker.Heartbeat(ctx, teamID, Member{UserID: userID, FullName: strPtr("Ada")}))
	require.NoError(t, tracker.Heartbeat(ctx, teamID, Member{UserID: userID, FullName: strPtr("Ada Lovelace")}))

	members, err := tracker.List(ctx, teamID)
	require.NoError(t, err)

	require.Len(t, members, 1)
	require.NotNil(t, members[0].FullName)
	assert.Equal(t, "Ada Lovelace", *members[0].FullName)
}

func TestList_PrunesExpiredEntries(t *testing.T) {
	tracker, cleanup := setupTracker(t)
	defer cleanup()

	ctx := context.Background()
	teamID := uuid.New()
	stale := Member{UserID: uuid.New(), FullName: strPtr("Stale")}
	fresh := Member{UserID: uuid.New(), FullName: strPtr("Fresh")}

	base := time.Now()
	tracker.now = func() time.Time { return base }
	require.NoError(t, tracker.Heartbeat(ctx, teamID, stale))

	tracker.now = func() time.Time { return base.Add(DefaultTTL + time.Second) }
	require.NoError(t, tracker.Heartbeat(ctx, teamID, fresh))

	members, err := tracker.List(ctx, teamID)
	require.NoError(t, err)

	require.Len(t, members, 1)
	assert.Equal(t, fresh.UserID, members[0].UserID)
}

func TestLeave_RemovesMemberImmediately(t *testing.T) {
	tracker, cleanup := setupTracker(t)
	defer cleanup()

	ctx := context.Background()
	teamID := uuid.New()
	m := Member{UserID: uuid.New()}

	require.NoError(t, tracker.Heartbeat(ctx, teamID, m))
	require.NoError(t, tracker.Leave(ctx, teamID, m.UserID))

	members, err := tracker.List(ctx, teamID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestList_UnknownTeamIsEmptyNotNil(t *testing.T) {
	tracker, cleanup := setupTracker(t)
	defer cleanup()

	members, err := tracker.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}
