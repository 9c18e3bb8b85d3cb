package usecase

import (
	"context"
	"testing"

	"billboard-report/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoleNotifier(t *testing.T) {
	n := NewMemoryRoleNotifier()
	ctx := context.Background()
	userID := uuid.New()

	first, cancelFirst, err := n.Subscribe(ctx, userID)
	require.NoError(t, err)
	second, cancelSecond, err := n.Subscribe(ctx, userID)
	require.NoError(t, err)
	defer cancelSecond()

	require.NoError(t, n.Publish(ctx, uuid.New(), entity.RoleAdmin))
	require.NoError(t, n.Publish(ctx, userID, entity.RoleAdmin))

	assert.Equal(t, entity.RoleAdmin, <-first)
	assert.Equal(t, entity.RoleAdmin, <-second)

	cancelFirst()
	cancelFirst()
	_, open := <-first
	assert.False(t, open)

	// unread values are dropped, not blocked on
	require.NoError(t, n.Publish(ctx, userID, entity.RoleUser))
	require.NoError(t, n.Publish(ctx, userID, entity.RoleAdmin))
	assert.Equal(t, entity.RoleUser, <-second)
}
