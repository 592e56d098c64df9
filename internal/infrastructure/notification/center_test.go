package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/infrastructure/logger"
)

func TestCenter_NotifyAndDismiss(t *testing.T) {
	center := NewCenter(logger.NewLogger())
	ctx := context.Background()

	first := center.Notify(ctx, "Decrypting encoded key...", entity.LevelInfo)
	second := center.Notify(ctx, "Login failed: wrong passphrase", entity.LevelError)
	assert.Equal(t, "notification_1", first)
	assert.Equal(t, "notification_2", second)

	list := center.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, entity.Notification{
		ID:          "notification_1",
		Message:     "Decrypting encoded key...",
		Level:       entity.LevelInfo,
		Dismissible: true,
		Position:    entity.DefaultPosition,
	}, list[0])

	center.Dismiss(ctx, first)
	center.Dismiss(ctx, "notification_99")
	list = center.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)

	center.DismissAll(ctx)
	assert.Empty(t, center.List(ctx))

	// ids keep increasing after dismissals
	assert.Equal(t, "notification_3", center.Notify(ctx, "again", entity.LevelWarning))
}

func TestCenter_DismissAllKeepsPinned(t *testing.T) {
	center := NewCenter(logger.NewLogger())
	ctx := context.Background()

	center.Notify(ctx, "one", entity.LevelInfo)
	center.mu.Lock()
	center.notifications = append(center.notifications, entity.Notification{ID: "pinned", Dismissible: false})
	center.mu.Unlock()
	center.Notify(ctx, "two", entity.LevelSuccess)

	center.DismissAll(ctx)

	list := center.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "pinned", list[0].ID)
}

func TestCenter_ListReturnsCopy(t *testing.T) {
	center := NewCenter(logger.NewLogger())
	ctx := context.Background()
	center.Notify(ctx, "one", entity.LevelInfo)

	list := center.List(ctx)
	list[0].Message = "changed"

	assert.Equal(t, "one", center.List(ctx)[0].Message)
}
