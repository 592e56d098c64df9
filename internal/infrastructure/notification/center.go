package notification

import (
	"context"
	"fmt"
	"sync"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
)

// Center is an in-memory notification queue implementing the Notifier port
type Center struct {
	mu            sync.Mutex
	seq           int
	notifications []entity.Notification
	logger        logger.Logger
}

var _ port.Notifier = (*Center)(nil)

// NewCenter creates an empty notification center
func NewCenter(logger logger.Logger) *Center {
	return &Center{
		notifications: make([]entity.Notification, 0),
		logger:        logger,
	}
}

// Notify queues a dismissible notification at the default position and returns its id
func (c *Center) Notify(ctx context.Context, message string, level entity.NotificationLevel) string {
	c.mu.Lock()
	c.seq++
	n := entity.Notification{
		ID:          fmt.Sprintf("notification_%d", c.seq),
		Message:     message,
		Level:       level,
		Dismissible: true,
		Position:    entity.DefaultPosition,
	}
	c.notifications = append(c.notifications, n)
	c.mu.Unlock()

	if level == entity.LevelError {
		c.logger.LogWarning(ctx, "Notification shown", "id", n.ID, "level", string(level), "message", message)
	} else {
		c.logger.LogInfo(ctx, "Notification shown", "id", n.ID, "level", string(level), "message", message)
	}

	return n.ID
}

// DismissAll removes every dismissible notification
func (c *Center) DismissAll(ctx context.Context) {
	c.mu.Lock()
	kept := c.notifications[:0]
	for _, n := range c.notifications {
		if !n.Dismissible {
			kept = append(kept, n)
		}
	}
	removed := len(c.notifications) - len(kept)
	c.notifications = kept
	c.mu.Unlock()

	c.logger.LogInfo(ctx, "Notifications dismissed", "count", removed)
}

// Dismiss removes one notification. Unknown ids are ignored.
func (c *Center) Dismiss(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.notifications {
		if n.ID == id {
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			c.logger.LogInfo(ctx, "Notification dismissed", "id", id)
			return
		}
	}
}

// List returns the queued notifications, oldest first
func (c *Center) List(_ context.Context) []entity.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entity.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}
