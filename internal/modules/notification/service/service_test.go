package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offbytes.com/offersapi/internal/entity"
	notifrepo "offbytes.com/offersapi/internal/modules/notification/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

func TestGetNotificationsCapsAtFifty(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(notifrepo.NewNotificationRepository(db), nil)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com", entity.RoleNormalUser)
	for i := 0; i < 60; i++ {
		require.NoError(t, svc.Notify(ctx, &entity.Notification{
			UserID:  user.ID,
			Title:   "System",
			Message: fmt.Sprintf("message %d", i),
			Type:    entity.NotificationSystem,
		}))
	}

	notifications, err := svc.GetNotifications(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 50)
}

func TestMarkAsReadEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(notifrepo.NewNotificationRepository(db), nil)
	ctx := context.Background()

	owner := seedUser(t, db, "Alice", "alice@example.com", entity.RoleNormalUser)
	other := seedUser(t, db, "Bob", "bob@example.com", entity.RoleNormalUser)

	notification := &entity.Notification{
		UserID:  owner.ID,
		Title:   "Hello",
		Message: "world",
		Type:    entity.NotificationSystem,
	}
	require.NoError(t, svc.Notify(ctx, notification))

	err := svc.MarkAsRead(ctx, notification.ID, other.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	require.NoError(t, svc.MarkAsRead(ctx, notification.ID, owner.ID))

	count, err := svc.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(notifrepo.NewNotificationRepository(db), nil)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com", entity.RoleNormalUser)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, &entity.Notification{
			UserID:  user.ID,
			Title:   "Hello",
			Message: "world",
			Type:    entity.NotificationSystem,
		}))
	}

	require.NoError(t, svc.MarkAllAsRead(ctx, user.ID))

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
