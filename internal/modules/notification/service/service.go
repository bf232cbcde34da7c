package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/notification/repository"
)

// UserChannel is the Redis pub/sub channel for a user's notification stream.
func UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

type NotificationService interface {
	Notify(ctx context.Context, notification *entity.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	HasOfferExpiry(ctx context.Context, userID, postID uuid.UUID) (bool, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	redis *redis.Client
}

// NewNotificationService builds the service. The Redis client may be nil, in
// which case notifications persist without a live push.
func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{repo: repo, redis: redisClient}
}

// Notify persists the notification, then pushes it to the recipient's channel.
// A failed push never fails the operation.
func (s *notificationService) Notify(ctx context.Context, notification *entity.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.publish(ctx, notification)
	return nil
}

func (s *notificationService) publish(ctx context.Context, notification *entity.Notification) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal notification for publish")
		return
	}

	if err := s.redis.Publish(ctx, UserChannel(notification.UserID), payload).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", notification.UserID.String()).Msg("failed to publish notification")
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) HasOfferExpiry(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	return s.repo.ExistsOfferExpiry(ctx, userID, postID)
}
