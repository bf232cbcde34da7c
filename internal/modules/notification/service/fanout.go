package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"offbytes.com/offersapi/internal/entity"
	savedrepo "offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
)

// Fanout delivers one notification per recipient through a single path.
// Inserts happen row by row, so a mid-batch failure leaves the rows already
// written in place; callers get at-least-once delivery, never rollback.
type Fanout struct {
	notifications NotificationService
	users         userrepo.UserRepository
	saved         savedrepo.SavedOfferRepository
}

func NewFanout(notifications NotificationService, users userrepo.UserRepository, saved savedrepo.SavedOfferRepository) *Fanout {
	return &Fanout{notifications: notifications, users: users, saved: saved}
}

// BroadcastNewOffer notifies every user except the author that a business
// posted a new offer. Returns the number of notifications written.
func (f *Fanout) BroadcastNewOffer(ctx context.Context, post *entity.Post) (int, error) {
	ids, err := f.users.FindIDsExcept(ctx, post.Author.ID)
	if err != nil {
		return 0, err
	}

	recipients := parseRecipients(ids)
	return f.deliver(ctx, recipients, func(userID uuid.UUID) *entity.Notification {
		return &entity.Notification{
			UserID:       userID,
			Title:        "New Offer!",
			Message:      fmt.Sprintf("%s posted a new offer", post.Author.Name),
			RelatedID:    post.ID,
			RelatedModel: entity.RelatedModelPost,
			Type:         entity.NotificationNewOffer,
		}
	})
}

// NotifySavedOfferUpdate notifies everyone who saved the post that it changed.
func (f *Fanout) NotifySavedOfferUpdate(ctx context.Context, post *entity.Post) (int, error) {
	savers, err := f.saved.SaverIDs(ctx, post.ID)
	if err != nil {
		return 0, err
	}

	recipients := excludeRecipient(savers, post.Author.ID)
	return f.deliver(ctx, recipients, func(userID uuid.UUID) *entity.Notification {
		return &entity.Notification{
			UserID:       userID,
			Title:        "Saved Offer Updated",
			Message:      fmt.Sprintf("%s updated an offer you saved", post.Author.Name),
			RelatedID:    post.ID,
			RelatedModel: entity.RelatedModelPost,
			Type:         entity.NotificationSavedOfferUpdate,
		}
	})
}

// NotifyOfferExpiry warns savers that the offer lapses within a day. Unlike
// the other paths this one is deduplicated: a user is warned about a given
// post at most once, so the sweep can run repeatedly.
func (f *Fanout) NotifyOfferExpiry(ctx context.Context, post *entity.Post) (int, error) {
	savers, err := f.saved.SaverIDs(ctx, post.ID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, userID := range dedupe(savers) {
		exists, err := f.notifications.HasOfferExpiry(ctx, userID, post.ID)
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}

		notification := &entity.Notification{
			UserID:       userID,
			Title:        "Offer Expiring Soon",
			Message:      fmt.Sprintf("An offer you saved from %s expires within 24 hours", post.Author.Name),
			RelatedID:    post.ID,
			RelatedModel: entity.RelatedModelPost,
			Type:         entity.NotificationOfferExpiry,
		}
		if err := f.notifications.Notify(ctx, notification); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// NotifyBusinessUpdate notifies everyone who saved any of the business's
// offers that the profile changed.
func (f *Fanout) NotifyBusinessUpdate(ctx context.Context, businessUserID uuid.UUID, businessName string, postIDs []uuid.UUID) (int, error) {
	savers, err := f.saved.SaverIDsForPosts(ctx, postIDs)
	if err != nil {
		return 0, err
	}

	recipients := excludeRecipient(savers, businessUserID.String())
	return f.deliver(ctx, recipients, func(userID uuid.UUID) *entity.Notification {
		return &entity.Notification{
			UserID:       userID,
			Title:        fmt.Sprintf("%s Updated Profile", businessName),
			Message:      "A business you are interested in has updated their profile.",
			RelatedID:    businessUserID,
			RelatedModel: entity.RelatedModelUser,
			Type:         entity.NotificationBusinessUpdate,
		}
	})
}

// NotifyLike tells the post author about a new like. Self-likes are silent.
func (f *Fanout) NotifyLike(ctx context.Context, post *entity.Post, liker *entity.User) error {
	authorID, err := uuid.Parse(post.Author.ID)
	if err != nil || authorID == liker.ID {
		return nil
	}

	return f.notifications.Notify(ctx, &entity.Notification{
		UserID:       authorID,
		Title:        "New Like",
		Message:      fmt.Sprintf("%s liked your offer", liker.Name),
		RelatedID:    post.ID,
		RelatedModel: entity.RelatedModelPost,
		Type:         entity.NotificationLike,
	})
}

// NotifyComment tells the post author about a new comment. Self-comments are
// silent.
func (f *Fanout) NotifyComment(ctx context.Context, post *entity.Post, commenter *entity.User) error {
	authorID, err := uuid.Parse(post.Author.ID)
	if err != nil || authorID == commenter.ID {
		return nil
	}

	return f.notifications.Notify(ctx, &entity.Notification{
		UserID:       authorID,
		Title:        "New Comment",
		Message:      fmt.Sprintf("%s commented on your offer", commenter.Name),
		RelatedID:    post.ID,
		RelatedModel: entity.RelatedModelPost,
		Type:         entity.NotificationComment,
	})
}

func (f *Fanout) deliver(ctx context.Context, recipients []uuid.UUID, build func(uuid.UUID) *entity.Notification) (int, error) {
	count := 0
	for _, userID := range dedupe(recipients) {
		if err := f.notifications.Notify(ctx, build(userID)); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// dedupe removes duplicate recipients while preserving first-seen order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func parseRecipients(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func excludeRecipient(ids []uuid.UUID, exclude string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id.String() == exclude {
			continue
		}
		out = append(out, id)
	}
	return out
}
