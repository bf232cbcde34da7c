package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/pkg/apperror"
)

type SavedOfferRepository interface {
	Create(ctx context.Context, saved *entity.SavedOffer) error
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.SavedOffer, error)
	SaverIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	SaverIDsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]uuid.UUID, error)
	CountForPosts(ctx context.Context, postIDs []uuid.UUID) (int64, error)
}

type savedOfferRepository struct {
	db *gorm.DB
}

func NewSavedOfferRepository(db *gorm.DB) SavedOfferRepository {
	return &savedOfferRepository{db: db}
}

func (r *savedOfferRepository) Create(ctx context.Context, saved *entity.SavedOffer) error {
	return r.db.WithContext(ctx).Create(saved).Error
}

func (r *savedOfferRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&entity.SavedOffer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *savedOfferRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var saved entity.SavedOffer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&saved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *savedOfferRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.SavedOffer, error) {
	var saved []entity.SavedOffer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SaverIDs lists the users that saved a post, oldest save first.
func (r *savedOfferRepository) SaverIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.SavedOffer{}).
		Where("post_id = ?", postID).
		Order("saved_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SaverIDsForPosts lists the distinct users that saved any of the given posts.
func (r *savedOfferRepository) SaverIDsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.SavedOffer{}).
		Distinct("user_id").
		Where("post_id IN ?", postIDs).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *savedOfferRepository) CountForPosts(ctx context.Context, postIDs []uuid.UUID) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SavedOffer{}).
		Where("post_id IN ?", postIDs).
		Count(&count).Error
	return count, err
}
