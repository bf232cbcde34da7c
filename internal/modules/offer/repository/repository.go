package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/pkg/apperror"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Save(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Post, error)
	FindPage(ctx context.Context, page, limit int) ([]entity.Post, int64, error)
	FindByAuthor(ctx context.Context, authorID string, page, limit int) ([]entity.Post, int64, error)
	FindLatestByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error)
	IDsByAuthor(ctx context.Context, authorID string) ([]uuid.UUID, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]entity.Post, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SumEngagement(ctx context.Context, authorID string) (likes int64, comments int64, views int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Save(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// FindPage returns the feed slice, newest first, plus the total post count.
func (r *postRepository) FindPage(ctx context.Context, page, limit int) ([]entity.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID string, page, limit int) ([]entity.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&entity.Post{}).Where("author_id = ?", authorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) FindLatestByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindExpiringBetween returns posts whose expiry falls in [from, to).
func (r *postRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("expires_at >= ? AND expires_at < ?", from, to).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// SumEngagement aggregates like, comment and view totals across an author's
// posts. Used by business insights.
func (r *postRepository) SumEngagement(ctx context.Context, authorID string) (int64, int64, int64, error) {
	var totals struct {
		Likes    int64
		Comments int64
		Views    int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select("COALESCE(SUM(likes_count),0) as likes, COALESCE(SUM(comments_count),0) as comments, COALESCE(SUM(views),0) as views").
		Where("author_id = ?", authorID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return totals.Likes, totals.Comments, totals.Views, nil
}
