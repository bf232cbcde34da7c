package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/pkg/apperror"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Save(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindIDsExcept(ctx context.Context, excludeID string) ([]string, error)
	FindBusinessProfile(ctx context.Context, email string) (*entity.BusinessUser, error)
	CreateBusinessProfile(ctx context.Context, profile *entity.BusinessUser) error
	SaveBusinessProfile(ctx context.Context, profile *entity.BusinessUser) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindIDsExcept returns the IDs of every user except the given one. Used by
// the new-offer broadcast.
func (r *userRepository) FindIDsExcept(ctx context.Context, excludeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id <> ?", excludeID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) FindBusinessProfile(ctx context.Context, email string) (*entity.BusinessUser, error) {
	var profile entity.BusinessUser
	err := r.db.WithContext(ctx).First(&profile, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) CreateBusinessProfile(ctx context.Context, profile *entity.BusinessUser) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *userRepository) SaveBusinessProfile(ctx context.Context, profile *entity.BusinessUser) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
