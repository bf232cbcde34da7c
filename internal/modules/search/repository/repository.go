package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"offbytes.com/offersapi/internal/entity"
)

type SearchRepository interface {
	SearchBusinessProfiles(ctx context.Context, q, category, location string) ([]entity.BusinessUser, error)
	FindBusinessEmailsMatching(ctx context.Context, q string) ([]string, error)
	FindBusinessProfilesByEmails(ctx context.Context, emails []string, category, location string) ([]entity.BusinessUser, error)
	FindBusinessUsersByEmails(ctx context.Context, emails []string) ([]entity.User, error)
	SearchPosts(ctx context.Context, q, category, location string) ([]entity.Post, error)
}

type searchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// pattern builds a case-insensitive substring pattern. Matching goes through
// LOWER(...) LIKE so behavior is identical on Postgres and SQLite.
func pattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// SearchBusinessProfiles matches q against name, address and pincode, then
// narrows by category and by location-within-address.
func (r *searchRepository) SearchBusinessProfiles(ctx context.Context, q, category, location string) ([]entity.BusinessUser, error) {
	query := r.db.WithContext(ctx).Model(&entity.BusinessUser{})

	if q != "" {
		p := pattern(q)
		query = query.Where(
			"LOWER(business_name) LIKE ? OR LOWER(business_address) LIKE ? OR LOWER(pincode) LIKE ?",
			p, p, p,
		)
	}
	if category != "" {
		query = query.Where("LOWER(category) LIKE ?", pattern(category))
	}
	if location != "" {
		p := pattern(location)
		query = query.Where("LOWER(business_address) LIKE ? OR LOWER(pincode) LIKE ?", p, p)
	}

	var profiles []entity.BusinessUser
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindBusinessEmailsMatching returns the emails of business accounts whose
// display name or email matches q. Lets a business surface even when the
// query hits the account rather than the registration profile.
func (r *searchRepository) FindBusinessEmailsMatching(ctx context.Context, q string) ([]string, error) {
	if q == "" {
		return nil, nil
	}

	p := pattern(q)
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("role = ?", entity.RoleBusiness).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *searchRepository) FindBusinessProfilesByEmails(ctx context.Context, emails []string, category, location string) ([]entity.BusinessUser, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&entity.BusinessUser{}).
		Where("email IN ?", emails)
	if category != "" {
		query = query.Where("LOWER(category) LIKE ?", pattern(category))
	}
	if location != "" {
		p := pattern(location)
		query = query.Where("LOWER(business_address) LIKE ? OR LOWER(pincode) LIKE ?", p, p)
	}

	var profiles []entity.BusinessUser
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *searchRepository) FindBusinessUsersByEmails(ctx context.Context, emails []string) ([]entity.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND email IN ?", entity.RoleBusiness, emails).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SearchPosts matches q against content and author snapshot fields, then
// narrows by the author's category and location.
func (r *searchRepository) SearchPosts(ctx context.Context, q, category, location string) ([]entity.Post, error) {
	query := r.db.WithContext(ctx).Model(&entity.Post{})

	if q != "" {
		p := pattern(q)
		query = query.Where(
			"LOWER(content) LIKE ? OR LOWER(author_name) LIKE ? OR LOWER(author_category) LIKE ? OR LOWER(author_location) LIKE ?",
			p, p, p, p,
		)
	}
	if category != "" {
		query = query.Where("LOWER(author_category) LIKE ?", pattern(category))
	}
	if location != "" {
		query = query.Where("LOWER(author_location) LIKE ?", pattern(location))
	}

	var posts []entity.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
