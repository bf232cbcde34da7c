package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"offbytes.com/offersapi/internal/entity"
	offerrepo "offbytes.com/offersapi/internal/modules/offer/repository"
	"offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Post{},
		&entity.SavedOffer{},
	))
	return db
}

func newService(t *testing.T, db *gorm.DB) SavedOfferService {
	t.Helper()
	return NewSavedOfferService(
		repository.NewSavedOfferRepository(db),
		offerrepo.NewPostRepository(db),
		userrepo.NewUserRepository(db),
	)
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, content string) *entity.Post {
	t.Helper()
	post := &entity.Post{
		Author:  entity.PostAuthor{ID: "author", Name: "Shop", Role: entity.RoleBusiness},
		Content: content,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestSaveOfferRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, "A deal")

	require.NoError(t, svc.SaveOffer(ctx, user, post.ID))

	err := svc.SaveOffer(ctx, user, post.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestSaveOfferUpdatesCachedList(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	user := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, "A deal")

	require.NoError(t, svc.SaveOffer(context.Background(), user, post.ID))

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, []string{post.ID.String()}, stored.SavedPosts)
}

func TestGetSavedOffersNewestFirstAndSkipsMissingPosts(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")
	first := seedPost(t, db, "First")
	second := seedPost(t, db, "Second")

	require.NoError(t, svc.SaveOffer(ctx, user, first.ID))
	require.NoError(t, svc.SaveOffer(ctx, user, second.ID))

	// Drop one post behind the save's back.
	require.NoError(t, db.Delete(&entity.Post{}, "id = ?", first.ID).Error)

	result, err := svc.GetSavedOffers(ctx, user)
	require.NoError(t, err)
	require.Len(t, result.SavedOffers, 1)
	assert.Equal(t, second.ID, result.SavedOffers[0].Post.ID)
	assert.Equal(t, 1, result.Total)
}

func TestUnsaveOfferRemovesBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, "A deal")

	require.NoError(t, svc.SaveOffer(ctx, user, post.ID))
	require.NoError(t, svc.UnsaveOffer(ctx, user, post.ID))

	var rows int64
	require.NoError(t, db.Model(&entity.SavedOffer{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Empty(t, stored.SavedPosts)
}

func TestUnsaveOfferMissingSave(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	user := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, "A deal")

	err := svc.UnsaveOffer(context.Background(), user, post.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
