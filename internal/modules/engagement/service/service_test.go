package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/engagement/dto"
	notifrepo "offbytes.com/offersapi/internal/modules/notification/repository"
	notifsvc "offbytes.com/offersapi/internal/modules/notification/service"
	offerrepo "offbytes.com/offersapi/internal/modules/offer/repository"
	savedrepo "offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
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
		&entity.BusinessUser{},
		&entity.Post{},
		&entity.SavedOffer{},
		&entity.Notification{},
	))
	return db
}

func newService(t *testing.T, db *gorm.DB) EngagementService {
	t.Helper()
	notifications := notifsvc.NewNotificationService(notifrepo.NewNotificationRepository(db), nil)
	users := userrepo.NewUserRepository(db)
	saved := savedrepo.NewSavedOfferRepository(db)
	fanout := notifsvc.NewFanout(notifications, users, saved)
	return NewEngagementService(offerrepo.NewPostRepository(db), users, saved, fanout)
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *entity.User) *entity.Post {
	t.Helper()
	post := &entity.Post{
		Author: entity.PostAuthor{
			ID:   author.ID.String(),
			Name: author.Name,
			Role: author.Role,
		},
		Content: "An offer",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestToggleLikeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "Shop", "shop@example.com")
	liker := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, author)

	result, err := svc.ToggleLike(ctx, liker, post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, 1, result.LikesCount)

	result, err = svc.ToggleLike(ctx, liker, post.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Zero(t, result.LikesCount)

	var stored entity.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Empty(t, stored.Likes)
	assert.Equal(t, len(stored.Likes), stored.LikesCount)
}

func TestToggleLikeNotifiesAuthorOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "Shop", "shop@example.com")
	liker := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, author)

	_, err := svc.ToggleLike(ctx, liker, post.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, liker, post.ID)
	require.NoError(t, err)

	var total int64
	require.NoError(t, db.Model(&entity.Notification{}).
		Where("type = ?", entity.NotificationLike).
		Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestAddCommentSnapshotsCommenter(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "Shop", "shop@example.com")
	commenter := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, author)

	comment, err := svc.AddComment(ctx, commenter, post.ID, dto.AddCommentRequest{Text: "Looks great"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", comment.UserName)
	assert.Equal(t, commenter.ID.String(), comment.UserID)

	var stored entity.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, 1, stored.CommentsCount)
	assert.Equal(t, "Looks great", stored.Comments[0].Text)
}

func TestAddCommentRejectsBlankText(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	author := seedUser(t, db, "Shop", "shop@example.com")
	commenter := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, author)

	_, err := svc.AddComment(context.Background(), commenter, post.ID, dto.AddCommentRequest{Text: "   "})
	assert.Error(t, err)
}

func TestToggleSaveWritesBothSides(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "Shop", "shop@example.com")
	saver := seedUser(t, db, "Alice", "alice@example.com")
	post := seedPost(t, db, author)

	result, err := svc.ToggleSave(ctx, saver, post.ID)
	require.NoError(t, err)
	assert.True(t, result.IsSaved)

	var rows int64
	require.NoError(t, db.Model(&entity.SavedOffer{}).
		Where("user_id = ? AND post_id = ?", saver.ID, post.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", saver.ID).Error)
	assert.Contains(t, stored.SavedPosts, post.ID.String())

	result, err = svc.ToggleSave(ctx, &stored, post.ID)
	require.NoError(t, err)
	assert.False(t, result.IsSaved)

	require.NoError(t, db.Model(&entity.SavedOffer{}).
		Where("user_id = ?", saver.ID).
		Count(&rows).Error)
	assert.Zero(t, rows)

	require.NoError(t, db.First(&stored, "id = ?", saver.ID).Error)
	assert.NotContains(t, stored.SavedPosts, post.ID.String())
}
