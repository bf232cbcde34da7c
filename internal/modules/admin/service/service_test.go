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

	require.NoError(t, db.AutoMigrate(&entity.User{}))
	return db
}

func newService(t *testing.T, db *gorm.DB) AdminService {
	t.Helper()
	return NewAdminService(userrepo.NewUserRepository(db))
}

func TestVerifyBusinessApprovesAndStamps(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	business := &entity.User{
		Name:               "Cake Shop",
		Email:              "cake@example.com",
		Role:               entity.RoleBusiness,
		VerificationStatus: entity.VerificationPending,
	}
	require.NoError(t, db.Create(business).Error)

	verified, err := svc.VerifyBusiness(context.Background(), business.ID.String())
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, entity.VerificationApproved, verified.VerificationStatus)
	require.NotNil(t, verified.VerifiedAt)

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", business.ID).Error)
	assert.True(t, stored.IsVerified)
}

func TestRejectBusinessClearsVerification(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)
	ctx := context.Background()

	business := &entity.User{
		Name:  "Cake Shop",
		Email: "cake@example.com",
		Role:  entity.RoleBusiness,
	}
	require.NoError(t, db.Create(business).Error)

	_, err := svc.VerifyBusiness(ctx, business.ID.String())
	require.NoError(t, err)

	rejected, err := svc.RejectBusiness(ctx, business.ID.String())
	require.NoError(t, err)
	assert.False(t, rejected.IsVerified)
	assert.Equal(t, entity.VerificationRejected, rejected.VerificationStatus)
	assert.Nil(t, rejected.VerifiedAt)
}

func TestVerifyBusinessRejectsNonBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	user := &entity.User{Name: "Alice", Email: "alice@example.com", Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(user).Error)

	_, err := svc.VerifyBusiness(context.Background(), user.ID.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestVerifyBusinessUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db)

	_, err := svc.VerifyBusiness(context.Background(), "7f3c0a10-9b1e-4a52-8f5c-0f9d0c2b1a11")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
