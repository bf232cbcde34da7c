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
	"offbytes.com/offersapi/internal/modules/user/dto"
	"offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

type fakeVerifier struct {
	identity *Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken, accessToken string) (*Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

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

	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.BusinessUser{}))
	return db
}

func newService(t *testing.T, db *gorm.DB, verifier IdentityVerifier) AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(db), verifier)
}

func TestGoogleAuthCreatesUserOnFirstLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{identity: &Identity{
		Subject: "google-123",
		Email:   "Alice@Example.com",
		Name:    "Alice",
		Picture: "https://example.com/alice.png",
	}})

	result, err := svc.GoogleAuth(context.Background(), dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, entity.RoleNormalUser, result.Role)
	assert.Equal(t, "alice@example.com", result.Email)
	assert.NotEmpty(t, result.Token)

	var stored entity.User
	require.NoError(t, db.First(&stored, "email = ?", "alice@example.com").Error)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "google-123", stored.GoogleID)
}

func TestGoogleAuthReusesExistingUser(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{identity: &Identity{
		Subject: "google-123",
		Email:   "alice@example.com",
		Name:    "Alice",
	}})
	ctx := context.Background()

	first, err := svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)

	second, err := svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)

	var total int64
	require.NoError(t, db.Model(&entity.User{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestGoogleAuthPromotesRegisteredBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{identity: &Identity{
		Subject: "google-777",
		Email:   "cake@example.com",
		Name:    "Personal Name",
	}})

	require.NoError(t, db.Create(&entity.BusinessUser{
		BusinessName:    "Cake Shop",
		BusinessAddress: "12 Main St",
		Pincode:         "560001",
		Timing:          "9-5",
		Email:           "cake@example.com",
	}).Error)

	result, err := svc.GoogleAuth(context.Background(), dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBusiness, result.Role)
	assert.Equal(t, "Cake Shop", result.Name)
	assert.True(t, result.IsVerified)
}

func TestGoogleAuthBusinessLoginImplicitlyVerifies(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{identity: &Identity{
		Subject: "google-777",
		Email:   "cake@example.com",
		Name:    "Owner",
	}})
	ctx := context.Background()

	require.NoError(t, db.Create(&entity.BusinessUser{
		BusinessName:    "Cake Shop",
		BusinessAddress: "12 Main St",
		Pincode:         "560001",
		Timing:          "9-5",
		Email:           "cake@example.com",
	}).Error)

	_, err := svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)

	var stored entity.User
	require.NoError(t, db.First(&stored, "email = ?", "cake@example.com").Error)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, entity.VerificationApproved, stored.VerificationStatus)
	require.NotNil(t, stored.VerifiedAt)
	firstStamp := *stored.VerifiedAt

	// Subsequent logins keep the original stamp.
	_, err = svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, "email = ?", "cake@example.com").Error)
	require.NotNil(t, stored.VerifiedAt)
	assert.Equal(t, firstStamp.Unix(), stored.VerifiedAt.Unix())
}

func TestGoogleAuthRefreshesNameAndPicture(t *testing.T) {
	db := newTestDB(t)
	verifier := &fakeVerifier{identity: &Identity{
		Subject: "google-123",
		Email:   "carol@example.com",
		Name:    "Carol",
		Picture: "pic-v1",
	}}
	svc := newService(t, db, verifier)
	ctx := context.Background()

	_, err := svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)

	verifier.identity = &Identity{
		Subject: "google-123",
		Email:   "carol@example.com",
		Name:    "Carol Smith",
		Picture: "pic-v2",
	}
	_, err = svc.GoogleAuth(ctx, dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)

	var stored entity.User
	require.NoError(t, db.First(&stored, "email = ?", "carol@example.com").Error)
	assert.Equal(t, "Carol Smith", stored.Name)
	assert.Equal(t, "pic-v2", stored.ProfilePicture)
}

func TestGoogleAuthNormalizesEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{identity: &Identity{
		Subject: "google-123",
		Email:   "  Alice@Example.com  ",
		Name:    "Alice",
	}})

	result, err := svc.GoogleAuth(context.Background(), dto.GoogleAuthRequest{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.Email)
}

func TestGoogleAuthRejectsBadToken(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{err: apperror.ErrUnauthorized})

	_, err := svc.GoogleAuth(context.Background(), dto.GoogleAuthRequest{Token: "bad"})
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
}

func TestRegisterBusinessUpgradesOnlyTheRegisteredEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{})

	bob := &entity.User{Name: "Bob", Email: "bob@example.com", Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(bob).Error)
	alice := &entity.User{Name: "Alice", Email: "alice@example.com", Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(alice).Error)

	profile, err := svc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{
		BusinessName:    "Bob Bakes",
		BusinessAddress: "5 Oak Ave",
		Pincode:         "560002",
		Timing:          "8-6",
		Email:           "Bob@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", profile.Email)

	var storedBob entity.User
	require.NoError(t, db.First(&storedBob, "id = ?", bob.ID).Error)
	assert.Equal(t, entity.RoleBusiness, storedBob.Role)

	var storedAlice entity.User
	require.NoError(t, db.First(&storedAlice, "id = ?", alice.ID).Error)
	assert.Equal(t, entity.RoleNormalUser, storedAlice.Role)
}

func TestRegisterBusinessLeavesNameAndVerificationUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{})

	user := &entity.User{Name: "Alice", Email: "alice@example.com", Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(user).Error)

	_, err := svc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{
		BusinessName:    "Alice Bakes",
		BusinessAddress: "5 Oak Ave",
		Pincode:         "560002",
		Timing:          "8-6",
		Email:           "alice@example.com",
	})
	require.NoError(t, err)

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, entity.RoleBusiness, stored.Role)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.False(t, stored.IsVerified)
	assert.Nil(t, stored.VerifiedAt)
}

func TestRegisterBusinessWithoutAccountDefersPromotion(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{})

	profile, err := svc.RegisterBusiness(context.Background(), dto.RegisterBusinessRequest{
		BusinessName:    "Ghost Kitchen",
		BusinessAddress: "9 Pine Rd",
		Pincode:         "560003",
		Timing:          "11-11",
		Email:           "ghost@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ghost Kitchen", profile.BusinessName)

	var total int64
	require.NoError(t, db.Model(&entity.User{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestRegisterBusinessRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{})
	ctx := context.Background()

	req := dto.RegisterBusinessRequest{
		BusinessName:    "Alice Bakes",
		BusinessAddress: "5 Oak Ave",
		Pincode:         "560002",
		Timing:          "8-6",
		Email:           "alice@example.com",
	}
	_, err := svc.RegisterBusiness(ctx, req)
	require.NoError(t, err)

	_, err = svc.RegisterBusiness(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestGetProfileFormatsJoinDate(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &fakeVerifier{})

	user := &entity.User{Name: "Alice", Email: "alice@example.com", Role: entity.RoleNormalUser}
	require.NoError(t, db.Create(user).Error)

	profile, err := svc.GetProfile(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Contains(t, profile.JoinedAt, "Joined ")
	assert.Equal(t, user.CreatedAt.Format("January 2006"), profile.JoinedAt[len("Joined "):])
}
