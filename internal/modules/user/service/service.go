package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/middleware"
	"offbytes.com/offersapi/internal/modules/user/dto"
	"offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

const tokenLifetime = 30 * 24 * time.Hour

type AuthService interface {
	GoogleAuth(ctx context.Context, req dto.GoogleAuthRequest) (*dto.AuthResponse, error)
	RegisterBusiness(ctx context.Context, req dto.RegisterBusinessRequest) (*entity.BusinessUser, error)
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
}

type authService struct {
	users    repository.UserRepository
	verifier IdentityVerifier
}

func NewAuthService(users repository.UserRepository, verifier IdentityVerifier) AuthService {
	return &authService{users: users, verifier: verifier}
}

// GoogleAuth signs a user in with a Google credential, creating the account on
// first login and refreshing name and picture from the asserted identity on
// every subsequent one. If a business profile is registered under the same
// email, the account is promoted to the business role, takes the business
// name, and is implicitly verified.
func (s *authService) GoogleAuth(ctx context.Context, req dto.GoogleAuthRequest) (*dto.AuthResponse, error) {
	identity, err := s.verifier.Verify(ctx, req.Token, req.AccessToken)
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, apperror.New(401, "Google account has no email", apperror.ErrUnauthorized)
	}

	email := normalizeEmail(identity.Email)

	changed := false
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		user = &entity.User{
			Name:           identity.Name,
			Email:          email,
			GoogleID:       identity.Subject,
			ProfilePicture: identity.Picture,
			Role:           entity.RoleNormalUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		if identity.Name != "" && user.Name != identity.Name {
			user.Name = identity.Name
			changed = true
		}
		if identity.Picture != "" && user.ProfilePicture != identity.Picture {
			user.ProfilePicture = identity.Picture
			changed = true
		}
	}

	promoted, err := s.applyBusinessProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	if changed || promoted {
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success:        true,
		Role:           user.Role,
		UserID:         user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		IsVerified:     user.IsVerified,
		Token:          token,
	}, nil
}

// applyBusinessProfile promotes the account when a business registration
// exists under the same email. A business account takes the registered name
// and is implicitly verified on every login; only an existing VerifiedAt
// stamp is preserved. Reports whether the user was mutated.
func (s *authService) applyBusinessProfile(ctx context.Context, user *entity.User) (bool, error) {
	profile, err := s.users.FindBusinessProfile(ctx, user.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	changed := false
	if user.Role != entity.RoleAdmin && user.Role != entity.RoleBusiness {
		user.Role = entity.RoleBusiness
		changed = true
	}
	if user.Name != profile.BusinessName {
		user.Name = profile.BusinessName
		changed = true
	}
	if !user.IsVerified {
		user.IsVerified = true
		changed = true
	}
	if user.VerificationStatus != entity.VerificationApproved {
		user.VerificationStatus = entity.VerificationApproved
		changed = true
	}
	if user.VerifiedAt == nil {
		now := time.Now()
		user.VerifiedAt = &now
		changed = true
	}

	return changed, nil
}

// RegisterBusiness records a business registration for an email. If a User
// already holds that email, only its role is upgraded; name, email and
// verification fields are untouched. When no such User exists yet, the
// promotion happens at that email's next login. Registration is rejected if
// the email already has a profile.
func (s *authService) RegisterBusiness(ctx context.Context, req dto.RegisterBusinessRequest) (*entity.BusinessUser, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindBusinessProfile(ctx, email); err == nil {
		return nil, apperror.New(400, "Business already registered with this email", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	profile := &entity.BusinessUser{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		Pincode:         req.Pincode,
		Timing:          req.Timing,
		Category:        req.Category,
		Email:           email,
	}
	if err := s.users.CreateBusinessProfile(ctx, profile); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return profile, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Role != entity.RoleAdmin && user.Role != entity.RoleBusiness {
		user.Role = entity.RoleBusiness
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		UserID:             user.ID.String(),
		Name:               user.Name,
		Email:              user.Email,
		ProfilePicture:     user.ProfilePicture,
		Role:               user.Role,
		IsVerified:         user.IsVerified,
		VerificationStatus: user.VerificationStatus,
		JoinedAt:           formatJoined(user.CreatedAt),
	}, nil
}

func (s *authService) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.PublicProfileResponse{
		UserID:         user.ID.String(),
		Name:           user.Name,
		ProfilePicture: user.ProfilePicture,
		Role:           user.Role,
		IsVerified:     user.IsVerified,
		JoinedAt:       formatJoined(user.CreatedAt),
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, error) {
	claims := middleware.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func formatJoined(t time.Time) string {
	return "Joined " + t.Format("January 2006")
}
