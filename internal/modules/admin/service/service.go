package service

import (
	"context"
	"time"

	"offbytes.com/offersapi/internal/entity"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

type AdminService interface {
	VerifyBusiness(ctx context.Context, businessUserID string) (*entity.User, error)
	RejectBusiness(ctx context.Context, businessUserID string) (*entity.User, error)
}

type adminService struct {
	users userrepo.UserRepository
}

func NewAdminService(users userrepo.UserRepository) AdminService {
	return &adminService{users: users}
}

// VerifyBusiness approves a pending business account and stamps the time.
func (s *adminService) VerifyBusiness(ctx context.Context, businessUserID string) (*entity.User, error) {
	user, err := s.loadBusiness(ctx, businessUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.IsVerified = true
	user.VerificationStatus = entity.VerificationApproved
	user.VerifiedAt = &now

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RejectBusiness marks the account rejected and clears any verification.
func (s *adminService) RejectBusiness(ctx context.Context, businessUserID string) (*entity.User, error) {
	user, err := s.loadBusiness(ctx, businessUserID)
	if err != nil {
		return nil, err
	}

	user.IsVerified = false
	user.VerificationStatus = entity.VerificationRejected
	user.VerifiedAt = nil

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) loadBusiness(ctx context.Context, businessUserID string) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, businessUserID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleBusiness {
		return nil, apperror.New(400, "User is not a business account", apperror.ErrInvalidInput)
	}
	return user, nil
}
