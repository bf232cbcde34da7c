package service

import (
	"context"
	"fmt"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/business/dto"
	notifsvc "offbytes.com/offersapi/internal/modules/notification/service"
	offerrepo "offbytes.com/offersapi/internal/modules/offer/repository"
	savedrepo "offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
	commondto "offbytes.com/offersapi/pkg/dto"
)

const publicProfilePostCount = 3

type BusinessService interface {
	GetInsights(ctx context.Context, user *entity.User) (*dto.InsightsResponse, error)
	GetMyPosts(ctx context.Context, user *entity.User, page, limit int) (*dto.MyPostsResponse, error)
	GetPublicCard(ctx context.Context, businessUserID string) (*dto.BusinessCard, error)
	GetPublicProfile(ctx context.Context, businessUserID string) (*dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, user *entity.User, req dto.UpdateProfileRequest) (*dto.BusinessCard, error)
}

type businessService struct {
	users  userrepo.UserRepository
	posts  offerrepo.PostRepository
	saved  savedrepo.SavedOfferRepository
	fanout *notifsvc.Fanout
}

func NewBusinessService(users userrepo.UserRepository, posts offerrepo.PostRepository, saved savedrepo.SavedOfferRepository, fanout *notifsvc.Fanout) BusinessService {
	return &businessService{users: users, posts: posts, saved: saved, fanout: fanout}
}

// GetInsights aggregates engagement across the business's posts.
func (s *businessService) GetInsights(ctx context.Context, user *entity.User) (*dto.InsightsResponse, error) {
	authorID := user.ID.String()

	postIDs, err := s.posts.IDsByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	likes, comments, views, err := s.posts.SumEngagement(ctx, authorID)
	if err != nil {
		return nil, err
	}

	savedCount, err := s.saved.CountForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	return &dto.InsightsResponse{
		PostsCount:    int64(len(postIDs)),
		TotalLikes:    likes,
		TotalComments: comments,
		TotalViews:    views,
		SavedCount:    savedCount,
	}, nil
}

func (s *businessService) GetMyPosts(ctx context.Context, user *entity.User, page, limit int) (*dto.MyPostsResponse, error) {
	posts, total, err := s.posts.FindByAuthor(ctx, user.ID.String(), page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.MyPostsResponse{
		Posts: posts,
		Meta: commondto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *businessService) GetPublicCard(ctx context.Context, businessUserID string) (*dto.BusinessCard, error) {
	return s.loadCard(ctx, businessUserID)
}

func (s *businessService) GetPublicProfile(ctx context.Context, businessUserID string) (*dto.PublicProfileResponse, error) {
	card, err := s.loadCard(ctx, businessUserID)
	if err != nil {
		return nil, err
	}

	latest, err := s.posts.FindLatestByAuthor(ctx, businessUserID, publicProfilePostCount)
	if err != nil {
		return nil, err
	}

	return &dto.PublicProfileResponse{Business: *card, LatestPosts: latest}, nil
}

func (s *businessService) loadCard(ctx context.Context, businessUserID string) (*dto.BusinessCard, error) {
	user, err := s.users.FindByID(ctx, businessUserID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleBusiness {
		return nil, apperror.New(404, "Business not found", apperror.ErrNotFound)
	}

	profile, err := s.users.FindBusinessProfile(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.BusinessCard{
		UserID:          user.ID.String(),
		BusinessName:    profile.BusinessName,
		BusinessAddress: profile.BusinessAddress,
		Pincode:         profile.Pincode,
		Timing:          profile.Timing,
		Category:        profile.Category,
		ProfilePicture:  user.ProfilePicture,
		IsVerified:      user.IsVerified,
	}, nil
}

// UpdateProfile edits the registration profile, keeps the account name in
// sync, and notifies everyone who saved one of the business's offers. The
// notification batch runs before the response.
func (s *businessService) UpdateProfile(ctx context.Context, user *entity.User, req dto.UpdateProfileRequest) (*dto.BusinessCard, error) {
	profile, err := s.users.FindBusinessProfile(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != "" {
		profile.BusinessName = req.BusinessName
	}
	if req.BusinessAddress != "" {
		profile.BusinessAddress = req.BusinessAddress
	}
	if req.Pincode != "" {
		profile.Pincode = req.Pincode
	}
	if req.Timing != "" {
		profile.Timing = req.Timing
	}
	if req.Category != "" {
		profile.Category = req.Category
	}

	if err := s.users.SaveBusinessProfile(ctx, profile); err != nil {
		return nil, err
	}

	userChanged := false
	if user.Name != profile.BusinessName {
		user.Name = profile.BusinessName
		userChanged = true
	}
	if req.ProfilePicture != "" && user.ProfilePicture != req.ProfilePicture {
		user.ProfilePicture = req.ProfilePicture
		userChanged = true
	}
	if userChanged {
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	postIDs, err := s.posts.IDsByAuthor(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}
	if _, err := s.fanout.NotifyBusinessUpdate(ctx, user.ID, profile.BusinessName, postIDs); err != nil {
		return nil, fmt.Errorf("profile updated but notification fan-out failed: %w", err)
	}

	return &dto.BusinessCard{
		UserID:          user.ID.String(),
		BusinessName:    profile.BusinessName,
		BusinessAddress: profile.BusinessAddress,
		Pincode:         profile.Pincode,
		Timing:          profile.Timing,
		Category:        profile.Category,
		ProfilePicture:  user.ProfilePicture,
		IsVerified:      user.IsVerified,
	}, nil
}
