package service

import (
	"context"

	"github.com/google/uuid"

	"offbytes.com/offersapi/internal/entity"
	offerrepo "offbytes.com/offersapi/internal/modules/offer/repository"
	"offbytes.com/offersapi/internal/modules/savedoffer/dto"
	"offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

type SavedOfferService interface {
	GetSavedOffers(ctx context.Context, user *entity.User) (*dto.SavedOffersResponse, error)
	SaveOffer(ctx context.Context, user *entity.User, postID uuid.UUID) error
	UnsaveOffer(ctx context.Context, user *entity.User, postID uuid.UUID) error
}

type savedOfferService struct {
	saved repository.SavedOfferRepository
	posts offerrepo.PostRepository
	users userrepo.UserRepository
}

func NewSavedOfferService(saved repository.SavedOfferRepository, posts offerrepo.PostRepository, users userrepo.UserRepository) SavedOfferService {
	return &savedOfferService{saved: saved, posts: posts, users: users}
}

// GetSavedOffers returns the user's saved offers, most recently saved first.
// Saves whose post has since been deleted are silently dropped.
func (s *savedOfferService) GetSavedOffers(ctx context.Context, user *entity.User) (*dto.SavedOffersResponse, error) {
	saves, err := s.saved.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	postIDs := make([]uuid.UUID, 0, len(saves))
	for _, save := range saves {
		postIDs = append(postIDs, save.PostID)
	}

	posts, err := s.posts.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Post, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
	}

	items := make([]dto.SavedOfferItem, 0, len(saves))
	for _, save := range saves {
		post, ok := byID[save.PostID]
		if !ok {
			continue
		}
		items = append(items, dto.SavedOfferItem{Post: post, SavedAt: save.SavedAt})
	}

	return &dto.SavedOffersResponse{SavedOffers: items, Total: len(items)}, nil
}

// SaveOffer records a save. Both the join row and the user's cached list are
// written; saving twice is rejected.
func (s *savedOfferService) SaveOffer(ctx context.Context, user *entity.User, postID uuid.UUID) error {
	exists, err := s.saved.Exists(ctx, user.ID, postID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.New(400, "Offer already saved", apperror.ErrConflict)
	}

	if err := s.saved.Create(ctx, &entity.SavedOffer{UserID: user.ID, PostID: postID}); err != nil {
		return err
	}

	target := postID.String()
	for _, id := range user.SavedPosts {
		if id == target {
			return nil
		}
	}
	user.SavedPosts = append(user.SavedPosts, target)
	return s.users.Save(ctx, user)
}

// UnsaveOffer removes the save from both places.
func (s *savedOfferService) UnsaveOffer(ctx context.Context, user *entity.User, postID uuid.UUID) error {
	if err := s.saved.Delete(ctx, user.ID, postID); err != nil {
		return err
	}

	target := postID.String()
	kept := user.SavedPosts[:0]
	for _, id := range user.SavedPosts {
		if id != target {
			kept = append(kept, id)
		}
	}
	user.SavedPosts = kept
	return s.users.Save(ctx, user)
}
