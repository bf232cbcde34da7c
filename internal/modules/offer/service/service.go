package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"offbytes.com/offersapi/internal/entity"
	notifsvc "offbytes.com/offersapi/internal/modules/notification/service"
	"offbytes.com/offersapi/internal/modules/offer/dto"
	"offbytes.com/offersapi/internal/modules/offer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
	commondto "offbytes.com/offersapi/pkg/dto"
	"offbytes.com/offersapi/pkg/storage"
)

// expiryWindow is how far ahead the sweep looks for lapsing offers.
const expiryWindow = 24 * time.Hour

type PostService interface {
	GetHomeFeed(ctx context.Context, page, limit int) (*dto.FeedResponse, error)
	GetPost(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	CreatePost(ctx context.Context, user *entity.User, req dto.CreatePostRequest, image *multipart.FileHeader) (*entity.Post, error)
	UpdatePost(ctx context.Context, user *entity.User, postID uuid.UUID, req dto.UpdatePostRequest) (*entity.Post, error)
	CheckExpiryAndNotify(ctx context.Context) (int, error)
}

type postService struct {
	posts   repository.PostRepository
	users   userrepo.UserRepository
	fanout  *notifsvc.Fanout
	indexer *OfferIndexer
	images  storage.ImageStorage
}

func NewPostService(posts repository.PostRepository, users userrepo.UserRepository, fanout *notifsvc.Fanout, indexer *OfferIndexer, images storage.ImageStorage) PostService {
	return &postService{posts: posts, users: users, fanout: fanout, indexer: indexer, images: images}
}

func (s *postService) GetHomeFeed(ctx context.Context, page, limit int) (*dto.FeedResponse, error) {
	posts, total, err := s.posts.FindPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.FeedResponse{
		Posts: posts,
		Meta: commondto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.posts.IncrementViews(ctx, id); err != nil {
		log.Warn().Err(err).Str("post_id", id.String()).Msg("failed to bump views")
	}
	return post, nil
}

// CreatePost persists a new offer with a snapshot of its author, then notifies
// every other user when the author is a business. The notification batch runs
// before the response; a mid-batch failure surfaces as an error while the post
// and the rows already written remain.
func (s *postService) CreatePost(ctx context.Context, user *entity.User, req dto.CreatePostRequest, image *multipart.FileHeader) (*entity.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && image == nil {
		return nil, apperror.New(400, "Post must have content or an image", apperror.ErrInvalidInput)
	}

	imageURL := ""
	if image != nil {
		if s.images == nil {
			return nil, apperror.New(400, "Image uploads are not configured", apperror.ErrInvalidInput)
		}
		url, err := s.images.UploadImage(ctx, image, "offers")
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	post := &entity.Post{
		Author:  s.buildAuthorSnapshot(ctx, user),
		Content: content,
		Image:   imageURL,
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, apperror.New(400, "Invalid expiresAt, expected RFC3339", apperror.ErrInvalidInput)
		}
		post.ExpiresAt = expiresAt
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.indexer.Index(post)

	if user.Role == entity.RoleBusiness {
		if _, err := s.fanout.BroadcastNewOffer(ctx, post); err != nil {
			return nil, fmt.Errorf("post created but notification fan-out failed: %w", err)
		}
	}

	return post, nil
}

// buildAuthorSnapshot copies the author's display fields onto the post. For
// businesses the category and address come from the registration profile.
func (s *postService) buildAuthorSnapshot(ctx context.Context, user *entity.User) entity.PostAuthor {
	author := entity.PostAuthor{
		ID:       user.ID.String(),
		Name:     user.Name,
		Picture:  user.ProfilePicture,
		Verified: user.IsVerified,
		Role:     user.Role,
	}

	if user.Role == entity.RoleBusiness {
		profile, err := s.users.FindBusinessProfile(ctx, user.Email)
		if err == nil {
			author.Category = profile.Category
			author.Location = profile.BusinessAddress
		} else if !errors.Is(err, apperror.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", author.ID).Msg("failed to load business profile for snapshot")
		}
	}

	return author
}

// UpdatePost edits an offer the user owns and notifies everyone who saved it.
func (s *postService) UpdatePost(ctx context.Context, user *entity.User, postID uuid.UUID, req dto.UpdatePostRequest) (*entity.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author.ID != user.ID.String() {
		return nil, apperror.New(401, "Not authorized to update this post", apperror.ErrUnauthorized)
	}

	if content := strings.TrimSpace(req.Content); content != "" {
		post.Content = content
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, apperror.New(400, "Invalid expiresAt, expected RFC3339", apperror.ErrInvalidInput)
		}
		post.ExpiresAt = expiresAt
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	s.indexer.Index(post)

	if _, err := s.fanout.NotifySavedOfferUpdate(ctx, post); err != nil {
		return nil, fmt.Errorf("post updated but notification fan-out failed: %w", err)
	}

	return post, nil
}

// CheckExpiryAndNotify warns savers about offers lapsing within the next 24
// hours. Safe to run on a schedule; warnings already sent are skipped.
func (s *postService) CheckExpiryAndNotify(ctx context.Context) (int, error) {
	now := time.Now()
	posts, err := s.posts.FindExpiringBetween(ctx, now, now.Add(expiryWindow))
	if err != nil {
		return 0, err
	}

	total := 0
	for i := range posts {
		count, err := s.fanout.NotifyOfferExpiry(ctx, &posts[i])
		total += count
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
