package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/engagement/dto"
	notifsvc "offbytes.com/offersapi/internal/modules/notification/service"
	offerrepo "offbytes.com/offersapi/internal/modules/offer/repository"
	savedrepo "offbytes.com/offersapi/internal/modules/savedoffer/repository"
	userrepo "offbytes.com/offersapi/internal/modules/user/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

type EngagementService interface {
	ToggleLike(ctx context.Context, user *entity.User, postID uuid.UUID) (*dto.ToggleLikeResponse, error)
	AddComment(ctx context.Context, user *entity.User, postID uuid.UUID, req dto.AddCommentRequest) (*entity.Comment, error)
	ToggleSave(ctx context.Context, user *entity.User, postID uuid.UUID) (*dto.ToggleSaveResponse, error)
}

type engagementService struct {
	posts  offerrepo.PostRepository
	users  userrepo.UserRepository
	saved  savedrepo.SavedOfferRepository
	fanout *notifsvc.Fanout
}

func NewEngagementService(posts offerrepo.PostRepository, users userrepo.UserRepository, saved savedrepo.SavedOfferRepository, fanout *notifsvc.Fanout) EngagementService {
	return &engagementService{posts: posts, users: users, saved: saved, fanout: fanout}
}

// ToggleLike adds or removes the user's like. The counter mirrors the like
// list; a concurrent toggle may lose one of the writes, which the product
// accepts at this scale.
func (s *engagementService) ToggleLike(ctx context.Context, user *entity.User, postID uuid.UUID) (*dto.ToggleLikeResponse, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	userID := user.ID.String()
	liked := post.HasLike(userID)
	if liked {
		post.Likes = removeID(post.Likes, userID)
		if post.LikesCount > 0 {
			post.LikesCount--
		}
	} else {
		post.Likes = append(post.Likes, userID)
		post.LikesCount++
	}

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	if !liked {
		if err := s.fanout.NotifyLike(ctx, post, user); err != nil {
			log.Warn().Err(err).Str("post_id", postID.String()).Msg("failed to send like notification")
		}
	}

	return &dto.ToggleLikeResponse{LikesCount: post.LikesCount, IsLiked: !liked}, nil
}

// AddComment appends a comment with a snapshot of the commenter.
func (s *engagementService) AddComment(ctx context.Context, user *entity.User, postID uuid.UUID, req dto.AddCommentRequest) (*entity.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.New(400, "Comment text is required", apperror.ErrInvalidInput)
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := entity.Comment{
		UserID:      user.ID.String(),
		UserName:    user.Name,
		UserPicture: user.ProfilePicture,
		Text:        text,
		CreatedAt:   time.Now(),
	}
	post.Comments = append(post.Comments, comment)
	post.CommentsCount = len(post.Comments)

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	if err := s.fanout.NotifyComment(ctx, post, user); err != nil {
		log.Warn().Err(err).Str("post_id", postID.String()).Msg("failed to send comment notification")
	}

	return &comment, nil
}

// ToggleSave flips the saved state. Saves write both the SavedOffer row and
// the user's cached post list; unsaves remove both.
func (s *engagementService) ToggleSave(ctx context.Context, user *entity.User, postID uuid.UUID) (*dto.ToggleSaveResponse, error) {
	exists, err := s.saved.Exists(ctx, user.ID, postID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.saved.Delete(ctx, user.ID, postID); err != nil {
			return nil, err
		}
		user.SavedPosts = removeID(user.SavedPosts, postID.String())
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return &dto.ToggleSaveResponse{IsSaved: false}, nil
	}

	if err := s.saved.Create(ctx, &entity.SavedOffer{UserID: user.ID, PostID: postID}); err != nil {
		return nil, err
	}
	if !containsID(user.SavedPosts, postID.String()) {
		user.SavedPosts = append(user.SavedPosts, postID.String())
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return &dto.ToggleSaveResponse{IsSaved: true}, nil
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
