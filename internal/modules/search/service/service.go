package service

import (
	"context"
	"sort"
	"strings"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/search/dto"
	"offbytes.com/offersapi/internal/modules/search/repository"
	"offbytes.com/offersapi/pkg/apperror"
)

type SearchService interface {
	Search(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error)
}

type searchService struct {
	repo repository.SearchRepository
}

func NewSearchService(repo repository.SearchRepository) SearchService {
	return &searchService{repo: repo}
}

// Search runs the business and offer queries, merges both result sets and
// ranks verified businesses first, then verified offers, then the rest. The
// sort is stable, so within a rank the store's ordering is preserved.
func (s *searchService) Search(ctx context.Context, query dto.SearchQuery) (*dto.SearchResponse, error) {
	query.Q = strings.TrimSpace(query.Q)
	query.Category = strings.TrimSpace(query.Category)
	query.Location = strings.TrimSpace(query.Location)

	if query.Empty() {
		return nil, apperror.New(400, "Provide a search term, category or location", apperror.ErrInvalidInput)
	}

	businesses, err := s.searchBusinesses(ctx, query)
	if err != nil {
		return nil, err
	}

	posts, err := s.repo.SearchPosts(ctx, query.Q, query.Category, query.Location)
	if err != nil {
		return nil, err
	}

	results := make([]dto.Result, 0, len(businesses)+len(posts))
	results = append(results, businesses...)
	for i := range posts {
		results = append(results, dto.Result{Type: dto.ResultTypePost, Post: &posts[i]})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return rank(results[i]) < rank(results[j])
	})

	return &dto.SearchResponse{Results: results, Total: len(results)}, nil
}

// searchBusinesses matches registration profiles, widens the match with
// business accounts whose name or email hits the query, and joins each
// profile back to its account for the picture and verification badge.
// Profiles whose email never logged in are still returned, just without
// account fields.
func (s *searchService) searchBusinesses(ctx context.Context, query dto.SearchQuery) ([]dto.Result, error) {
	profiles, err := s.repo.SearchBusinessProfiles(ctx, query.Q, query.Category, query.Location)
	if err != nil {
		return nil, err
	}

	accountEmails, err := s.repo.FindBusinessEmailsMatching(ctx, query.Q)
	if err != nil {
		return nil, err
	}
	extra, err := s.repo.FindBusinessProfilesByEmails(ctx, accountEmails, query.Category, query.Location)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(profiles))
	for _, profile := range profiles {
		seen[profile.Email] = struct{}{}
	}
	for _, profile := range extra {
		if _, ok := seen[profile.Email]; ok {
			continue
		}
		seen[profile.Email] = struct{}{}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, nil
	}

	emails := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		emails = append(emails, profile.Email)
	}

	users, err := s.repo.FindBusinessUsersByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]entity.User, len(users))
	for _, user := range users {
		byEmail[user.Email] = user
	}

	results := make([]dto.Result, 0, len(profiles))
	for _, profile := range profiles {
		business := dto.BusinessResult{
			BusinessName:    profile.BusinessName,
			BusinessAddress: profile.BusinessAddress,
			Pincode:         profile.Pincode,
			Timing:          profile.Timing,
			Category:        profile.Category,
		}
		if user, ok := byEmail[profile.Email]; ok {
			business.UserID = user.ID.String()
			business.ProfilePicture = user.ProfilePicture
			business.IsVerified = user.IsVerified
		}
		results = append(results, dto.Result{Type: dto.ResultTypeBusiness, Business: &business})
	}
	return results, nil
}

func rank(r dto.Result) int {
	switch {
	case r.Type == dto.ResultTypeBusiness && r.Business.IsVerified:
		return 0
	case r.Type == dto.ResultTypePost && r.Post.Author.Verified:
		return 1
	default:
		return 2
	}
}
