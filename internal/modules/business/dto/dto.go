package dto

import (
	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/pkg/dto"
)

type InsightsResponse struct {
	PostsCount    int64 `json:"postsCount"`
	TotalLikes    int64 `json:"totalLikes"`
	TotalComments int64 `json:"totalComments"`
	TotalViews    int64 `json:"totalViews"`
	SavedCount    int64 `json:"savedCount"`
}

type MyPostsResponse struct {
	Posts []entity.Post      `json:"posts"`
	Meta  dto.PaginationMeta `json:"meta"`
}

type BusinessCard struct {
	UserID          string `json:"userId"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	Pincode         string `json:"pincode"`
	Timing          string `json:"timing"`
	Category        string `json:"category"`
	ProfilePicture  string `json:"profilePicture"`
	IsVerified      bool   `json:"isVerified"`
}

type PublicProfileResponse struct {
	Business    BusinessCard  `json:"business"`
	LatestPosts []entity.Post `json:"latestPosts"`
}

type UpdateProfileRequest struct {
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	Pincode         string `json:"pincode"`
	Timing          string `json:"timing"`
	Category        string `json:"category"`
	ProfilePicture  string `json:"profilePicture"`
}
