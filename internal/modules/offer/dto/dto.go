package dto

import (
	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/pkg/dto"
)

type CreatePostRequest struct {
	Content   string `form:"content"`
	ExpiresAt string `form:"expiresAt"`
}

type UpdatePostRequest struct {
	Content   string `json:"content"`
	ExpiresAt string `json:"expiresAt"`
}

type FeedResponse struct {
	Posts []entity.Post      `json:"posts"`
	Meta  dto.PaginationMeta `json:"meta"`
}
