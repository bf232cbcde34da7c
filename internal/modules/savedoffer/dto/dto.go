package dto

import (
	"time"

	"offbytes.com/offersapi/internal/entity"
)

type SavedOfferItem struct {
	Post    entity.Post `json:"post"`
	SavedAt time.Time   `json:"savedAt"`
}

type SavedOffersResponse struct {
	SavedOffers []SavedOfferItem `json:"savedOffers"`
	Total       int              `json:"total"`
}

type SaveOfferRequest struct {
	PostID string `json:"postId" binding:"required"`
}
