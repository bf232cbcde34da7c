package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/savedoffer/dto"
	"offbytes.com/offersapi/internal/modules/savedoffer/service"
	"offbytes.com/offersapi/pkg/apperror"
	"offbytes.com/offersapi/pkg/response"
)

type SavedOfferHandler struct {
	service service.SavedOfferService
}

func NewSavedOfferHandler(service service.SavedOfferService) *SavedOfferHandler {
	return &SavedOfferHandler{service: service}
}

func (h *SavedOfferHandler) GetSavedOffers(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetSavedOffers(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SavedOfferHandler) SaveOffer(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SaveOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(400, "postId is required", apperror.ErrInvalidInput))
		return
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		response.Error(c, apperror.New(400, "Invalid post ID", apperror.ErrInvalidInput))
		return
	}

	if err := h.service.SaveOffer(c.Request.Context(), user, postID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Offer saved"})
}

func (h *SavedOfferHandler) UnsaveOffer(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		response.Error(c, apperror.New(400, "Invalid post ID", apperror.ErrInvalidInput))
		return
	}

	if err := h.service.UnsaveOffer(c.Request.Context(), user, postID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer removed from saved"})
}

func currentUser(c *gin.Context) (*entity.User, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, apperror.ErrUnauthorized
	}
	user, ok := value.(*entity.User)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}
