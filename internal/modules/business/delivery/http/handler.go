package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/business/dto"
	"offbytes.com/offersapi/internal/modules/business/service"
	"offbytes.com/offersapi/pkg/apperror"
	commondto "offbytes.com/offersapi/pkg/dto"
	"offbytes.com/offersapi/pkg/response"
)

type BusinessHandler struct {
	service service.BusinessService
}

func NewBusinessHandler(service service.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

func (h *BusinessHandler) GetInsights(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	insights, err := h.service.GetInsights(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}

func (h *BusinessHandler) GetMyPosts(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter commondto.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.New(400, "Invalid pagination", apperror.ErrInvalidInput))
		return
	}
	filter.Normalize()

	posts, err := h.service.GetMyPosts(c.Request.Context(), user, filter.Page, filter.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *BusinessHandler) GetPublicCard(c *gin.Context) {
	card, err := h.service.GetPublicCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *BusinessHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.service.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *BusinessHandler) UpdateProfile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(400, "Invalid request body", apperror.ErrInvalidInput))
		return
	}

	card, err := h.service.UpdateProfile(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
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
