package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/engagement/dto"
	"offbytes.com/offersapi/internal/modules/engagement/service"
	"offbytes.com/offersapi/pkg/apperror"
	"offbytes.com/offersapi/pkg/response"
	"offbytes.com/offersapi/pkg/validator"
)

type EngagementHandler struct {
	service service.EngagementService
}

func NewEngagementHandler(service service.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	user, postID, err := userAndPost(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ToggleLike(c.Request.Context(), user, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EngagementHandler) AddComment(c *gin.Context) {
	user, postID, err := userAndPost(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(400, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), user, postID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *EngagementHandler) ToggleSave(c *gin.Context) {
	user, postID, err := userAndPost(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ToggleSave(c.Request.Context(), user, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func userAndPost(c *gin.Context) (*entity.User, uuid.UUID, error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, uuid.Nil, apperror.ErrUnauthorized
	}
	user, ok := value.(*entity.User)
	if !ok {
		return nil, uuid.Nil, apperror.ErrUnauthorized
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, uuid.Nil, apperror.New(400, "Invalid post ID", apperror.ErrInvalidInput)
	}

	return user, postID, nil
}
