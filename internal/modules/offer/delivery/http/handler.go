package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"offbytes.com/offersapi/internal/entity"
	"offbytes.com/offersapi/internal/modules/offer/dto"
	"offbytes.com/offersapi/internal/modules/offer/service"
	"offbytes.com/offersapi/pkg/apperror"
	commondto "offbytes.com/offersapi/pkg/dto"
	"offbytes.com/offersapi/pkg/response"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) GetFeed(c *gin.Context) {
	var filter commondto.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.New(400, "Invalid pagination", apperror.ErrInvalidInput))
		return
	}
	filter.Normalize()

	feed, err := h.service.GetHomeFeed(c.Request.Context(), filter.Page, filter.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(400, "Invalid post ID", apperror.ErrInvalidInput))
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperror.New(400, "Invalid request body", apperror.ErrInvalidInput))
		return
	}

	// Image is optional; a missing file is not an error.
	image, _ := c.FormFile("image")

	post, err := h.service.CreatePost(c.Request.Context(), user, req, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(400, "Invalid post ID", apperror.ErrInvalidInput))
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(400, "Invalid request body", apperror.ErrInvalidInput))
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), user, postID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
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
