package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offbytes.com/offersapi/internal/modules/search/dto"
	"offbytes.com/offersapi/internal/modules/search/service"
	"offbytes.com/offersapi/pkg/apperror"
	"offbytes.com/offersapi/pkg/response"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.New(400, "Invalid search query", apperror.ErrInvalidInput))
		return
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
