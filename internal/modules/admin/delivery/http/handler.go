package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"offbytes.com/offersapi/internal/modules/admin/service"
	"offbytes.com/offersapi/pkg/response"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) VerifyBusiness(c *gin.Context) {
	user, err := h.service.VerifyBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Business verified",
		"user":    user,
	})
}

func (h *AdminHandler) RejectBusiness(c *gin.Context) {
	user, err := h.service.RejectBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Business verification rejected",
		"user":    user,
	})
}
