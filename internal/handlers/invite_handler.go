package handlers

import (
	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/services/dto"
)

type InviteHandler struct {
	BaseHandler
	service services.InviteService
}

func NewInviteHandler(base BaseHandler, service services.InviteService) *InviteHandler {
	return &InviteHandler{BaseHandler: base, service: service}
}

// RegisterPublicRoutes exposes code verification to unauthenticated
// candidates.
func (h *InviteHandler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/invites/verify", h.Verify)
}

func (h *InviteHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/invites/generate", h.Generate)
}

func (h *InviteHandler) Generate(c *gin.Context) {
	var req dto.IssueInviteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.IssueOrRefreshInvite(middleware.CompanyScope(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *InviteHandler) Verify(c *gin.Context) {
	var req dto.VerifyInviteRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.VerifyCode(req.Code)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}
