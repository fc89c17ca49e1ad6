package handlers

import (
	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/services/dto"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(base BaseHandler, service services.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

func (h *AuthHandler) RegisterPublicRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
}

func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)

	admin := api.Group("", middleware.RequireRoles(models.UserRoleSuperAdmin))
	admin.POST("/users", h.CreateUser)
	admin.POST("/companies", h.CreateCompany)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.Refresh(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.service.Logout(req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.service.Me(c.GetString(middleware.ContextUserID))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateUser(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *AuthHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	company, err := h.service.CreateCompany(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, company)
}
