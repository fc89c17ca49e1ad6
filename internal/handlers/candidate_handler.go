package handlers

import (
	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/services/dto"
)

type CandidateHandler struct {
	BaseHandler
	service services.CandidateService
}

func NewCandidateHandler(base BaseHandler, service services.CandidateService) *CandidateHandler {
	return &CandidateHandler{BaseHandler: base, service: service}
}

func (h *CandidateHandler) RegisterRoutes(api *gin.RouterGroup) {
	candidates := api.Group("/candidates")
	candidates.POST("", h.Create)
	candidates.GET("", h.List)
	candidates.GET("/:id", h.Get)
	candidates.PATCH("/:id", h.Update)
	candidates.DELETE("/:id", h.Delete)
	candidates.GET("/:id/used-codes", h.ListUsedCodes)
}

func (h *CandidateHandler) Create(c *gin.Context) {
	var req dto.CreateCandidateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	companyID, ok := h.RequireCompany(c)
	if !ok {
		return
	}
	resp, err := h.service.CreateCandidate(companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	resp, err := h.service.GetCandidate(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CandidateHandler) Update(c *gin.Context) {
	var req dto.UpdateCandidateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateCandidate(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteCandidate(middleware.CompanyScope(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CandidateHandler) List(c *gin.Context) {
	var criteria dto.CandidateCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}
	criteria.CompanyID = middleware.CompanyScope(c)
	criteria.Page, criteria.PageSize = h.ParsePagination(c)

	resp, err := h.service.ListCandidates(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CandidateHandler) ListUsedCodes(c *gin.Context) {
	resp, err := h.service.ListUsedCodes(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}
