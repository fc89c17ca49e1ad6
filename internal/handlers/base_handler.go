package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/validator"
	"assesshub_backend/pkg/apperrors"
)

// BaseHandler carries shared binding and error-translation helpers; every
// concrete handler embeds it.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) BaseHandler {
	return BaseHandler{validator: v}
}

// BindAndValidateJSON binds the request body and runs struct validation.
// Returns false after writing the error response.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid request body"))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidateQuery binds query parameters and runs struct validation.
func (h *BaseHandler) BindAndValidateQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid query parameters"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// RequireCompany resolves the caller's company scope for operations that
// create company-owned rows. A caller without a company (a super admin not
// acting on behalf of one) gets a validation error instead of letting an
// empty id reach the database. Returns false after writing the response.
func (h *BaseHandler) RequireCompany(c *gin.Context) (string, bool) {
	companyID := c.GetString(middleware.ContextCompanyID)
	if companyID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("a company scope is required for this operation"))
		return "", false
	}
	return companyID, true
}

// HandleServiceError writes a service-layer error in the standard envelope.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

func (h *BaseHandler) OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

func (h *BaseHandler) Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ParsePagination reads page/page_size query parameters with defaults.
func (h *BaseHandler) ParsePagination(c *gin.Context) (page, pageSize int) {
	page = parseQueryInt(c, "page", 1)
	pageSize = parseQueryInt(c, "page_size", 20)
	return page, pageSize
}

func parseQueryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
