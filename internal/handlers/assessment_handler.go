package handlers

import (
	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/services/dto"
)

type AssessmentHandler struct {
	BaseHandler
	service services.AssessmentService
}

func NewAssessmentHandler(base BaseHandler, service services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{BaseHandler: base, service: service}
}

func (h *AssessmentHandler) RegisterRoutes(api *gin.RouterGroup) {
	tests := api.Group("/tests")
	tests.POST("", h.CreateTest)
	tests.GET("", h.ListTests)
	tests.GET("/:id", h.GetTest)
	tests.PATCH("/:id", h.UpdateTest)
	tests.DELETE("/:id", h.DeleteTest)

	tests.GET("/:id/stages", h.GetTestStages)
	tests.POST("/:id/stages", h.AttachStage)
	tests.PATCH("/:id/stages/order", h.ReorderStages)
	tests.DELETE("/:id/stages/:stageId", h.DetachStage)

	stages := api.Group("/stages")
	stages.POST("", h.CreateStage)
	stages.GET("", h.ListStages)
	stages.GET("/:id", h.GetStage)
	stages.PATCH("/:id", h.UpdateStage)

	stages.GET("/:id/questions", h.GetStageQuestions)
	stages.POST("/:id/questions", h.AttachQuestions)
	stages.PATCH("/:id/questions/order", h.ReorderQuestions)
	stages.DELETE("/:id/questions/:questionId", h.DetachQuestion)

	questions := api.Group("/questions")
	questions.POST("", h.CreateQuestion)
	questions.GET("", h.ListQuestions)
	questions.GET("/:id", h.GetQuestion)
	questions.PATCH("/:id", h.UpdateQuestion)
	questions.DELETE("/:id", h.DeleteQuestion)
}

// ---------------- Tests ----------------

func (h *AssessmentHandler) CreateTest(c *gin.Context) {
	var req dto.CreateTestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	companyID, ok := h.RequireCompany(c)
	if !ok {
		return
	}
	resp, err := h.service.CreateTest(companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *AssessmentHandler) GetTest(c *gin.Context) {
	resp, err := h.service.GetTest(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) UpdateTest(c *gin.Context) {
	var req dto.UpdateTestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateTest(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) DeleteTest(c *gin.Context) {
	if err := h.service.DeleteTest(middleware.CompanyScope(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AssessmentHandler) ListTests(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	resp, err := h.service.ListTests(c.GetString(middleware.ContextCompanyID), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

// ---------------- Stages ----------------

func (h *AssessmentHandler) CreateStage(c *gin.Context) {
	var req dto.CreateStageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	companyID, ok := h.RequireCompany(c)
	if !ok {
		return
	}
	resp, err := h.service.CreateStage(companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *AssessmentHandler) GetStage(c *gin.Context) {
	resp, err := h.service.GetStage(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) UpdateStage(c *gin.Context) {
	var req dto.UpdateStageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateStage(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) ListStages(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	resp, err := h.service.ListStages(c.GetString(middleware.ContextCompanyID), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

// ---------------- Questions ----------------

func (h *AssessmentHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	companyID, ok := h.RequireCompany(c)
	if !ok {
		return
	}
	resp, err := h.service.CreateQuestion(companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *AssessmentHandler) GetQuestion(c *gin.Context) {
	resp, err := h.service.GetQuestion(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) UpdateQuestion(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateQuestion(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AssessmentHandler) DeleteQuestion(c *gin.Context) {
	if err := h.service.DeleteQuestion(middleware.CompanyScope(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AssessmentHandler) ListQuestions(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	resp, err := h.service.ListQuestions(c.GetString(middleware.ContextCompanyID), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

// ---------------- Test<->Stage ----------------

func (h *AssessmentHandler) GetTestStages(c *gin.Context) {
	resp, err := h.service.GetTestStages(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"stages": resp})
}

func (h *AssessmentHandler) AttachStage(c *gin.Context) {
	var req dto.AttachStageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.AttachStage(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *AssessmentHandler) ReorderStages(c *gin.Context) {
	var req dto.ReorderStagesRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.ReorderStages(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"stages": resp})
}

func (h *AssessmentHandler) DetachStage(c *gin.Context) {
	err := h.service.DetachStage(middleware.CompanyScope(c), c.Param("id"), c.Param("stageId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

// ---------------- Stage<->Question ----------------

func (h *AssessmentHandler) GetStageQuestions(c *gin.Context) {
	resp, err := h.service.GetStageQuestions(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"questions": resp})
}

func (h *AssessmentHandler) AttachQuestions(c *gin.Context) {
	var req dto.AttachQuestionsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results, err := h.service.AttachQuestions(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"results": results})
}

func (h *AssessmentHandler) ReorderQuestions(c *gin.Context) {
	var req dto.ReorderQuestionsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.ReorderQuestions(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"questions": resp})
}

func (h *AssessmentHandler) DetachQuestion(c *gin.Context) {
	err := h.service.DetachQuestion(middleware.CompanyScope(c), c.Param("id"), c.Param("questionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}
