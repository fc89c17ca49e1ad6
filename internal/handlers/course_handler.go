package handlers

import (
	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/middleware"
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/services/dto"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(base BaseHandler, service services.CourseService) *CourseHandler {
	return &CourseHandler{BaseHandler: base, service: service}
}

func (h *CourseHandler) RegisterRoutes(api *gin.RouterGroup) {
	courses := api.Group("/courses")
	courses.POST("", h.Create)
	courses.GET("", h.List)
	courses.GET("/:id", h.Get)
	courses.PATCH("/:id", h.Update)
	courses.DELETE("/:id", h.Delete)
	courses.GET("/:id/outline", h.GetOutline)

	courses.POST("/:id/modules", h.AddModule)
	courses.PATCH("/:id/modules/order", h.ReorderModules)
	courses.DELETE("/:id/modules/:moduleId", h.DeleteModule)

	modules := api.Group("/modules")
	modules.POST("/:id/lessons", h.AddLesson)
	modules.PATCH("/:id/lessons/order", h.ReorderLessons)
	modules.DELETE("/:id/lessons/:lessonId", h.DeleteLesson)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	companyID, ok := h.RequireCompany(c)
	if !ok {
		return
	}
	resp, err := h.service.CreateCourse(companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CourseHandler) Get(c *gin.Context) {
	resp, err := h.service.GetCourse(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateCourse(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteCourse(middleware.CompanyScope(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CourseHandler) List(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	resp, err := h.service.ListCourses(c.GetString(middleware.ContextCompanyID), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CourseHandler) GetOutline(c *gin.Context) {
	resp, err := h.service.GetOutline(middleware.CompanyScope(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *CourseHandler) AddModule(c *gin.Context) {
	var req dto.CreateModuleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.AddModule(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CourseHandler) ReorderModules(c *gin.Context) {
	var req dto.ReorderModulesRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.ReorderModules(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"modules": resp})
}

func (h *CourseHandler) DeleteModule(c *gin.Context) {
	err := h.service.DeleteModule(middleware.CompanyScope(c), c.Param("id"), c.Param("moduleId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	var req dto.CreateLessonRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.AddLesson(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CourseHandler) ReorderLessons(c *gin.Context) {
	var req dto.ReorderLessonsRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.service.ReorderLessons(middleware.CompanyScope(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"lessons": resp})
}

func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	err := h.service.DeleteLesson(middleware.CompanyScope(c), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.NoContent(c)
}
