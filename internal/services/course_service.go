package services

import (
	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

type CourseService interface {
	CreateCourse(companyID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(companyID, id string) (*dto.CourseResponse, error)
	UpdateCourse(companyID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(companyID, id string) error
	ListCourses(companyID string, page, pageSize int) (*dto.CourseListResponse, error)

	// GetOutline returns the full course tree with normalized ordering.
	GetOutline(companyID, courseID string) (*dto.CourseOutlineResponse, error)

	AddModule(companyID, courseID string, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(companyID, courseID, moduleID string) error
	ReorderModules(companyID, courseID string, req *dto.ReorderModulesRequest) ([]*dto.ModuleResponse, error)

	AddLesson(companyID, moduleID string, req *dto.CreateLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(companyID, moduleID, lessonID string) error
	ReorderLessons(companyID, moduleID string, req *dto.ReorderLessonsRequest) ([]*dto.LessonResponse, error)
}

type courseService struct {
	repo repositories.CourseRepository
}

func NewCourseService(repo repositories.CourseRepository) CourseService {
	return &courseService{repo: repo}
}

// ---------------- Courses ----------------

func (s *courseService) CreateCourse(companyID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &models.Course{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.CreateCourse(course); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildCourseResponse(course), nil
}

func (s *courseService) GetCourse(companyID, id string) (*dto.CourseResponse, error) {
	course, err := s.findOwnedCourse(companyID, id)
	if err != nil {
		return nil, err
	}
	return buildCourseResponse(course), nil
}

func (s *courseService) UpdateCourse(companyID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.findOwnedCourse(companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}
	if err := s.repo.UpdateCourse(course); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildCourseResponse(course), nil
}

func (s *courseService) DeleteCourse(companyID, id string) error {
	if _, err := s.findOwnedCourse(companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(id); err != nil {
		if err == repositories.ErrCourseNotFound {
			return apperrors.ErrCourseNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *courseService) ListCourses(companyID string, page, pageSize int) (*dto.CourseListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	courses, total, err := s.repo.ListCourses(companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.CourseListResponse{
		Courses:    make([]*dto.CourseResponse, 0, len(courses)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range courses {
		resp.Courses = append(resp.Courses, buildCourseResponse(&courses[i]))
	}
	return resp, nil
}

func (s *courseService) GetOutline(companyID, courseID string) (*dto.CourseOutlineResponse, error) {
	course, err := s.findOwnedCourse(companyID, courseID)
	if err != nil {
		return nil, err
	}

	modules, err := s.normalizedModules(courseID)
	if err != nil {
		return nil, err
	}

	outline := &dto.CourseOutlineResponse{
		Course:  buildCourseResponse(course),
		Modules: make([]*dto.ModuleResponse, 0, len(modules)),
	}
	for i := range modules {
		modResp := buildModuleResponse(&modules[i])
		lessons, err := s.normalizedLessons(modules[i].ID)
		if err != nil {
			return nil, err
		}
		for j := range lessons {
			modResp.Lessons = append(modResp.Lessons, buildLessonResponse(&lessons[j]))
		}
		outline.Modules = append(outline.Modules, modResp)
	}
	return outline, nil
}

// ---------------- Modules ----------------

func (s *courseService) AddModule(companyID, courseID string, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	if _, err := s.findOwnedCourse(companyID, courseID); err != nil {
		return nil, err
	}

	modules, err := s.repo.FindCourseModules(courseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	next := 0
	for i := range modules {
		if modules[i].SortOrder >= next {
			next = modules[i].SortOrder + 1
		}
	}

	module := &models.Module{CourseID: courseID, Title: req.Title, SortOrder: next}
	if err := s.repo.CreateModule(module); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildModuleResponse(module), nil
}

func (s *courseService) DeleteModule(companyID, courseID, moduleID string) error {
	if _, err := s.findOwnedCourse(companyID, courseID); err != nil {
		return err
	}
	module, err := s.repo.FindModuleByID(moduleID)
	if err != nil {
		if err == repositories.ErrModuleNotFound {
			return apperrors.ErrModuleNotFound
		}
		return apperrors.InternalError(err)
	}
	if module.CourseID != courseID {
		return apperrors.ErrModuleNotFound
	}
	if err := s.repo.DeleteModule(moduleID); err != nil {
		if err == repositories.ErrModuleNotFound {
			return apperrors.ErrModuleNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *courseService) ReorderModules(companyID, courseID string, req *dto.ReorderModulesRequest) ([]*dto.ModuleResponse, error) {
	if _, err := s.findOwnedCourse(companyID, courseID); err != nil {
		return nil, err
	}

	modules, err := s.repo.FindCourseModules(courseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	existing := make(map[string]bool, len(modules))
	for i := range modules {
		existing[modules[i].ID] = true
	}

	orders := make(map[string]int, len(req.ModuleOrders))
	for _, item := range req.ModuleOrders {
		if !existing[item.ModuleID] {
			return nil, apperrors.ErrModuleNotFound
		}
		if _, dup := orders[item.ModuleID]; dup {
			return nil, apperrors.NewBadRequestError("duplicate module in reorder request")
		}
		orders[item.ModuleID] = item.Order
	}

	if err := s.repo.UpdateModuleOrders(courseID, orders); err != nil {
		if err == repositories.ErrModuleNotFound {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	normalized, err := s.normalizedModules(courseID)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.ModuleResponse, 0, len(normalized))
	for i := range normalized {
		resp = append(resp, buildModuleResponse(&normalized[i]))
	}
	return resp, nil
}

// ---------------- Lessons ----------------

func (s *courseService) AddLesson(companyID, moduleID string, req *dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if _, err := s.findOwnedModule(companyID, moduleID); err != nil {
		return nil, err
	}

	lessons, err := s.repo.FindModuleLessons(moduleID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	next := 0
	for i := range lessons {
		if lessons[i].SortOrder >= next {
			next = lessons[i].SortOrder + 1
		}
	}

	lesson := &models.Lesson{
		ModuleID:  moduleID,
		Title:     req.Title,
		Content:   req.Content,
		SortOrder: next,
	}
	if err := s.repo.CreateLesson(lesson); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildLessonResponse(lesson), nil
}

func (s *courseService) DeleteLesson(companyID, moduleID, lessonID string) error {
	if _, err := s.findOwnedModule(companyID, moduleID); err != nil {
		return err
	}
	lesson, err := s.repo.FindLessonByID(lessonID)
	if err != nil {
		if err == repositories.ErrLessonNotFound {
			return apperrors.ErrLessonNotFound
		}
		return apperrors.InternalError(err)
	}
	if lesson.ModuleID != moduleID {
		return apperrors.ErrLessonNotFound
	}
	if err := s.repo.DeleteLesson(lessonID); err != nil {
		if err == repositories.ErrLessonNotFound {
			return apperrors.ErrLessonNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *courseService) ReorderLessons(companyID, moduleID string, req *dto.ReorderLessonsRequest) ([]*dto.LessonResponse, error) {
	if _, err := s.findOwnedModule(companyID, moduleID); err != nil {
		return nil, err
	}

	lessons, err := s.repo.FindModuleLessons(moduleID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	existing := make(map[string]bool, len(lessons))
	for i := range lessons {
		existing[lessons[i].ID] = true
	}

	orders := make(map[string]int, len(req.LessonOrders))
	for _, item := range req.LessonOrders {
		if !existing[item.LessonID] {
			return nil, apperrors.ErrLessonNotFound
		}
		if _, dup := orders[item.LessonID]; dup {
			return nil, apperrors.NewBadRequestError("duplicate lesson in reorder request")
		}
		orders[item.LessonID] = item.Order
	}

	if err := s.repo.UpdateLessonOrders(moduleID, orders); err != nil {
		if err == repositories.ErrLessonNotFound {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	normalized, err := s.normalizedLessons(moduleID)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.LessonResponse, 0, len(normalized))
	for i := range normalized {
		resp = append(resp, buildLessonResponse(&normalized[i]))
	}
	return resp, nil
}

// ---------------- Helpers ----------------

// normalizedModules reads modules and repairs sort orders to a dense
// sequence, persisting any fix.
func (s *courseService) normalizedModules(courseID string) ([]models.Module, error) {
	modules, err := s.repo.FindCourseModules(courseID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	orders := make([]int, len(modules))
	for i := range modules {
		orders[i] = modules[i].SortOrder
	}
	if repaired, changed := repairDenseOrders(orders); changed {
		fixes := make(map[string]int, len(modules))
		for i := range modules {
			if modules[i].SortOrder != repaired[i] {
				fixes[modules[i].ID] = repaired[i]
			}
			modules[i].SortOrder = repaired[i]
		}
		if err := s.repo.UpdateModuleOrders(courseID, fixes); err != nil {
			logger.Warn("failed to persist module order repair", "course_id", courseID, "error", err)
		}
	}
	return modules, nil
}

func (s *courseService) normalizedLessons(moduleID string) ([]models.Lesson, error) {
	lessons, err := s.repo.FindModuleLessons(moduleID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	orders := make([]int, len(lessons))
	for i := range lessons {
		orders[i] = lessons[i].SortOrder
	}
	if repaired, changed := repairDenseOrders(orders); changed {
		fixes := make(map[string]int, len(lessons))
		for i := range lessons {
			if lessons[i].SortOrder != repaired[i] {
				fixes[lessons[i].ID] = repaired[i]
			}
			lessons[i].SortOrder = repaired[i]
		}
		if err := s.repo.UpdateLessonOrders(moduleID, fixes); err != nil {
			logger.Warn("failed to persist lesson order repair", "module_id", moduleID, "error", err)
		}
	}
	return lessons, nil
}

func (s *courseService) findOwnedCourse(companyID, id string) (*models.Course, error) {
	course, err := s.repo.FindCourseByID(id)
	if err != nil {
		if err == repositories.ErrCourseNotFound {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && course.CompanyID != companyID {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// findOwnedModule resolves a module and checks its course belongs to the
// caller's company.
func (s *courseService) findOwnedModule(companyID, moduleID string) (*models.Module, error) {
	module, err := s.repo.FindModuleByID(moduleID)
	if err != nil {
		if err == repositories.ErrModuleNotFound {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if _, err := s.findOwnedCourse(companyID, module.CourseID); err != nil {
		return nil, apperrors.ErrModuleNotFound
	}
	return module, nil
}

func buildCourseResponse(course *models.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          course.ID,
		CompanyID:   course.CompanyID,
		Title:       course.Title,
		Description: course.Description,
		IsPublished: course.IsPublished,
		CreatedAt:   course.CreatedAt,
	}
}

func buildModuleResponse(module *models.Module) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		ID:        module.ID,
		CourseID:  module.CourseID,
		Title:     module.Title,
		SortOrder: module.SortOrder,
	}
}

func buildLessonResponse(lesson *models.Lesson) *dto.LessonResponse {
	return &dto.LessonResponse{
		ID:        lesson.ID,
		ModuleID:  lesson.ModuleID,
		Title:     lesson.Title,
		Content:   lesson.Content,
		SortOrder: lesson.SortOrder,
	}
}
