package dto

import "time"

type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"is_published"`
}

type CourseResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Pagination
}

type CreateModuleRequest struct {
	Title string `json:"title" validate:"required"`
}

type ModuleResponse struct {
	ID        string            `json:"id"`
	CourseID  string            `json:"course_id"`
	Title     string            `json:"title"`
	SortOrder int               `json:"sort_order"`
	Lessons   []*LessonResponse `json:"lessons,omitempty"`
}

type ModuleOrderItem struct {
	ModuleID string `json:"module_id" validate:"required,uuid"`
	Order    int    `json:"order" validate:"min=0"`
}

type ReorderModulesRequest struct {
	ModuleOrders []ModuleOrderItem `json:"module_orders" validate:"required,min=1,dive"`
}

type CreateLessonRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type LessonResponse struct {
	ID        string `json:"id"`
	ModuleID  string `json:"module_id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	SortOrder int    `json:"sort_order"`
}

type LessonOrderItem struct {
	LessonID string `json:"lesson_id" validate:"required,uuid"`
	Order    int    `json:"order" validate:"min=0"`
}

type ReorderLessonsRequest struct {
	LessonOrders []LessonOrderItem `json:"lesson_orders" validate:"required,min=1,dive"`
}

type CourseOutlineResponse struct {
	Course  *CourseResponse   `json:"course"`
	Modules []*ModuleResponse `json:"modules"`
}
