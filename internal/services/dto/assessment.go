package dto

import (
	"time"

	"gorm.io/datatypes"

	"assesshub_backend/internal/models"
)

// ---------------- Tests ----------------

type CreateTestRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type UpdateTestRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type TestResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type TestListResponse struct {
	Tests []*TestResponse `json:"tests"`
	Pagination
}

// ---------------- Stages ----------------

type CreateStageRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type UpdateStageRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type StageResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type StageListResponse struct {
	Stages []*StageResponse `json:"stages"`
	Pagination
}

// ---------------- Questions ----------------

type CreateQuestionRequest struct {
	Text    string                 `json:"text" validate:"required"`
	Type    string                 `json:"type" validate:"omitempty,oneof=single_choice multi_choice text"`
	Options map[string]interface{} `json:"options"`
	Answer  map[string]interface{} `json:"answer"`
}

type UpdateQuestionRequest struct {
	Text    *string                `json:"text"`
	Type    *string                `json:"type" validate:"omitempty,oneof=single_choice multi_choice text"`
	Options map[string]interface{} `json:"options"`
	Answer  map[string]interface{} `json:"answer"`
}

type QuestionResponse struct {
	ID        string              `json:"id"`
	CompanyID string              `json:"company_id"`
	Text      string              `json:"text"`
	Type      models.QuestionType `json:"type"`
	Options   datatypes.JSON      `json:"options,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type QuestionListResponse struct {
	Questions []*QuestionResponse `json:"questions"`
	Pagination
}

// ---------------- Ordered associations ----------------

type AttachStageRequest struct {
	StageID string `json:"stage_id" validate:"required,uuid"`
}

type StageOrderItem struct {
	StageID string `json:"stage_id" validate:"required,uuid"`
	Order   int    `json:"order" validate:"min=0"`
}

type ReorderStagesRequest struct {
	StageOrders []StageOrderItem `json:"stage_orders" validate:"required,min=1,dive"`
}

type TestStageResponse struct {
	StageID   string `json:"stage_id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

type AttachQuestionsRequest struct {
	QuestionIDs []string `json:"question_ids" validate:"required,min=1,dive,uuid"`
}

// AttachQuestionResult is a per-item outcome of a batch attach.
type AttachQuestionResult struct {
	QuestionID string `json:"question_id"`
	Status     string `json:"status"` // attached, already_associated, not_found
	SortOrder  int    `json:"sort_order,omitempty"`
}

type QuestionOrderItem struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Order      int    `json:"order" validate:"min=0"`
}

type ReorderQuestionsRequest struct {
	QuestionOrders []QuestionOrderItem `json:"question_orders" validate:"required,min=1,dive"`
}

type StageQuestionResponse struct {
	QuestionID string              `json:"question_id"`
	Text       string              `json:"text"`
	Type       models.QuestionType `json:"type"`
	SortOrder  int                 `json:"sort_order"`
}
