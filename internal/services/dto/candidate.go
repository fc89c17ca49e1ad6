package dto

import (
	"time"

	"gorm.io/datatypes"

	"assesshub_backend/internal/models"
)

type CreateCandidateRequest struct {
	Name   string                 `json:"name" validate:"required"`
	Email  string                 `json:"email" validate:"required,email"`
	TestID string                 `json:"test_id" validate:"omitempty,uuid"`
	Meta   map[string]interface{} `json:"meta"`
}

type UpdateCandidateRequest struct {
	Name   *string                `json:"name"`
	Email  *string                `json:"email" validate:"omitempty,email"`
	Status *string                `json:"status" validate:"omitempty,candidate_status"`
	TestID *string                `json:"test_id" validate:"omitempty,uuid"`
	Meta   map[string]interface{} `json:"meta"`
}

type CandidateCriteria struct {
	CompanyID string
	TestID    string `form:"test_id"`
	Status    string `form:"status" validate:"omitempty,candidate_status"`
	Search    string `form:"search"`
	Page      int
	PageSize  int
}

type CandidateResponse struct {
	ID             string                 `json:"id"`
	CompanyID      string                 `json:"company_id"`
	TestID         *string                `json:"test_id,omitempty"`
	TestTitle      string                 `json:"test_title,omitempty"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Status         models.CandidateStatus `json:"status"`
	InviteCode     string                 `json:"invite_code,omitempty"`
	InviteExpires  *time.Time             `json:"invite_expires,omitempty"`
	InviteAttempts int                    `json:"invite_attempts"`
	InviteSent     bool                   `json:"invite_sent"`
	Meta           datatypes.JSON         `json:"meta,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type CandidateListResponse struct {
	Candidates []*CandidateResponse `json:"candidates"`
	Pagination
}

// UsedCodesResponse lists a candidate's retired invite codes alongside the
// company-wide archive size, a proxy for how crowded the code space is.
type UsedCodesResponse struct {
	UsedCodes            []models.UsedInviteCode `json:"used_codes"`
	CompanyArchivedTotal int64                   `json:"company_archived_total"`
}
