package dto

import "time"

type IssueInviteRequest struct {
	CandidateID    string `json:"candidate_id" validate:"required,uuid"`
	TestID         string `json:"test_id" validate:"required,uuid"`
	ExpirationDays int    `json:"expiration_days" validate:"omitempty,min=1,max=365"`
	ForceNew       bool   `json:"force_new"`
	SendEmail      bool   `json:"send_email"`
}

// ArchiveOutcome reports what happened to the superseded code. Archival is
// best-effort: failure never fails the issuance, but it is surfaced here so
// callers and tests do not have to scrape logs for it.
type ArchiveOutcome struct {
	Attempted bool   `json:"attempted"`
	Archived  bool   `json:"archived"`
	Error     string `json:"error,omitempty"`
}

type IssueInviteResponse struct {
	Success         bool               `json:"success"`
	InviteCode      string             `json:"invite_code"`
	InviteExpires   time.Time          `json:"invite_expires"`
	Reused          bool               `json:"reused"`
	Archival        ArchiveOutcome     `json:"archival"`
	EmailSent       bool               `json:"email_sent"`
	EmailError      string             `json:"email_error,omitempty"`
	EmailPreviewURL string             `json:"email_preview_url,omitempty"`
	Candidate       *CandidateResponse `json:"candidate"`
}

type VerifyInviteRequest struct {
	Code string `json:"code" validate:"required,invitecode"`
}

type VerifyInviteResponse struct {
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	TestID        string    `json:"test_id,omitempty"`
	TestTitle     string    `json:"test_title,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	Attempts      int       `json:"attempts"`
}
