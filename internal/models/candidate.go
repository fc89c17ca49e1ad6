package models

import (
	"time"

	"gorm.io/datatypes"
)

type CandidateStatus string

const (
	CandidateStatusPending    CandidateStatus = "pending"
	CandidateStatusInvited    CandidateStatus = "invited"
	CandidateStatusInProgress CandidateStatus = "in_progress"
	CandidateStatusCompleted  CandidateStatus = "completed"
)

func (s CandidateStatus) Valid() bool {
	switch s {
	case CandidateStatusPending, CandidateStatusInvited, CandidateStatusInProgress, CandidateStatusCompleted:
		return true
	}
	return false
}

// Candidate is a person invited to take a test. At most one active invite code
// per candidate; the partial unique index keeps a live code value on at most
// one candidate row.
type Candidate struct {
	BaseModel
	CompanyID string          `gorm:"type:uuid;not null;index" json:"company_id"`
	TestID    *string         `gorm:"type:uuid;index" json:"test_id,omitempty"`
	Name      string          `gorm:"not null" json:"name"`
	Email     string          `gorm:"not null;index" json:"email"`
	Status    CandidateStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	InviteCode     string     `gorm:"size:6;uniqueIndex:uniq_candidates_invite_code,where:invite_code <> ''" json:"invite_code,omitempty"`
	InviteExpires  *time.Time `json:"invite_expires,omitempty"`
	InviteAttempts int        `gorm:"default:0" json:"invite_attempts"`
	InviteSent     bool       `gorm:"default:false" json:"invite_sent"`

	// Free-form admin fields (replaces ad-hoc column additions).
	Meta datatypes.JSON `json:"meta,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Test    *Test    `gorm:"foreignKey:TestID" json:"test,omitempty"`
}

// UsedInviteCode is the append-only historical log. A code value present here
// is permanently excluded from future generation, even after the owning
// candidate is gone.
type UsedInviteCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:6;uniqueIndex;not null" json:"code"`
	CandidateID string    `gorm:"type:uuid;not null;index" json:"candidate_id"`
	CompanyID   string    `gorm:"type:uuid;not null;index" json:"company_id"`
	TestID      *string   `gorm:"type:uuid" json:"test_id,omitempty"`
	UsedAt      time.Time `gorm:"not null" json:"used_at"`
}
