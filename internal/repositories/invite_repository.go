package repositories

import (
	"errors"

	"gorm.io/gorm"

	"assesshub_backend/internal/models"
)

// ErrCodeAlreadyArchived means the historical log already holds this code
// value. Archival is best-effort; callers record the outcome and move on.
var ErrCodeAlreadyArchived = errors.New("invite code already archived")

type InviteRepository interface {
	// Archive appends a retired code to the historical log.
	Archive(used *models.UsedInviteCode) error
	// CodeUsed reports whether the code value appears in the historical log.
	CodeUsed(code string) (bool, error)
	ListByCandidate(candidateID string) ([]models.UsedInviteCode, error)
	CountByCompany(companyID string) (int64, error)
}

type InviteRepositoryImpl struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &InviteRepositoryImpl{db: db}
}

func (r *InviteRepositoryImpl) Archive(used *models.UsedInviteCode) error {
	err := r.db.Create(used).Error
	if err != nil && IsUniqueViolation(err) {
		return ErrCodeAlreadyArchived
	}
	return err
}

func (r *InviteRepositoryImpl) CodeUsed(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UsedInviteCode{}).
		Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *InviteRepositoryImpl) ListByCandidate(candidateID string) ([]models.UsedInviteCode, error) {
	var used []models.UsedInviteCode
	err := r.db.Where("candidate_id = ?", candidateID).
		Order("used_at DESC").Find(&used).Error
	return used, err
}

func (r *InviteRepositoryImpl) CountByCompany(companyID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UsedInviteCode{}).
		Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}
