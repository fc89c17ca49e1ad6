package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"assesshub_backend/internal/models"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateFilter struct {
	CompanyID string
	TestID    string
	Status    models.CandidateStatus
	Search    string
	Page      int
	PageSize  int
}

type CandidateRepository interface {
	FindByID(id string) (*models.Candidate, error)
	FindByInviteCode(code string) (*models.Candidate, error)
	// CodeInUse reports whether any candidate currently holds the code.
	CodeInUse(code string) (bool, error)
	Create(candidate *models.Candidate) error
	// Save persists all invite fields plus test/status. Returns a raw storage
	// error on unique-index conflicts so callers can retry generation.
	Save(candidate *models.Candidate) error
	Delete(id string) error
	FindWithFilter(criteria CandidateFilter) ([]models.Candidate, int64, error)
	IncrementInviteAttempts(id string) error
}

type CandidateRepositoryImpl struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &CandidateRepositoryImpl{db: db}
}

func (r *CandidateRepositoryImpl) FindByID(id string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.Preload("Test").First(&candidate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) FindByInviteCode(code string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.Preload("Test").
		First(&candidate, "invite_code = ? AND invite_code <> ''", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepositoryImpl) CodeInUse(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Candidate{}).
		Where("invite_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *CandidateRepositoryImpl) Create(candidate *models.Candidate) error {
	return r.db.Create(candidate).Error
}

func (r *CandidateRepositoryImpl) Save(candidate *models.Candidate) error {
	result := r.db.Model(candidate).Updates(map[string]interface{}{
		"test_id":         candidate.TestID,
		"name":            candidate.Name,
		"email":           candidate.Email,
		"status":          candidate.Status,
		"invite_code":     candidate.InviteCode,
		"invite_expires":  candidate.InviteExpires,
		"invite_attempts": candidate.InviteAttempts,
		"invite_sent":     candidate.InviteSent,
		"meta":            candidate.Meta,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Candidate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) FindWithFilter(criteria CandidateFilter) ([]models.Candidate, int64, error) {
	var candidates []models.Candidate
	query := r.db.Model(&models.Candidate{})

	if criteria.CompanyID != "" {
		query = query.Where("company_id = ?", criteria.CompanyID)
	}
	if criteria.TestID != "" {
		query = query.Where("test_id = ?", criteria.TestID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Test").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&candidates).Error
	return candidates, total, err
}

func (r *CandidateRepositoryImpl) IncrementInviteAttempts(id string) error {
	result := r.db.Model(&models.Candidate{}).Where("id = ?", id).
		Update("invite_attempts", gorm.Expr("invite_attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}
