package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"assesshub_backend/internal/models"
)

var (
	ErrTestNotFound         = errors.New("test not found")
	ErrStageNotFound        = errors.New("stage not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAssociationNotFound  = errors.New("association not found")
	ErrDuplicateAssociation = errors.New("association already exists")
)

type AssessmentRepository interface {
	// Tests
	FindTestByID(id string) (*models.Test, error)
	CreateTest(test *models.Test) error
	UpdateTest(test *models.Test) error
	DeleteTest(id string) error
	ListTests(companyID string, limit, offset int) ([]models.Test, int64, error)

	// Stages
	FindStageByID(id string) (*models.Stage, error)
	CreateStage(stage *models.Stage) error
	UpdateStage(stage *models.Stage) error
	ListStages(companyID string, limit, offset int) ([]models.Stage, int64, error)

	// Questions
	FindQuestionByID(id string) (*models.Question, error)
	FindQuestionsByIDs(ids []string) ([]models.Question, error)
	CreateQuestion(question *models.Question) error
	UpdateQuestion(question *models.Question) error
	DeleteQuestion(id string) error
	ListQuestions(companyID string, limit, offset int) ([]models.Question, int64, error)
	CountQuestionsByCompany(companyID string) (int64, error)

	// Test<->Stage associations, ordered by sort_order
	FindTestStages(testID string) ([]models.TestStage, error)
	CreateTestStage(ts *models.TestStage) error
	UpdateTestStageOrders(testID string, orders map[string]int) error
	DeleteTestStage(testID, stageID string) error
	CountTestsForStage(stageID string) (int64, error)

	// Stage<->Question associations
	FindStageQuestions(stageID string) ([]models.StageQuestion, error)
	CreateStageQuestion(sq *models.StageQuestion) error
	UpdateStageQuestionOrders(stageID string, orders map[string]int) error
	DeleteStageQuestion(stageID, questionID string) error

	// RetireStage deletes an orphaned stage after relocating its questions to
	// the company question bank (join rows removed, legacy links cleared).
	RetireStage(stageID string) error
}

type AssessmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &AssessmentRepositoryImpl{db: db}
}

// ---------------- Tests ----------------

func (r *AssessmentRepositoryImpl) FindTestByID(id string) (*models.Test, error) {
	var test models.Test
	err := r.db.First(&test, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return &test, nil
}

func (r *AssessmentRepositoryImpl) CreateTest(test *models.Test) error {
	return r.db.Create(test).Error
}

func (r *AssessmentRepositoryImpl) UpdateTest(test *models.Test) error {
	result := r.db.Model(test).Updates(map[string]interface{}{
		"title":       test.Title,
		"description": test.Description,
		"is_active":   test.IsActive,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTestNotFound
	}
	return nil
}

func (r *AssessmentRepositoryImpl) DeleteTest(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&models.TestStage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Test{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTestNotFound
		}
		return nil
	})
}

func (r *AssessmentRepositoryImpl) ListTests(companyID string, limit, offset int) ([]models.Test, int64, error) {
	var tests []models.Test
	query := r.db.Model(&models.Test{}).Where("company_id = ?", companyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&tests).Error
	return tests, total, err
}

// ---------------- Stages ----------------

func (r *AssessmentRepositoryImpl) FindStageByID(id string) (*models.Stage, error) {
	var stage models.Stage
	err := r.db.First(&stage, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &stage, nil
}

func (r *AssessmentRepositoryImpl) CreateStage(stage *models.Stage) error {
	return r.db.Create(stage).Error
}

func (r *AssessmentRepositoryImpl) UpdateStage(stage *models.Stage) error {
	result := r.db.Model(stage).Updates(map[string]interface{}{
		"title":       stage.Title,
		"description": stage.Description,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStageNotFound
	}
	return nil
}

func (r *AssessmentRepositoryImpl) ListStages(companyID string, limit, offset int) ([]models.Stage, int64, error) {
	var stages []models.Stage
	query := r.db.Model(&models.Stage{}).Where("company_id = ?", companyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&stages).Error
	return stages, total, err
}

// ---------------- Questions ----------------

func (r *AssessmentRepositoryImpl) FindQuestionByID(id string) (*models.Question, error) {
	var question models.Question
	err := r.db.First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (r *AssessmentRepositoryImpl) FindQuestionsByIDs(ids []string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *AssessmentRepositoryImpl) CreateQuestion(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *AssessmentRepositoryImpl) UpdateQuestion(question *models.Question) error {
	result := r.db.Model(question).Updates(map[string]interface{}{
		"text":       question.Text,
		"type":       question.Type,
		"options":    question.Options,
		"answer":     question.Answer,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (r *AssessmentRepositoryImpl) DeleteQuestion(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.StageQuestion{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Question{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}
		return nil
	})
}

func (r *AssessmentRepositoryImpl) ListQuestions(companyID string, limit, offset int) ([]models.Question, int64, error) {
	var questions []models.Question
	query := r.db.Model(&models.Question{}).Where("company_id = ?", companyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&questions).Error
	return questions, total, err
}

func (r *AssessmentRepositoryImpl) CountQuestionsByCompany(companyID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

// ---------------- Test<->Stage ----------------

func (r *AssessmentRepositoryImpl) FindTestStages(testID string) ([]models.TestStage, error) {
	var joins []models.TestStage
	err := r.db.Preload("Stage").
		Where("test_id = ?", testID).
		Order("sort_order ASC, created_at ASC").
		Find(&joins).Error
	return joins, err
}

func (r *AssessmentRepositoryImpl) CreateTestStage(ts *models.TestStage) error {
	err := r.db.Create(ts).Error
	if err != nil && IsUniqueViolation(err) {
		return ErrDuplicateAssociation
	}
	return err
}

// UpdateTestStageOrders rewrites sort_order for the given stages of one test
// in a single transaction so a crash cannot leave a half-renumbered batch.
func (r *AssessmentRepositoryImpl) UpdateTestStageOrders(testID string, orders map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for stageID, order := range orders {
			result := tx.Model(&models.TestStage{}).
				Where("test_id = ? AND stage_id = ?", testID, stageID).
				Updates(map[string]interface{}{"sort_order": order, "updated_at": time.Now()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrAssociationNotFound
			}
		}
		return nil
	})
}

func (r *AssessmentRepositoryImpl) DeleteTestStage(testID, stageID string) error {
	result := r.db.Where("test_id = ? AND stage_id = ?", testID, stageID).
		Delete(&models.TestStage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssociationNotFound
	}
	return nil
}

func (r *AssessmentRepositoryImpl) CountTestsForStage(stageID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TestStage{}).Where("stage_id = ?", stageID).Count(&count).Error
	return count, err
}

// ---------------- Stage<->Question ----------------

func (r *AssessmentRepositoryImpl) FindStageQuestions(stageID string) ([]models.StageQuestion, error) {
	var joins []models.StageQuestion
	err := r.db.Preload("Question").
		Where("stage_id = ?", stageID).
		Order("sort_order ASC, created_at ASC").
		Find(&joins).Error
	return joins, err
}

func (r *AssessmentRepositoryImpl) CreateStageQuestion(sq *models.StageQuestion) error {
	err := r.db.Create(sq).Error
	if err != nil && IsUniqueViolation(err) {
		return ErrDuplicateAssociation
	}
	return err
}

func (r *AssessmentRepositoryImpl) UpdateStageQuestionOrders(stageID string, orders map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for questionID, order := range orders {
			result := tx.Model(&models.StageQuestion{}).
				Where("stage_id = ? AND question_id = ?", stageID, questionID).
				Updates(map[string]interface{}{"sort_order": order, "updated_at": time.Now()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrAssociationNotFound
			}
		}
		return nil
	})
}

func (r *AssessmentRepositoryImpl) DeleteStageQuestion(stageID, questionID string) error {
	result := r.db.Where("stage_id = ? AND question_id = ?", stageID, questionID).
		Delete(&models.StageQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAssociationNotFound
	}
	return nil
}

// ---------------- Stage retirement ----------------

func (r *AssessmentRepositoryImpl) RetireStage(stageID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Questions survive in the bank: drop their placement rows and clear
		// any legacy direct link back to this stage.
		if err := tx.Where("stage_id = ?", stageID).Delete(&models.StageQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Question{}).
			Where("legacy_stage_id = ?", stageID).
			Update("legacy_stage_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", stageID).Delete(&models.Stage{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStageNotFound
		}
		return nil
	})
}
