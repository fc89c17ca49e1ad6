package database

import (
	"fmt"

	"gorm.io/gorm"

	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
)

// Migrate runs schema migration followed by the one-time conversion of
// legacy direct foreign keys into join-table rows. Both steps are idempotent,
// so running at every startup is safe.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.RefreshToken{},
		&models.Test{},
		&models.Stage{},
		&models.Question{},
		&models.TestStage{},
		&models.StageQuestion{},
		&models.Candidate{},
		&models.UsedInviteCode{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := migrateLegacyStageLinks(db); err != nil {
		return fmt.Errorf("migrate legacy stage links: %w", err)
	}
	if err := migrateLegacyQuestionLinks(db); err != nil {
		return fmt.Errorf("migrate legacy question links: %w", err)
	}
	return nil
}

// migrateLegacyStageLinks synthesizes TestStage rows for stages that still
// carry a legacy_test_id and have no join row yet. legacy_order becomes the
// initial sort_order; the read-path repair densifies any collisions later.
func migrateLegacyStageLinks(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var stages []models.Stage
		err := tx.Where("legacy_test_id IS NOT NULL").
			Order("legacy_order ASC, created_at ASC").
			Find(&stages).Error
		if err != nil {
			return err
		}

		migrated := 0
		for i := range stages {
			stage := &stages[i]

			var count int64
			err := tx.Model(&models.TestStage{}).
				Where("test_id = ? AND stage_id = ?", *stage.LegacyTestID, stage.ID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				join := &models.TestStage{
					TestID:    *stage.LegacyTestID,
					StageID:   stage.ID,
					SortOrder: stage.LegacyOrder,
				}
				if err := tx.Create(join).Error; err != nil {
					return err
				}
				migrated++
			}

			// Clear the legacy link so the next startup skips this row.
			err = tx.Model(&models.Stage{}).Where("id = ?", stage.ID).
				Update("legacy_test_id", nil).Error
			if err != nil {
				return err
			}
		}

		if migrated > 0 {
			logger.Info("converted legacy stage links to join rows", "count", migrated)
		}
		return nil
	})
}

func migrateLegacyQuestionLinks(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var questions []models.Question
		err := tx.Where("legacy_stage_id IS NOT NULL").
			Order("legacy_order ASC, created_at ASC").
			Find(&questions).Error
		if err != nil {
			return err
		}

		migrated := 0
		for i := range questions {
			question := &questions[i]

			var count int64
			err := tx.Model(&models.StageQuestion{}).
				Where("stage_id = ? AND question_id = ?", *question.LegacyStageID, question.ID).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				join := &models.StageQuestion{
					StageID:    *question.LegacyStageID,
					QuestionID: question.ID,
					SortOrder:  question.LegacyOrder,
				}
				if err := tx.Create(join).Error; err != nil {
					return err
				}
				migrated++
			}

			err = tx.Model(&models.Question{}).Where("id = ?", question.ID).
				Update("legacy_stage_id", nil).Error
			if err != nil {
				return err
			}
		}

		if migrated > 0 {
			logger.Info("converted legacy question links to join rows", "count", migrated)
		}
		return nil
	})
}
