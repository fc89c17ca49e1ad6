package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"assesshub_backend/internal/models"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type CourseRepository interface {
	// Courses
	FindCourseByID(id string) (*models.Course, error)
	CreateCourse(course *models.Course) error
	UpdateCourse(course *models.Course) error
	DeleteCourse(id string) error
	ListCourses(companyID string, limit, offset int) ([]models.Course, int64, error)

	// Modules, ordered within a course
	FindModuleByID(id string) (*models.Module, error)
	FindCourseModules(courseID string) ([]models.Module, error)
	CreateModule(module *models.Module) error
	UpdateModule(module *models.Module) error
	DeleteModule(id string) error
	UpdateModuleOrders(courseID string, orders map[string]int) error

	// Lessons, ordered within a module
	FindLessonByID(id string) (*models.Lesson, error)
	FindModuleLessons(moduleID string) ([]models.Lesson, error)
	CreateLesson(lesson *models.Lesson) error
	UpdateLesson(lesson *models.Lesson) error
	DeleteLesson(id string) error
	UpdateLessonOrders(moduleID string, orders map[string]int) error
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

// ---------------- Courses ----------------

func (r *CourseRepositoryImpl) FindCourseByID(id string) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) CreateCourse(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *CourseRepositoryImpl) UpdateCourse(course *models.Course) error {
	result := r.db.Model(course).Updates(map[string]interface{}{
		"title":        course.Title,
		"description":  course.Description,
		"is_published": course.IsPublished,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) DeleteCourse(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []string
		if err := tx.Model(&models.Module{}).
			Where("course_id = ?", id).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.Lesson{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&models.Module{}).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) ListCourses(companyID string, limit, offset int) ([]models.Course, int64, error) {
	var courses []models.Course
	query := r.db.Model(&models.Course{}).Where("company_id = ?", companyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&courses).Error
	return courses, total, err
}

// ---------------- Modules ----------------

func (r *CourseRepositoryImpl) FindModuleByID(id string) (*models.Module, error) {
	var module models.Module
	err := r.db.First(&module, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepositoryImpl) FindCourseModules(courseID string) ([]models.Module, error) {
	var modules []models.Module
	err := r.db.Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *CourseRepositoryImpl) CreateModule(module *models.Module) error {
	return r.db.Create(module).Error
}

func (r *CourseRepositoryImpl) UpdateModule(module *models.Module) error {
	result := r.db.Model(module).Updates(map[string]interface{}{
		"title":      module.Title,
		"sort_order": module.SortOrder,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrModuleNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) DeleteModule(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Module{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrModuleNotFound
		}
		return nil
	})
}

func (r *CourseRepositoryImpl) UpdateModuleOrders(courseID string, orders map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for moduleID, order := range orders {
			result := tx.Model(&models.Module{}).
				Where("course_id = ? AND id = ?", courseID, moduleID).
				Updates(map[string]interface{}{"sort_order": order, "updated_at": time.Now()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrModuleNotFound
			}
		}
		return nil
	})
}

// ---------------- Lessons ----------------

func (r *CourseRepositoryImpl) FindLessonByID(id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepositoryImpl) FindModuleLessons(moduleID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Where("module_id = ?", moduleID).
		Order("sort_order ASC, created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepositoryImpl) CreateLesson(lesson *models.Lesson) error {
	return r.db.Create(lesson).Error
}

func (r *CourseRepositoryImpl) UpdateLesson(lesson *models.Lesson) error {
	result := r.db.Model(lesson).Updates(map[string]interface{}{
		"title":      lesson.Title,
		"content":    lesson.Content,
		"sort_order": lesson.SortOrder,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) DeleteLesson(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Lesson{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) UpdateLessonOrders(moduleID string, orders map[string]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for lessonID, order := range orders {
			result := tx.Model(&models.Lesson{}).
				Where("module_id = ? AND id = ?", moduleID, lessonID).
				Updates(map[string]interface{}{"sort_order": order, "updated_at": time.Now()})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrLessonNotFound
			}
		}
		return nil
	})
}
