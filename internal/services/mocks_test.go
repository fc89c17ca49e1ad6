package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"assesshub_backend/internal/email"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
)

// ---------------- CandidateRepository ----------------

type mockCandidateRepo struct {
	mock.Mock
}

func (m *mockCandidateRepo) FindByID(id string) (*models.Candidate, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) FindByInviteCode(code string) (*models.Candidate, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) CodeInUse(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *mockCandidateRepo) Create(candidate *models.Candidate) error {
	return m.Called(candidate).Error(0)
}

func (m *mockCandidateRepo) Save(candidate *models.Candidate) error {
	return m.Called(candidate).Error(0)
}

func (m *mockCandidateRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCandidateRepo) FindWithFilter(criteria repositories.CandidateFilter) ([]models.Candidate, int64, error) {
	args := m.Called(criteria)
	var out []models.Candidate
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Candidate)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockCandidateRepo) IncrementInviteAttempts(id string) error {
	return m.Called(id).Error(0)
}

// ---------------- InviteRepository ----------------

type mockInviteRepo struct {
	mock.Mock
}

func (m *mockInviteRepo) Archive(used *models.UsedInviteCode) error {
	return m.Called(used).Error(0)
}

func (m *mockInviteRepo) CodeUsed(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *mockInviteRepo) ListByCandidate(candidateID string) ([]models.UsedInviteCode, error) {
	args := m.Called(candidateID)
	var out []models.UsedInviteCode
	if args.Get(0) != nil {
		out = args.Get(0).([]models.UsedInviteCode)
	}
	return out, args.Error(1)
}

func (m *mockInviteRepo) CountByCompany(companyID string) (int64, error) {
	args := m.Called(companyID)
	return args.Get(0).(int64), args.Error(1)
}

// ---------------- AssessmentRepository ----------------

type mockAssessmentRepo struct {
	mock.Mock
}

func (m *mockAssessmentRepo) FindTestByID(id string) (*models.Test, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *mockAssessmentRepo) CreateTest(test *models.Test) error {
	return m.Called(test).Error(0)
}

func (m *mockAssessmentRepo) UpdateTest(test *models.Test) error {
	return m.Called(test).Error(0)
}

func (m *mockAssessmentRepo) DeleteTest(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockAssessmentRepo) ListTests(companyID string, limit, offset int) ([]models.Test, int64, error) {
	args := m.Called(companyID, limit, offset)
	var out []models.Test
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Test)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockAssessmentRepo) FindStageByID(id string) (*models.Stage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stage), args.Error(1)
}

func (m *mockAssessmentRepo) CreateStage(stage *models.Stage) error {
	return m.Called(stage).Error(0)
}

func (m *mockAssessmentRepo) UpdateStage(stage *models.Stage) error {
	return m.Called(stage).Error(0)
}

func (m *mockAssessmentRepo) ListStages(companyID string, limit, offset int) ([]models.Stage, int64, error) {
	args := m.Called(companyID, limit, offset)
	var out []models.Stage
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Stage)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockAssessmentRepo) FindQuestionByID(id string) (*models.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *mockAssessmentRepo) FindQuestionsByIDs(ids []string) ([]models.Question, error) {
	args := m.Called(ids)
	var out []models.Question
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Question)
	}
	return out, args.Error(1)
}

func (m *mockAssessmentRepo) CreateQuestion(question *models.Question) error {
	return m.Called(question).Error(0)
}

func (m *mockAssessmentRepo) UpdateQuestion(question *models.Question) error {
	return m.Called(question).Error(0)
}

func (m *mockAssessmentRepo) DeleteQuestion(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockAssessmentRepo) ListQuestions(companyID string, limit, offset int) ([]models.Question, int64, error) {
	args := m.Called(companyID, limit, offset)
	var out []models.Question
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Question)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockAssessmentRepo) CountQuestionsByCompany(companyID string) (int64, error) {
	args := m.Called(companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssessmentRepo) FindTestStages(testID string) ([]models.TestStage, error) {
	args := m.Called(testID)
	var out []models.TestStage
	if args.Get(0) != nil {
		out = args.Get(0).([]models.TestStage)
	}
	return out, args.Error(1)
}

func (m *mockAssessmentRepo) CreateTestStage(ts *models.TestStage) error {
	return m.Called(ts).Error(0)
}

func (m *mockAssessmentRepo) UpdateTestStageOrders(testID string, orders map[string]int) error {
	return m.Called(testID, orders).Error(0)
}

func (m *mockAssessmentRepo) DeleteTestStage(testID, stageID string) error {
	return m.Called(testID, stageID).Error(0)
}

func (m *mockAssessmentRepo) CountTestsForStage(stageID string) (int64, error) {
	args := m.Called(stageID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssessmentRepo) FindStageQuestions(stageID string) ([]models.StageQuestion, error) {
	args := m.Called(stageID)
	var out []models.StageQuestion
	if args.Get(0) != nil {
		out = args.Get(0).([]models.StageQuestion)
	}
	return out, args.Error(1)
}

func (m *mockAssessmentRepo) CreateStageQuestion(sq *models.StageQuestion) error {
	return m.Called(sq).Error(0)
}

func (m *mockAssessmentRepo) UpdateStageQuestionOrders(stageID string, orders map[string]int) error {
	return m.Called(stageID, orders).Error(0)
}

func (m *mockAssessmentRepo) DeleteStageQuestion(stageID, questionID string) error {
	return m.Called(stageID, questionID).Error(0)
}

func (m *mockAssessmentRepo) RetireStage(stageID string) error {
	return m.Called(stageID).Error(0)
}

// ---------------- CourseRepository ----------------

type mockCourseRepo struct {
	mock.Mock
}

func (m *mockCourseRepo) FindCourseByID(id string) (*models.Course, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *mockCourseRepo) CreateCourse(course *models.Course) error {
	return m.Called(course).Error(0)
}

func (m *mockCourseRepo) UpdateCourse(course *models.Course) error {
	return m.Called(course).Error(0)
}

func (m *mockCourseRepo) DeleteCourse(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCourseRepo) ListCourses(companyID string, limit, offset int) ([]models.Course, int64, error) {
	args := m.Called(companyID, limit, offset)
	var out []models.Course
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Course)
	}
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockCourseRepo) FindModuleByID(id string) (*models.Module, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Module), args.Error(1)
}

func (m *mockCourseRepo) FindCourseModules(courseID string) ([]models.Module, error) {
	args := m.Called(courseID)
	var out []models.Module
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Module)
	}
	return out, args.Error(1)
}

func (m *mockCourseRepo) CreateModule(module *models.Module) error {
	return m.Called(module).Error(0)
}

func (m *mockCourseRepo) UpdateModule(module *models.Module) error {
	return m.Called(module).Error(0)
}

func (m *mockCourseRepo) DeleteModule(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCourseRepo) UpdateModuleOrders(courseID string, orders map[string]int) error {
	return m.Called(courseID, orders).Error(0)
}

func (m *mockCourseRepo) FindLessonByID(id string) (*models.Lesson, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *mockCourseRepo) FindModuleLessons(moduleID string) ([]models.Lesson, error) {
	args := m.Called(moduleID)
	var out []models.Lesson
	if args.Get(0) != nil {
		out = args.Get(0).([]models.Lesson)
	}
	return out, args.Error(1)
}

func (m *mockCourseRepo) CreateLesson(lesson *models.Lesson) error {
	return m.Called(lesson).Error(0)
}

func (m *mockCourseRepo) UpdateLesson(lesson *models.Lesson) error {
	return m.Called(lesson).Error(0)
}

func (m *mockCourseRepo) DeleteLesson(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockCourseRepo) UpdateLessonOrders(moduleID string, orders map[string]int) error {
	return m.Called(moduleID, orders).Error(0)
}

// ---------------- email.Provider ----------------

type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) SendInvite(to, name, code string, expiresAt time.Time) (*email.SendResult, error) {
	args := m.Called(to, name, code, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*email.SendResult), args.Error(1)
}

func (m *mockEmailProvider) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}
