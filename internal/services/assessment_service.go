package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

type AssessmentService interface {
	// Tests
	CreateTest(companyID string, req *dto.CreateTestRequest) (*dto.TestResponse, error)
	GetTest(companyID, id string) (*dto.TestResponse, error)
	UpdateTest(companyID, id string, req *dto.UpdateTestRequest) (*dto.TestResponse, error)
	DeleteTest(companyID, id string) error
	ListTests(companyID string, page, pageSize int) (*dto.TestListResponse, error)

	// Stages
	CreateStage(companyID string, req *dto.CreateStageRequest) (*dto.StageResponse, error)
	GetStage(companyID, id string) (*dto.StageResponse, error)
	UpdateStage(companyID, id string, req *dto.UpdateStageRequest) (*dto.StageResponse, error)
	ListStages(companyID string, page, pageSize int) (*dto.StageListResponse, error)

	// Questions
	CreateQuestion(companyID string, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(companyID, id string) (*dto.QuestionResponse, error)
	UpdateQuestion(companyID, id string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(companyID, id string) error
	ListQuestions(companyID string, page, pageSize int) (*dto.QuestionListResponse, error)

	// Test<->Stage, ordered
	AttachStage(companyID, testID string, req *dto.AttachStageRequest) (*dto.TestStageResponse, error)
	DetachStage(companyID, testID, stageID string) error
	ReorderStages(companyID, testID string, req *dto.ReorderStagesRequest) ([]*dto.TestStageResponse, error)
	GetTestStages(companyID, testID string) ([]*dto.TestStageResponse, error)

	// Stage<->Question, ordered
	AttachQuestions(companyID, stageID string, req *dto.AttachQuestionsRequest) ([]*dto.AttachQuestionResult, error)
	DetachQuestion(companyID, stageID, questionID string) error
	ReorderQuestions(companyID, stageID string, req *dto.ReorderQuestionsRequest) ([]*dto.StageQuestionResponse, error)
	GetStageQuestions(companyID, stageID string) ([]*dto.StageQuestionResponse, error)
}

type assessmentService struct {
	repo repositories.AssessmentRepository
}

func NewAssessmentService(repo repositories.AssessmentRepository) AssessmentService {
	return &assessmentService{repo: repo}
}

// ---------------- Tests ----------------

func (s *assessmentService) CreateTest(companyID string, req *dto.CreateTestRequest) (*dto.TestResponse, error) {
	test := &models.Test{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.CreateTest(test); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildTestResponse(test), nil
}

func (s *assessmentService) GetTest(companyID, id string) (*dto.TestResponse, error) {
	test, err := s.findOwnedTest(companyID, id)
	if err != nil {
		return nil, err
	}
	return buildTestResponse(test), nil
}

func (s *assessmentService) UpdateTest(companyID, id string, req *dto.UpdateTestRequest) (*dto.TestResponse, error) {
	test, err := s.findOwnedTest(companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateTest(test); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildTestResponse(test), nil
}

func (s *assessmentService) DeleteTest(companyID, id string) error {
	if _, err := s.findOwnedTest(companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTest(id); err != nil {
		if err == repositories.ErrTestNotFound {
			return apperrors.ErrTestNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *assessmentService) ListTests(companyID string, page, pageSize int) (*dto.TestListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	tests, total, err := s.repo.ListTests(companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.TestListResponse{
		Tests:      make([]*dto.TestResponse, 0, len(tests)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range tests {
		resp.Tests = append(resp.Tests, buildTestResponse(&tests[i]))
	}
	return resp, nil
}

// ---------------- Stages ----------------

func (s *assessmentService) CreateStage(companyID string, req *dto.CreateStageRequest) (*dto.StageResponse, error) {
	stage := &models.Stage{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.CreateStage(stage); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildStageResponse(stage), nil
}

func (s *assessmentService) GetStage(companyID, id string) (*dto.StageResponse, error) {
	stage, err := s.findOwnedStage(companyID, id)
	if err != nil {
		return nil, err
	}
	return buildStageResponse(stage), nil
}

func (s *assessmentService) UpdateStage(companyID, id string, req *dto.UpdateStageRequest) (*dto.StageResponse, error) {
	stage, err := s.findOwnedStage(companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		stage.Title = *req.Title
	}
	if req.Description != nil {
		stage.Description = *req.Description
	}
	if err := s.repo.UpdateStage(stage); err != nil {
		if err == repositories.ErrStageNotFound {
			return nil, apperrors.ErrStageNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return buildStageResponse(stage), nil
}

func (s *assessmentService) ListStages(companyID string, page, pageSize int) (*dto.StageListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	stages, total, err := s.repo.ListStages(companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.StageListResponse{
		Stages:     make([]*dto.StageResponse, 0, len(stages)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range stages {
		resp.Stages = append(resp.Stages, buildStageResponse(&stages[i]))
	}
	return resp, nil
}

// ---------------- Questions ----------------

func (s *assessmentService) CreateQuestion(companyID string, req *dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	question := &models.Question{
		CompanyID: companyID,
		Text:      req.Text,
		Type:      models.QuestionTypeSingleChoice,
	}
	if req.Type != "" {
		question.Type = models.QuestionType(req.Type)
	}
	if req.Options != nil {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid options payload")
		}
		question.Options = datatypes.JSON(raw)
	}
	if req.Answer != nil {
		raw, err := json.Marshal(req.Answer)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid answer payload")
		}
		question.Answer = datatypes.JSON(raw)
	}
	if err := s.repo.CreateQuestion(question); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildQuestionResponse(question), nil
}

func (s *assessmentService) GetQuestion(companyID, id string) (*dto.QuestionResponse, error) {
	question, err := s.findOwnedQuestion(companyID, id)
	if err != nil {
		return nil, err
	}
	return buildQuestionResponse(question), nil
}

func (s *assessmentService) UpdateQuestion(companyID, id string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.findOwnedQuestion(companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Type != nil {
		question.Type = models.QuestionType(*req.Type)
	}
	if req.Options != nil {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid options payload")
		}
		question.Options = datatypes.JSON(raw)
	}
	if req.Answer != nil {
		raw, err := json.Marshal(req.Answer)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid answer payload")
		}
		question.Answer = datatypes.JSON(raw)
	}
	if err := s.repo.UpdateQuestion(question); err != nil {
		if err == repositories.ErrQuestionNotFound {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return buildQuestionResponse(question), nil
}

func (s *assessmentService) DeleteQuestion(companyID, id string) error {
	if _, err := s.findOwnedQuestion(companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteQuestion(id); err != nil {
		if err == repositories.ErrQuestionNotFound {
			return apperrors.ErrQuestionNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *assessmentService) ListQuestions(companyID string, page, pageSize int) (*dto.QuestionListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	questions, total, err := s.repo.ListQuestions(companyID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.QuestionListResponse{
		Questions:  make([]*dto.QuestionResponse, 0, len(questions)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range questions {
		resp.Questions = append(resp.Questions, buildQuestionResponse(&questions[i]))
	}
	return resp, nil
}

// ---------------- Test<->Stage ----------------

func (s *assessmentService) AttachStage(companyID, testID string, req *dto.AttachStageRequest) (*dto.TestStageResponse, error) {
	if _, err := s.findOwnedTest(companyID, testID); err != nil {
		return nil, err
	}
	stage, err := s.findOwnedStage(companyID, req.StageID)
	if err != nil {
		return nil, err
	}

	joins, err := s.repo.FindTestStages(testID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Append at the end: one past the current maximum, 0 for the first.
	next := 0
	for i := range joins {
		if joins[i].SortOrder >= next {
			next = joins[i].SortOrder + 1
		}
	}

	join := &models.TestStage{TestID: testID, StageID: stage.ID, SortOrder: next}
	if err := s.repo.CreateTestStage(join); err != nil {
		if err == repositories.ErrDuplicateAssociation {
			return nil, apperrors.ErrAlreadyAssociated
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.TestStageResponse{StageID: stage.ID, Title: stage.Title, SortOrder: next}, nil
}

func (s *assessmentService) DetachStage(companyID, testID, stageID string) error {
	if _, err := s.findOwnedTest(companyID, testID); err != nil {
		return err
	}
	stage, err := s.findOwnedStage(companyID, stageID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTestStage(testID, stageID); err != nil {
		if err == repositories.ErrAssociationNotFound {
			return apperrors.ErrAssociationNotFound
		}
		return apperrors.InternalError(err)
	}

	// A stage no longer referenced by any test is retired; its questions are
	// released back to the company question bank.
	count, err := s.repo.CountTestsForStage(stageID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count == 0 {
		if err := s.repo.RetireStage(stageID); err != nil && err != repositories.ErrStageNotFound {
			return apperrors.InternalError(err)
		}
		bankSize, err := s.repo.CountQuestionsByCompany(stage.CompanyID)
		if err != nil {
			logger.Warn("failed to count question bank after stage retirement",
				"company_id", stage.CompanyID, "error", err)
		} else {
			logger.Info("stage retired, questions released to company bank",
				"stage_id", stageID, "company_id", stage.CompanyID, "bank_size", bankSize)
		}
	}
	return nil
}

func (s *assessmentService) ReorderStages(companyID, testID string, req *dto.ReorderStagesRequest) ([]*dto.TestStageResponse, error) {
	if _, err := s.findOwnedTest(companyID, testID); err != nil {
		return nil, err
	}

	joins, err := s.repo.FindTestStages(testID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	attached := make(map[string]bool, len(joins))
	for i := range joins {
		attached[joins[i].StageID] = true
	}

	orders := make(map[string]int, len(req.StageOrders))
	for _, item := range req.StageOrders {
		if !attached[item.StageID] {
			return nil, apperrors.ErrAssociationNotFound
		}
		if _, dup := orders[item.StageID]; dup {
			return nil, apperrors.NewBadRequestError("duplicate stage in reorder request")
		}
		orders[item.StageID] = item.Order
	}

	if err := s.repo.UpdateTestStageOrders(testID, orders); err != nil {
		if err == repositories.ErrAssociationNotFound {
			return nil, apperrors.ErrAssociationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Re-read and normalize so the caller always sees a dense sequence, even
	// when the request skipped values or left other stages untouched.
	return s.GetTestStages(companyID, testID)
}

func (s *assessmentService) GetTestStages(companyID, testID string) ([]*dto.TestStageResponse, error) {
	if _, err := s.findOwnedTest(companyID, testID); err != nil {
		return nil, err
	}

	joins, err := s.repo.FindTestStages(testID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	orders := make([]int, len(joins))
	for i := range joins {
		orders[i] = joins[i].SortOrder
	}
	if repaired, changed := repairDenseOrders(orders); changed {
		fixes := make(map[string]int, len(joins))
		for i := range joins {
			if joins[i].SortOrder != repaired[i] {
				fixes[joins[i].StageID] = repaired[i]
			}
			joins[i].SortOrder = repaired[i]
		}
		if err := s.repo.UpdateTestStageOrders(testID, fixes); err != nil {
			// Serving the normalized view still works; persistence catches up
			// on the next read.
			logger.Warn("failed to persist stage order repair", "test_id", testID, "error", err)
		}
	}

	resp := make([]*dto.TestStageResponse, 0, len(joins))
	for i := range joins {
		item := &dto.TestStageResponse{
			StageID:   joins[i].StageID,
			SortOrder: joins[i].SortOrder,
		}
		if joins[i].Stage != nil {
			item.Title = joins[i].Stage.Title
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ---------------- Stage<->Question ----------------

func (s *assessmentService) AttachQuestions(companyID, stageID string, req *dto.AttachQuestionsRequest) ([]*dto.AttachQuestionResult, error) {
	if _, err := s.findOwnedStage(companyID, stageID); err != nil {
		return nil, err
	}

	joins, err := s.repo.FindStageQuestions(stageID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	next := 0
	for i := range joins {
		if joins[i].SortOrder >= next {
			next = joins[i].SortOrder + 1
		}
	}

	// One batch lookup for the whole request; unknown and foreign IDs simply
	// never make it into the map.
	questions, err := s.repo.FindQuestionsByIDs(req.QuestionIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	owned := make(map[string]bool, len(questions))
	for i := range questions {
		if companyID == "" || questions[i].CompanyID == companyID {
			owned[questions[i].ID] = true
		}
	}

	results := make([]*dto.AttachQuestionResult, 0, len(req.QuestionIDs))
	for _, questionID := range req.QuestionIDs {
		result := &dto.AttachQuestionResult{QuestionID: questionID}
		results = append(results, result)

		if !owned[questionID] {
			result.Status = "not_found"
			continue
		}

		join := &models.StageQuestion{StageID: stageID, QuestionID: questionID, SortOrder: next}
		if err := s.repo.CreateStageQuestion(join); err != nil {
			if err == repositories.ErrDuplicateAssociation {
				result.Status = "already_associated"
				continue
			}
			return nil, apperrors.InternalError(err)
		}
		result.Status = "attached"
		result.SortOrder = next
		next++
	}
	return results, nil
}

func (s *assessmentService) DetachQuestion(companyID, stageID, questionID string) error {
	if _, err := s.findOwnedStage(companyID, stageID); err != nil {
		return err
	}
	if err := s.repo.DeleteStageQuestion(stageID, questionID); err != nil {
		if err == repositories.ErrAssociationNotFound {
			return apperrors.ErrAssociationNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *assessmentService) ReorderQuestions(companyID, stageID string, req *dto.ReorderQuestionsRequest) ([]*dto.StageQuestionResponse, error) {
	if _, err := s.findOwnedStage(companyID, stageID); err != nil {
		return nil, err
	}

	joins, err := s.repo.FindStageQuestions(stageID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	attached := make(map[string]bool, len(joins))
	for i := range joins {
		attached[joins[i].QuestionID] = true
	}

	orders := make(map[string]int, len(req.QuestionOrders))
	for _, item := range req.QuestionOrders {
		if !attached[item.QuestionID] {
			return nil, apperrors.ErrAssociationNotFound
		}
		if _, dup := orders[item.QuestionID]; dup {
			return nil, apperrors.NewBadRequestError("duplicate question in reorder request")
		}
		orders[item.QuestionID] = item.Order
	}

	if err := s.repo.UpdateStageQuestionOrders(stageID, orders); err != nil {
		if err == repositories.ErrAssociationNotFound {
			return nil, apperrors.ErrAssociationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return s.GetStageQuestions(companyID, stageID)
}

func (s *assessmentService) GetStageQuestions(companyID, stageID string) ([]*dto.StageQuestionResponse, error) {
	if _, err := s.findOwnedStage(companyID, stageID); err != nil {
		return nil, err
	}

	joins, err := s.repo.FindStageQuestions(stageID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	orders := make([]int, len(joins))
	for i := range joins {
		orders[i] = joins[i].SortOrder
	}
	if repaired, changed := repairDenseOrders(orders); changed {
		fixes := make(map[string]int, len(joins))
		for i := range joins {
			if joins[i].SortOrder != repaired[i] {
				fixes[joins[i].QuestionID] = repaired[i]
			}
			joins[i].SortOrder = repaired[i]
		}
		if err := s.repo.UpdateStageQuestionOrders(stageID, fixes); err != nil {
			logger.Warn("failed to persist question order repair", "stage_id", stageID, "error", err)
		}
	}

	resp := make([]*dto.StageQuestionResponse, 0, len(joins))
	for i := range joins {
		item := &dto.StageQuestionResponse{
			QuestionID: joins[i].QuestionID,
			SortOrder:  joins[i].SortOrder,
		}
		if joins[i].Question != nil {
			item.Text = joins[i].Question.Text
			item.Type = joins[i].Question.Type
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// ---------------- Helpers ----------------

// repairDenseOrders takes sort orders in presentation order (already sorted by
// sort_order then creation time) and renumbers them 0..N-1. Relative order is
// preserved, so ties from duplicated values resolve by first appearance.
func repairDenseOrders(orders []int) ([]int, bool) {
	repaired := make([]int, len(orders))
	changed := false
	for i := range orders {
		repaired[i] = i
		if orders[i] != i {
			changed = true
		}
	}
	return repaired, changed
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (s *assessmentService) findOwnedTest(companyID, id string) (*models.Test, error) {
	test, err := s.repo.FindTestByID(id)
	if err != nil {
		if err == repositories.ErrTestNotFound {
			return nil, apperrors.ErrTestNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && test.CompanyID != companyID {
		return nil, apperrors.ErrTestNotFound
	}
	return test, nil
}

func (s *assessmentService) findOwnedStage(companyID, id string) (*models.Stage, error) {
	stage, err := s.repo.FindStageByID(id)
	if err != nil {
		if err == repositories.ErrStageNotFound {
			return nil, apperrors.ErrStageNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && stage.CompanyID != companyID {
		return nil, apperrors.ErrStageNotFound
	}
	return stage, nil
}

func (s *assessmentService) findOwnedQuestion(companyID, id string) (*models.Question, error) {
	question, err := s.repo.FindQuestionByID(id)
	if err != nil {
		if err == repositories.ErrQuestionNotFound {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && question.CompanyID != companyID {
		return nil, apperrors.ErrQuestionNotFound
	}
	return question, nil
}

func buildTestResponse(test *models.Test) *dto.TestResponse {
	return &dto.TestResponse{
		ID:          test.ID,
		CompanyID:   test.CompanyID,
		Title:       test.Title,
		Description: test.Description,
		IsActive:    test.IsActive,
		CreatedAt:   test.CreatedAt,
	}
}

func buildStageResponse(stage *models.Stage) *dto.StageResponse {
	return &dto.StageResponse{
		ID:          stage.ID,
		CompanyID:   stage.CompanyID,
		Title:       stage.Title,
		Description: stage.Description,
		CreatedAt:   stage.CreatedAt,
	}
}

func buildQuestionResponse(question *models.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:        question.ID,
		CompanyID: question.CompanyID,
		Text:      question.Text,
		Type:      question.Type,
		Options:   question.Options,
		CreatedAt: question.CreatedAt,
	}
}
