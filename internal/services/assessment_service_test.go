package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

func ownedTest() *models.Test {
	return &models.Test{BaseModel: models.BaseModel{ID: "test-1"}, CompanyID: "comp-1", Title: "Screening"}
}

func ownedStage(id string) *models.Stage {
	return &models.Stage{BaseModel: models.BaseModel{ID: id}, CompanyID: "comp-1", Title: "Stage " + id}
}

func TestAttachStage_FirstAttachmentGetsOrderZero(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{}, nil)
	repo.On("CreateTestStage", mock.MatchedBy(func(ts *models.TestStage) bool {
		return ts.TestID == "test-1" && ts.StageID == "stage-1" && ts.SortOrder == 0
	})).Return(nil)

	resp, err := svc.AttachStage("comp-1", "test-1", &dto.AttachStageRequest{StageID: "stage-1"})

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.SortOrder)
}

func TestAttachStage_AppendsAfterCurrentMax(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-3").Return(ownedStage("stage-3"), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-1", SortOrder: 0},
		{StageID: "stage-2", SortOrder: 4}, // gap left by earlier detaches
	}, nil)
	repo.On("CreateTestStage", mock.MatchedBy(func(ts *models.TestStage) bool {
		return ts.SortOrder == 5
	})).Return(nil)

	resp, err := svc.AttachStage("comp-1", "test-1", &dto.AttachStageRequest{StageID: "stage-3"})

	assert.NoError(t, err)
	assert.Equal(t, 5, resp.SortOrder)
}

func TestAttachStage_DuplicateRejected(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{{StageID: "stage-1", SortOrder: 0}}, nil)
	repo.On("CreateTestStage", mock.Anything).Return(repositories.ErrDuplicateAssociation)

	_, err := svc.AttachStage("comp-1", "test-1", &dto.AttachStageRequest{StageID: "stage-1"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssociated)
}

func TestAttachStage_CrossTenantStageHidden(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	foreign := ownedStage("stage-x")
	foreign.CompanyID = "comp-2"
	repo.On("FindStageByID", "stage-x").Return(foreign, nil)

	_, err := svc.AttachStage("comp-1", "test-1", &dto.AttachStageRequest{StageID: "stage-x"})
	assert.ErrorIs(t, err, apperrors.ErrStageNotFound)
	repo.AssertNotCalled(t, "CreateTestStage", mock.Anything)
}

func TestGetTestStages_RepairsDuplicateOrders(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	// Two rows collided on 1; rows come back sorted by order then creation.
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-a", SortOrder: 1, Stage: ownedStage("stage-a")},
		{StageID: "stage-b", SortOrder: 1, Stage: ownedStage("stage-b")},
		{StageID: "stage-c", SortOrder: 3, Stage: ownedStage("stage-c")},
	}, nil)
	repo.On("UpdateTestStageOrders", "test-1", map[string]int{
		"stage-a": 0,
		"stage-c": 2,
	}).Return(nil)

	resp, err := svc.GetTestStages("comp-1", "test-1")

	assert.NoError(t, err)
	assert.Len(t, resp, 3)
	for i, item := range resp {
		assert.Equal(t, i, item.SortOrder)
	}
	// First appearance wins: a before b.
	assert.Equal(t, "stage-a", resp[0].StageID)
	assert.Equal(t, "stage-b", resp[1].StageID)
	assert.Equal(t, "stage-c", resp[2].StageID)
}

func TestGetTestStages_DenseOrdersLeftUntouched(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-a", SortOrder: 0, Stage: ownedStage("stage-a")},
		{StageID: "stage-b", SortOrder: 1, Stage: ownedStage("stage-b")},
	}, nil)

	resp, err := svc.GetTestStages("comp-1", "test-1")

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	repo.AssertNotCalled(t, "UpdateTestStageOrders", mock.Anything, mock.Anything)
}

func TestReorderStages_UnknownStageRejected(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-a", SortOrder: 0},
	}, nil)

	_, err := svc.ReorderStages("comp-1", "test-1", &dto.ReorderStagesRequest{
		StageOrders: []dto.StageOrderItem{{StageID: "stage-z", Order: 0}},
	})
	assert.ErrorIs(t, err, apperrors.ErrAssociationNotFound)
	repo.AssertNotCalled(t, "UpdateTestStageOrders", mock.Anything, mock.Anything)
}

func TestReorderStages_PersistsAndReturnsDenseView(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-a", SortOrder: 0, Stage: ownedStage("stage-a")},
		{StageID: "stage-b", SortOrder: 1, Stage: ownedStage("stage-b")},
	}, nil).Once()
	repo.On("UpdateTestStageOrders", "test-1", map[string]int{
		"stage-a": 1,
		"stage-b": 0,
	}).Return(nil)
	// Post-update read reflects the swap.
	repo.On("FindTestStages", "test-1").Return([]models.TestStage{
		{StageID: "stage-b", SortOrder: 0, Stage: ownedStage("stage-b")},
		{StageID: "stage-a", SortOrder: 1, Stage: ownedStage("stage-a")},
	}, nil)

	resp, err := svc.ReorderStages("comp-1", "test-1", &dto.ReorderStagesRequest{
		StageOrders: []dto.StageOrderItem{
			{StageID: "stage-a", Order: 1},
			{StageID: "stage-b", Order: 0},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "stage-b", resp[0].StageID)
	assert.Equal(t, "stage-a", resp[1].StageID)
}

func TestDetachStage_LastReferenceRetiresStage(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("DeleteTestStage", "test-1", "stage-1").Return(nil)
	repo.On("CountTestsForStage", "stage-1").Return(int64(0), nil)
	repo.On("RetireStage", "stage-1").Return(nil)
	repo.On("CountQuestionsByCompany", "comp-1").Return(int64(7), nil)

	err := svc.DetachStage("comp-1", "test-1", "stage-1")

	assert.NoError(t, err)
	repo.AssertCalled(t, "RetireStage", "stage-1")
	repo.AssertCalled(t, "CountQuestionsByCompany", "comp-1")
}

func TestDetachStage_SharedStageSurvives(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("DeleteTestStage", "test-1", "stage-1").Return(nil)
	repo.On("CountTestsForStage", "stage-1").Return(int64(2), nil)

	err := svc.DetachStage("comp-1", "test-1", "stage-1")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "RetireStage", mock.Anything)
}

func TestDetachStage_MissingAssociation(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindTestByID", "test-1").Return(ownedTest(), nil)
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("DeleteTestStage", "test-1", "stage-1").Return(repositories.ErrAssociationNotFound)

	err := svc.DetachStage("comp-1", "test-1", "stage-1")
	assert.ErrorIs(t, err, apperrors.ErrAssociationNotFound)
}

func TestAttachQuestions_MixedBatchOutcomes(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("FindStageQuestions", "stage-1").Return([]models.StageQuestion{
		{QuestionID: "q-0", SortOrder: 0},
	}, nil)

	// The unknown id is simply absent from the batch lookup result.
	repo.On("FindQuestionsByIDs", []string{"q-1", "q-missing", "q-2"}).Return([]models.Question{
		{BaseModel: models.BaseModel{ID: "q-1"}, CompanyID: "comp-1"},
		{BaseModel: models.BaseModel{ID: "q-2"}, CompanyID: "comp-1"},
	}, nil)

	repo.On("CreateStageQuestion", mock.MatchedBy(func(sq *models.StageQuestion) bool {
		return sq.QuestionID == "q-1" && sq.SortOrder == 1
	})).Return(nil)
	repo.On("CreateStageQuestion", mock.MatchedBy(func(sq *models.StageQuestion) bool {
		return sq.QuestionID == "q-2"
	})).Return(repositories.ErrDuplicateAssociation)

	results, err := svc.AttachQuestions("comp-1", "stage-1", &dto.AttachQuestionsRequest{
		QuestionIDs: []string{"q-1", "q-missing", "q-2"},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "attached", results[0].Status)
	assert.Equal(t, 1, results[0].SortOrder)
	assert.Equal(t, "not_found", results[1].Status)
	assert.Equal(t, "already_associated", results[2].Status)
}

func TestAttachQuestions_ForeignQuestionHidden(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("FindStageQuestions", "stage-1").Return([]models.StageQuestion{}, nil)
	repo.On("FindQuestionsByIDs", []string{"q-foreign"}).Return([]models.Question{
		{BaseModel: models.BaseModel{ID: "q-foreign"}, CompanyID: "comp-other"},
	}, nil)

	results, err := svc.AttachQuestions("comp-1", "stage-1", &dto.AttachQuestionsRequest{
		QuestionIDs: []string{"q-foreign"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "not_found", results[0].Status)
	repo.AssertNotCalled(t, "CreateStageQuestion", mock.Anything)
}

func TestUpdateStage_PatchesProvidedFields(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("UpdateStage", mock.MatchedBy(func(s *models.Stage) bool {
		return s.ID == "stage-1" && s.Title == "Systems Design" && s.Description == ""
	})).Return(nil)

	title := "Systems Design"
	resp, err := svc.UpdateStage("comp-1", "stage-1", &dto.UpdateStageRequest{Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "Systems Design", resp.Title)
}

func TestUpdateStage_CrossTenantHidden(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)

	title := "Systems Design"
	_, err := svc.UpdateStage("comp-other", "stage-1", &dto.UpdateStageRequest{Title: &title})

	assert.ErrorIs(t, err, apperrors.ErrStageNotFound)
	repo.AssertNotCalled(t, "UpdateStage", mock.Anything)
}

func TestUpdateQuestion_ReplacesOptionsPayload(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	question := &models.Question{BaseModel: models.BaseModel{ID: "q-1"}, CompanyID: "comp-1", Text: "old"}
	repo.On("FindQuestionByID", "q-1").Return(question, nil)
	repo.On("UpdateQuestion", mock.MatchedBy(func(q *models.Question) bool {
		return q.ID == "q-1" && q.Text == "Pick one" && len(q.Options) > 0
	})).Return(nil)

	text := "Pick one"
	resp, err := svc.UpdateQuestion("comp-1", "q-1", &dto.UpdateQuestionRequest{
		Text:    &text,
		Options: map[string]interface{}{"a": "yes", "b": "no"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Pick one", resp.Text)
}

func TestGetStageQuestions_RepairsSparseOrders(t *testing.T) {
	repo := new(mockAssessmentRepo)
	svc := NewAssessmentService(repo)

	question := &models.Question{BaseModel: models.BaseModel{ID: "q-1"}, Text: "What is a goroutine?"}
	repo.On("FindStageByID", "stage-1").Return(ownedStage("stage-1"), nil)
	repo.On("FindStageQuestions", "stage-1").Return([]models.StageQuestion{
		{QuestionID: "q-1", SortOrder: 2, Question: question},
		{QuestionID: "q-2", SortOrder: 5},
	}, nil)
	repo.On("UpdateStageQuestionOrders", "stage-1", map[string]int{
		"q-1": 0,
		"q-2": 1,
	}).Return(nil)

	resp, err := svc.GetStageQuestions("comp-1", "stage-1")

	assert.NoError(t, err)
	assert.Equal(t, 0, resp[0].SortOrder)
	assert.Equal(t, 1, resp[1].SortOrder)
	assert.Equal(t, "What is a goroutine?", resp[0].Text)
}

func TestRepairDenseOrders(t *testing.T) {
	cases := []struct {
		name    string
		in      []int
		want    []int
		changed bool
	}{
		{"empty", []int{}, []int{}, false},
		{"already dense", []int{0, 1, 2}, []int{0, 1, 2}, false},
		{"duplicates", []int{0, 0, 1}, []int{0, 1, 2}, true},
		{"gaps", []int{2, 5, 9}, []int{0, 1, 2}, true},
		{"single nonzero", []int{7}, []int{0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := repairDenseOrders(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changed, changed)
		})
	}
}
