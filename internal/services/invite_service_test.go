package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assesshub_backend/internal/email"
	"assesshub_backend/internal/invitecode"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

func newInviteFixture(cfg InviteConfig) (*mockCandidateRepo, *mockAssessmentRepo, *mockInviteRepo, *mockEmailProvider, InviteService) {
	candidateRepo := new(mockCandidateRepo)
	assessmentRepo := new(mockAssessmentRepo)
	inviteRepo := new(mockInviteRepo)
	emailProvider := new(mockEmailProvider)
	svc := NewInviteService(candidateRepo, assessmentRepo, inviteRepo, emailProvider, cfg)
	return candidateRepo, assessmentRepo, inviteRepo, emailProvider, svc
}

func testCandidate() *models.Candidate {
	return &models.Candidate{
		BaseModel: models.BaseModel{ID: "cand-1"},
		CompanyID: "comp-1",
		Name:      "Jordan Lee",
		Email:     "jordan@example.com",
		Status:    models.CandidateStatusPending,
	}
}

func activeTest() *models.Test {
	return &models.Test{
		BaseModel: models.BaseModel{ID: "test-1"},
		CompanyID: "comp-1",
		Title:     "Backend Screening",
		IsActive:  true,
	}
}

func TestIssueInvite_NewCandidateGetsFreshCode(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	candidate := testCandidate()
	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)

	before := time.Now()
	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.Reused)
	assert.Len(t, resp.InviteCode, invitecode.Length)
	assert.True(t, invitecode.IsWellFormed(resp.InviteCode))

	// Default lifetime is seven days.
	wantExpiry := before.AddDate(0, 0, 7)
	assert.WithinDuration(t, wantExpiry, resp.InviteExpires, time.Minute)

	assert.False(t, resp.Archival.Attempted)
	assert.Equal(t, models.CandidateStatusInvited, candidate.Status)
	assert.False(t, candidate.InviteSent)
	inviteRepo.AssertNotCalled(t, "Archive", mock.Anything)
}

func TestIssueInvite_ReusesUnexpiredCode(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	expires := time.Now().Add(48 * time.Hour)
	testID := "test-1"
	candidate := testCandidate()
	candidate.TestID = &testID
	candidate.InviteCode = "ABC234"
	candidate.InviteExpires = &expires
	candidate.InviteSent = true
	candidate.Status = models.CandidateStatusInvited

	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.True(t, resp.Reused)
	assert.Equal(t, "ABC234", resp.InviteCode)
	assert.Equal(t, expires, resp.InviteExpires)
	assert.False(t, resp.Archival.Attempted)

	// Reuse must not touch storage.
	candidateRepo.AssertNotCalled(t, "Save", mock.Anything)
	inviteRepo.AssertNotCalled(t, "Archive", mock.Anything)
}

func TestIssueInvite_ReuseWithChangedTestResetsSentFlag(t *testing.T) {
	candidateRepo, assessmentRepo, _, _, svc := newInviteFixture(InviteConfig{})

	expires := time.Now().Add(24 * time.Hour)
	oldTest := "test-0"
	candidate := testCandidate()
	candidate.TestID = &oldTest
	candidate.InviteCode = "ABC234"
	candidate.InviteExpires = &expires
	candidate.InviteSent = true

	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("Save", candidate).Return(nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.True(t, resp.Reused)
	assert.Equal(t, "ABC234", resp.InviteCode)
	assert.Equal(t, "test-1", *candidate.TestID)
	assert.False(t, candidate.InviteSent)
	candidateRepo.AssertCalled(t, "Save", candidate)
}

func TestIssueInvite_ForceNewRotatesAndArchivesOnce(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	expires := time.Now().Add(24 * time.Hour)
	testID := "test-1"
	candidate := testCandidate()
	candidate.TestID = &testID
	candidate.InviteCode = "OLD234"
	candidate.InviteExpires = &expires
	candidate.InviteSent = true

	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	inviteRepo.On("Archive", mock.MatchedBy(func(u *models.UsedInviteCode) bool {
		return u.Code == "OLD234" && u.CandidateID == "cand-1" && u.CompanyID == "comp-1"
	})).Return(nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
		ForceNew:    true,
	})

	assert.NoError(t, err)
	assert.False(t, resp.Reused)
	assert.NotEqual(t, "OLD234", resp.InviteCode)
	assert.True(t, resp.Archival.Attempted)
	assert.True(t, resp.Archival.Archived)
	assert.Empty(t, resp.Archival.Error)
	assert.False(t, candidate.InviteSent)
	inviteRepo.AssertNumberOfCalls(t, "Archive", 1)
}

func TestIssueInvite_ExpiredCodeIsRotated(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	expired := time.Now().Add(-time.Hour)
	candidate := testCandidate()
	candidate.InviteCode = "OLD234"
	candidate.InviteExpires = &expired

	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	inviteRepo.On("Archive", mock.Anything).Return(nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.False(t, resp.Reused)
	assert.NotEqual(t, "OLD234", resp.InviteCode)
	assert.True(t, resp.InviteExpires.After(time.Now()))
}

func TestIssueInvite_ArchiveFailureDoesNotFailIssuance(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	expired := time.Now().Add(-time.Hour)
	candidate := testCandidate()
	candidate.InviteCode = "OLD234"
	candidate.InviteExpires = &expired

	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	inviteRepo.On("Archive", mock.Anything).Return(repositories.ErrCodeAlreadyArchived)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Archival.Attempted)
	assert.False(t, resp.Archival.Archived)
	assert.Contains(t, resp.Archival.Error, "already archived")
}

func TestIssueInvite_EmailFailureReportedAsData(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, emailProvider, svc := newInviteFixture(InviteConfig{})

	candidate := testCandidate()
	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)
	emailProvider.On("SendInvite", "jordan@example.com", "Jordan Lee", mock.Anything, mock.Anything).
		Return(nil, errors.New("smtp connection refused"))

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
		SendEmail:   true,
	})

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.EmailSent)
	assert.Contains(t, resp.EmailError, "smtp connection refused")
	assert.False(t, candidate.InviteSent)
}

func TestIssueInvite_EmailSuccessMarksSent(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, emailProvider, svc := newInviteFixture(InviteConfig{})

	candidate := testCandidate()
	candidateRepo.On("FindByID", "cand-1").Return(candidate, nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", candidate).Return(nil)
	emailProvider.On("SendInvite", "jordan@example.com", "Jordan Lee", mock.Anything, mock.Anything).
		Return(&email.SendResult{Success: true}, nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
		SendEmail:   true,
	})

	assert.NoError(t, err)
	assert.True(t, resp.EmailSent)
	assert.Empty(t, resp.EmailError)
	assert.True(t, candidate.InviteSent)
}

func TestIssueInvite_CandidateNotFound(t *testing.T) {
	candidateRepo, _, _, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "missing").Return(nil, repositories.ErrCandidateNotFound)

	_, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "missing",
		TestID:      "test-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrCandidateNotFound)
}

func TestIssueInvite_UnknownTestRejected(t *testing.T) {
	candidateRepo, assessmentRepo, _, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "missing").Return(nil, repositories.ErrTestNotFound)

	_, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "missing",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTest)
}

func TestIssueInvite_CrossTenantCandidateHidden(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)

	_, err := svc.IssueOrRefreshInvite("comp-other", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.ErrorIs(t, err, apperrors.ErrCandidateNotFound)
	assessmentRepo.AssertNotCalled(t, "FindTestByID", mock.Anything)
	candidateRepo.AssertNotCalled(t, "Save", mock.Anything)
	inviteRepo.AssertNotCalled(t, "Archive", mock.Anything)
}

func TestIssueInvite_CrossTenantTestRejected(t *testing.T) {
	candidateRepo, assessmentRepo, _, _, svc := newInviteFixture(InviteConfig{})

	foreignTest := activeTest()
	foreignTest.ID = "test-b"
	foreignTest.CompanyID = "comp-b"

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "test-b").Return(foreignTest, nil)

	_, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-b",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidTest)
	candidateRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestIssueInvite_SuperAdminBypassesScopeButNotTestCompany(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	candidateRepo.On("Save", mock.Anything).Return(nil)

	// Empty scope is the super-admin caller.
	resp, err := svc.IssueOrRefreshInvite("", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.InviteCode)
}

func TestIssueInvite_ExhaustedCodeSpace(t *testing.T) {
	const maxAttempts = 5
	candidateRepo, assessmentRepo, _, _, svc := newInviteFixture(InviteConfig{MaxAttempts: maxAttempts})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	// Every generated value collides with an active candidate.
	candidateRepo.On("CodeInUse", mock.Anything).Return(true, nil)

	_, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.ErrorIs(t, err, apperrors.ErrCodeSpaceExhausted)
	candidateRepo.AssertNumberOfCalls(t, "CodeInUse", maxAttempts)
	candidateRepo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestIssueInvite_HistoricalCollisionRetries(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	// First draw hits the historical log, second is clean.
	inviteRepo.On("CodeUsed", mock.Anything).Return(true, nil).Once()
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil).Once()
	candidateRepo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.InviteCode)
	inviteRepo.AssertNumberOfCalls(t, "CodeUsed", 2)
}

func TestIssueInvite_SaveConflictRetries(t *testing.T) {
	candidateRepo, assessmentRepo, inviteRepo, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByID", "cand-1").Return(testCandidate(), nil)
	assessmentRepo.On("FindTestByID", "test-1").Return(activeTest(), nil)
	candidateRepo.On("CodeInUse", mock.Anything).Return(false, nil)
	inviteRepo.On("CodeUsed", mock.Anything).Return(false, nil)
	// A concurrent issuance steals the first value at commit time.
	candidateRepo.On("Save", mock.Anything).Return(&pgconn.PgError{Code: "23505"}).Once()
	candidateRepo.On("Save", mock.Anything).Return(nil).Once()

	resp, err := svc.IssueOrRefreshInvite("comp-1", &dto.IssueInviteRequest{
		CandidateID: "cand-1",
		TestID:      "test-1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.InviteCode)
	candidateRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestVerifyCode_NormalizesInput(t *testing.T) {
	candidateRepo, _, _, _, svc := newInviteFixture(InviteConfig{})

	expires := time.Now().Add(time.Hour)
	testID := "test-1"
	candidate := testCandidate()
	candidate.TestID = &testID
	candidate.Test = activeTest()
	candidate.InviteCode = "ABC234"
	candidate.InviteExpires = &expires
	candidate.InviteAttempts = 2

	candidateRepo.On("FindByInviteCode", "ABC234").Return(candidate, nil)
	candidateRepo.On("IncrementInviteAttempts", "cand-1").Return(nil)

	resp, err := svc.VerifyCode("  " + strings.ToLower("ABC234") + " ")

	assert.NoError(t, err)
	assert.Equal(t, "cand-1", resp.CandidateID)
	assert.Equal(t, "test-1", resp.TestID)
	assert.Equal(t, "Backend Screening", resp.TestTitle)
	assert.Equal(t, 3, resp.Attempts)
}

func TestVerifyCode_ExpiredCode(t *testing.T) {
	candidateRepo, _, _, _, svc := newInviteFixture(InviteConfig{})

	expired := time.Now().Add(-time.Minute)
	candidate := testCandidate()
	candidate.InviteCode = "ABC234"
	candidate.InviteExpires = &expired

	candidateRepo.On("FindByInviteCode", "ABC234").Return(candidate, nil)

	_, err := svc.VerifyCode("ABC234")
	assert.ErrorIs(t, err, apperrors.ErrInviteExpired)
	candidateRepo.AssertNotCalled(t, "IncrementInviteAttempts", mock.Anything)
}

func TestVerifyCode_UnknownCode(t *testing.T) {
	candidateRepo, _, _, _, svc := newInviteFixture(InviteConfig{})

	candidateRepo.On("FindByInviteCode", "ZZZ999").Return(nil, repositories.ErrCandidateNotFound)

	_, err := svc.VerifyCode("ZZZ999")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
}

func TestVerifyCode_MalformedCodeRejectedWithoutLookup(t *testing.T) {
	candidateRepo, _, _, _, svc := newInviteFixture(InviteConfig{})

	_, err := svc.VerifyCode("AB!0")
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
	candidateRepo.AssertNotCalled(t, "FindByInviteCode", mock.Anything)
}
