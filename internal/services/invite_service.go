package services

import (
	"time"

	"assesshub_backend/internal/email"
	"assesshub_backend/internal/invitecode"
	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

type InviteService interface {
	// IssueOrRefreshInvite reuses a still-valid code or rotates to a fresh
	// one. companyID scopes the caller; an empty scope means a super admin.
	// Archival and email delivery are secondary outcomes reported as
	// data; only primary failures (missing candidate/test, exhausted code
	// space) surface as errors.
	IssueOrRefreshInvite(companyID string, req *dto.IssueInviteRequest) (*dto.IssueInviteResponse, error)

	// VerifyCode resolves a candidate-typed code and counts the attempt.
	VerifyCode(code string) (*dto.VerifyInviteResponse, error)
}

type InviteConfig struct {
	ExpirationDays int // default lifetime of a fresh code
	MaxAttempts    int // bound on the generate-and-test loop
}

type inviteService struct {
	candidateRepo  repositories.CandidateRepository
	assessmentRepo repositories.AssessmentRepository
	inviteRepo     repositories.InviteRepository
	emailProvider  email.Provider
	cfg            InviteConfig
}

func NewInviteService(
	candidateRepo repositories.CandidateRepository,
	assessmentRepo repositories.AssessmentRepository,
	inviteRepo repositories.InviteRepository,
	emailProvider email.Provider,
	cfg InviteConfig,
) InviteService {
	if cfg.ExpirationDays <= 0 {
		cfg.ExpirationDays = 7
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 50
	}
	return &inviteService{
		candidateRepo:  candidateRepo,
		assessmentRepo: assessmentRepo,
		inviteRepo:     inviteRepo,
		emailProvider:  emailProvider,
		cfg:            cfg,
	}
}

func (s *inviteService) IssueOrRefreshInvite(companyID string, req *dto.IssueInviteRequest) (*dto.IssueInviteResponse, error) {
	candidate, err := s.candidateRepo.FindByID(req.CandidateID)
	if err != nil {
		if err == repositories.ErrCandidateNotFound {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && candidate.CompanyID != companyID {
		return nil, apperrors.ErrCandidateNotFound
	}

	test, err := s.assessmentRepo.FindTestByID(req.TestID)
	if err != nil {
		if err == repositories.ErrTestNotFound {
			return nil, apperrors.ErrInvalidTest
		}
		return nil, apperrors.InternalError(err)
	}
	// A candidate may only ever be bound to a test of their own company.
	if test.CompanyID != candidate.CompanyID {
		return nil, apperrors.ErrInvalidTest
	}

	days := req.ExpirationDays
	if days <= 0 {
		days = s.cfg.ExpirationDays
	}
	now := time.Now()

	resp := &dto.IssueInviteResponse{Success: true}

	reusable := candidate.InviteCode != "" &&
		candidate.InviteExpires != nil &&
		candidate.InviteExpires.After(now) &&
		!req.ForceNew

	if reusable {
		resp.Reused = true
		// Same code back, but a changed test resets the delivery flag: the
		// previously sent email pointed at the wrong assessment.
		if candidate.TestID == nil || *candidate.TestID != test.ID {
			candidate.TestID = &test.ID
			candidate.InviteSent = false
			if err := s.candidateRepo.Save(candidate); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
	} else {
		resp.Archival = s.archiveCurrentCode(candidate, now)

		if _, err := s.allocateUniqueCode(candidate, test.ID, now, days); err != nil {
			return nil, err
		}
	}

	resp.InviteCode = candidate.InviteCode
	resp.InviteExpires = *candidate.InviteExpires

	if req.SendEmail {
		s.deliverInvite(candidate, resp)
	}

	resp.Candidate = buildCandidateResponse(candidate)
	return resp, nil
}

// archiveCurrentCode retires the candidate's current code into the historical
// log. Failure (typically a duplicate row from an earlier half-finished
// rotation) is logged and reported in the outcome, never propagated.
func (s *inviteService) archiveCurrentCode(candidate *models.Candidate, now time.Time) dto.ArchiveOutcome {
	outcome := dto.ArchiveOutcome{}
	if candidate.InviteCode == "" {
		return outcome
	}

	outcome.Attempted = true
	err := s.inviteRepo.Archive(&models.UsedInviteCode{
		Code:        candidate.InviteCode,
		CandidateID: candidate.ID,
		CompanyID:   candidate.CompanyID,
		TestID:      candidate.TestID,
		UsedAt:      now,
	})
	if err != nil {
		outcome.Error = err.Error()
		logger.Warn("failed to archive superseded invite code",
			"candidate_id", candidate.ID,
			"code", candidate.InviteCode,
			"error", err,
		)
		return outcome
	}

	outcome.Archived = true
	return outcome
}

// allocateUniqueCode runs the bounded generate-and-test loop and persists the
// rotated candidate. A unique-index conflict on save (two issuances racing on
// the same value) re-enters the loop instead of failing.
func (s *inviteService) allocateUniqueCode(candidate *models.Candidate, testID string, now time.Time, days int) (string, error) {
	expires := now.AddDate(0, 0, days)

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		code := invitecode.Generate()

		inUse, err := s.candidateRepo.CodeInUse(code)
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		if inUse {
			continue
		}

		used, err := s.inviteRepo.CodeUsed(code)
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		if used {
			continue
		}

		candidate.InviteCode = code
		candidate.InviteExpires = &expires
		candidate.InviteAttempts = 0
		candidate.InviteSent = false
		candidate.TestID = &testID
		if candidate.Status == models.CandidateStatusPending {
			candidate.Status = models.CandidateStatusInvited
		}

		if err := s.candidateRepo.Save(candidate); err != nil {
			if repositories.IsUniqueViolation(err) {
				// Lost the race for this value; try another.
				continue
			}
			return "", apperrors.InternalError(err)
		}
		return code, nil
	}

	return "", apperrors.ErrCodeSpaceExhausted
}

// deliverInvite sends the invite email and folds the result into the
// response. A failed send leaves the issuance successful.
func (s *inviteService) deliverInvite(candidate *models.Candidate, resp *dto.IssueInviteResponse) {
	result, err := s.emailProvider.SendInvite(
		candidate.Email, candidate.Name, candidate.InviteCode, *candidate.InviteExpires)
	if err != nil {
		resp.EmailSent = false
		resp.EmailError = err.Error()
		logger.Warn("invite email delivery failed",
			"candidate_id", candidate.ID, "error", err)
		return
	}

	resp.EmailSent = result.Success
	resp.EmailPreviewURL = result.PreviewURL
	if result.Success && !candidate.InviteSent {
		candidate.InviteSent = true
		if err := s.candidateRepo.Save(candidate); err != nil {
			logger.Warn("failed to persist invite sent flag",
				"candidate_id", candidate.ID, "error", err)
		}
	}
}

func (s *inviteService) VerifyCode(code string) (*dto.VerifyInviteResponse, error) {
	code = invitecode.Normalize(code)
	if !invitecode.IsWellFormed(code) {
		return nil, apperrors.ErrInviteCodeInvalid
	}

	candidate, err := s.candidateRepo.FindByInviteCode(code)
	if err != nil {
		if err == repositories.ErrCandidateNotFound {
			return nil, apperrors.ErrInviteCodeInvalid
		}
		return nil, apperrors.InternalError(err)
	}

	if candidate.InviteExpires == nil || !candidate.InviteExpires.After(time.Now()) {
		return nil, apperrors.ErrInviteExpired
	}

	if err := s.candidateRepo.IncrementInviteAttempts(candidate.ID); err != nil {
		logger.Warn("failed to count invite attempt", "candidate_id", candidate.ID, "error", err)
	}

	resp := &dto.VerifyInviteResponse{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		ExpiresAt:     *candidate.InviteExpires,
		Attempts:      candidate.InviteAttempts + 1,
	}
	if candidate.TestID != nil {
		resp.TestID = *candidate.TestID
	}
	if candidate.Test != nil {
		resp.TestTitle = candidate.Test.Title
	}
	return resp, nil
}
