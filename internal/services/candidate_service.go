package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

type CandidateService interface {
	CreateCandidate(companyID string, req *dto.CreateCandidateRequest) (*dto.CandidateResponse, error)
	GetCandidate(companyID, id string) (*dto.CandidateResponse, error)
	UpdateCandidate(companyID, id string, req *dto.UpdateCandidateRequest) (*dto.CandidateResponse, error)
	DeleteCandidate(companyID, id string) error
	ListCandidates(criteria dto.CandidateCriteria) (*dto.CandidateListResponse, error)
	ListUsedCodes(companyID, candidateID string) (*dto.UsedCodesResponse, error)
}

type candidateService struct {
	candidateRepo  repositories.CandidateRepository
	assessmentRepo repositories.AssessmentRepository
	inviteRepo     repositories.InviteRepository
}

func NewCandidateService(
	candidateRepo repositories.CandidateRepository,
	assessmentRepo repositories.AssessmentRepository,
	inviteRepo repositories.InviteRepository,
) CandidateService {
	return &candidateService{
		candidateRepo:  candidateRepo,
		assessmentRepo: assessmentRepo,
		inviteRepo:     inviteRepo,
	}
}

func (s *candidateService) CreateCandidate(companyID string, req *dto.CreateCandidateRequest) (*dto.CandidateResponse, error) {
	candidate := &models.Candidate{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Status:    models.CandidateStatusPending,
	}

	if req.TestID != "" {
		test, err := s.assessmentRepo.FindTestByID(req.TestID)
		if err != nil {
			if err == repositories.ErrTestNotFound {
				return nil, apperrors.ErrInvalidTest
			}
			return nil, apperrors.InternalError(err)
		}
		if test.CompanyID != companyID {
			return nil, apperrors.ErrInvalidTest
		}
		candidate.TestID = &test.ID
	}

	if req.Meta != nil {
		meta, err := json.Marshal(req.Meta)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid meta payload")
		}
		candidate.Meta = datatypes.JSON(meta)
	}

	if err := s.candidateRepo.Create(candidate); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildCandidateResponse(candidate), nil
}

func (s *candidateService) GetCandidate(companyID, id string) (*dto.CandidateResponse, error) {
	candidate, err := s.findOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return buildCandidateResponse(candidate), nil
}

func (s *candidateService) UpdateCandidate(companyID, id string, req *dto.UpdateCandidateRequest) (*dto.CandidateResponse, error) {
	candidate, err := s.findOwned(companyID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		candidate.Name = *req.Name
	}
	if req.Email != nil {
		candidate.Email = *req.Email
	}
	if req.Status != nil {
		candidate.Status = models.CandidateStatus(*req.Status)
	}
	if req.TestID != nil {
		if *req.TestID == "" {
			candidate.TestID = nil
		} else {
			test, err := s.assessmentRepo.FindTestByID(*req.TestID)
			if err != nil {
				if err == repositories.ErrTestNotFound {
					return nil, apperrors.ErrInvalidTest
				}
				return nil, apperrors.InternalError(err)
			}
			if test.CompanyID != companyID {
				return nil, apperrors.ErrInvalidTest
			}
			candidate.TestID = &test.ID
		}
	}
	if req.Meta != nil {
		meta, err := json.Marshal(req.Meta)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid meta payload")
		}
		candidate.Meta = datatypes.JSON(meta)
	}

	if err := s.candidateRepo.Save(candidate); err != nil {
		if err == repositories.ErrCandidateNotFound {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return buildCandidateResponse(candidate), nil
}

func (s *candidateService) DeleteCandidate(companyID, id string) error {
	candidate, err := s.findOwned(companyID, id)
	if err != nil {
		return err
	}
	if err := s.candidateRepo.Delete(candidate.ID); err != nil {
		if err == repositories.ErrCandidateNotFound {
			return apperrors.ErrCandidateNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *candidateService) ListCandidates(criteria dto.CandidateCriteria) (*dto.CandidateListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	candidates, total, err := s.candidateRepo.FindWithFilter(repositories.CandidateFilter{
		CompanyID: criteria.CompanyID,
		TestID:    criteria.TestID,
		Status:    models.CandidateStatus(criteria.Status),
		Search:    criteria.Search,
		Page:      criteria.Page,
		PageSize:  criteria.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.CandidateListResponse{
		Candidates: make([]*dto.CandidateResponse, 0, len(candidates)),
		Pagination: dto.NewPagination(total, criteria.Page, criteria.PageSize),
	}
	for i := range candidates {
		resp.Candidates = append(resp.Candidates, buildCandidateResponse(&candidates[i]))
	}
	return resp, nil
}

func (s *candidateService) ListUsedCodes(companyID, candidateID string) (*dto.UsedCodesResponse, error) {
	candidate, err := s.findOwned(companyID, candidateID)
	if err != nil {
		return nil, err
	}
	used, err := s.inviteRepo.ListByCandidate(candidateID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total, err := s.inviteRepo.CountByCompany(candidate.CompanyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.UsedCodesResponse{UsedCodes: used, CompanyArchivedTotal: total}, nil
}

// findOwned loads a candidate and enforces tenancy. An empty companyID means
// a super-admin caller; no scoping is applied.
func (s *candidateService) findOwned(companyID, id string) (*models.Candidate, error) {
	candidate, err := s.candidateRepo.FindByID(id)
	if err != nil {
		if err == repositories.ErrCandidateNotFound {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if companyID != "" && candidate.CompanyID != companyID {
		return nil, apperrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func buildCandidateResponse(candidate *models.Candidate) *dto.CandidateResponse {
	resp := &dto.CandidateResponse{
		ID:             candidate.ID,
		CompanyID:      candidate.CompanyID,
		TestID:         candidate.TestID,
		Name:           candidate.Name,
		Email:          candidate.Email,
		Status:         candidate.Status,
		InviteCode:     candidate.InviteCode,
		InviteExpires:  candidate.InviteExpires,
		InviteAttempts: candidate.InviteAttempts,
		InviteSent:     candidate.InviteSent,
		Meta:           candidate.Meta,
		CreatedAt:      candidate.CreatedAt,
	}
	if candidate.Test != nil {
		resp.TestTitle = candidate.Test.Title
	}
	return resp
}
