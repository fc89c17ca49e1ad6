package services

import (
	"time"

	"github.com/google/uuid"

	"assesshub_backend/internal/auth"
	"assesshub_backend/internal/config"
	"assesshub_backend/internal/logger"
	"assesshub_backend/internal/models"
	"assesshub_backend/internal/repositories"
	"assesshub_backend/internal/services/dto"
	"assesshub_backend/pkg/apperrors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(req *dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(refreshToken string) error
	Me(userID string) (*dto.UserResponse, error)

	CreateUser(req *dto.CreateUserRequest) (*dto.UserResponse, error)
	CreateCompany(req *dto.CreateCompanyRequest) (*models.Company, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(req.RefreshToken)
	if err != nil {
		if err == repositories.ErrTokenNotFound {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.userRepo.DeleteRefreshToken(stored.Token)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	// Rotate: the presented refresh token is single-use.
	if err := s.userRepo.DeleteRefreshToken(stored.Token); err != nil {
		logger.Warn("failed to rotate refresh token", "user_id", user.ID, "error", err)
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		if err == repositories.ErrTokenNotFound {
			return nil // already gone, logout is idempotent
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *authService) CreateUser(req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRole(req.Role),
		Status:       models.UserStatusActive,
	}

	if user.Role == models.UserRoleCompanyAdmin {
		if req.CompanyID == "" {
			return nil, apperrors.NewBadRequestError("company_id is required for company admins")
		}
		if _, err := s.userRepo.FindCompanyByID(req.CompanyID); err != nil {
			if err == repositories.ErrCompanyNotFound {
				return nil, apperrors.NewBadRequestError("referenced company does not exist")
			}
			return nil, apperrors.InternalError(err)
		}
		user.CompanyID = &req.CompanyID
	}

	if err := s.userRepo.Create(user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

func (s *authService) CreateCompany(req *dto.CreateCompanyRequest) (*models.Company, error) {
	if _, err := s.userRepo.FindCompanyBySlug(req.Slug); err == nil {
		return nil, apperrors.ErrAlreadyExists(nil)
	}

	company := &models.Company{
		Name:     req.Name,
		Slug:     req.Slug,
		IsActive: true,
	}
	if err := s.userRepo.CreateCompany(company); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return company, nil
}

func (s *authService) issueTokens(user *models.User) (*dto.TokenResponse, error) {
	access, err := auth.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.RefreshTTL) * time.Hour),
	}
	if err := s.userRepo.CreateRefreshToken(refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		User:         buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
}
