package services

import (
	"gorm.io/gorm"

	"assesshub_backend/internal/config"
	"assesshub_backend/internal/email"
	"assesshub_backend/internal/repositories"
)

// ServiceContainer wires repositories into services once at startup.
type ServiceContainer struct {
	Auth       AuthService
	Candidate  CandidateService
	Invite     InviteService
	Assessment AssessmentService
	Course     CourseService
}

func NewServiceContainer(db *gorm.DB, cfg *config.Config, emailProvider email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	assessmentRepo := repositories.NewAssessmentRepository(db)
	courseRepo := repositories.NewCourseRepository(db)

	return &ServiceContainer{
		Auth:      NewAuthService(userRepo),
		Candidate: NewCandidateService(candidateRepo, assessmentRepo, inviteRepo),
		Invite: NewInviteService(candidateRepo, assessmentRepo, inviteRepo, emailProvider, InviteConfig{
			ExpirationDays: cfg.Invite.ExpirationDays,
			MaxAttempts:    cfg.Invite.MaxAttempts,
		}),
		Assessment: NewAssessmentService(assessmentRepo),
		Course:     NewCourseService(courseRepo),
	}
}
