package handlers

import (
	"assesshub_backend/internal/services"
	"assesshub_backend/internal/validator"
)

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	Auth       *AuthHandler
	Candidate  *CandidateHandler
	Invite     *InviteHandler
	Assessment *AssessmentHandler
	Course     *CourseHandler
}

func NewAppHandlers(sc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		Auth:       NewAuthHandler(base, sc.Auth),
		Candidate:  NewCandidateHandler(base, sc.Candidate),
		Invite:     NewInviteHandler(base, sc.Invite),
		Assessment: NewAssessmentHandler(base, sc.Assessment),
		Course:     NewCourseHandler(base, sc.Course),
	}
}
