package validator

import (
	"github.com/go-playground/validator/v10"

	"assesshub_backend/internal/invitecode"
	"assesshub_backend/internal/models"
)

// registerCustomRules wires domain-specific validation tags.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("invitecode", validateInviteCode); err != nil {
		return err
	}
	if err := v.RegisterValidation("candidate_status", validateCandidateStatus); err != nil {
		return err
	}
	return nil
}

func validateInviteCode(fl validator.FieldLevel) bool {
	return invitecode.IsWellFormed(invitecode.Normalize(fl.Field().String()))
}

func validateCandidateStatus(fl validator.FieldLevel) bool {
	return models.CandidateStatus(fl.Field().String()).Valid()
}
