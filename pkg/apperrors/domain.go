package apperrors

import (
	"net/http"
)

// Factories for wrapping repository errors.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

// --- Candidates & invites ---

var ErrCandidateNotFound = New(
	CodeNotFound,
	"candidate",
	"Candidate not found",
	http.StatusNotFound,
)

// ErrInvalidTest is returned when an invite references a test that does not
// exist. Distinct from plain NotFound so the admin UI can point at the field.
var ErrInvalidTest = New(
	CodeInvalidTest,
	"invite",
	"Referenced test does not exist",
	http.StatusBadRequest,
)

var ErrInviteCodeInvalid = New(
	CodeNotFound,
	"invite",
	"Invite code not recognized",
	http.StatusNotFound,
)

var ErrInviteExpired = New(
	CodeInviteExpired,
	"invite",
	"Invite code has expired",
	http.StatusGone,
)

// ErrCodeSpaceExhausted is returned when the generator fails to find a free
// code within the configured attempt bound.
var ErrCodeSpaceExhausted = New(
	CodeCodeSpaceExhausted,
	"invite",
	"Unable to allocate a unique invite code",
	http.StatusConflict,
)

// --- Assessment structure ---

var ErrTestNotFound = New(
	CodeNotFound,
	"assessment",
	"Test not found",
	http.StatusNotFound,
)

var ErrStageNotFound = New(
	CodeNotFound,
	"assessment",
	"Stage not found",
	http.StatusNotFound,
)

var ErrQuestionNotFound = New(
	CodeNotFound,
	"assessment",
	"Question not found",
	http.StatusNotFound,
)

var ErrAlreadyAssociated = New(
	CodeAlreadyAssociated,
	"assessment",
	"Association already exists",
	http.StatusConflict,
)

var ErrAssociationNotFound = New(
	CodeNotFound,
	"assessment",
	"Association not found",
	http.StatusNotFound,
)

// --- Training ---

var ErrCourseNotFound = New(
	CodeNotFound,
	"course",
	"Course not found",
	http.StatusNotFound,
)

var ErrModuleNotFound = New(
	CodeNotFound,
	"course",
	"Module not found",
	http.StatusNotFound,
)

var ErrLessonNotFound = New(
	CodeNotFound,
	"course",
	"Lesson not found",
	http.StatusNotFound,
)
