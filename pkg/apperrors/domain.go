package apperrors

import (
	"net/http"
)

// ErrNotFound converts a repository "not found" error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
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
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- Auth ---

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

var ErrUserInactive = New(
	CodeForbidden,
	"auth",
	"Your account has been deactivated",
	http.StatusForbidden,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password must be at least 8 characters and contain letters and digits",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"admin",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

var ErrRateLimited = New(
	CodeRateLimited,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)

// --- Uploads ---

var ErrFileRequired = New(
	CodeValidationFailed,
	"validation",
	"File is required",
	http.StatusBadRequest,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Credentials ---

var ErrCredentialNotFound = New(
	CodeNotFound,
	"credential",
	"Credential not found",
	http.StatusNotFound,
)

var ErrCredentialNotPending = New(
	CodeInvalidStatus,
	"credential",
	"Operation allowed only for pending credentials",
	http.StatusConflict,
)

var ErrCredentialNumberTaken = New(
	CodeAlreadyExists,
	"credential",
	"Credential number already registered",
	http.StatusConflict,
)

// --- Jobs ---

var ErrJobNotFound = New(
	CodeNotFound,
	"job",
	"Job not found",
	http.StatusNotFound,
)

var ErrJobNotActive = New(
	CodeInvalidStatus,
	"job",
	"Job is not accepting applications",
	http.StatusConflict,
)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"job",
	"You have already applied to this job",
	http.StatusConflict,
)

var ErrAlreadyInvited = New(
	CodeAlreadyExists,
	"job",
	"Learner already invited to this job",
	http.StatusConflict,
)

// --- Talent pool ---

var ErrAlreadyInTalentPool = New(
	CodeAlreadyExists,
	"talent_pool",
	"Learner is already in your talent pool",
	http.StatusConflict,
)

var ErrTalentPoolEntryNotFound = New(
	CodeNotFound,
	"talent_pool",
	"Learner is not in your talent pool",
	http.StatusNotFound,
)

// --- Portfolio ---

var ErrPortfolioNotFound = New(
	CodeNotFound,
	"portfolio",
	"Portfolio not found",
	http.StatusNotFound,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrLearnerNotFound = New(
	CodeNotFound,
	"learner",
	"Learner not found",
	http.StatusNotFound,
)

var ErrAchievementNotFound = New(
	CodeNotFound,
	"achievement",
	"Achievement not found",
	http.StatusNotFound,
)

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)
