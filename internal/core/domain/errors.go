package domain

import "errors"

// Kind classifies a domain error. The HTTP adapter maps each kind to a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a typed failure whose Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrCredentialsRequired    = newError(KindValidation, "email and password required")
	ErrRefreshTokenRequired   = newError(KindValidation, "refresh_token required")
	ErrProjectNameRequired    = newError(KindValidation, "Project name required")
	ErrGoalTextRequired       = newError(KindValidation, "goal_text required")
	ErrPasswordTooLong        = newError(KindValidation, "password must be at most 72 bytes")
	ErrInvalidRetroDate       = newError(KindValidation, "retro_date must be formatted as YYYY-MM-DD")
	ErrRetroContentRequired   = newError(KindValidation, "went_well, challenges or next_steps required")
	ErrInvalidCredentials     = newError(KindUnauthorized, "Invalid email or password")
	ErrInvalidRefreshToken    = newError(KindUnauthorized, "Invalid or expired refresh token")
	ErrMissingAuthToken       = newError(KindUnauthorized, "Missing auth token")
	ErrInvalidAuthToken       = newError(KindUnauthorized, "Invalid auth token")
	ErrProjectNotFound        = newError(KindNotFound, "Project not found")
	ErrNoGoalToday            = newError(KindNotFound, "No goal set for today")
	ErrUserNotFound           = newError(KindNotFound, "User not found")
	ErrEmailAlreadyRegistered = newError(KindConflict, "Email already registered")
	ErrProjectAlreadyArchived = newError(KindConflict, "Project already archived")
	ErrProjectNotArchived     = newError(KindConflict, "Project is not archived")
	ErrDailyGoalExists        = newError(KindConflict, "Only one daily goal per project per day")
)

// Token rejection reasons. They never reach clients; the auth gate collapses
// all of them into ErrInvalidAuthToken and logs the reason.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrTokenMismatch  = errors.New("token subject mismatch")
)
