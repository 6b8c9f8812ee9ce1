package errs

import "errors"

// Sentinel errors shared by the command and query layers. Handlers map these
// to HTTP statuses; nothing below this package panics or throws.
var (
	// NotFound
	ErrBookNotFound         = errors.New("book not found")
	ErrCopyNotFound         = errors.New("copy not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")

	// Unavailable
	ErrNoCopyAvailable = errors.New("no copy available")

	// AlreadyDone
	ErrLoanAlreadyReturned  = errors.New("loan already returned")
	ErrRenewalLimitReached  = errors.New("renewal limit reached")
	ErrDuplicateReservation = errors.New("active reservation already exists")
	ErrReservationClosed    = errors.New("reservation already fulfilled or cancelled")

	// Auth / registration
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrForbidden              = errors.New("operation not allowed for this user")

	// StorageError: persistence failed, distinct from any domain outcome
	ErrStorageFailure = errors.New("storage operation failed")
)
