package api

import (
	"errors"
	"net/http"

	"biblio-api/internal/domain/user"
	"biblio-api/internal/handler/httperr"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// abortWithDomainError translates the engine error taxonomy to HTTP.
// NotFound 404, Unavailable/AlreadyDone 409, auth errors 401/403,
// registration rule violations 422, anything else 500.
func abortWithDomainError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrBookNotFound),
		errs.Is(err, errs.ErrCopyNotFound),
		errs.Is(err, errs.ErrLoanNotFound),
		errs.Is(err, errs.ErrReservationNotFound),
		errs.Is(err, errs.ErrNotificationNotFound),
		errs.Is(err, errs.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)

	case errs.Is(err, errs.ErrNoCopyAvailable),
		errs.Is(err, errs.ErrLoanAlreadyReturned),
		errs.Is(err, errs.ErrRenewalLimitReached),
		errs.Is(err, errs.ErrDuplicateReservation),
		errs.Is(err, errs.ErrReservationClosed),
		errs.Is(err, errs.ErrEmailAlreadyRegistered):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)

	case errs.Is(err, errs.ErrInvalidCredentials):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "invalid credentials", nil)

	case errs.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "operation not allowed", nil)

	case isRegistrationRuleError(err):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// abortWithRepoError maps read-side repository errors, which carry kinds
// instead of sentinels.
func abortWithRepoError(c *gin.Context, err error, notFoundMsg string) {
	if infra.IsKind(err, infra.KindNotFound) {
		httperr.AbortWithError(c, http.StatusNotFound, err, notFoundMsg, nil)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

func isRegistrationRuleError(err error) bool {
	for _, rule := range []error{
		user.ErrEmptyName,
		user.ErrEmptyEmail,
		user.ErrInvalidEmail,
		user.ErrInvalidRole,
		user.ErrGradeRequired,
		user.ErrSchoolEmailOnly,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}
