package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	dashboarddomain "github.com/localgov-gh/revhub/internal/dashboard/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/logger"
	"github.com/localgov-gh/revhub/internal/principal"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	"github.com/localgov-gh/revhub/internal/store"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

type apiError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validationError struct {
	field   string
	code    string
	message string
}

func (e *validationError) Error() string { return e.message }

func newValidationError(field, code, message string) error {
	return &validationError{field: field, code: code, message: message}
}

func invalidRequestError() error {
	return newValidationError("", "invalid_request", "invalid request body")
}

// AbortWithError translates domain errors into HTTP responses. Unknown
// errors deliberately collapse into a 500 without leaking internals.
func AbortWithError(c *gin.Context, err error) {
	status, payload := classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Warn("request failed",
			zap.Int("status", status),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": payload})
}

func classify(err error) (int, apiError) {
	var vErr *validationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, apiError{Code: vErr.code, Field: vErr.field, Message: vErr.message}
	}

	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, principal.ErrInvalidRole):
		return http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "authentication required"}
	case errors.Is(err, ErrForbidden), errors.Is(err, jurisdiction.ErrScopeDenied):
		return http.StatusForbidden, apiError{Code: "forbidden", Message: "outside your jurisdiction"}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, businessdomain.ErrNotFound),
		errors.Is(err, collectiondomain.ErrNotFound),
		errors.Is(err, assignmentdomain.ErrNotFound),
		errors.Is(err, districtdomain.ErrNotFound),
		errors.Is(err, revenuedomain.ErrNotFound):
		return http.StatusNotFound, apiError{Code: "not_found", Message: "resource not found"}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, apiError{Code: "too_many_requests", Message: "rate limit exceeded"}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, apiError{Code: "service_unavailable", Message: "service unavailable"}
	case errors.Is(err, store.ErrPersistenceFailure):
		return http.StatusBadGateway, apiError{Code: "persistence_failure", Message: "could not save changes"}
	case errors.Is(err, collectiondomain.ErrAlreadyPaid):
		return http.StatusConflict, apiError{Code: "collection_already_paid", Message: "collection is already paid"}
	case isValidation(err):
		return http.StatusBadRequest, apiError{Code: err.Error(), Message: err.Error()}
	default:
		return http.StatusInternalServerError, apiError{Code: "internal_error", Message: "internal error"}
	}
}

func isValidation(err error) bool {
	for _, known := range []error{
		businessdomain.ErrInvalidName,
		businessdomain.ErrInvalidOwner,
		businessdomain.ErrInvalidDistrict,
		collectiondomain.ErrInvalidAmount,
		collectiondomain.ErrInvalidBusiness,
		collectiondomain.ErrInvalidMethod,
		collectiondomain.ErrImmutableWhenPaid,
		assignmentdomain.ErrInvalidCollector,
		assignmentdomain.ErrInvalidDistrict,
		districtdomain.ErrInvalidName,
		districtdomain.ErrInvalidRegion,
		revenuedomain.ErrInvalidName,
		revenuedomain.ErrInvalidAmount,
		dashboarddomain.ErrInvalidMonths,
		dashboarddomain.ErrInvalidLimit,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
