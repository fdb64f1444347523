package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	tariffservice "github.com/upravdom/upravdom/internal/tariff/service"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
)

type errorPayload struct {
	Type    string                   `json:"type"`
	Message string                   `json:"message"`
	Errors  []tariffdomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware converts errors attached to the gin context into a
// consistent JSON payload after the handler chain finishes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return tariffdomain.ValidationErrors{{
		Field: "request", Code: "invalid_request", Message: "invalid request",
	}}
}

func mapError(err error) (int, errorPayload) {
	if vErrs, ok := tariffdomain.AsValidationErrors(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs,
		}
	}

	switch {
	case errors.Is(err, tariffdomain.ErrNotFound),
		errors.Is(err, utilitydomain.ErrNotFound),
		errors.Is(err, apartmentdomain.ErrNotFound),
		errors.Is(err, ownerdomain.ErrNotFound),
		errors.Is(err, meterdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}

	case errors.Is(err, tariffdomain.ErrTariffLocked),
		errors.Is(err, tariffdomain.ErrNotExpired),
		errors.Is(err, tariffservice.ErrTimelineBusy),
		errors.Is(err, utilitydomain.ErrDuplicateCode),
		errors.Is(err, ownerdomain.ErrDuplicateEmail),
		errors.Is(err, apartmentdomain.ErrDuplicateNumber),
		errors.Is(err, meterdomain.ErrDuplicateSerial):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}

	case errors.Is(err, tariffdomain.ErrInvalidID),
		errors.Is(err, tariffdomain.ErrInvalidService),
		errors.Is(err, tariffdomain.ErrStartDateImmutable),
		errors.Is(err, tariffdomain.ErrMissingStartDate),
		errors.Is(err, utilitydomain.ErrInvalidID),
		errors.Is(err, utilitydomain.ErrInvalidName),
		errors.Is(err, utilitydomain.ErrInvalidCode),
		errors.Is(err, utilitydomain.ErrInvalidCalculation),
		errors.Is(err, utilitydomain.ErrInvalidMeterType),
		errors.Is(err, utilitydomain.ErrMeterTypeRequired),
		errors.Is(err, apartmentdomain.ErrInvalidID),
		errors.Is(err, apartmentdomain.ErrInvalidNumber),
		errors.Is(err, apartmentdomain.ErrInvalidArea),
		errors.Is(err, apartmentdomain.ErrInvalidOwner),
		errors.Is(err, ownerdomain.ErrInvalidID),
		errors.Is(err, ownerdomain.ErrInvalidName),
		errors.Is(err, ownerdomain.ErrInvalidEmail),
		errors.Is(err, meterdomain.ErrInvalidID),
		errors.Is(err, meterdomain.ErrInvalidSerial),
		errors.Is(err, meterdomain.ErrInvalidApartment),
		errors.Is(err, meterdomain.ErrInvalidService),
		errors.Is(err, meterdomain.ErrInvalidDate),
		errors.Is(err, meterdomain.ErrReadingDecreased):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}
