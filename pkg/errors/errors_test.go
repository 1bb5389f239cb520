package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("Loft"), CodeNotFound, http.StatusNotFound, "Loft not found"},
		{"validation", Validation("Booking validation failed", nil), CodeValidation, http.StatusUnprocessableEntity, "Booking validation failed"},
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest, "bad date"},
		{"unauthorized", Unauthorized("Authentication required"), CodeUnauthorized, http.StatusUnauthorized, "Authentication required"},
		{"forbidden", Forbidden("not your loft"), CodeForbidden, http.StatusForbidden, "not your loft"},
		{"conflict", Conflict("slot currently being booked"), CodeConflict, http.StatusConflict, "slot currently being booked"},
		{"rate limited", RateLimited(), CodeRateLimited, http.StatusTooManyRequests, "Rate limit exceeded"},
		{"media type", UnsupportedMediaType("application/json"), CodeUnsupportedMediaType, http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"too large", PayloadTooLarge(1024), CodeInvalidInput, http.StatusRequestEntityTooLarge, "Request body too large"},
		{"internal", Internal("Failed to save booking", cause), CodeInternal, http.StatusInternalServerError, "Failed to save booking"},
		{"timeout", Timeout("Request timeout"), CodeTimeout, http.StatusGatewayTimeout, "Request timeout"},
		{"unavailable", Unavailable("Audit archive"), CodeUnavailable, http.StatusServiceUnavailable, "Audit archive is temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode())
			assert.Equal(t, tt.wantMsg, tt.err.Message)
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "6650f1f77bcf86cd79943901")

	assert.Equal(t, "Booking not found", err.Message)
	assert.Equal(t, map[string]any{"resource": "Booking", "id": "6650f1f77bcf86cd79943901"}, err.Details)
}

func TestWithDetails_DoesNotMutateReceiver(t *testing.T) {
	base := Conflict("Owner still holds lofts")
	withDetails := base.WithDetails(map[string]any{"lofts": 3})

	assert.Nil(t, base.Details)
	assert.Equal(t, 3, withDetails.Details["lofts"])
	assert.Equal(t, base.Code, withDetails.Code)
}

func TestError_IncludesCause(t *testing.T) {
	assert.Equal(t, "CONFLICT: slot taken", Conflict("slot taken").Error())

	err := Internal("Failed to insert audit log", errors.New("write concern timeout"))
	assert.True(t, strings.Contains(err.Error(), "caused by: write concern timeout"))
}

func TestStatusCode_DefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, (&AppError{Code: "X"}).StatusCode())
}

func TestAsAppError(t *testing.T) {
	cause := errors.New("mongo down")

	t.Run("wrapped app error", func(t *testing.T) {
		wrapped := fmt.Errorf("transfer: %w", Forbidden("partners cannot transfer"))

		require.True(t, IsAppError(wrapped))
		assert.Equal(t, CodeForbidden, AsAppError(wrapped).Code)
		assert.True(t, HasCode(wrapped, CodeForbidden))
		assert.False(t, HasCode(wrapped, CodeConflict))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		appErr := AsAppError(cause)

		assert.False(t, IsAppError(cause))
		assert.Equal(t, CodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, cause)
	})
}
