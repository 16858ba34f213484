package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrappedStillDetected(t *testing.T) {
	base := NewInsufficientStock("SKU1", "SHELF", 2, 1)
	wrapped := fmt.Errorf("process sale: %w", base)

	assert.True(t, IsAppError(wrapped))
	assert.True(t, Is(wrapped, CodeInsufficientStock))
	assert.False(t, Is(wrapped, CodeNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "SKU1", appErr.Details["item_code"])
	assert.Equal(t, 1, appErr.Details["available"])
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabase("save bill", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(NewNotFound("item", "SKU9")))
	assert.True(t, IsNotFound(NewNotFound("item", "SKU9")))
	assert.Equal(t, http.StatusPaymentRequired, GetHTTPStatus(NewPaymentDeclined("PAYPAL")))
}
