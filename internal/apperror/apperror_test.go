package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		code   string
		status int
	}{
		{Unauthorized(""), "UNAUTHORIZED", http.StatusUnauthorized},
		{Forbidden(""), "FORBIDDEN", http.StatusForbidden},
		{NotFound(""), "NOT_FOUND", http.StatusNotFound},
		{Conflict(""), "CONFLICT", http.StatusConflict},
		{Validation(""), "VALIDATION_ERROR", http.StatusBadRequest},
		{InvalidHierarchy(""), "INVALID_HIERARCHY", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotEmpty(t, tt.err.Error(), "default message expected")
		})
	}
}

func TestNew_KeepsMessage(t *testing.T) {
	err := NotFound("プロジェクトが見つかりません")
	assert.Equal(t, "プロジェクトが見つかりません", err.Error())
}

func TestKindOf_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Conflict("dup"))

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(wrapped, KindNotFound))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "dup", appErr.Message)
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("db down")

	assert.Equal(t, Kind(0), KindOf(err))
	_, ok := As(err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, Kind(0).HTTPStatus())
	assert.Equal(t, "INTERNAL_ERROR", Kind(0).String())
}
