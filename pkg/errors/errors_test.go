package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest},
		{"not found", NewNotFoundError("post"), http.StatusNotFound},
		{"conflict", NewConflictError("taken"), http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("no session"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("not yours"), http.StatusForbidden},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError},
		{"unavailable", NewUnavailableError("dynamodb"), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("wire fault")
	err := NewDatabaseError("query", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrorTypeDatabase, appErr.Type)

	t.Run("through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading feed: %w", err)
		assert.True(t, IsType(wrapped, ErrorTypeDatabase))
		assert.NotNil(t, GetAppError(wrapped))
	})

	t.Run("plain errors are not app errors", func(t *testing.T) {
		assert.Nil(t, GetAppError(errors.New("plain")))
		assert.False(t, IsNotFound(errors.New("plain")))
	})
}

func TestPartialErrors(t *testing.T) {
	cause := errors.New("batch rejected")

	write := NewPartialWriteError("CreateUser", 1, 1, cause)
	assert.Equal(t, ErrorTypePartialWrite, write.Type)
	assert.True(t, errors.Is(write, cause))

	del := NewPartialDeleteError("DeletePostTree", 25, 6, cause)
	assert.Equal(t, ErrorTypePartialDelete, del.Type)
	assert.Equal(t, 25, del.Details["deleted"])
	assert.Equal(t, 6, del.Details["remaining"])
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("user")))
	assert.True(t, IsConflict(NewConflictError("taken")))
	assert.True(t, IsUnavailable(NewUnavailableError("dynamodb")))
	assert.True(t, IsIntegrity(NewIntegrityError("dup profiles")))
	assert.False(t, IsNotFound(NewConflictError("taken")))
}
