package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,min=6,max=72"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		err := ValidateStruct(signupForm{Username: "alice.b-1", Password: "hunter22"})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := ValidateStruct(signupForm{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "username is required")
		assert.Contains(t, err.Error(), "password is required")
	})

	t.Run("short password", func(t *testing.T) {
		err := ValidateStruct(signupForm{Username: "alice", Password: "tiny"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 6")
	})
}

func TestUsernameValidator(t *testing.T) {
	valid := []string{"abc", "alice", "a.b-c_d", "ABC123", strings.Repeat("a", 20)}
	for _, username := range valid {
		assert.NoError(t, ValidateStruct(signupForm{Username: username, Password: "hunter22"}), username)
	}

	invalid := []string{"ab", strings.Repeat("a", 21), "has space", "emoji😀", "semi;colon", "a!b"}
	for _, username := range invalid {
		assert.Error(t, ValidateStruct(signupForm{Username: username, Password: "hunter22"}), username)
	}
}
