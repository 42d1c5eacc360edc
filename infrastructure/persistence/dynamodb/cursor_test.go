package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/infrastructure/persistence/abstractions"
)

func TestCursorRoundTrip(t *testing.T) {
	lastKey := abstractions.Item{
		"PK":      &types.AttributeValueMemberS{Value: "POST#p-1"},
		"SK":      &types.AttributeValueMemberS{Value: "META"},
		"GSI1_PK": &types.AttributeValueMemberS{Value: "POST#ALL"},
		"GSI1_SK": &types.AttributeValueMemberS{Value: "2025-06-01T12:00:00.000000Z#p-1"},
	}

	cursor, err := EncodeCursor(lastKey)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	decoded, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, lastKey, decoded)
}

func TestCursorEmpty(t *testing.T) {
	cursor, err := EncodeCursor(nil)
	require.NoError(t, err)
	assert.Empty(t, cursor)

	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestCursorRejectsGarbage(t *testing.T) {
	for _, cursor := range []string{"%%%not-base64%%%", "bm90LWpzb24", "e30"} {
		_, err := DecodeCursor(cursor)
		require.Error(t, err, "cursor %q", cursor)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	}
}

func TestCursorRejectsNonStringKey(t *testing.T) {
	_, err := EncodeCursor(abstractions.Item{
		"PK": &types.AttributeValueMemberN{Value: "42"},
	})
	assert.Error(t, err)
}
