package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/infrastructure/persistence/abstractions"
)

// Cursors are opaque continuation tokens wrapping a query's last evaluated
// key. Every key attribute in the table and its indexes is a string, so the
// token is base64url over a flat JSON object. Clients must treat it as
// opaque; any tampering fails decoding on the next request.

// EncodeCursor converts a last evaluated key into a continuation token.
// A nil key encodes to the empty string, meaning no further pages.
func EncodeCursor(lastKey abstractions.Item) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}

	flat := make(map[string]string, len(lastKey))
	for name, value := range lastKey {
		s, ok := value.(*types.AttributeValueMemberS)
		if !ok {
			return "", apperrors.NewInternalError("cursor key attribute is not a string").
				WithDetails(map[string]interface{}{"attribute": name})
		}
		flat[name] = s.Value
	}

	raw, err := json.Marshal(flat)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode cursor").WithCause(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor converts a continuation token back into an exclusive start
// key. The empty string decodes to nil, meaning start from the beginning.
func DecodeCursor(cursor string) (abstractions.Item, error) {
	if cursor == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid cursor").WithCause(err)
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, apperrors.NewValidationError("invalid cursor").WithCause(err)
	}
	if len(flat) == 0 {
		return nil, apperrors.NewValidationError("invalid cursor")
	}

	key := make(abstractions.Item, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
