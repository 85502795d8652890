package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func searchSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
			"limit": map[string]any{"type": "integer"},
		},
		"required": []string{"query"},
	}
}

func TestValidateParameters_Valid(t *testing.T) {
	err := ValidateParameters(map[string]any{"query": "go", "limit": 5}, searchSchema())
	assert.NoError(t, err)
}

func TestValidateParameters_MissingRequired(t *testing.T) {
	err := ValidateParameters(map[string]any{"limit": 5}, searchSchema())
	assert.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
}

func TestValidateParameters_WrongType(t *testing.T) {
	err := ValidateParameters(map[string]any{"query": 42}, searchSchema())
	assert.Error(t, err)
}

func TestValidateParameters_JSONNumbersAcceptedAsInteger(t *testing.T) {
	// JSON unmarshaling produces float64 for all numbers.
	err := ValidateParameters(map[string]any{"query": "go", "limit": float64(5)}, searchSchema())
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{"query": "go", "limit": 5.5}, searchSchema())
	assert.Error(t, err)
}

func TestValidateParameters_RequiredAsAnySlice(t *testing.T) {
	schema := map[string]any{
		"required": []any{"query"},
	}
	assert.Error(t, ValidateParameters(map[string]any{}, schema))
	assert.NoError(t, ValidateParameters(map[string]any{"query": "x"}, schema))
}

func TestValidateParameters_ExtraFieldsAllowed(t *testing.T) {
	err := ValidateParameters(map[string]any{"query": "go", "unknown": true}, searchSchema())
	assert.NoError(t, err)
}
