package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"email", "productId"},
		Properties: map[string]Property{
			"email":     {Type: "string", MinLength: IntPtr(3)},
			"productId": {Type: "integer", Minimum: Float64Ptr(1)},
			"label":     {Type: "string"},
		},
		AdditionalProperties: false,
	}
}

func TestValidateInput_Valid(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{
		"email":     "customer@example.com",
		"productId": 42,
	}, testSchema())

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInput_MissingRequired(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{
		"email": "customer@example.com",
	}, testSchema())

	require.NoError(t, err)
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "productId")
}

func TestValidateInput_BelowMinimum(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{
		"email":     "customer@example.com",
		"productId": 0,
	}, testSchema())

	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateInput_AdditionalPropertyRejected(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{
		"email":      "customer@example.com",
		"productId":  42,
		"unexpected": true,
	}, testSchema())

	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateInput_WrongType(t *testing.T) {
	result, err := ValidateInput(map[string]interface{}{
		"email":     "customer@example.com",
		"productId": "forty-two",
	}, testSchema())

	require.NoError(t, err)
	assert.False(t, result.Valid)
}
