package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "nil",
			input:    nil,
			expected: "",
		},
		{
			name:     "string",
			input:    "Alice",
			expected: "Alice",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "true",
			input:    true,
			expected: "true",
		},
		{
			name:     "false",
			input:    false,
			expected: "false",
		},
		{
			name:     "int64",
			input:    int64(30),
			expected: "30",
		},
		{
			name:     "negative int",
			input:    -7,
			expected: "-7",
		},
		{
			name:     "int32",
			input:    int32(12),
			expected: "12",
		},
		{
			name:     "uint64",
			input:    uint64(18446744073709551615),
			expected: "18446744073709551615",
		},
		{
			name:     "float64",
			input:    1.5,
			expected: "1.5",
		},
		{
			name:     "float64 integral",
			input:    float64(30),
			expected: "30",
		},
		{
			name:     "float32",
			input:    float32(0.25),
			expected: "0.25",
		},
		{
			name:     "json number",
			input:    json.Number("12.50"),
			expected: "12.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToString(tt.input))
		})
	}
}

func TestToString_Nested(t *testing.T) {
	t.Run("map becomes JSON", func(t *testing.T) {
		v := map[string]interface{}{"b": int64(2), "a": "x"}
		assert.Equal(t, `{"a":"x","b":2}`, ToString(v))
	})

	t.Run("slice becomes JSON", func(t *testing.T) {
		v := []interface{}{int64(1), "two", nil}
		assert.Equal(t, `[1,"two",null]`, ToString(v))
	})
}

func TestToString_Fallback(t *testing.T) {
	assert.Equal(t, "{42}", ToString(struct{ Value int }{Value: 42}))
}
