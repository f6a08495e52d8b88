package keyspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Choices(t *testing.T) {
	tests := []struct {
		name    string
		choices []string
		want    string
	}{
		{"one choice", []string{"a"}, "Arguments can only be: a."},
		{"two choices", []string{"a", "b"}, "Arguments can only be: a or b."},
		{"three choices", []string{"a", "b", "c"}, "Arguments can only be: a, b, or c."},
		{"four choices", []string{"a", "b", "c", "d"}, "Arguments can only be: a, b, c, or d."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewChoicesError(tt.choices...)
			assert.Equal(t, tt.want, err.Message())
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestValidationError_FreeForm(t *testing.T) {
	err := NewValidationError("This is it.")
	assert.Equal(t, "This is it.", err.Message())
	assert.Equal(t, "This is it.", err.Error())
}

func TestValidationError_IsSentinel(t *testing.T) {
	assert.True(t, errors.Is(NewValidationError("nope"), ErrValidation))
	assert.True(t, errors.Is(NewChoicesError("a", "b"), ErrValidation))
	assert.False(t, errors.Is(ErrNotFound, ErrValidation))
}
