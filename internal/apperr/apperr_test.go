package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errMissing := NotFound("thing_not_found", "thing not found")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", errMissing, KindNotFound},
		{"wrapped", fmt.Errorf("load thing: %w", errMissing), KindNotFound},
		{"conflict", Conflict("taken", "slot taken"), KindConflict},
		{"invalid", Invalid("bad", "bad input"), KindInvalid},
		{"plain", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentitySurvivesWrapping(t *testing.T) {
	errTaken := Conflict("slot_taken", "slot already booked")
	wrapped := fmt.Errorf("%w: 09:15", errTaken)

	assert.True(t, errors.Is(wrapped, errTaken))
	assert.Equal(t, "slot_taken", CodeOf(wrapped))
	assert.Equal(t, "slot already booked: 09:15", wrapped.Error())
}

func TestCodeOfInternal(t *testing.T) {
	assert.Equal(t, "internal_error", CodeOf(errors.New("db down")))
}

func TestErrorWithCause(t *testing.T) {
	sentinel := Conflict("dup", "conflict")
	cause := errors.New("duplicate key")
	err := sentinel.WithCause(cause)

	assert.Equal(t, "conflict: duplicate key", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, sentinel)
	assert.Nil(t, sentinel.Cause)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "conflict", KindConflict.String())

	assert.NotErrorIs(t, err, Conflict("other", "conflict"))
	assert.NotErrorIs(t, err, Invalid("dup", "conflict"))
}
