package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIsMatchesByCode(t *testing.T) {
	err := NewQuotaExhaustedError("roe_deer", "M1", 0)

	assert.True(t, stderrors.Is(err, ErrQuotaExhausted))
	assert.False(t, stderrors.Is(err, ErrQuotaRowNotFound))

	wrapped := fmt.Errorf("record harvest: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrQuotaExhausted))
	assert.True(t, HasCode(wrapped, ErrCodeQuotaExhausted))
}

func TestAsAppErrorUnwraps(t *testing.T) {
	inner := NewAlreadyDrawnError(7)
	appErr, ok := AsAppError(fmt.Errorf("draw: %w", inner))
	require.True(t, ok)
	assert.Equal(t, ErrCodeAlreadyDrawn, appErr.Code)
	assert.Equal(t, int64(7), appErr.Details["lottery_id"])

	_, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
	_, ok = AsAppError(nil)
	assert.False(t, ok)
}

func TestClassification(t *testing.T) {
	assert.True(t, New(ErrCodeSilenceDay, "x").IsDenial())
	assert.True(t, New(ErrCodeDuplicateParticipation, "x").IsDenial())
	assert.False(t, New(ErrCodeDatabaseError, "x").IsDenial())
	assert.True(t, New(ErrCodeDatabaseError, "x").IsInternal())
	assert.True(t, New(ErrCodeQuotaRowNotFound, "x").IsNotFound())
	assert.True(t, NewInvalidRuleShapeError("custom", "bad json").IsValidation())
	assert.True(t, NewForbiddenError("role").IsUnauthorized())
}

func TestErrorString(t *testing.T) {
	err := Wrap(stderrors.New("boom"), ErrCodeDatabaseError, "insert failed")
	assert.Equal(t, "[DATABASE_ERROR] insert failed: boom", err.Error())
	assert.Equal(t, "[NOT_FOUND] zone not found", NewNotFoundError("zone", 3).Error())
	assert.NotEmpty(t, err.Stack)
}
