package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/moonbase/moonrobot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommands(t *testing.T) {
	assert.NoError(t, domain.ValidateCommands("FLFFFRFLB", 0))
	assert.ErrorIs(t, domain.ValidateCommands("", 0), domain.ErrEmptyCommands)
	assert.ErrorIs(t, domain.ValidateCommands(strings.Repeat("F", 11), 10), domain.ErrCommandsTooLong)

	err := domain.ValidateCommands("FXYZ", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCommandCharacter)

	var invalid *domain.InvalidCommandError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Index)
	assert.Equal(t, 'X', invalid.Char)
	assert.True(t, domain.IsValidation(err))
}

func TestValidateCommands_MultiByteCharacter(t *testing.T) {
	var invalid *domain.InvalidCommandError
	require.True(t, errors.As(domain.ValidateCommands("FÉ", 0), &invalid))
	assert.Equal(t, 1, invalid.Index)
	assert.Equal(t, 'É', invalid.Char)

	require.True(t, errors.As(domain.ValidateCommands("FLÉB", 0), &invalid))
	assert.Equal(t, 2, invalid.Index)
	assert.Contains(t, invalid.Error(), `'É'`)
}

func TestValidateCommands_LowercaseRejected(t *testing.T) {
	assert.ErrorIs(t, domain.ValidateCommands("f", 0), domain.ErrInvalidCommandCharacter)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnCollision: func(_ context.Context, _ *domain.BatchEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnCollision: func(_ context.Context, _ *domain.BatchEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnCollision(context.Background(), &domain.BatchEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnBatchStart)
}
