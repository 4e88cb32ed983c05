package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideStatus(t *testing.T) {
	ok := ValidationResult{}
	failed := ValidationResult{Paths: []string{"nimi", "alueet"}}

	t.Run("valid draft goes public", func(t *testing.T) {
		status, err := DecideStatus(StatusDraft, ok, "HAI24-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPublic, status)
	})

	t.Run("invalid draft stays draft", func(t *testing.T) {
		status, err := DecideStatus(StatusDraft, failed, "HAI24-1")
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, status)
	})

	t.Run("valid public stays public", func(t *testing.T) {
		status, err := DecideStatus(StatusPublic, ok, "HAI24-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPublic, status)
	})

	t.Run("invalid public is rejected", func(t *testing.T) {
		_, err := DecideStatus(StatusPublic, failed, "HAI24-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"nimi", "alueet"}, verr.Paths)
	})

	t.Run("ended hanke cannot be saved", func(t *testing.T) {
		_, err := DecideStatus(StatusEnded, ok, "HAI24-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
		assert.Contains(t, err.Error(), "ENDED")
	})
}
