package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekhekspert/lead-capture/internal/entity"
	"github.com/tekhekspert/lead-capture/internal/usecase"
)

func TestValidateCaptureLeadInput(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := usecase.ValidateCaptureLeadInput(usecase.CaptureLeadInput{
			Phone:  testPhone,
			Source: entity.SourceModal,
		})
		assert.Empty(t, errs)
	})

	t.Run("Empty input", func(t *testing.T) {
		errs := usecase.ValidateCaptureLeadInput(usecase.CaptureLeadInput{})
		require.Len(t, errs, 2)
		assert.Equal(t, "phone", errs[0].Field)
		assert.Equal(t, usecase.MsgInvalidPhone, errs[0].Message)
		assert.Equal(t, "source", errs[1].Field)
		assert.Equal(t, "is required", errs[1].Message)
	})

	t.Run("Partial phone", func(t *testing.T) {
		errs := usecase.ValidateCaptureLeadInput(usecase.CaptureLeadInput{
			Phone:  "+7 (999) 123-45",
			Source: entity.SourceModal,
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "phone", errs[0].Field)
		assert.Equal(t, usecase.MsgInvalidPhone, errs[0].Message)
	})

	t.Run("Source too long", func(t *testing.T) {
		errs := usecase.ValidateCaptureLeadInput(usecase.CaptureLeadInput{
			Phone:  testPhone,
			Source: strings.Repeat("я", 121),
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "source", errs[0].Field)
		assert.Equal(t, "must not exceed 120 characters", errs[0].Message)
		assert.Equal(t, "source: must not exceed 120 characters", errs[0].Error())
	})
}
