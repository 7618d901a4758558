package kernel_test

import (
	"testing"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"mobile with mask", "(11) 98765-4321", "5511987654321"},
		{"landline with mask", "(21) 3456-7890", "552134567890"},
		{"trunk zero prefix", "011 98765 4321", "5511987654321"},
		{"already qualified", "55 11 98765-4321", "5511987654321"},
		{"international with plus", "+1 (415) 555-0100", "14155550100"},
		{"qualified with plus", "+55 11 98765-4321", "5511987654321"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			phone, err := kernel.NewPhoneNumber(tc.raw)

			require.NoError(t, err)
			require.NoError(t, phone.Validate())
			assert.Equal(t, tc.expected, phone.Digits())
			assert.Equal(t, "+"+tc.expected, phone.String())
		})
	}
}

func TestNewPhoneNumber_Unusable(t *testing.T) {
	t.Run("should require a value", func(t *testing.T) {
		_, err := kernel.NewPhoneNumber("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject numbers without enough digits", func(t *testing.T) {
		_, err := kernel.NewPhoneNumber("98765-4321")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject text without digits", func(t *testing.T) {
		_, err := kernel.NewPhoneNumber("não informado")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject overlong international numbers", func(t *testing.T) {
		_, err := kernel.NewPhoneNumber("+1234567890123456")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestPhoneNumber_ZeroValue(t *testing.T) {
	var phone kernel.PhoneNumber

	assert.Equal(t, kernel.ErrPhoneNumberIsNotConstructed, phone.Validate())
	assert.Empty(t, phone.String())
}

func TestPhoneNumber_IsEqual(t *testing.T) {
	a, _ := kernel.NewPhoneNumber("(11) 98765-4321")
	b, _ := kernel.NewPhoneNumber("+55 11 987654321")
	c, _ := kernel.NewPhoneNumber("(11) 91234-5678")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}
