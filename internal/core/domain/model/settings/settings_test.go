package settings_test

import (
	"testing"

	"farmacia/internal/core/domain/model/settings"
	"farmacia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperatingMode(t *testing.T) {
	testCases := map[string]settings.OperatingMode{
		"platform-managed": settings.PlatformManaged,
		"manual-notify":    settings.ManualNotify,
		" MANUAL_NOTIFY ":  settings.ManualNotify,
		"Platform_Managed": settings.PlatformManaged,
	}

	for raw, want := range testCases {
		t.Run(raw, func(t *testing.T) {
			mode, err := settings.ParseOperatingMode(raw)

			require.NoError(t, err)
			assert.Equal(t, want, mode)
			require.NoError(t, mode.Validate())
		})
	}

	t.Run("should reject unknown modes", func(t *testing.T) {
		mode, err := settings.ParseOperatingMode("whatsapp")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, settings.UnknownMode, mode)
		assert.Error(t, mode.Validate())
		assert.Equal(t, "unknown", mode.String())
	})
}

func TestStoreProfile_DefaultContact(t *testing.T) {
	phone, ok := settings.StoreProfile{DefaultContactPhone: "(11) 3333-4444"}.DefaultContact()
	assert.True(t, ok)
	assert.Equal(t, "551133334444", phone.Digits())

	_, ok = settings.StoreProfile{}.DefaultContact()
	assert.False(t, ok)
}

func TestSettings_NotifiesManually(t *testing.T) {
	assert.True(t, settings.Settings{Mode: settings.ManualNotify}.NotifiesManually())
	assert.False(t, settings.Settings{Mode: settings.PlatformManaged}.NotifiesManually())
}
