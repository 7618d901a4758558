package ports

import "farmacia/internal/core/domain/model/settings"

// SettingsSource exposes the current operating mode and store profile. Values are read on
// every transition, so a source may change them at runtime.
type SettingsSource interface {
	Current() settings.Settings
}

// StaticSettings is a SettingsSource that never changes.
type StaticSettings settings.Settings

func (s StaticSettings) Current() settings.Settings { return settings.Settings(s) }
