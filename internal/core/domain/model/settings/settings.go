// Package settings holds the store-wide values the order lifecycle reads but never writes:
// how customer notifications are delivered and how the store presents itself in them.
package settings

import (
	"fmt"
	"strings"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/pkg/errs"
)

// OperatingMode tells whether customer notifications are sent by the platform or relayed by
// staff through an externally composed message.
type OperatingMode int

const (
	// UnknownMode is the zero value and never valid.
	UnknownMode OperatingMode = iota

	// PlatformManaged means the platform notifies customers itself.
	PlatformManaged

	// ManualNotify means staff relay notifications through a chat hand-off link.
	ManualNotify
)

//nolint:exhaustive // UnknownMode has no code
var modeCodes = map[OperatingMode]string{
	PlatformManaged: "platform-managed",
	ManualNotify:    "manual-notify",
}

// ParseOperatingMode maps "platform-managed" or "manual-notify" to its mode.
// Underscores are accepted in place of dashes and case is ignored.
func ParseOperatingMode(raw string) (OperatingMode, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	for mode, code := range modeCodes {
		if code == normalized {
			return mode, nil
		}
	}
	return UnknownMode, errs.NewValueIsInvalidErrorWithCause(
		"operating mode", fmt.Errorf("%q is not one of platform-managed, manual-notify", raw))
}

func (m OperatingMode) String() string {
	if code, ok := modeCodes[m]; ok {
		return code
	}
	return "unknown"
}

func (m OperatingMode) Validate() error {
	if _, ok := modeCodes[m]; !ok {
		return errs.NewValueIsInvalidError("operating mode")
	}
	return nil
}

// StoreProfile is the store identity used in customer messages.
type StoreProfile struct {
	Name string

	// DefaultContactPhone is the fallback destination when an order has no usable phone.
	DefaultContactPhone string
}

// DefaultContact returns DefaultContactPhone normalized, if it is usable.
func (p StoreProfile) DefaultContact() (kernel.PhoneNumber, bool) {
	phone, err := kernel.NewPhoneNumber(p.DefaultContactPhone)
	if err != nil {
		return kernel.PhoneNumber{}, false
	}
	return phone, true
}

// Settings is the read-only operating configuration consulted on every transition.
type Settings struct {
	Mode  OperatingMode
	Store StoreProfile
}

// NotifiesManually reports whether staff must relay status updates themselves.
func (s Settings) NotifiesManually() bool {
	return s.Mode == ManualNotify
}
