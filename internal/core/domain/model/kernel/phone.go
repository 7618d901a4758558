package kernel

import (
	"errors"
	"strings"

	"farmacia/internal/pkg/errs"
	"farmacia/internal/pkg/guard"
)

const (
	// DefaultCountryCode qualifies national numbers that were typed without one.
	DefaultCountryCode = "55"

	nationalMinDigits      = 10
	nationalMaxDigits      = 11
	internationalMinDigits = 8
	internationalMaxDigits = 15
)

var ErrPhoneNumberIsNotConstructed = errors.New("PhoneNumber must be created via NewPhoneNumber constructor")

// PhoneNumber is a contact number in channel addressing form: digits only, prefixed with the
// country code.
//
// Input rules:
//   - every non-digit is dropped ("(11) 98765-4321" -> "11987654321")
//   - a leading "+" means the number already carries its country code
//   - without "+", trunk zeros are stripped and 10 or 11 digit national numbers get
//     DefaultCountryCode; 12 or 13 digit numbers starting with it are kept as they are
type PhoneNumber struct {
	digits string
	guard  guard.ConstructorGuard
}

// NewPhoneNumber normalizes raw into a PhoneNumber or reports why it is unusable.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PhoneNumber{}, errs.NewValueIsRequiredError("phone number")
	}

	digits := onlyDigits(trimmed)
	if strings.HasPrefix(trimmed, "+") {
		if len(digits) < internationalMinDigits || len(digits) > internationalMaxDigits {
			return PhoneNumber{}, errs.NewValueIsOutOfRangeError(
				"phone digits", len(digits), internationalMinDigits, internationalMaxDigits)
		}
		return PhoneNumber{digits: digits, guard: guard.NewConstructorGuard()}, nil
	}

	digits = strings.TrimLeft(digits, "0")
	switch {
	case len(digits) >= nationalMinDigits && len(digits) <= nationalMaxDigits:
		digits = DefaultCountryCode + digits
	case strings.HasPrefix(digits, DefaultCountryCode) &&
		len(digits) >= nationalMinDigits+len(DefaultCountryCode) &&
		len(digits) <= nationalMaxDigits+len(DefaultCountryCode):
	default:
		return PhoneNumber{}, errs.NewValueIsOutOfRangeError(
			"phone digits", len(digits), nationalMinDigits, nationalMaxDigits+len(DefaultCountryCode))
	}

	return PhoneNumber{digits: digits, guard: guard.NewConstructorGuard()}, nil
}

// Digits returns the normalized, country-code-qualified digits.
func (p PhoneNumber) Digits() string {
	return p.digits
}

// String returns the number in "+<digits>" form.
func (p PhoneNumber) String() string {
	if p.digits == "" {
		return ""
	}
	return "+" + p.digits
}

// IsEqual compares normalized digits.
func (p PhoneNumber) IsEqual(other PhoneNumber) bool {
	return p.digits == other.digits
}

// Validate rejects zero values.
func (p PhoneNumber) Validate() error {
	return p.guard.Validate(ErrPhoneNumberIsNotConstructed)
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
