package domain

import (
	"fmt"
	"regexp"
)

// PhoneDigits is the number of national digits a phone number must reduce to.
const PhoneDigits = 10

var nonDigit = regexp.MustCompile(`\D`)

// PhoneNumber is a value object holding exactly ten national digits.
// Always valid in memory; construct with NormalizePhone.
type PhoneNumber struct {
	digits string
}

// NormalizePhone strips every non-digit character from raw and succeeds iff
// exactly ten digits remain. "98-7654-3210" and "(987) 654 3210" both yield
// "9876543210".
func NormalizePhone(raw string) (PhoneNumber, error) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) != PhoneDigits {
		return PhoneNumber{}, fmt.Errorf("phone number has %d digits, want %d: %w",
			len(digits), PhoneDigits, ErrInvalidPhoneNumber)
	}
	return PhoneNumber{digits: digits}, nil
}

// MustPhoneNumber creates a PhoneNumber, panicking on invalid input. Use only in tests.
func MustPhoneNumber(raw string) PhoneNumber {
	p, err := NormalizePhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// WithPrefix returns the dialable form, e.g. "+919876543210" for prefix "+91".
func (p PhoneNumber) WithPrefix(prefix string) string { return prefix + p.digits }

// Masked returns the number with all but the last four digits hidden.
func (p PhoneNumber) Masked() string { return MaskPhone(p.digits) }

func (p PhoneNumber) String() string { return p.digits }
func (p PhoneNumber) IsZero() bool   { return p.digits == "" }

// MaskPhone returns a masked representation of a phone string showing only
// the last 4 characters. Inputs of 4 characters or fewer are fully masked.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "***" + phone[len(phone)-4:]
}
