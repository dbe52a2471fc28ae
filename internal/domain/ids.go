// Package domain contains pure business logic and types.
// No external dependencies allowed - this is the innermost ring of the relay.
package domain

import (
	"fmt"
	"regexp"
)

// otpPattern matches exactly six ASCII digits. No stripping is applied:
// "12-3456" and " 123456" are rejected.
var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// SessionID is an opaque handle issued by the upstream provider when an OTP
// is sent. No internal structure is assumed.
type SessionID struct {
	value string
}

// NewSessionID creates a SessionID, requiring only that raw is non-empty.
func NewSessionID(raw string) (SessionID, error) {
	if raw == "" {
		return SessionID{}, ErrSessionIDRequired
	}
	return SessionID{value: raw}, nil
}

// MustSessionID creates a SessionID, panicking on invalid input. Use only in tests.
func MustSessionID(raw string) SessionID {
	id, err := NewSessionID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (id SessionID) String() string { return id.value }
func (id SessionID) IsZero() bool   { return id.value == "" }

// OTPCode is a six-digit one-time code entered by the user.
type OTPCode struct {
	value string
}

// NewOTPCode validates raw against ^[0-9]{6}$.
func NewOTPCode(raw string) (OTPCode, error) {
	if !otpPattern.MatchString(raw) {
		return OTPCode{}, fmt.Errorf("OTP must be exactly 6 digits: %w", ErrInvalidOTPFormat)
	}
	return OTPCode{value: raw}, nil
}

func (c OTPCode) String() string { return c.value }
func (c OTPCode) IsZero() bool   { return c.value == "" }
