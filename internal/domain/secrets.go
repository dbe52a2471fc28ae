package domain

import "log/slog"

// SecretString wraps sensitive string values such as the provider API key.
// Implements slog.LogValuer to prevent accidental logging.
// Implements fmt.Stringer to return redacted value.
type SecretString string

// String returns a redacted placeholder, never the actual value.
// This prevents accidental exposure via fmt.Printf, string concatenation, etc.
func (s SecretString) String() string {
	return "[REDACTED]"
}

// LogValue implements slog.LogValuer to ensure secrets are never logged in plaintext.
// Even if ReplaceAttr is misconfigured or bypassed, this interface ensures protection.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue("[REDACTED]")
}

// Expose returns the actual secret value.
// Use sparingly - only when the secret must be used (e.g. building the provider URL).
func (s SecretString) Expose() string {
	return string(s)
}

// IsEmpty returns true if the secret is empty.
func (s SecretString) IsEmpty() bool {
	return len(s) == 0
}

var _ slog.LogValuer = SecretString("")
