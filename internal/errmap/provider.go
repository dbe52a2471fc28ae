package errmap

import "strings"

// messageRule maps any of its lower-case needles, found as a substring of the
// lower-cased provider detail, to a user-facing message.
type messageRule struct {
	needles []string
	message string
}

func (r messageRule) matches(lowered string) bool {
	for _, n := range r.needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}

// Send-path messages.
const (
	MsgSendInvalidNumber = "Invalid phone number format. Please check and try again."
	MsgSendDND           = "Your number is on DND. Please disable DND or try with a different number."
	MsgSendRateLimited   = "Too many requests. Please wait a few minutes before trying again."
	MsgSendUnavailable   = "Service temporarily unavailable. Please try again later."
	MsgSendCarrier       = "Network issue with your carrier. Please try again in a few minutes."
	MsgSendBlocked       = "This number cannot receive OTP messages. Please contact support."
)

// Verify-path messages.
const (
	MsgVerifyInvalidOTP      = "Invalid OTP code. Please check the code and try again."
	MsgVerifyExpired         = "OTP code has expired. Please request a new code."
	MsgVerifyAlreadyUsed     = "This OTP code has already been used. Please request a new code."
	MsgVerifySessionNotFound = "Verification session not found. Please request a new OTP."
	MsgVerifyFailed          = "Verification failed. Please try again or request a new code."
)

// sendRules classify provider text on the send path. Order matters: a detail
// mentioning both an invalid number and a block is reported as invalid.
// Balance problems are reported as unavailability so billing state stays private.
var sendRules = []messageRule{
	{[]string{"invalid number", "invalid mobile"}, MsgSendInvalidNumber},
	{[]string{"dnd", "do not disturb"}, MsgSendDND},
	{[]string{"rate limit", "too many requests"}, MsgSendRateLimited},
	{[]string{"insufficient balance", "low balance"}, MsgSendUnavailable},
	{[]string{"operator issue", "network error"}, MsgSendCarrier},
	{[]string{"blocked", "blacklist"}, MsgSendBlocked},
}

// verifyRules classify provider text on the verify path.
var verifyRules = []messageRule{
	{[]string{"invalid otp", "wrong otp", "incorrect"}, MsgVerifyInvalidOTP},
	{[]string{"expired", "timeout"}, MsgVerifyExpired},
	{[]string{"already verified", "already used"}, MsgVerifyAlreadyUsed},
	{[]string{"session not found", "invalid session"}, MsgVerifySessionNotFound},
}

// ClassifySendError maps provider detail text from a send call to a user
// message. Unrecognized text is passed through unchanged; empty text yields
// MsgSendFailed.
func ClassifySendError(detail string) string {
	if detail == "" {
		return MsgSendFailed
	}
	if msg, ok := classify(sendRules, detail); ok {
		return msg
	}
	return detail
}

// ClassifyVerifyError maps provider detail text from a verify call to a user
// message. Unlike the send path, unrecognized or empty text is replaced with
// MsgVerifyFailed and the provider wording is dropped.
func ClassifyVerifyError(detail string) string {
	if msg, ok := classify(verifyRules, detail); ok {
		return msg
	}
	return MsgVerifyFailed
}

func classify(rules []messageRule, detail string) (string, bool) {
	lowered := strings.ToLower(detail)
	for _, r := range rules {
		if r.matches(lowered) {
			return r.message, true
		}
	}
	return "", false
}
