package port

import (
	"net/url"

	"github.com/aelexs/otp-relay/internal/domain"
)

// sendOTPRequest is the body of POST /send-otp.
type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

func (r *sendOTPRequest) bindForm(v url.Values) {
	r.Phone = v.Get("phone")
}

// verifyOTPRequest is the body of POST /verify-otp and POST /verifyotp.
// Field order matters: a missing session is reported before a missing code.
type verifyOTPRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	OTP       string `json:"otp" validate:"required"`
}

func (r *verifyOTPRequest) bindForm(v url.Values) {
	r.SessionID = v.Get("sessionId")
	r.OTP = v.Get("otp")
}

// legacySendOTPRequest is the body of POST /sendotp, which accepts the phone
// under any of three names.
type legacySendOTPRequest struct {
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phoneNumber"`
	Mobile      string `json:"mobile"`
}

func (r *legacySendOTPRequest) bindForm(v url.Values) {
	r.Phone = v.Get("phone")
	r.PhoneNumber = v.Get("phoneNumber")
	r.Mobile = v.Get("mobile")
}

// normalize returns the first non-empty of phone, phoneNumber, mobile.
func (r *legacySendOTPRequest) normalize() sendOTPRequest {
	for _, p := range []string{r.Phone, r.PhoneNumber, r.Mobile} {
		if p != "" {
			return sendOTPRequest{Phone: p}
		}
	}
	return sendOTPRequest{}
}

// otpResponse is the JSON contract for every relay answer.
type otpResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// toResponse converts an Outcome to its wire shape.
func toResponse(o domain.Outcome) otpResponse {
	if !o.IsSuccess() {
		return otpResponse{Success: false, Error: o.FailureMessage()}
	}
	p := o.Payload()
	return otpResponse{
		Success:   true,
		SessionID: p.SessionID,
		Phone:     p.Phone,
		Message:   p.Message,
	}
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
