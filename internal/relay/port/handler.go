package port

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
	"github.com/aelexs/otp-relay/internal/observability"
)

// otpService is a narrow, consumer-defined interface for the relay
// operations the handler requires. The *app.Service satisfies this.
type otpService interface {
	SendOTP(ctx context.Context, rawPhone string) domain.Outcome
	VerifyOTP(ctx context.Context, rawSessionID, rawOTP string) domain.Outcome
}

const (
	// healthMessage is returned by GET /health.
	healthMessage = "OTP relay is running"

	// isoMillis is ISO 8601 with millisecond precision.
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// OTPHandler translates HTTP requests into relay calls and writes the
// {success, ...} JSON contract back.
type OTPHandler struct {
	svc   otpService
	clock domain.Clock
}

// NewOTPHandler creates an OTPHandler backed by svc.
func NewOTPHandler(svc otpService, clock domain.Clock) *OTPHandler {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &OTPHandler{svc: svc, clock: clock}
}

// SendOTP handles POST /send-otp.
func (h *OTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.sendOTP(w, r, req)
}

// LegacySendOTP handles POST /sendotp. The phone may arrive as phone,
// phoneNumber or mobile.
func (h *OTPHandler) LegacySendOTP(w http.ResponseWriter, r *http.Request) {
	var legacy legacySendOTPRequest
	if err := decodeBody(r, &legacy); err != nil {
		writeError(w, r, err)
		return
	}
	observability.LoggerFromContext(r.Context()).InfoContext(r.Context(), "http.legacy_endpoint", "path", r.URL.Path)
	h.sendOTP(w, r, legacy.normalize())
}

func (h *OTPHandler) sendOTP(w http.ResponseWriter, r *http.Request, req sendOTPRequest) {
	if msg, missing := missingField(req); missing {
		writeFailure(w, msg)
		return
	}
	writeOutcome(w, h.svc.SendOTP(r.Context(), req.Phone))
}

// VerifyOTP handles POST /verify-otp.
func (h *OTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg, missing := missingField(req); missing {
		writeFailure(w, msg)
		return
	}
	writeOutcome(w, h.svc.VerifyOTP(r.Context(), req.SessionID, req.OTP))
}

// LegacyVerifyOTP handles POST /verifyotp, which reports both missing fields
// with one message.
func (h *OTPHandler) LegacyVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	observability.LoggerFromContext(r.Context()).InfoContext(r.Context(), "http.legacy_endpoint", "path", r.URL.Path)
	if _, missing := missingField(req); missing {
		writeFailure(w, errmap.MsgSessionAndOTPReq)
		return
	}
	writeOutcome(w, h.svc.VerifyOTP(r.Context(), req.SessionID, req.OTP))
}

// Health handles GET /health.
func (h *OTPHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   healthMessage,
		Timestamp: h.clock.Now().UTC().Format(isoMillis),
	})
}

// NotFound answers unknown routes with the requested path in the message.
func (h *OTPHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, domain.ErrNotFound)
}

// MethodNotAllowed answers a known path with the wrong method like an unknown route.
func (h *OTPHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeRouteError(w, r, domain.ErrMethodNotAllowed)
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := errmap.ToHTTPError(err)
	writeJSON(w, httpErr.StatusCode, otpResponse{
		Success: false,
		Error:   fmt.Sprintf("%s: %s", httpErr.Message, r.URL.RequestURI()),
	})
}

func writeOutcome(w http.ResponseWriter, o domain.Outcome) {
	writeJSON(w, errmap.StatusForOutcome(o), toResponse(o))
}

func writeFailure(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, otpResponse{Success: false, Error: msg})
}

// writeError maps a boundary error (unreadable body, oversize) to its status.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := errmap.ToHTTPError(err)
	observability.LoggerFromContext(r.Context()).InfoContext(r.Context(), "http.bad_request",
		"status", httpErr.StatusCode, "error", err)
	writeJSON(w, httpErr.StatusCode, otpResponse{Success: false, Error: httpErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
