package port

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/aelexs/otp-relay/internal/domain"
	"github.com/aelexs/otp-relay/internal/errmap"
)

var validate = validator.New()

// formBinder is implemented by request DTOs that also accept form bodies.
type formBinder interface {
	bindForm(v url.Values)
}

// decodeBody fills dst from a JSON or form-encoded body. An empty body leaves
// dst zero so the required-field checks report what is missing.
func decodeBody(r *http.Request, dst formBinder) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return bodyError(err)
		}
		dst.bindForm(r.PostForm)
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: limit %d bytes", domain.ErrPayloadTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
}

// requiredMessages maps a struct field to the message shown when it is missing.
var requiredMessages = map[string]string{
	"Phone":     errmap.MsgPhoneRequired,
	"SessionID": errmap.MsgSessionRequired,
	"OTP":       errmap.MsgOTPRequired,
}

// missingField runs the validate tags on req and returns the caller message
// for the first missing field. ok is false when every field is present.
func missingField(req any) (msg string, ok bool) {
	err := validate.Struct(req)
	if err == nil {
		return "", false
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if m, found := requiredMessages[verrs[0].StructField()]; found {
			return m, true
		}
	}
	return errmap.MsgInvalidRequestBody, true
}
