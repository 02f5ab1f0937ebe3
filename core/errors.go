package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TrackingErrorBadInput    = "TRACKING_BAD_INPUT"
	TrackingErrorRateLimited = "TRACKING_RATE_LIMITED"
	TrackingErrorUnreachable = "TRACKING_UNREACHABLE"
	TrackingErrorNotGlobal   = "TRACKING_NOT_GLOBAL"
	TrackingErrorTransport   = "TRACKING_TRANSPORT_FAILURE"
	TrackingErrorProtocol    = "TRACKING_PROTOCOL_FAILURE"
	TrackingErrorRemote      = "TRACKING_REMOTE_FAILURE"
	TrackingErrorInternal    = "TRACKING_INTERNAL_ERROR"
)

// StatusTransportFailure is the sentinel status for operations that never
// obtained a response from the remote API.
const StatusTransportFailure = 0

// APIError is the normalized failure shape of every tracking operation:
// a status code (HTTP status, or StatusTransportFailure), a best-effort
// message, and optional structured details extracted from the body.
type APIError struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status == StatusTransportFailure {
		return fmt.Sprintf("tracking: transport failure: %s", e.Message)
	}
	return fmt.Sprintf("tracking: status %d: %s", e.Status, e.Message)
}

// DecodeAPIError builds an APIError from a non-success response. The body
// is free-form: a JSON object contributes its message field and optional
// details object, anything else becomes the message verbatim.
func DecodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	var shaped struct {
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil && strings.TrimSpace(shaped.Message) != "" {
		apiErr.Message = strings.TrimSpace(shaped.Message)
		apiErr.Details = shaped.Details
		return apiErr
	}

	apiErr.Message = raw
	return apiErr
}

// AsAPIError extracts the normalized error shape from an operation error.
func AsAPIError(err error) (*APIError, bool) {
	if err == nil {
		return nil, false
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr, true
	}
	return nil, false
}

// Envelope maps the API error into a go-errors envelope for logging and
// host-level error handling.
func (e *APIError) Envelope() *goerrors.Error {
	if e == nil {
		return nil
	}
	return goerrors.New(e.Message, categoryForStatus(e.Status)).
		WithCode(envelopeCode(e.Status)).
		WithTextCode(textCodeForStatus(e.Status))
}

func categoryForStatus(status int) goerrors.Category {
	switch {
	case status == StatusTransportFailure:
		return goerrors.CategoryExternal
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return goerrors.CategoryAuth
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case status >= 400 && status < 500:
		return goerrors.CategoryBadInput
	default:
		return goerrors.CategoryExternal
	}
}

func textCodeForStatus(status int) string {
	switch {
	case status == StatusTransportFailure:
		return TrackingErrorTransport
	case status == http.StatusUnauthorized:
		return TrackingErrorNotGlobal
	case status == http.StatusServiceUnavailable:
		return TrackingErrorUnreachable
	case status == http.StatusTooManyRequests:
		return TrackingErrorRateLimited
	case status >= 400 && status < 500:
		return TrackingErrorBadInput
	default:
		return TrackingErrorRemote
	}
}

func envelopeCode(status int) int {
	if status == StatusTransportFailure {
		return http.StatusBadGateway
	}
	return status
}

// ErrorMapper normalizes stray errors into go-errors envelopes.
type ErrorMapper func(err error) *goerrors.Error

func trackingErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureTrackingEnvelope(richErr)
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Envelope()
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unreachable"):
		return newTrackingError(err.Error(), goerrors.CategoryExternal, TrackingErrorUnreachable)
	case strings.Contains(msg, "not global"), strings.Contains(msg, "access token"):
		return newTrackingError(err.Error(), goerrors.CategoryAuth, TrackingErrorNotGlobal)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newTrackingError(err.Error(), goerrors.CategoryBadInput, TrackingErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureTrackingEnvelope(mapped)
}

func newTrackingError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureTrackingEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureTrackingEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = trackingHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTrackingTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTrackingTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return TrackingErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return TrackingErrorNotGlobal
	case goerrors.CategoryExternal:
		return TrackingErrorRemote
	default:
		return TrackingErrorInternal
	}
}

func trackingHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
