package contact

import (
	"errors"
	"net/http"
)

// Kind classifies a submission failure.
type Kind string

const (
	KindNone               Kind = ""
	KindInvalidInput       Kind = "invalid_input"
	KindCaptchaRequired    Kind = "captcha_required"
	KindMalformedRequest   Kind = "malformed_request"
	KindCaptchaRejected    Kind = "captcha_rejected"
	KindCaptchaUnavailable Kind = "captcha_unavailable"
	KindDispatch           Kind = "dispatch_failed"
	KindInternal           Kind = "internal"
)

// Messages returned to the browser.
const (
	MsgSuccess            = "Message sent successfully!"
	MsgInvalidInput       = "Invalid input."
	MsgCaptchaRequired    = "Please complete the CAPTCHA."
	MsgMalformedRequest   = "The request body could not be read."
	MsgCaptchaRejected    = "CAPTCHA verification failed. Please try again."
	MsgCaptchaUnavailable = "CAPTCHA verification is temporarily unavailable. Please try again later."
	MsgDispatch           = "A system error occurred. Please check your email for typos or connect with me on LinkedIn."
	MsgInternal           = "A system error occurred."
)

// Error is a submission failure with the status and public message the
// caller should see. Err carries operator-only detail.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Sentinel errors. Compare with errors.Is; wrapped instances match on Kind.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: MsgInvalidInput}
	ErrCaptchaRequired    = &Error{Kind: KindCaptchaRequired, Status: http.StatusBadRequest, Message: MsgCaptchaRequired}
	ErrMalformedRequest   = &Error{Kind: KindMalformedRequest, Status: http.StatusBadRequest, Message: MsgMalformedRequest}
	ErrCaptchaRejected    = &Error{Kind: KindCaptchaRejected, Status: http.StatusBadRequest, Message: MsgCaptchaRejected}
	ErrCaptchaUnavailable = &Error{Kind: KindCaptchaUnavailable, Status: http.StatusServiceUnavailable, Message: MsgCaptchaUnavailable}
	ErrDispatch           = &Error{Kind: KindDispatch, Status: http.StatusInternalServerError, Message: MsgDispatch}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Wrap attaches detail to a sentinel, keeping its kind, status and message.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{
		Kind:    sentinel.Kind,
		Status:  sentinel.Status,
		Message: sentinel.Message,
		Err:     err,
	}
}

// KindOf returns the failure kind of err, KindNone for nil and KindInternal
// for errors that did not come from this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps err to an HTTP status.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// PublicMessage maps err to the message that is safe to show the submitter.
func PublicMessage(err error) string {
	if err == nil {
		return MsgSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}
