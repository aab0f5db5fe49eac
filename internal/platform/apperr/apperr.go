// Package apperr is the error taxonomy shared by services and handlers.
// Services return *Error values; handlers turn them into echo HTTP errors and
// the global error handler renders {"error": "..."}.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindPreconditionFailed
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status. Conflicts (duplicate data) are
// reported as 412 like the other business-rule rejections.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindPreconditionFailed, KindConflict:
		return http.StatusPreconditionFailed
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error         { return New(KindBadRequest, message) }
func PreconditionFailed(message string) *Error { return New(KindPreconditionFailed, message) }
func Unauthenticated(message string) *Error    { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error          { return New(KindForbidden, message) }
func NotFound(message string) *Error           { return New(KindNotFound, message) }
func Conflict(message string) *Error           { return New(KindConflict, message) }

// Internal wraps a store or infrastructure failure. The message shown to
// clients is generic; err is kept for logging.
func Internal(err error) *Error {
	return Wrap(KindInternal, "Internal server error", err)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPError converts err into an *echo.HTTPError. Unclassified errors become
// a 500 with a generic message so store details never reach the client.
func HTTPError(err error) *echo.HTTPError {
	var ae *Error
	if errors.As(err, &ae) {
		he := echo.NewHTTPError(ae.Kind.Status(), ae.Message)
		if ae.Err != nil {
			he = he.SetInternal(ae.Err)
		}
		return he
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders every error as
// {"error": message} and logs 5xx responses.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = HTTPError(err)
		}

		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}

		if he.Code >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			evt := logger.Error().Str("request_id", rid).Int("status", he.Code)
			if he.Internal != nil {
				evt = evt.Err(he.Internal)
			}
			evt.Msg(msg)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, map[string]string{"error": msg})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
