package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// NewErrorHandler renders domain errors as ErrorBody with the status of their
// kind. Echo's own errors (unknown route, bad JSON) keep their status.
// Internal errors are logged and their message is not exposed.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := errorBody(err)
		if body.Kind == errs.KindInternal {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		var limited *errs.RateLimitedError
		if errors.As(err, &limited) {
			wait := max(time.Until(limited.ResetAt).Round(time.Second), time.Second)
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Code)
		} else {
			err = c.JSON(body.Code, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}

func errorBody(err error) ErrorBody {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return ErrorBody{
			Code:    he.Code,
			Kind:    kindOfStatus(he.Code),
			Message: http.StatusText(he.Code),
		}
	}

	kind := errs.Kind(err)
	body := ErrorBody{
		Code:      errs.HTTPStatus(err),
		Kind:      kind,
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	}
	if kind == errs.KindInternal {
		body.Message = "internal server error"
	}
	return body
}

func kindOfStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return errs.KindValidation
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errs.KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.KindAuthorization
	case http.StatusServiceUnavailable:
		return errs.KindUnavailable
	default:
		return errs.KindInternal
	}
}
