package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tawargy/sqliteserver/internal/api/handler"
	"github.com/tawargy/sqliteserver/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders router-level errors (unknown route, bad method, body limit) in
//     the same envelope the handlers use.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.HTTPStatus)
			return
		}
		_ = c.JSON(resp.HTTPStatus, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) domain.Response {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status := domain.StatusRejected
		if he.Code >= http.StatusInternalServerError {
			status = domain.StatusFailure
		}
		return domain.Response{
			HTTPStatus:    he.Code,
			Status:        status,
			StatusMessage: http.StatusText(he.Code),
			Body:          fmt.Sprintf("%v", he.Message),
		}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return domain.Response{
			HTTPStatus:    http.StatusBadRequest,
			Status:        domain.StatusRejected,
			StatusMessage: http.StatusText(http.StatusBadRequest),
			Body:          ve.Error(),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return domain.Failure(http.StatusInternalServerError, "internal server error")
}
