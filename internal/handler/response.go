package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func success(c echo.Context, status int, data interface{}, message string) error {
	if message == "" {
		message = "Success"
	}
	return c.JSON(status, Response{Success: true, Data: data, Message: message})
}

// ErrorHandler renders every error returned by handlers and middleware as an
// error envelope. Details are only exposed outside of production.
func ErrorHandler(production bool, log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := renderError(err, c, production)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Warn("write error response", zap.Error(writeErr))
		}
	}
}

func renderError(err error, c echo.Context, production bool) (int, Response) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		body := Response{Success: false, Message: appErr.Message}
		if len(appErr.Details) > 0 {
			body.Errors = appErr.Details
		}
		status := apperrors.StatusCode(appErr.Kind)
		if status >= http.StatusInternalServerError && !production {
			body.Errors = err.Error()
		}
		return status, body
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		}
		if he.Code == http.StatusNotFound {
			message = fmt.Sprintf("Not Found - %s", c.Request().RequestURI)
		}
		body := Response{Success: false, Message: message}
		if he.Internal != nil && !production {
			body.Errors = he.Internal.Error()
		}
		return he.Code, body
	}

	body := Response{Success: false, Message: "Server Error"}
	if !production {
		body.Errors = err.Error()
	}
	return http.StatusInternalServerError, body
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidID
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.ErrInvalidBody
	}
	if err := c.Validate(req); err != nil {
		return apperrors.FromValidation(err)
	}
	return nil
}
