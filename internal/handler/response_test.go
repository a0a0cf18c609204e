package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestEcho(production bool) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(production, nil)
	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if method != http.MethodHead {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeFieldErrors(t *testing.T, raw json.RawMessage) []apperrors.FieldError {
	t.Helper()
	var details []apperrors.FieldError
	require.NoError(t, json.Unmarshal(raw, &details))
	return details
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	e := newTestEcho(true)

	rec, env := doRequest(t, e, http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Not Found - /api/nope", env.Message)
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	boom := func(c echo.Context) error { return errors.New("connection refused") }

	t.Run("production hides details", func(t *testing.T) {
		e := newTestEcho(true)
		e.GET("/boom", boom)

		rec, env := doRequest(t, e, http.MethodGet, "/boom", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server Error", env.Message)
		assert.Empty(t, env.Errors)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("development shows details", func(t *testing.T) {
		e := newTestEcho(false)
		e.GET("/boom", boom)

		rec, env := doRequest(t, e, http.MethodGet, "/boom", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server Error", env.Message)
		assert.Contains(t, string(env.Errors), "connection refused")
	})
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{apperrors.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
		{apperrors.ErrNoToken, http.StatusUnauthorized, "Not authorized, no token"},
		{apperrors.ErrNotAdmin, http.StatusForbidden, "Not authorized as an admin"},
		{apperrors.ErrInvalidID, http.StatusBadRequest, "Invalid id"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			e := newTestEcho(true)
			e.GET("/x", func(c echo.Context) error { return tt.err })

			rec, env := doRequest(t, e, http.MethodGet, "/x", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Empty(t, env.Data)
		})
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	e := newTestEcho(true)
	e.GET("/slow", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
	})

	rec, env := doRequest(t, e, http.MethodGet, "/slow", "")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests, please try again later", env.Message)
}

func TestSuccess_DefaultMessage(t *testing.T) {
	e := newTestEcho(true)
	e.GET("/ok", func(c echo.Context) error { return success(c, http.StatusOK, []string{"a"}, "") })

	rec, env := doRequest(t, e, http.MethodGet, "/ok", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Success", env.Message)
	assert.JSONEq(t, `["a"]`, string(env.Data))
	assert.Empty(t, env.Errors)
}
