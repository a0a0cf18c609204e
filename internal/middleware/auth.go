package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

const (
	// ContextKeyAccountID holds the uuid.UUID taken from a verified token.
	ContextKeyAccountID = "account_id"
	// ContextKeyAccount holds the *model.Account loaded for the verified id.
	ContextKeyAccount = "account"
)

// TokenVerifier checks a raw bearer token and returns the account id it carries.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// AccountLoader fetches an account (without password) by id.
type AccountLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// Protect verifies the Authorization bearer token and stores the account id in the
// context. A missing header and a rejected token both answer 401 with different messages.
func Protect(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKeyAccountID,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return verifier.VerifyToken(raw)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, apperrors.ErrInvalidToken) {
				return apperrors.ErrTokenFailed
			}
			return apperrors.ErrNoToken
		},
	})
}

// LoadAccount attaches the account behind the verified id. It must run after Protect.
func LoadAccount(loader AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get(ContextKeyAccountID).(uuid.UUID)
			if !ok {
				return apperrors.ErrNoToken
			}
			account, err := loader.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					// token outlived its account
					return apperrors.ErrTokenFailed
				}
				return err
			}
			c.Set(ContextKeyAccount, account)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose attached account is not an administrator.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := CurrentAccount(c)
			if !ok || !account.IsAdmin {
				return apperrors.ErrNotAdmin
			}
			return next(c)
		}
	}
}

// CurrentAccount returns the account attached by LoadAccount.
func CurrentAccount(c echo.Context) (*model.Account, bool) {
	account, ok := c.Get(ContextKeyAccount).(*model.Account)
	return account, ok && account != nil
}
