package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "storefront/internal/errors"
	"storefront/internal/middleware"
	"storefront/internal/model"
)

// withAccount stands in for the request gate.
func withAccount(account *model.Account) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyAccount, account)
			return next(c)
		}
	}
}

func newUserEcho(svc *MockUserService, caller *model.Account) *echo.Echo {
	h := NewUserHandler(svc)
	e := newTestEcho(true)
	g := e.Group("/api/users", withAccount(caller))
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("", h.ListUsers)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id", h.UpdateUser)
	g.DELETE("/:id", h.DeleteUser)
	return e
}

func TestUserHandler_GetProfile(t *testing.T) {
	alice := &model.Account{ID: uuid.New(), Name: "Alice", Email: "alice@x.io", PasswordHash: "$2a$10$secret"}
	e := newUserEcho(new(MockUserService), alice)

	rec, env := doRequest(t, e, http.MethodGet, "/api/users/profile", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"name":"Alice"`)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestUserHandler_GetProfile_NoAccount(t *testing.T) {
	e := newUserEcho(new(MockUserService), nil)

	rec, env := doRequest(t, e, http.MethodGet, "/api/users/profile", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", env.Message)
}

func TestUserHandler_UpdateProfile_IgnoresAdminFlag(t *testing.T) {
	svc := new(MockUserService)
	alice := &model.Account{ID: uuid.New(), Name: "Alice", Email: "alice@x.io"}
	e := newUserEcho(svc, alice)

	svc.On("Update", mock.Anything, alice.ID, mock.MatchedBy(func(u model.AccountUpdate) bool {
		return u.Name != nil && *u.Name == "Alicia" && u.IsAdmin == nil && u.Email == nil && u.Password == nil
	})).Return(&model.Account{ID: alice.ID, Name: "Alicia", Email: "alice@x.io"}, nil)

	rec, env := doRequest(t, e, http.MethodPut, "/api/users/profile", `{"name":"Alicia","isAdmin":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Profile updated successfully", env.Message)
	assert.Contains(t, string(env.Data), `"name":"Alicia"`)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateProfile_ShortPassword(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New()})

	rec, env := doRequest(t, e, http.MethodPut, "/api/users/profile", `{"password":"123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []apperrors.FieldError{{Field: "password", Message: "must be at least 6 characters"}},
		decodeFieldErrors(t, env.Errors))
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New(), IsAdmin: true})

	svc.On("List", mock.Anything).Return([]model.Account{{Name: "Alice"}, {Name: "Bob"}}, nil)

	rec, env := doRequest(t, e, http.MethodGet, "/api/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Alice")
	assert.Contains(t, string(env.Data), "Bob")
}

func TestUserHandler_GetUser(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New(), IsAdmin: true})

	missing := uuid.New()
	svc.On("GetByID", mock.Anything, missing).Return(nil, apperrors.ErrUserNotFound)

	rec, env := doRequest(t, e, http.MethodGet, "/api/users/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)

	rec, env = doRequest(t, e, http.MethodGet, "/api/users/123", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", env.Message)
}

func TestUserHandler_UpdateUser_PromotesToAdmin(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New(), IsAdmin: true})

	target := uuid.New()
	svc.On("Update", mock.Anything, target, mock.MatchedBy(func(u model.AccountUpdate) bool {
		return u.IsAdmin != nil && *u.IsAdmin && u.Name == nil
	})).Return(&model.Account{ID: target, IsAdmin: true}, nil)

	rec, env := doRequest(t, e, http.MethodPut, "/api/users/"+target.String(), `{"isAdmin":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", env.Message)
	assert.Contains(t, string(env.Data), `"isAdmin":true`)
	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateUser_EmailTaken(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New(), IsAdmin: true})

	target := uuid.New()
	svc.On("Update", mock.Anything, target, mock.Anything).Return(nil, apperrors.ErrUserAlreadyExists)

	rec, env := doRequest(t, e, http.MethodPut, "/api/users/"+target.String(), `{"email":"bob@x.io"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", env.Message)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	svc := new(MockUserService)
	e := newUserEcho(svc, &model.Account{ID: uuid.New(), IsAdmin: true})

	target := uuid.New()
	svc.On("Delete", mock.Anything, target).Return(nil)

	rec, env := doRequest(t, e, http.MethodDelete, "/api/users/"+target.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User removed", env.Message)
	svc.AssertExpectations(t)
}
