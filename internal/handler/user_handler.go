package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// UserHandler serves profile and account administration endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest is a partial update of the caller's own account.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateUserRequest is an administrative partial update of any account.
type UpdateUserRequest struct {
	UpdateProfileRequest
	IsAdmin *bool `json:"isAdmin"`
}

func (r UpdateProfileRequest) toUpdate() model.AccountUpdate {
	return model.AccountUpdate{Name: r.Name, Email: r.Email, Password: r.Password}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=model.Account}
// @Failure 401 {object} Response
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return apperrors.ErrNoToken
	}
	return success(c, http.StatusOK, account, "")
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Account}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 409 {object} Response
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return apperrors.ErrNoToken
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.svc.Update(c.Request().Context(), account.ID, req.toUpdate())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, updated, "Profile updated successfully")
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]model.Account}
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, users, "")
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response{data=model.Account}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user, "")
}

// UpdateUser godoc
// @Summary Update any user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Account}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	upd := req.toUpdate()
	upd.IsAdmin = req.IsAdmin
	user, err := h.svc.Update(c.Request().Context(), id, upd)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil, "User removed")
}
