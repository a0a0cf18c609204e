package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService            service.AuthService
	allowAdminRegistration bool
}

// NewAuthHandler creates a new auth handler. Unless allowAdminRegistration is set,
// the isAdmin field of public registrations is ignored.
func NewAuthHandler(authService service.AuthService, allowAdminRegistration bool) *AuthHandler {
	return &AuthHandler{authService: authService, allowAdminRegistration: allowAdminRegistration}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response{data=service.AuthResult}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin && h.allowAdminRegistration,
	})
	if err != nil {
		return err
	}

	return success(c, http.StatusCreated, result, "User registered successfully")
}

// Login godoc
// @Summary Authenticate and get a token
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=service.AuthResult}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return success(c, http.StatusOK, result, "Login successful")
}
