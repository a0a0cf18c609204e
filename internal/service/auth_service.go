package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	User  *model.Account `json:"user"`
	Token string         `json:"token"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	IssueToken(accountID uuid.UUID) (string, error)
	VerifyToken(token string) (uuid.UUID, error)
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	log         *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(accountRepo repository.AccountRepository, jwtService *auth.JWTService, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		log:         log,
	}
}

// Register creates a new account with hashed password and signs a token for it.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	var details []apperrors.FieldError
	if name == "" {
		details = append(details, apperrors.FieldError{Field: "name", Message: "is required"})
	}
	if email == "" {
		details = append(details, apperrors.FieldError{Field: "email", Message: "is required"})
	}
	if fe := checkPassword(in.Password); fe != nil {
		details = append(details, *fe)
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("Validation failed", details...)
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	token, err := s.IssueToken(account.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("account registered", zap.String("account_id", account.ID.String()), zap.Bool("admin", account.IsAdmin))
	return &AuthResult{User: account, Token: token}, nil
}

// Login authenticates an account. Unknown emails and wrong passwords fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accountRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("login lookup failed", zap.Error(err))
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.VerifyPassword(account.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.IssueToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Token: token}, nil
}

// IssueToken signs a session token bound to the account id.
func (s *authService) IssueToken(accountID uuid.UUID) (string, error) {
	token, err := s.jwtService.GenerateToken(accountID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// VerifyToken checks signature and expiry and returns the embedded account id.
func (s *authService) VerifyToken(token string) (uuid.UUID, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return claims.AccountID, nil
}

// checkPassword enforces the minimum length handlers also validate.
func checkPassword(password string) *apperrors.FieldError {
	if len(password) < auth.MinPasswordLength {
		return &apperrors.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength)}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
