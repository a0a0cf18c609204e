package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile and account administration operations.
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Update(ctx context.Context, id uuid.UUID, upd model.AccountUpdate) (*model.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo  repository.AccountRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.AccountRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// GetByID returns the account. Cached copies lack the password hash, which is
// never serialized; callers must not rely on it.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var cached model.Account
	if s.cache.GetJSON(ctx, cache.AccountKey(id), &cached) {
		return &cached, nil
	}

	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.AccountKey(id), account, userCacheTTL)
	return account, nil
}

// List returns every account.
func (s *userService) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Update applies the present fields of upd. A present password is always re-hashed.
func (s *userService) Update(ctx context.Context, id uuid.UUID, upd model.AccountUpdate) (*model.Account, error) {
	account, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "name", Message: "is required"})
		}
		account.Name = name
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email == "" {
			return nil, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "email", Message: "is required"})
		}
		if email != account.Email {
			taken, err := s.repo.FindByEmail(ctx, email)
			if err == nil && taken != nil && taken.ID != account.ID {
				return nil, apperrors.ErrUserAlreadyExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			account.Email = email
		}
	}
	if upd.Password != nil {
		if fe := checkPassword(*upd.Password); fe != nil {
			return nil, apperrors.Validation("Validation failed", *fe)
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hash
	}
	if upd.IsAdmin != nil {
		account.IsAdmin = *upd.IsAdmin
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.AccountKey(id))
	return account, nil
}

// Delete permanently removes the account.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.AccountKey(id))
	return nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}
