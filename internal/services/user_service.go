// Package services – UserService
//
// UserService resolves authenticated identities to platform profiles. The
// external auth provider owns sign-in; handlers receive its stable user id
// and exchange it here for the local profile row that every other service
// operates on.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// UserService looks up and maintains user profiles.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Resolve returns the profile for an external auth id, or ErrProfileNotFound
// when no profile exists for that identity.
func (s *UserService) Resolve(ctx context.Context, externalID string) (*domain.User, error) {
	u, err := repo.GetUserByExternalID(ctx, s.DB, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return u, nil
}

// Get returns a profile by its internal id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return u, nil
}
