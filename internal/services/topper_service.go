// Package services – TopperService
//
// TopperService handles CGPA-based topper verification. A CGPA of 9.0 or
// higher verifies the user immediately; anything lower switches the role to
// topper but leaves verification pending until an admin approves it.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// autoVerifyCGPA is the threshold at or above which verification is automatic.
const autoVerifyCGPA = 9.0

// TopperService provides topper verification and approval.
type TopperService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewTopperService constructs a TopperService.
func NewTopperService(db *gorm.DB) *TopperService {
	return &TopperService{DB: db}
}

// Verify records a verification request for the user: the role becomes
// topper, the CGPA and transcript URL are stored, and verification is granted
// automatically at autoVerifyCGPA or above. requiresApproval reports whether
// an admin still has to approve.
func (s *TopperService) Verify(ctx context.Context, user *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error) {
	if cgpa < 0 || cgpa > 10 {
		return nil, false, ErrInvalidCGPA
	}

	updates := map[string]any{
		"role": domain.RoleTopper,
		"cgpa": cgpa,
	}
	if transcriptURL != "" {
		updates["transcript_url"] = transcriptURL
	}
	if cgpa >= autoVerifyCGPA {
		updates["is_verified"] = true
	}

	updated, err := repo.UpdateUser(ctx, s.DB, user.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrProfileNotFound
		}
		return nil, false, err
	}
	return updated, cgpa < autoVerifyCGPA, nil
}

// Approve sets a topper's verification flag. Only admins may call it; the
// target must already hold the topper role.
func (s *TopperService) Approve(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error) {
	if admin.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}

	target, err := repo.GetUser(ctx, s.DB, topperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if target.Role != domain.RoleTopper {
		return nil, ErrProfileNotFound
	}

	updated, err := repo.UpdateUser(ctx, s.DB, topperID, map[string]any{"is_verified": approved})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
