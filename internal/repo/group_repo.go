// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for study groups
// and their memberships.
//
// Error semantics:
//   - When a group is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - AddMember maps unique-index violations on (group_id, user_id) to
//     ErrDuplicate so services can treat a double join as "already a member".
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
)

// CreateGroup inserts a new StudyGroup row. The group ID is a randomly
// generated UUID (string) and CreatedAt is set to UTC. Callers are expected
// to have set JoinCode beforehand; a group is never persisted without one.
func CreateGroup(ctx context.Context, db *gorm.DB, g *domain.StudyGroup) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(g).Error
}

// ListActiveGroups returns every active group with its subject and member
// rows preloaded, ordered by creation time descending. It returns an empty
// slice when there are no active groups.
func ListActiveGroups(ctx context.Context, db *gorm.DB) ([]domain.StudyGroup, error) {
	var out []domain.StudyGroup
	err := db.WithContext(ctx).
		Preload("Subject").
		Preload("Members").
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetActiveGroup fetches an active group by ID with members preloaded, or
// ErrNotFound when the group is missing or deactivated.
func GetActiveGroup(ctx context.Context, db *gorm.DB, id string) (*domain.StudyGroup, error) {
	var g domain.StudyGroup
	err := db.WithContext(ctx).
		Preload("Members").
		Where("id = ? AND is_active = ?", id, true).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetActiveGroupByCode fetches an active group by its join code (callers
// normalize the code first), with subject and members preloaded. Returns
// ErrNotFound for unknown codes and for codes whose group was deactivated —
// the two are indistinguishable to callers on purpose.
func GetActiveGroupByCode(ctx context.Context, db *gorm.DB, code string) (*domain.StudyGroup, error) {
	var g domain.StudyGroup
	err := db.WithContext(ctx).
		Preload("Subject").
		Preload("Members").
		Where("join_code = ? AND is_active = ?", code, true).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// JoinCodeExists reports whether any group — active or not — already holds
// the code. Issued codes are never reused, so deactivated groups still count.
func JoinCodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.StudyGroup{}).
		Where("join_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

// CountMembers returns the current roster size of a group.
func CountMembers(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&n).Error
	return n, err
}

// IsMember reports whether userID already belongs to the group.
func IsMember(ctx context.Context, db *gorm.DB, groupID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&n).Error
	return n > 0, err
}

// AddMember inserts a membership row. A violation of the (group_id, user_id)
// unique index is returned as ErrDuplicate.
func AddMember(ctx context.Context, db *gorm.DB, groupID, userID, role string) (*domain.GroupMember, error) {
	m := &domain.GroupMember{
		ID:       uuid.NewString(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return m, nil
}
