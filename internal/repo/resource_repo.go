// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for resources and
// their purchase transactions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
)

// CreateResource inserts a new resource row with a generated UUID.
func CreateResource(ctx context.Context, db *gorm.DB, r *domain.Resource) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(r).Error
}

// GetResource fetches a resource by ID, or ErrNotFound.
func GetResource(ctx context.Context, db *gorm.DB, id string) (*domain.Resource, error) {
	var r domain.Resource
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountActiveResources returns the number of active resources, for pagination.
func CountActiveResources(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Resource{}).
		Where("is_active = ?", true).
		Count(&total).Error
	return total, err
}

// ListActiveResourcesPage returns a page of active resources ordered by
// creation time descending. The caller computes offset and limit.
func ListActiveResourcesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Resource, error) {
	var out []domain.Resource
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// IncrementDownloadCount bumps the counter atomically in the store, avoiding
// a read-modify-write race between concurrent downloads.
func IncrementDownloadCount(ctx context.Context, db *gorm.DB, resourceID string) error {
	return db.WithContext(ctx).
		Model(&domain.Resource{}).
		Where("id = ?", resourceID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

// GetTransaction returns the student's transaction for a resource regardless
// of payment status, or ErrNotFound.
func GetTransaction(ctx context.Context, db *gorm.DB, studentID, resourceID string) (*domain.ResourceTransaction, error) {
	var t domain.ResourceTransaction
	err := db.WithContext(ctx).
		Where("student_id = ? AND resource_id = ?", studentID, resourceID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetPaidTransaction returns the student's paid transaction for a resource,
// or ErrNotFound when the resource has not been purchased.
func GetPaidTransaction(ctx context.Context, db *gorm.DB, studentID, resourceID string) (*domain.ResourceTransaction, error) {
	var t domain.ResourceTransaction
	err := db.WithContext(ctx).
		Where("student_id = ? AND resource_id = ? AND payment_status = ?",
			studentID, resourceID, domain.PaymentPaid).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTransaction inserts a purchase/download record.
func CreateTransaction(ctx context.Context, db *gorm.DB, t *domain.ResourceTransaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.DownloadedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(t).Error
}
