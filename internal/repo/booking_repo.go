// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for bookings.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
)

// CreateBooking inserts a new booking row with a generated UUID.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(b).Error
}

// GetBooking fetches a booking by ID, or ErrNotFound.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookingsForUser returns bookings where the user is either the student
// or the topper, most recent first.
func ListBookingsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("student_id = ? OR topper_id = ?", userID, userID).
		Order("scheduled_at desc").
		Find(&out).Error
	return out, err
}
