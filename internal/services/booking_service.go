// Package services – BookingService
//
// BookingService creates and lists micro-tutoring sessions between students
// and verified toppers. Pricing is duration-based (50 rupees per half hour,
// rounded). Payment is stubbed for now: bookings come out confirmed and paid
// with a fixed meeting link until a real payment provider lands.
package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// ratePerHalfHour is the session price in rupees per 30 minutes.
const ratePerHalfHour = 50.0

// stubMeetingLink is handed out until payment/meeting integration exists.
const stubMeetingLink = "https://meet.google.com/abc-defg-hij"

// CreateBookingInput carries the caller-supplied fields for a new booking.
type CreateBookingInput struct {
	TopperID        string
	ResourceID      *string
	SessionType     string
	DurationMinutes int
	ScheduledAt     time.Time
	Notes           string
}

// BookingService provides session-booking operations.
type BookingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// SessionPrice returns the rupee price for a session of the given length.
func SessionPrice(durationMinutes int) float64 {
	return math.Round(float64(durationMinutes) / 30 * ratePerHalfHour)
}

// Create books a session for a student with a verified topper.
func (s *BookingService) Create(ctx context.Context, student *domain.User, in CreateBookingInput) (*domain.Booking, error) {
	if student.Role != domain.RoleStudent {
		return nil, ErrNotStudent
	}
	if in.TopperID == "" || in.DurationMinutes <= 0 || in.ScheduledAt.IsZero() {
		return nil, ErrBookingFieldsRequired
	}

	topper, err := repo.GetUser(ctx, s.DB, in.TopperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTopper
		}
		return nil, err
	}
	if topper.Role != domain.RoleTopper || !topper.IsVerified {
		return nil, ErrInvalidTopper
	}

	if in.SessionType == "" {
		in.SessionType = "tutoring"
	}

	b := &domain.Booking{
		StudentID:       student.ID,
		TopperID:        in.TopperID,
		ResourceID:      in.ResourceID,
		SessionType:     in.SessionType,
		DurationMinutes: in.DurationMinutes,
		ScheduledAt:     in.ScheduledAt,
		Status:          domain.BookingConfirmed,
		Price:           SessionPrice(in.DurationMinutes),
		PaymentStatus:   domain.PaymentPaid,
		MeetingLink:     stubMeetingLink,
		Notes:           in.Notes,
	}
	if err := repo.CreateBooking(ctx, s.DB, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListForUser returns the user's bookings on either side of the table,
// most recent first.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return repo.ListBookingsForUser(ctx, s.DB, userID)
}
