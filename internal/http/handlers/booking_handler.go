// Booking HTTP handlers.
//
//   - POST /bookings  (book a session with a verified topper)
//   - GET  /bookings  (list the caller's sessions, both roles)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/services"
)

// CreateBookingRequest is the JSON payload for booking a session.
type CreateBookingRequest struct {
	TopperID        string    `json:"topper_id" binding:"required" format:"uuid"`
	ResourceID      *string   `json:"resource_id,omitempty" format:"uuid"`
	SessionType     string    `json:"session_type" example:"tutoring"`
	DurationMinutes int       `json:"duration_minutes" binding:"required" example:"60"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required" example:"2026-09-12T17:00:00Z"`
	Notes           string    `json:"notes,omitempty"`
}

// CreateBookingResponse wraps a freshly created booking.
type CreateBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Message string          `json:"message" example:"Booking created successfully."`
}

// CreateBooking godoc
// @ID          createBooking
// @Summary     Book a tutoring session
// @Description Creates a confirmed, paid booking with a verified topper. Price is 50 per 30 minutes, rounded.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateBookingRequest  true  "Booking payload"
//
// @Success     201  {object}  handlers.CreateBookingResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or invalid topper"
// @Failure     403  {object}  handlers.ErrorResponse  "Only students can book"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookings [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "topper_id, duration_minutes and scheduled_at are required")
		return
	}

	b, err := h.bookingSvc.Create(c.Request.Context(), u, services.CreateBookingInput{
		TopperID:        req.TopperID,
		ResourceID:      req.ResourceID,
		SessionType:     req.SessionType,
		DurationMinutes: req.DurationMinutes,
		ScheduledAt:     req.ScheduledAt,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotStudent):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only students can book sessions")
		case errors.Is(err, services.ErrBookingFieldsRequired), errors.Is(err, services.ErrInvalidTopper):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateBookingResponse{Booking: b, Message: "Booking created successfully."})
}

// ListBookings godoc
// @ID          listBookings
// @Summary     List the caller's bookings
// @Description Returns sessions where the caller is the student or the topper, most recent first.
// @Tags        Bookings
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object}  map[string][]domain.Booking
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookings [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	items, err := h.bookingSvc.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"bookings": items})
}
