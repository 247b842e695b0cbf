// Topper verification HTTP handlers.
//
//   - POST  /toppers/verify       (submit CGPA + transcript for verification)
//   - PATCH /toppers/:id/approve  (admin decision on a pending topper)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/services"
)

// VerifyTopperRequest is the JSON payload for requesting verification.
type VerifyTopperRequest struct {
	CGPA          float64 `json:"cgpa" binding:"required" example:"9.2"`
	TranscriptURL string  `json:"transcript_url,omitempty" example:"https://blob.example.com/transcripts/u1.pdf"`
}

// VerifyTopperResponse reports the updated profile and whether an admin still
// has to approve.
type VerifyTopperResponse struct {
	User             *domain.User `json:"user"`
	Message          string       `json:"message"`
	RequiresApproval bool         `json:"requires_approval"`
}

// ApproveTopperRequest is the JSON payload for the admin decision.
type ApproveTopperRequest struct {
	Approved *bool `json:"approved" binding:"required" example:"true"`
}

// VerifyTopper godoc
// @ID          verifyTopper
// @Summary     Request topper verification
// @Description Switches the caller's role to topper and stores the CGPA. 9.0 or above verifies immediately; below that an admin must approve.
// @Tags        Toppers
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.VerifyTopperRequest  true  "Verification payload"
//
// @Success     200  {object}  handlers.VerifyTopperResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid CGPA"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /toppers/verify [post]
func (h *Handlers) VerifyTopper(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req VerifyTopperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cgpa is required")
		return
	}

	updated, requiresApproval, err := h.topperSvc.Verify(c.Request.Context(), u, req.CGPA, req.TranscriptURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCGPA):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid CGPA, must be between 0 and 10")
		case errors.Is(err, services.ErrProfileNotFound):
			fail(c, http.StatusNotFound, ErrCodeProfileNotFound, "user profile not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	msg := "You have been verified as a topper!"
	if requiresApproval {
		msg = "Your verification request has been submitted for admin review."
	}
	ok(c, http.StatusOK, VerifyTopperResponse{User: updated, Message: msg, RequiresApproval: requiresApproval})
}

// ApproveTopper godoc
// @ID          approveTopper
// @Summary     Approve or reject a pending topper
// @Description Sets the verification flag on a topper profile. Admins only.
// @Tags        Toppers
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Admin user ID (demo header)"  example(admin1)
// @Param       id         path    string  true  "Topper ID (UUID)"             format(uuid)
// @Param       body       body    handlers.ApproveTopperRequest  true  "Decision"
//
// @Success     200  {object}  map[string]domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Admins only"
// @Failure     404  {object}  handlers.ErrorResponse  "Topper not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /toppers/{id}/approve [patch]
func (h *Handlers) ApproveTopper(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req ApproveTopperRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "approved is required")
		return
	}

	topper, err := h.topperSvc.Approve(c.Request.Context(), u, c.Param("id"), *req.Approved)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAdmin):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "only admins can approve toppers")
		case errors.Is(err, services.ErrProfileNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "topper not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"topper": topper})
}
