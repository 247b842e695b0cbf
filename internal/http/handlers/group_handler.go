// Study-group HTTP handlers.
//
// This file wires the Handlers aggregate to its service contracts and exposes
// the REST endpoints for study groups:
//   - POST /groups            (create, returns join code + share link)
//   - GET  /groups            (list active groups)
//   - POST /groups/join       (join by code)
//   - GET  /groups/join       (preview a group by code, public)
//   - POST /groups/:id/join   (join by group id)
//
// Handlers are transport-thin: they validate input, resolve the caller's
// profile, call application services, and translate results into HTTP
// responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/services"
	"github.com/tbourn/go-study-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProfileService resolves authenticated identities to platform profiles.
type ProfileService interface {
	// Resolve returns the profile for an external auth id.
	Resolve(ctx context.Context, externalID string) (*domain.User, error)
}

// GroupService defines study-group operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GroupService interface {
	// Create makes a new group owned by userID and returns it with a share link.
	Create(ctx context.Context, userID string, in services.CreateGroupInput) (*domain.StudyGroup, string, error)
	// GetByCode previews the group carrying a join code.
	GetByCode(ctx context.Context, code, viewerID string) (*services.GroupPreview, error)
	// JoinByCode adds userID to the group carrying the join code.
	JoinByCode(ctx context.Context, userID, code string) (*domain.StudyGroup, *domain.GroupMember, error)
	// JoinByID adds userID to the group with the given id.
	JoinByID(ctx context.Context, userID, groupID string) (*domain.StudyGroup, *domain.GroupMember, error)
	// ListActive returns all active groups.
	ListActive(ctx context.Context) ([]domain.StudyGroup, error)
}

// MatchService ranks study groups against a student's preferences.
type MatchService interface {
	// Rank returns at most ten scored matches, best first.
	Rank(ctx context.Context, req services.MatchRequest) ([]ai.GroupMatch, error)
}

// ContentService generates and caches AI study content for resources.
type ContentService interface {
	// Quiz returns the (possibly cached) quiz for a resource.
	Quiz(ctx context.Context, resourceID string, numQuestions int) ([]ai.QuizQuestion, bool, error)
	// Summary returns the (possibly cached) revision summary for a resource.
	Summary(ctx context.Context, resourceID string) (*ai.Summary, bool, error)
	// ExamQuestions returns the (possibly cached) likely exam questions.
	ExamQuestions(ctx context.Context, resourceID string) ([]ai.ExamQuestion, bool, error)
}

// ResourceService defines marketplace operations over study resources.
type ResourceService interface {
	// Create publishes a resource for a verified topper.
	Create(ctx context.Context, user *domain.User, in services.CreateResourceInput) (*domain.Resource, error)
	// ListPage returns a page of active resources and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Resource, int64, error)
	// Download grants access to a resource's file.
	Download(ctx context.Context, user *domain.User, resourceID string) (*services.DownloadResult, error)
}

// BookingService defines session-booking operations.
type BookingService interface {
	// Create books a session for a student with a verified topper.
	Create(ctx context.Context, student *domain.User, in services.CreateBookingInput) (*domain.Booking, error)
	// ListForUser returns the user's bookings on either side of the table.
	ListForUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

// TopperService defines topper verification and approval operations.
type TopperService interface {
	// Verify records a CGPA verification request for user.
	Verify(ctx context.Context, user *domain.User, cgpa float64, transcriptURL string) (*domain.User, bool, error)
	// Approve sets a topper's verification flag (admin only).
	Approve(ctx context.Context, admin *domain.User, topperID string, approved bool) (*domain.User, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for groups, matching, AI content,
// resources, bookings, and topper verification. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	userSvc     ProfileService
	groupSvc    GroupService
	matchSvc    MatchService
	contentSvc  ContentService
	resourceSvc ResourceService
	bookingSvc  BookingService
	topperSvc   TopperService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc ProfileService, groupSvc GroupService, matchSvc MatchService, contentSvc ContentService, resourceSvc ResourceService, bookingSvc BookingService, topperSvc TopperService) *Handlers {
	return &Handlers{
		userSvc:     userSvc,
		groupSvc:    groupSvc,
		matchSvc:    matchSvc,
		contentSvc:  contentSvc,
		resourceSvc: resourceSvc,
		bookingSvc:  bookingSvc,
		topperSvc:   topperSvc,
	}
}

// userID extracts the authenticated external user id from Gin context (set by
// upstream middleware). If absent, it falls back to "X-User-ID" header (tests
// use it), and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// profile resolves the caller's platform profile, writing a 404 envelope and
// returning ok=false when no profile exists for the identity.
func (h *Handlers) profile(c *gin.Context) (*domain.User, bool) {
	u, err := h.userSvc.Resolve(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			fail(c, http.StatusNotFound, ErrCodeProfileNotFound, "user profile not found")
		} else {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return nil, false
	}
	return u, true
}

//
// DTOs
//

// CreateGroupRequest is the JSON payload for creating a study group.
type CreateGroupRequest struct {
	Name               string   `json:"name" binding:"required" example:"OS fundamentals crew"`
	Description        string   `json:"description" example:"Weekly deep dives before the endsem"`
	SubjectID          *string  `json:"subject_id,omitempty" format:"uuid"`
	Topic              string   `json:"topic" example:"Process scheduling"`
	MaxMembers         int      `json:"max_members" binding:"required" example:"8"`
	MeetingType        string   `json:"meeting_type" example:"virtual"`
	MeetingLocation    string   `json:"meeting_location,omitempty"`
	MeetingLink        string   `json:"meeting_link,omitempty"`
	PreferredTimeSlots []string `json:"preferred_time_slots,omitempty" example:"evening,weekend"`
}

// CreateGroupResponse wraps a freshly created group with its join code and a
// shareable invite link.
type CreateGroupResponse struct {
	Group    *domain.StudyGroup `json:"group"`
	JoinCode string             `json:"join_code" example:"9F2C41AB"`
	JoinLink string             `json:"join_link" example:"https://studyhub.example.com/groups/join/9F2C41AB"`
	Message  string             `json:"message" example:"Study group created successfully"`
}

// JoinGroupRequest is the JSON payload for joining a group by code.
type JoinGroupRequest struct {
	JoinCode string `json:"join_code" binding:"required" example:"9F2C41AB"`
}

// JoinGroupResponse wraps the joined group and the new membership row.
type JoinGroupResponse struct {
	Group   *domain.StudyGroup  `json:"group"`
	Member  *domain.GroupMember `json:"member"`
	Message string              `json:"message" example:"Successfully joined the study group"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreateGroup godoc
// @ID          createGroup
// @Summary     Create a study group
// @Description Creates a group owned by the current user, issues a unique join code, and installs the creator as leader.
// @Tags        Groups
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateGroupRequest  true  "Create group payload"
//
// @Success     201  {object}  handlers.CreateGroupResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups [post]
func (h *Handlers) CreateGroup(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and max members are required")
		return
	}

	g, link, err := h.groupSvc.Create(c.Request.Context(), u.ID, services.CreateGroupInput{
		Name:               req.Name,
		Description:        req.Description,
		SubjectID:          req.SubjectID,
		Topic:              req.Topic,
		MaxMembers:         req.MaxMembers,
		MeetingType:        req.MeetingType,
		MeetingLocation:    req.MeetingLocation,
		MeetingLink:        req.MeetingLink,
		PreferredTimeSlots: req.PreferredTimeSlots,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupFieldsRequired):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrJoinCodeExhausted):
			fail(c, http.StatusInternalServerError, ErrCodeJoinCodeFailed, "failed to generate unique join code, please try again")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateGroupResponse{
		Group:    g,
		JoinCode: g.JoinCode,
		JoinLink: link,
		Message:  "Study group created successfully",
	})
}

// ListGroups godoc
// @ID          listGroups
// @Summary     List active study groups
// @Description Returns all active groups with subject and member associations, newest first.
// @Tags        Groups
// @Produce     json
//
// @Success     200  {object}  map[string][]domain.StudyGroup
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups [get]
func (h *Handlers) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.ListActive(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"groups": groups})
}

// JoinGroupByCode godoc
// @ID          joinGroupByCode
// @Summary     Join a study group by code
// @Description Adds the current user to the active group carrying the join code. Capacity and membership are checked atomically.
// @Tags        Groups
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.JoinGroupRequest  true  "Join payload"
//
// @Success     200  {object}  handlers.JoinGroupResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing code, group full, or already a member"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown join code or missing profile"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/join [post]
func (h *Handlers) JoinGroupByCode(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "join code is required")
		return
	}

	g, m, err := h.groupSvc.JoinByCode(c.Request.Context(), u.ID, req.JoinCode)
	if err != nil {
		h.failJoin(c, err)
		return
	}
	ok(c, http.StatusOK, JoinGroupResponse{Group: g, Member: m, Message: "Successfully joined the study group"})
}

// GetGroupByCode godoc
// @ID          getGroupByCode
// @Summary     Preview a study group by join code
// @Description Returns the group carrying the code with occupancy figures. Works without a profile; membership is reported when the viewer has one.
// @Tags        Groups
// @Produce     json
//
// @Param       code  query  string  true  "Join code"  example(9F2C41AB)
//
// @Success     200  {object}  services.GroupPreview
// @Failure     400  {object}  handlers.ErrorResponse  "Missing code"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown join code"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/join [get]
func (h *Handlers) GetGroupByCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		code = c.Query("joinCode")
	}

	// Viewer identity is optional here: previews are public.
	viewerID := ""
	if u, err := h.userSvc.Resolve(c.Request.Context(), userID(c)); err == nil {
		viewerID = u.ID
	}

	preview, err := h.groupSvc.GetByCode(c.Request.Context(), code, viewerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrJoinCodeRequired):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidJoinCode):
			fail(c, http.StatusNotFound, ErrCodeInvalidJoinCode, "invalid or expired join code")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, preview)
}

// JoinGroupByID godoc
// @ID          joinGroupByID
// @Summary     Join a study group by id
// @Description Adds the current user to an active group. Capacity and membership are checked atomically.
// @Tags        Groups
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Group ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.JoinGroupResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Group full or already a member"
// @Failure     404  {object}  handlers.ErrorResponse  "Group or profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /groups/{id}/join [post]
func (h *Handlers) JoinGroupByID(c *gin.Context) {
	u, okd := h.profile(c)
	if !okd {
		return
	}

	g, m, err := h.groupSvc.JoinByID(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		h.failJoin(c, err)
		return
	}
	ok(c, http.StatusOK, JoinGroupResponse{Group: g, Member: m, Message: "Successfully joined the study group"})
}

// failJoin maps join failures to their HTTP envelopes.
func (h *Handlers) failJoin(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJoinCodeRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidJoinCode):
		fail(c, http.StatusNotFound, ErrCodeInvalidJoinCode, "invalid or expired join code")
	case errors.Is(err, services.ErrGroupNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "group not found")
	case errors.Is(err, services.ErrAlreadyMember):
		fail(c, http.StatusBadRequest, ErrCodeAlreadyMember, "you are already a member of this group")
	case errors.Is(err, services.ErrGroupFull):
		fail(c, http.StatusBadRequest, ErrCodeGroupFull, "this group is full")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
