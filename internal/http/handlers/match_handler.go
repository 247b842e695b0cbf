// Group-matching HTTP handler.
//
// POST /ai/match-groups ranks active study groups against the caller's
// preferences. The deterministic scorer always answers; AI enhancement is
// applied opportunistically inside the service and can never fail the
// request.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/services"
)

// MatchGroupsRequest is the JSON payload with the student's preferences.
type MatchGroupsRequest struct {
	Subjects       []string `json:"subjects" example:"Operating Systems,DBMS"`
	Topics         []string `json:"topics" example:"scheduling,indexing"`
	PreferredTimes []string `json:"preferred_times" example:"evening,weekend"`
	StudyPace      string   `json:"study_pace" example:"moderate"`
	MeetingType    string   `json:"meeting_type" example:"virtual"`
}

// MatchGroupsResponse wraps the ranked matches, best first.
type MatchGroupsResponse struct {
	Matches []ai.GroupMatch `json:"matches"`
}

// MatchGroups godoc
// @ID          matchGroups
// @Summary     Rank study groups for the current user
// @Description Scores every active group against the stated preferences and returns the top matches, best first.
// @Tags        AI
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.MatchGroupsRequest  true  "Preferences"
//
// @Success     200  {object}  handlers.MatchGroupsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Profile not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ai/match-groups [post]
func (h *Handlers) MatchGroups(c *gin.Context) {
	if _, okd := h.profile(c); !okd {
		return
	}

	var req MatchGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	matches, err := h.matchSvc.Rank(c.Request.Context(), services.MatchRequest{
		Subjects:       req.Subjects,
		Topics:         req.Topics,
		PreferredTimes: req.PreferredTimes,
		StudyPace:      req.StudyPace,
		MeetingType:    req.MeetingType,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMatchFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, MatchGroupsResponse{Matches: matches})
}
