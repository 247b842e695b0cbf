// AI study-content HTTP handlers.
//
// These endpoints generate (or serve cached) AI content for a resource:
//   - POST /ai/quiz            (multiple-choice quiz)
//   - POST /ai/summary         (revision bullet points + key terms)
//   - POST /ai/exam-questions  (likely exam questions; also feeds the
//     question bank)
//
// Each response reports whether the payload came from the cache.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/services"
)

// GenerateContentRequest is the JSON payload naming the source resource.
// NumQuestions only applies to quiz generation.
type GenerateContentRequest struct {
	ResourceID   string `json:"resource_id" binding:"required" format:"uuid"`
	NumQuestions int    `json:"num_questions,omitempty" example:"5"`
}

// QuizResponse wraps a generated or cached quiz.
type QuizResponse struct {
	Quiz   []ai.QuizQuestion `json:"quiz"`
	Cached bool              `json:"cached"`
}

// SummaryResponse wraps a generated or cached revision summary.
type SummaryResponse struct {
	Summary *ai.Summary `json:"summary"`
	Cached  bool        `json:"cached"`
}

// ExamQuestionsResponse wraps generated or cached exam questions.
type ExamQuestionsResponse struct {
	Questions []ai.ExamQuestion `json:"questions"`
	Cached    bool              `json:"cached"`
}

// bindContentRequest parses the shared request shape, failing the request on
// invalid input.
func bindContentRequest(c *gin.Context) (GenerateContentRequest, bool) {
	var req GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResourceID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "resource_id is required")
		return req, false
	}
	return req, true
}

// failContent maps content-generation failures to their HTTP envelopes.
func failContent(c *gin.Context, err error) {
	var perr *ai.ParseError
	switch {
	case errors.Is(err, services.ErrResourceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.As(err, &perr):
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, "model returned an unusable response")
	default:
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())
	}
}

// GenerateQuiz godoc
// @ID          generateQuiz
// @Summary     Generate a quiz for a resource
// @Description Returns the quiz for the resource, generating and caching it on first request.
// @Tags        AI
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.GenerateContentRequest  true  "Resource reference"
//
// @Success     200  {object}  handlers.QuizResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Resource or profile not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /ai/quiz [post]
func (h *Handlers) GenerateQuiz(c *gin.Context) {
	if _, okd := h.profile(c); !okd {
		return
	}
	req, okd := bindContentRequest(c)
	if !okd {
		return
	}

	quiz, cached, err := h.contentSvc.Quiz(c.Request.Context(), req.ResourceID, req.NumQuestions)
	if err != nil {
		failContent(c, err)
		return
	}
	ok(c, http.StatusOK, QuizResponse{Quiz: quiz, Cached: cached})
}

// GenerateSummary godoc
// @ID          generateSummary
// @Summary     Generate a revision summary for a resource
// @Description Returns the summary for the resource, generating and caching it on first request.
// @Tags        AI
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.GenerateContentRequest  true  "Resource reference"
//
// @Success     200  {object}  handlers.SummaryResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Resource or profile not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /ai/summary [post]
func (h *Handlers) GenerateSummary(c *gin.Context) {
	if _, okd := h.profile(c); !okd {
		return
	}
	req, okd := bindContentRequest(c)
	if !okd {
		return
	}

	sum, cached, err := h.contentSvc.Summary(c.Request.Context(), req.ResourceID)
	if err != nil {
		failContent(c, err)
		return
	}
	ok(c, http.StatusOK, SummaryResponse{Summary: sum, Cached: cached})
}

// GenerateExamQuestions godoc
// @ID          generateExamQuestions
// @Summary     Generate likely exam questions for a resource
// @Description Returns the exam questions for the resource, generating and caching them on first request. Fresh questions are added to the question bank.
// @Tags        AI
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.GenerateContentRequest  true  "Resource reference"
//
// @Success     200  {object}  handlers.ExamQuestionsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Resource or profile not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation failed"
// @Router      /ai/exam-questions [post]
func (h *Handlers) GenerateExamQuestions(c *gin.Context) {
	if _, okd := h.profile(c); !okd {
		return
	}
	req, okd := bindContentRequest(c)
	if !okd {
		return
	}

	questions, cached, err := h.contentSvc.ExamQuestions(c.Request.Context(), req.ResourceID)
	if err != nil {
		failContent(c, err)
		return
	}
	ok(c, http.StatusOK, ExamQuestionsResponse{Questions: questions, Cached: cached})
}
