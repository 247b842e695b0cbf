// Package services – ContentService
//
// ContentService produces AI study content (quizzes, summaries, likely exam
// questions) for uploaded resources. Generated payloads are cached per
// (resource, content type) and served from the cache on every later request.
// A cache-write failure is logged and the freshly generated content is still
// returned; a generation or parse failure is a hard error. Exam-question
// generation additionally harvests the questions into the deduplicated
// question bank.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-study-backend/internal/ai"
	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
	"github.com/tbourn/go-study-backend/internal/utils"
)

// ContentService generates and caches AI study content.
type ContentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// AI is the completion client used for generation.
	AI ai.Client
}

// NewContentService constructs a ContentService.
func NewContentService(db *gorm.DB, client ai.Client) *ContentService {
	return &ContentService{DB: db, AI: client}
}

// Quiz returns the cached quiz for a resource, generating it on first
// request. cached reports whether the payload came from the cache.
func (s *ContentService) Quiz(ctx context.Context, resourceID string, numQuestions int) (quiz []ai.QuizQuestion, cached bool, err error) {
	err = s.getOrGenerate(ctx, resourceID, domain.ContentQuiz, &quiz, &cached,
		func(text string) string { return ai.QuizPrompt(text, numQuestions) }, nil)
	return quiz, cached, err
}

// Summary returns the cached revision summary for a resource, generating it
// on first request.
func (s *ContentService) Summary(ctx context.Context, resourceID string) (sum *ai.Summary, cached bool, err error) {
	var out ai.Summary
	err = s.getOrGenerate(ctx, resourceID, domain.ContentSummary, &out, &cached, ai.SummaryPrompt, nil)
	if err != nil {
		return nil, false, err
	}
	return &out, cached, nil
}

// ExamQuestions returns the cached likely exam questions for a resource,
// generating them on first request. Freshly generated questions are also
// upserted into the question bank, keyed by the hash of the question text.
func (s *ContentService) ExamQuestions(ctx context.Context, resourceID string) (questions []ai.ExamQuestion, cached bool, err error) {
	var res *domain.Resource
	err = s.getOrGenerate(ctx, resourceID, domain.ContentExamQuestions, &questions, &cached,
		func(text string) string {
			subject := "the subject"
			if res != nil && res.Title != "" {
				subject = res.Title
			}
			return ai.ExamQuestionsPrompt(text, subject)
		},
		func(r *domain.Resource) { res = r })
	if err != nil {
		return nil, false, err
	}
	if !cached {
		s.harvestQuestions(ctx, resourceID, res, questions)
	}
	return questions, cached, nil
}

// getOrGenerate implements the shared cache-or-generate flow. v receives the
// typed payload, prompt builds the generation prompt from the resource text,
// and observe (optional) is handed the loaded resource before generation.
func (s *ContentService) getOrGenerate(ctx context.Context, resourceID, contentType string, v any, cached *bool, prompt func(string) string, observe func(*domain.Resource)) error {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "GetOrGenerate",
		trace.WithAttributes(
			attribute.String("resource.id", resourceID),
			attribute.String("content.type", contentType),
		),
	)
	defer span.End()

	res, err := repo.GetResource(ctx, s.DB, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if observe != nil {
		observe(res)
	}

	if existing, err := repo.GetAIContent(ctx, s.DB, resourceID, contentType); err == nil {
		aiContentCacheHits.WithLabelValues(contentType).Inc()
		*cached = true
		return json.Unmarshal([]byte(existing.Content), v)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Demo-grade source text: the description stands in for the parsed file.
	text := res.Description
	if text == "" {
		text = res.Title
	}

	raw, err := s.AI.Complete(ctx, prompt(text))
	if err != nil {
		return err
	}
	if err := ai.ParseJSON(raw, v); err != nil {
		return err
	}
	aiContentGenerated.WithLabelValues(contentType).Inc()

	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := repo.UpsertAIContent(ctx, s.DB, resourceID, contentType, string(payload)); err != nil {
		// Serve the generated content regardless; only the cache is lost.
		log.Error().Err(err).
			Str("resource_id", resourceID).
			Str("content_type", contentType).
			Msg("failed to cache generated content")
	}
	*cached = false
	return nil
}

// harvestQuestions upserts freshly generated exam questions into the question
// bank. Duplicate hashes are silently skipped; a failed upsert only loses the
// bank entry, never the response.
func (s *ContentService) harvestQuestions(ctx context.Context, resourceID string, res *domain.Resource, questions []ai.ExamQuestion) {
	for _, q := range questions {
		if q.Question == "" {
			continue
		}
		entry := &domain.QuestionBankEntry{
			ResourceID:   &resourceID,
			QuestionText: q.Question,
			QuestionHash: utils.QuestionHash(q.Question),
			AnswerText:   q.AnswerSnippet,
			Difficulty:   q.Difficulty,
		}
		if res != nil {
			entry.SubjectID = res.SubjectID
		}
		if err := repo.UpsertQuestion(ctx, s.DB, entry); err != nil {
			log.Warn().Err(err).
				Str("resource_id", resourceID).
				Msg("failed to add question to question bank")
		}
	}
}
