// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for cached
// AI-generated content and the deduplicated question bank.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-study-backend/internal/domain"
)

// GetAIContent returns the cached payload for (resourceID, contentType), or
// ErrNotFound when nothing has been generated yet.
func GetAIContent(ctx context.Context, db *gorm.DB, resourceID, contentType string) (*domain.AIContent, error) {
	var rec domain.AIContent
	err := db.WithContext(ctx).
		Where("resource_id = ? AND content_type = ?", resourceID, contentType).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertAIContent stores a generated payload for (resourceID, contentType).
// A concurrent write for the same key wins silently: the unique index makes
// the insert idempotent, and the stored content is what later reads serve.
func UpsertAIContent(ctx context.Context, db *gorm.DB, resourceID, contentType, content string) (*domain.AIContent, error) {
	rec := &domain.AIContent{
		ID:          uuid.NewString(),
		ResourceID:  resourceID,
		ContentType: contentType,
		Content:     content,
		GeneratedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource_id"}, {Name: "content_type"}},
			DoNothing: true,
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpsertQuestion inserts a question-bank row keyed by its content hash.
// Re-inserting the same hash is a no-op, so harvesting the same generated
// exam questions twice leaves a single row.
func UpsertQuestion(ctx context.Context, db *gorm.DB, q *domain.QuestionBankEntry) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_hash"}},
			DoNothing: true,
		}).
		Create(q).Error
}
